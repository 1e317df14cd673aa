package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var (
	generateSave       string
	generateShowSecret bool
)

var generateKeypairCmd = &cobra.Command{
	Use:   "generate-keypair",
	Short: "Generate a new operator keypair",
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := keys.Generate(schemeFlag)
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Scheme", kp.Scheme()},
			{"Address", kp.Address()},
			{"Public Key", kp.PublicKeyBase64()},
		}
		if generateShowSecret {
			pairs = append(pairs, [2]string{"Private Key", kp.PrivateKeyHex()})
		}
		fmt.Println(ui.KeyValueBlock("New Keypair", pairs))

		if generateSave != "" {
			k, err := newKeyManager().Add(generateSave, kp)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Key %q stored in keychain (%s)", k.Name, k.KeyRef)))
		} else if !generateShowSecret {
			fmt.Println(ui.Meta("Key material not shown; re-run with --show-secret or store it with --save <name>."))
		}
		return nil
	},
}

func init() {
	generateKeypairCmd.Flags().StringVar(&generateSave, "save", "", "store the key in the OS keychain under this name")
	generateKeypairCmd.Flags().BoolVar(&generateShowSecret, "show-secret", false, "print the private key")
}
