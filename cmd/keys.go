package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var keysAddKeyFlag string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage stored operator keys",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := newKeyManager().List()
		if len(list) == 0 {
			fmt.Println(ui.Meta("No keys stored yet. Create one with: stablecoin generate-keypair --save <name>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 66},
			{Title: "Scheme", Width: 10},
			{Title: "Created", Width: 20},
		})
		for _, k := range list {
			t.AddRow(ui.Row{k.Name, k.Address, k.Scheme, k.CreatedAt})
		}
		fmt.Print(t.Render())
		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Import an existing private key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if keysAddKeyFlag == "" {
			return fmt.Errorf("--key is required")
		}
		kp, err := keys.FromHex(schemeFlag, keysAddKeyFlag)
		if err != nil {
			return err
		}
		k, err := newKeyManager().Add(args[0], kp)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Key %q stored: %s", k.Name, ui.Addr(k.Address))))
		return nil
	},
}

var keysRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmer()(fmt.Sprintf("Remove key %q and its stored material?", args[0])) {
			return fmt.Errorf("aborted by operator")
		}
		if err := newKeyManager().Remove(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Key %q removed", args[0])))
		return nil
	},
}

func init() {
	keysAddCmd.Flags().StringVar(&keysAddKeyFlag, "key", "", "hex private key to import (required)")
	keysCmd.AddCommand(keysListCmd, keysAddCmd, keysRemoveCmd)
}
