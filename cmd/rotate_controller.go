package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/spf13/cobra"
)

var (
	rcOld string
	rcNew string
)

var rotateControllerCmd = &cobra.Command{
	Use:   "rotate-controller",
	Short: "Atomically move a mint authorization between controllers",
	Long: `Looks up the mint authorization bound to --old, then assigns it to
--new and removes --old in one atomic transaction: either both bindings
change or neither does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rcOld == "" || rcNew == "" {
			return fmt.Errorf("--old and --new are required")
		}

		signer, err := loadSigner()
		if err != nil {
			return err
		}
		rpc := newRPCClient()
		ctx := cmd.Context()
		tc, err := newTreasuryClient(ctx, rpc)
		if err != nil {
			return err
		}

		roles, err := tc.GetRoles(ctx)
		if err != nil {
			return err
		}
		if err := requireSigner(signer, roles.MasterMinter, "master minter"); err != nil {
			return err
		}

		mintCapID, found, err := tc.GetMintCapID(ctx, rcOld)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("precondition failed: controller %s has no mint authorization", rcOld)
		}
		if _, exists, err := tc.GetMintCapID(ctx, rcNew); err != nil {
			return err
		} else if exists {
			return fmt.Errorf("precondition failed: controller %s is already configured", rcNew)
		}

		return runMutation("rotate-controller", "Rotate Controller", [][2]string{
			{"Old Controller", rcOld},
			{"New Controller", rcNew},
			{"Mint Authorization", mintCapID},
			{"Treasury", tc.TreasuryID()},
		}, func() (*sui.TransactionResponse, error) {
			return tc.RotateController(ctx, signer, rcOld, rcNew, txOptions())
		})
	},
}

func init() {
	rotateControllerCmd.Flags().StringVar(&rcOld, "old", "", "controller being replaced (required)")
	rotateControllerCmd.Flags().StringVar(&rcNew, "new", "", "controller taking over (required)")
}
