package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/spf13/cobra"
)

var acceptTreasuryOwnerCmd = &cobra.Command{
	Use:   "accept-treasury-owner",
	Short: "Accept a pending treasury ownership transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if roles.Owner.Pending == "" {
			return fmt.Errorf("precondition failed: no ownership transfer is pending")
		}
		if err := requireSigner(signer, roles.Owner.Pending, "pending owner"); err != nil {
			return err
		}

		return runMutation("accept-treasury-owner", "Accept Treasury Ownership", [][2]string{
			{"Current Owner", roles.Owner.Active},
			{"New Owner", signer.Address()},
			{"Treasury", tc.TreasuryID()},
		}, func() (*sui.TransactionResponse, error) {
			return tc.AcceptTreasuryOwner(ctx, signer, txOptions())
		})
	},
}
