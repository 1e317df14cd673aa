package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var (
	sbAddress string
	sbUnblock bool
)

var setBlocklistCmd = &cobra.Command{
	Use:   "set-blocklist",
	Short: "Add or remove an address from the blocklist",
	Long: `Signed by the blocklister. The change takes effect in the next-epoch
value immediately and becomes current after the next epoch boundary.
Already-matching next-epoch state is skipped without submitting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sbAddress == "" {
			return fmt.Errorf("--address is required")
		}
		blocked := !sbUnblock

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
		if err := requireSigner(signer, roles.Blocklister, "blocklister"); err != nil {
			return err
		}

		next, err := tc.IsBlocklisted(ctx, sbAddress, treasury.EpochNext)
		if err != nil {
			return err
		}
		if next == blocked {
			fmt.Println(ui.Meta("Next-epoch blocklist state already matches — nothing to do."))
			return nil
		}

		action := "Blocklist"
		if !blocked {
			action = "Unblocklist"
		}
		return runMutation("set-blocklist", action+" Address", [][2]string{
			{"Address", sbAddress},
			{"Blocked", fmt.Sprintf("%t", blocked)},
			{"Coin Type", tc.CoinType()},
			{"Effective", "next epoch"},
		}, func() (*sui.TransactionResponse, error) {
			return tc.SetBlocklistState(ctx, signer, sbAddress, blocked, txOptions())
		})
	},
}

func init() {
	setBlocklistCmd.Flags().StringVar(&sbAddress, "address", "", "address to change (required)")
	setBlocklistCmd.Flags().BoolVar(&sbUnblock, "unblock", false, "remove from the blocklist instead of adding")
}
