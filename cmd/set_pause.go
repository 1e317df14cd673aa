package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var spUnpause bool

var setPauseCmd = &cobra.Command{
	Use:   "set-pause",
	Short: "Pause or unpause the coin",
	Long: `Signed by the pauser. The change takes effect in the next-epoch value
immediately and becomes current after the next epoch boundary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paused := !spUnpause

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
		if err := requireSigner(signer, roles.Pauser, "pauser"); err != nil {
			return err
		}

		next, err := tc.IsPaused(ctx, treasury.EpochNext)
		if err != nil {
			return err
		}
		if next == paused {
			fmt.Println(ui.Meta("Next-epoch pause state already matches — nothing to do."))
			return nil
		}

		action := "Pause"
		if !paused {
			action = "Unpause"
		}
		return runMutation("set-pause", action+" Coin", [][2]string{
			{"Coin Type", tc.CoinType()},
			{"Paused", fmt.Sprintf("%t", paused)},
			{"Effective", "next epoch"},
		}, func() (*sui.TransactionResponse, error) {
			return tc.SetPausedState(ctx, signer, paused, txOptions())
		})
	},
}

func init() {
	setPauseCmd.Flags().BoolVar(&spUnpause, "unpause", false, "unpause instead of pausing")
}
