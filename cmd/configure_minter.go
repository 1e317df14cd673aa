package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cmMinter        string
	cmAllowance     string
	cmControllerKey string
)

var configureMinterCmd = &cobra.Command{
	Use:   "configure-minter",
	Short: "Configure a minter's controller and allowance",
	Long: `Two-step, idempotent configuration signed by the master minter:

  1. Bind the controller key's address to a new mint authorization
     held by --minter (skipped when already bound to that minter).
  2. Set the authorization's allowance, signed by the controller key
     (skipped when the live allowance already matches).

Steps whose target state already matches are skipped, so re-running
with identical parameters performs no redundant mutations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmMinter == "" {
			return fmt.Errorf("--minter is required")
		}
		if cmAllowance == "" {
			return fmt.Errorf("--allowance is required")
		}
		if cmControllerKey == "" {
			return fmt.Errorf("--controller-key is required")
		}

		masterMinter, err := loadSigner()
		if err != nil {
			return err
		}
		controllerKey, err := keys.FromHex(schemeFlag, cmControllerKey)
		if err != nil {
			return fmt.Errorf("parsing controller key: %w", err)
		}
		controller := controllerKey.Address()

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
		if err := requireSigner(masterMinter, roles.MasterMinter, "master minter"); err != nil {
			return err
		}

		meta, err := tc.GetMetadata(ctx)
		if err != nil {
			return err
		}
		allowance, err := parseTokenAmount(cmAllowance, meta.Decimals)
		if err != nil {
			return err
		}

		// Step 1: controller binding.
		state, err := tc.ControllerState(ctx, controller, cmMinter)
		if err != nil {
			return err
		}
		switch state {
		case treasury.PresentConflicting:
			return fmt.Errorf("precondition failed: controller %s already manages an authorization held by someone other than %s", controller, cmMinter)
		case treasury.PresentMatching:
			fmt.Println(ui.Meta("Controller already configured for this minter — skipping."))
		case treasury.Absent:
			err = runMutation("configure-new-controller", "Configure New Controller", [][2]string{
				{"Controller", controller},
				{"Minter", cmMinter},
				{"Treasury", tc.TreasuryID()},
			}, func() (*sui.TransactionResponse, error) {
				return tc.ConfigureNewController(ctx, masterMinter, controller, cmMinter, txOptions())
			})
			if err != nil {
				return err
			}
			if dryRunFlag {
				// The authorization does not exist yet, so the
				// allowance step cannot be simulated against it.
				fmt.Println(ui.Meta("Allowance step needs the controller binding to exist; re-run after configuring."))
				return nil
			}
		}

		// Step 2: allowance, signed by the controller.
		mintCapID, found, err := tc.GetMintCapID(ctx, controller)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("controller %s has no mint authorization after configuration", controller)
		}
		current, err := tc.GetMintAllowance(ctx, mintCapID)
		if err != nil {
			return err
		}
		if current.Cmp(allowance) == 0 {
			fmt.Println(ui.Meta("Allowance already matches — skipping."))
			return nil
		}

		return runMutation("set-mint-allowance", "Set Mint Allowance", [][2]string{
			{"Controller", controller},
			{"Mint Authorization", mintCapID},
			{"Allowance", cmAllowance + " " + meta.Symbol},
			{"Smallest Unit", allowance.String()},
		}, func() (*sui.TransactionResponse, error) {
			return tc.SetMintAllowance(ctx, controllerKey, allowance, txOptions())
		})
	},
}

func init() {
	configureMinterCmd.Flags().StringVar(&cmMinter, "minter", "", "address that will hold the mint authorization (required)")
	configureMinterCmd.Flags().StringVar(&cmAllowance, "allowance", "", "allowance in whole tokens, e.g. 1000000.50 (required)")
	configureMinterCmd.Flags().StringVar(&cmControllerKey, "controller-key", "", "hex private key of the controller (required)")
}
