package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/validate"
	"github.com/spf13/cobra"
)

var (
	vtsFile string
	vusFile string
)

var validateTreasuryCmd = &cobra.Command{
	Use:   "validate-treasury-state",
	Short: "Compare live treasury state against an expected-state document",
	Long: `Reconstructs the full observable state of the treasury (roles,
metadata, supply, versions, pause flags, every controller and
allowance, and the blocklist rebuilt from event history) and fails on
the first field that differs from the document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if vtsFile == "" {
			return fmt.Errorf("--expected is required")
		}
		expected, err := validate.LoadTreasuryState(vtsFile)
		if err != nil {
			return err
		}

		rpc := newRPCClient()
		ctx := cmd.Context()
		tc, err := newTreasuryClient(ctx, rpc)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Reconstructing treasury state...")
		spin.Start()
		err = validate.NewTreasuryValidator(tc, rpc).Validate(ctx, expected)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Treasury state matches " + vtsFile))
		return nil
	},
}

var validateUpgradeServiceCmd = &cobra.Command{
	Use:   "validate-upgrade-service-state",
	Short: "Compare live upgrade service state against an expected-state document",
	RunE: func(cmd *cobra.Command, args []string) error {
		if vusFile == "" {
			return fmt.Errorf("--expected is required")
		}
		expected, err := validate.LoadUpgradeServiceState(vusFile)
		if err != nil {
			return err
		}

		rpc := newRPCClient()
		ctx := cmd.Context()
		us, err := newUpgradeServiceClient(ctx, rpc)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Reading upgrade service state...")
		spin.Start()
		err = validate.NewUpgradeServiceValidator(us).Validate(ctx, expected)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Upgrade service state matches " + vusFile))
		return nil
	},
}

func init() {
	validateTreasuryCmd.Flags().StringVar(&vtsFile, "expected", "", "expected-state YAML/JSON document (required)")
	validateUpgradeServiceCmd.Flags().StringVar(&vusFile, "expected", "", "expected-state YAML/JSON document (required)")
}
