package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var upgradeTxFile string

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Sign and submit a prepared package upgrade transaction",
	Long: `The external Move toolchain builds the upgrade transaction
(authorize, upgrade, commit) against the upgrade service; this command
verifies the signer is the service admin, then signs and submits the
prepared bytes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if upgradeTxFile == "" {
			return fmt.Errorf("--tx-file is required")
		}
		raw, err := os.ReadFile(upgradeTxFile)
		if err != nil {
			return fmt.Errorf("reading transaction bytes: %w", err)
		}
		txBytes := strings.TrimSpace(string(raw))

		signer, err := loadSigner()
		if err != nil {
			return err
		}
		rpc := newRPCClient()
		ctx := cmd.Context()
		us, err := newUpgradeServiceClient(ctx, rpc)
		if err != nil {
			return err
		}

		admin, err := us.GetAdmin(ctx)
		if err != nil {
			return err
		}
		if err := requireSigner(signer, admin, "upgrade service admin"); err != nil {
			return err
		}

		pkgID, err := us.GetUpgradeCapPackageID(ctx)
		if err != nil {
			return err
		}
		version, err := us.GetUpgradeCapVersion(ctx)
		if err != nil {
			return err
		}

		return runMutation("upgrade", "Package Upgrade", [][2]string{
			{"Service", us.ServiceID()},
			{"Package", pkgID},
			{"Current Version", version},
			{"Transaction", upgradeTxFile},
		}, func() (*sui.TransactionResponse, error) {
			if dryRunFlag {
				return rpc.DryRun(ctx, txBytes)
			}
			sig, err := signer.SignTransaction(txBytes)
			if err != nil {
				return nil, err
			}
			return rpc.Execute(ctx, txBytes, []string{sig})
		})
	},
}

var upgradeMigrationCmd = &cobra.Command{
	Use:   "upgrade-migration <start|abort|complete>",
	Short: "Drive the treasury's migration state machine",
	Long: `Issues one migration action, signed by the treasury owner. The
transition itself is enforced by the contract; after submission the
compatible-version list is re-read to confirm it took effect.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := treasury.MigrationAction(args[0])

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
		if err := requireSigner(signer, roles.Owner.Active, "treasury owner"); err != nil {
			return err
		}

		before, err := tc.GetCompatibleVersions(ctx)
		if err != nil {
			return err
		}

		err = runMutation("upgrade-migration", "Upgrade Migration", [][2]string{
			{"Action", string(action)},
			{"Treasury", tc.TreasuryID()},
			{"Compatible Versions", strings.Join(before, ", ")},
		}, func() (*sui.TransactionResponse, error) {
			return tc.UpgradeMigration(ctx, signer, action, txOptions())
		})
		if err != nil || dryRunFlag {
			return err
		}

		after, err := tc.GetCompatibleVersions(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.Val("Compatible versions now: " + strings.Join(after, ", ")))
		return nil
	},
}

func init() {
	upgradeCmd.Flags().StringVar(&upgradeTxFile, "tx-file", "", "file with base64 transaction bytes from the build toolchain (required)")
}
