package cmd

import (
	"fmt"
	"strings"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var cusaNewAdmin string

var changeUpgradeServiceAdminCmd = &cobra.Command{
	Use:   "change-upgrade-service-admin",
	Short: "Propose a new upgrade service admin",
	Long: `Signed by the current admin. The proposed admin must run
accept-upgrade-service-admin to complete the transfer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cusaNewAdmin == "" {
			return fmt.Errorf("--new-admin is required")
		}

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

		pending, err := us.GetPendingAdmin(ctx)
		if err != nil {
			return err
		}
		if pending == cusaNewAdmin {
			fmt.Println(ui.Meta("Admin transfer already pending for this address; nothing to do."))
			return nil
		}
		// Never stack a second pending admin on top of an unaccepted one.
		if pending != "" {
			return fmt.Errorf("precondition failed: admin transfer to %s is already pending", pending)
		}

		return runMutation("change-upgrade-service-admin", "Propose Upgrade Service Admin", [][2]string{
			{"Service", us.ServiceID()},
			{"Current Admin", admin},
			{"Proposed Admin", cusaNewAdmin},
		}, func() (*sui.TransactionResponse, error) {
			return us.ChangeAdmin(ctx, signer, cusaNewAdmin, usTxOptions())
		})
	},
}

var acceptUpgradeServiceAdminCmd = &cobra.Command{
	Use:   "accept-upgrade-service-admin",
	Short: "Accept a pending upgrade service admin transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		pending, err := us.GetPendingAdmin(ctx)
		if err != nil {
			return err
		}
		if pending == "" {
			return fmt.Errorf("precondition failed: no admin transfer is pending")
		}
		if err := requireSigner(signer, pending, "pending admin"); err != nil {
			return err
		}

		return runMutation("accept-upgrade-service-admin", "Accept Upgrade Service Admin", [][2]string{
			{"Service", us.ServiceID()},
			{"New Admin", signer.Address()},
		}, func() (*sui.TransactionResponse, error) {
			return us.AcceptAdmin(ctx, signer, usTxOptions())
		})
	},
}

var ducCapID string

var depositUpgradeCapCmd = &cobra.Command{
	Use:   "deposit-upgrade-cap",
	Short: "Deposit a package's UpgradeCap into the upgrade service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ducCapID == "" {
			return fmt.Errorf("--upgrade-cap is required")
		}

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

		cap, err := rpc.GetObject(ctx, ducCapID)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(cap.Type, "::package::UpgradeCap") {
			return fmt.Errorf("precondition failed: object %s is a %s, not an UpgradeCap", ducCapID, cap.Type)
		}
		if cap.Owner == nil || !strings.EqualFold(cap.Owner.AddressOwner, signer.Address()) {
			return fmt.Errorf("precondition failed: UpgradeCap %s is not held by the signer", ducCapID)
		}

		return runMutation("deposit-upgrade-cap", "Deposit Upgrade Cap", [][2]string{
			{"Service", us.ServiceID()},
			{"Upgrade Cap", ducCapID},
		}, func() (*sui.TransactionResponse, error) {
			return us.DepositUpgradeCap(ctx, signer, ducCapID, usTxOptions())
		})
	},
}

func init() {
	changeUpgradeServiceAdminCmd.Flags().StringVar(&cusaNewAdmin, "new-admin", "", "proposed admin address (required)")
	depositUpgradeCapCmd.Flags().StringVar(&ducCapID, "upgrade-cap", "", "UpgradeCap object id (required)")
}
