package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/spf13/cobra"
)

var (
	rprMasterMinter    string
	rprBlocklister     string
	rprPauser          string
	rprMetadataUpdater string
	rprOwner           string
)

var rotatePrivilegedRolesCmd = &cobra.Command{
	Use:   "rotate-privileged-roles",
	Short: "Reassign privileged treasury roles",
	Long: `Signed by the treasury owner. Every requested change is applied in
one atomic transaction. A new owner is proposed, not activated: the
proposed key must run accept-treasury-owner to complete the transfer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		updates := treasury.RoleUpdates{
			MasterMinter:    rprMasterMinter,
			Blocklister:     rprBlocklister,
			Pauser:          rprPauser,
			MetadataUpdater: rprMetadataUpdater,
			Owner:           rprOwner,
		}
		if updates == (treasury.RoleUpdates{}) {
			return fmt.Errorf("no role changes requested")
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
		if err := requireSigner(signer, roles.Owner.Active, "treasury owner"); err != nil {
			return err
		}
		// Never stack a second pending owner on top of an unaccepted one.
		if updates.Owner != "" && roles.Owner.Pending != "" && roles.Owner.Pending != updates.Owner {
			return fmt.Errorf("precondition failed: owner transfer to %s is already pending", roles.Owner.Pending)
		}
		if updates.Owner != "" && roles.Owner.Pending == updates.Owner {
			fmt.Println("Owner transfer already pending for this address — dropping the duplicate proposal.")
			updates.Owner = ""
			if updates == (treasury.RoleUpdates{}) {
				return nil
			}
		}

		pairs := [][2]string{{"Treasury", tc.TreasuryID()}}
		for _, p := range [][2]string{
			{"Master Minter", updates.MasterMinter},
			{"Blocklister", updates.Blocklister},
			{"Pauser", updates.Pauser},
			{"Metadata Updater", updates.MetadataUpdater},
			{"Proposed Owner", updates.Owner},
		} {
			if p[1] != "" {
				pairs = append(pairs, p)
			}
		}

		return runMutation("rotate-privileged-roles", "Rotate Privileged Roles", pairs,
			func() (*sui.TransactionResponse, error) {
				return tc.RotatePrivilegedRoles(ctx, signer, updates, txOptions())
			})
	},
}

func init() {
	f := rotatePrivilegedRolesCmd.Flags()
	f.StringVar(&rprMasterMinter, "master-minter", "", "new master minter address")
	f.StringVar(&rprBlocklister, "blocklister", "", "new blocklister address")
	f.StringVar(&rprPauser, "pauser", "", "new pauser address")
	f.StringVar(&rprMetadataUpdater, "metadata-updater", "", "new metadata updater address")
	f.StringVar(&rprOwner, "owner", "", "propose a new treasury owner")
}
