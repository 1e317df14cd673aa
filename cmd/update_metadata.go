package cmd

import (
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/spf13/cobra"
)

var (
	umObject      string
	umName        string
	umSymbol      string
	umDescription string
	umIconURL     string
)

var updateMetadataCmd = &cobra.Command{
	Use:   "update-metadata",
	Short: "Update the coin metadata record",
	RunE: func(cmd *cobra.Command, args []string) error {
		if umObject == "" {
			return fmt.Errorf("--metadata-object is required")
		}
		if umName == "" || umSymbol == "" {
			return fmt.Errorf("--name and --symbol are required")
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
		if err := requireSigner(signer, roles.MetadataUpdater, "metadata updater"); err != nil {
			return err
		}

		return runMutation("update-metadata", "Update Metadata", [][2]string{
			{"Name", umName},
			{"Symbol", umSymbol},
			{"Description", umDescription},
			{"Icon URL", umIconURL},
			{"Metadata Object", umObject},
		}, func() (*sui.TransactionResponse, error) {
			return tc.UpdateMetadata(ctx, signer, umObject, umName, umSymbol, umDescription, umIconURL, txOptions())
		})
	},
}

func init() {
	updateMetadataCmd.Flags().StringVar(&umObject, "metadata-object", "", "coin metadata object id (required)")
	updateMetadataCmd.Flags().StringVar(&umName, "name", "", "coin name (required)")
	updateMetadataCmd.Flags().StringVar(&umSymbol, "symbol", "", "coin symbol (required)")
	updateMetadataCmd.Flags().StringVar(&umDescription, "description", "", "coin description")
	updateMetadataCmd.Flags().StringVar(&umIconURL, "icon-url", "", "coin icon URL")
}
