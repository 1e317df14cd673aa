package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deployArtifact   string
	deploySaveConfig bool
)

// buildArtifact is the output of the external Move compiler toolchain:
// base64 module bytecode plus dependency package ids.
type buildArtifact struct {
	Modules      []string `json:"modules"`
	Dependencies []string `json:"dependencies"`
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Publish the stablecoin package and locate its treasury",
	Long: `Publishes precompiled Move bytecode and scans the receipt for the
single created Treasury object. The build artifact is the JSON emitted
by the external compiler toolchain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployArtifact == "" {
			return fmt.Errorf("--artifact is required")
		}
		data, err := os.ReadFile(deployArtifact)
		if err != nil {
			return fmt.Errorf("reading build artifact: %w", err)
		}
		var artifact buildArtifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return fmt.Errorf("parsing build artifact: %w", err)
		}
		if len(artifact.Modules) == 0 {
			return fmt.Errorf("build artifact has no modules")
		}

		signer, err := loadSigner()
		if err != nil {
			return err
		}
		rpc := newRPCClient()
		ctx := cmd.Context()

		var resp *sui.TransactionResponse
		err = runMutation("deploy", "Publish Package", [][2]string{
			{"Artifact", deployArtifact},
			{"Modules", fmt.Sprintf("%d", len(artifact.Modules))},
			{"Sender", signer.Address()},
			{"RPC", cfg.RPCURL},
			{"Gas Budget", fmt.Sprintf("%d", cfg.GasBudget)},
		}, func() (*sui.TransactionResponse, error) {
			txBytes, err := rpc.Publish(ctx, signer.Address(), artifact.Modules, artifact.Dependencies, cfg.GasBudget)
			if err != nil {
				return nil, err
			}
			if dryRunFlag {
				return rpc.DryRun(ctx, txBytes)
			}
			sig, err := signer.SignTransaction(txBytes)
			if err != nil {
				return nil, err
			}
			resp, err = rpc.Execute(ctx, txBytes, []string{sig})
			return resp, err
		})
		if err != nil || dryRunFlag {
			return err
		}

		tc, err := treasury.FromPublishResponse(ctx, rpc, resp, cfg.DenyListObjectID)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Deployment", [][2]string{
			{"Package", tc.PackageID()},
			{"Treasury", tc.TreasuryID()},
			{"Coin Type", tc.CoinType()},
		}))

		if deploySaveConfig {
			cfg.StablecoinPackageID = tc.PackageID()
			cfg.TreasuryObjectID = tc.TreasuryID()
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(ui.Success("Config updated with deployed object ids"))
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployArtifact, "artifact", "", "build artifact JSON from the Move compiler (required)")
	deployCmd.Flags().BoolVar(&deploySaveConfig, "save-config", false, "persist deployed ids to config")
}
