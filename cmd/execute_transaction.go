package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/spf13/cobra"
)

var (
	etTxBytes string
	etTxFile  string
)

var executeTransactionCmd = &cobra.Command{
	Use:   "execute-transaction",
	Short: "Sign and submit prepared transaction bytes",
	Long: `Escape hatch for transactions built elsewhere: signs the given
base64 transaction bytes with the operator key and submits them, with
the usual confirmation, dry-run, and receipt handling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		txBytes := etTxBytes
		if txBytes == "" && etTxFile != "" {
			raw, err := os.ReadFile(etTxFile)
			if err != nil {
				return fmt.Errorf("reading transaction bytes: %w", err)
			}
			txBytes = strings.TrimSpace(string(raw))
		}
		if txBytes == "" {
			return fmt.Errorf("--tx-bytes or --tx-file is required")
		}

		signer, err := loadSigner()
		if err != nil {
			return err
		}
		rpc := newRPCClient()
		ctx := cmd.Context()

		return runMutation("execute-transaction", "Execute Transaction", [][2]string{
			{"Sender", signer.Address()},
			{"RPC", cfg.RPCURL},
			{"Bytes", fmt.Sprintf("%d base64 chars", len(txBytes))},
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

func init() {
	executeTransactionCmd.Flags().StringVar(&etTxBytes, "tx-bytes", "", "base64 transaction bytes")
	executeTransactionCmd.Flags().StringVar(&etTxFile, "tx-file", "", "file containing base64 transaction bytes")
}
