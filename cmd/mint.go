package cmd

import (
	"fmt"
	"strings"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/spf13/cobra"
)

var (
	mintCap       string
	mintAmount    string
	mintRecipient string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint tokens to a recipient",
	RunE: func(cmd *cobra.Command, args []string) error {
		if mintCap == "" {
			return fmt.Errorf("--mint-cap is required")
		}
		if mintAmount == "" {
			return fmt.Errorf("--amount is required")
		}
		if mintRecipient == "" {
			return fmt.Errorf("--recipient is required")
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

		owner, err := tc.GetObjectOwner(ctx, mintCap)
		if err != nil {
			return err
		}
		if !strings.EqualFold(owner.AddressOwner, signer.Address()) {
			return fmt.Errorf("precondition failed: signer %s does not hold mint authorization %s (held by %s)", signer.Address(), mintCap, owner)
		}

		meta, err := tc.GetMetadata(ctx)
		if err != nil {
			return err
		}
		amount, err := parseTokenAmount(mintAmount, meta.Decimals)
		if err != nil {
			return err
		}

		allowance, err := tc.GetMintAllowance(ctx, mintCap)
		if err != nil {
			return err
		}
		if amount.Cmp(allowance) > 0 {
			return fmt.Errorf("precondition failed: amount %s exceeds allowance %s (smallest unit)", amount, allowance)
		}

		return runMutation("mint", "Mint", [][2]string{
			{"Recipient", mintRecipient},
			{"Amount", mintAmount + " " + meta.Symbol},
			{"Smallest Unit", amount.String()},
			{"Mint Authorization", mintCap},
			{"Allowance Left", allowance.String()},
		}, func() (*sui.TransactionResponse, error) {
			return tc.Mint(ctx, signer, mintCap, amount, mintRecipient, txOptions())
		})
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintCap, "mint-cap", "", "mint authorization object id (required)")
	mintCmd.Flags().StringVar(&mintAmount, "amount", "", "amount in whole tokens (required)")
	mintCmd.Flags().StringVar(&mintRecipient, "recipient", "", "recipient address (required)")
}
