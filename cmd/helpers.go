package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/receipts"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/upgradeservice"
)

// confirm is the injected confirmation capability. Interactive by
// default; tests and --yes runs replace it with ui.AutoApprove.
var confirm ui.Confirmer = ui.Interactive()

func confirmer() ui.Confirmer {
	if yesFlag {
		return ui.AutoApprove
	}
	return confirm
}

func newRPCClient() *sui.Client {
	return sui.NewClient(cfg.RPCURL)
}

// loadSigner resolves the signing keypair from --key, the
// STABLECOIN_PRIVATE_KEY env var, or a stored key name.
func loadSigner() (*keys.Keypair, error) {
	hexKey := keyHexFlag
	if hexKey == "" {
		hexKey = os.Getenv("STABLECOIN_PRIVATE_KEY")
	}
	if hexKey != "" {
		return keys.FromHex(schemeFlag, hexKey)
	}

	name := keyNameFlag
	if name == "" {
		name = cfg.DefaultKey
	}
	if name == "" {
		return nil, fmt.Errorf("no signing key: pass --key, set STABLECOIN_PRIVATE_KEY, or store one with generate-keypair --save")
	}
	return newKeyManager().Keypair(name)
}

func newKeyManager() *keys.Manager {
	return keys.NewManager(
		keys.WithMetaStore(keys.NewJSONMetaStore(cfg.KeysPath())),
		keys.WithKeystore(keys.DefaultKeystore()),
	)
}

func newTreasuryClient(ctx context.Context, rpc *sui.Client) (*treasury.Client, error) {
	if cfg.TreasuryObjectID == "" {
		return nil, fmt.Errorf("no treasury object id: pass --treasury or set it in config")
	}
	if cfg.DenyListObjectID == "" {
		return nil, fmt.Errorf("no deny list object id: pass --deny-list or set it in config")
	}
	return treasury.New(ctx, rpc, cfg.TreasuryObjectID, cfg.DenyListObjectID)
}

func newUpgradeServiceClient(ctx context.Context, rpc *sui.Client) (*upgradeservice.Client, error) {
	if cfg.UpgradeServiceObjectID == "" {
		return nil, fmt.Errorf("no upgrade service object id: pass --upgrade-service or set it in config")
	}
	return upgradeservice.New(ctx, rpc, cfg.UpgradeServiceObjectID)
}

func txOptions() treasury.TxOptions {
	return treasury.TxOptions{DryRun: dryRunFlag, GasBudget: cfg.GasBudget}
}

func usTxOptions() upgradeservice.TxOptions {
	return upgradeservice.TxOptions{DryRun: dryRunFlag, GasBudget: cfg.GasBudget}
}

// requireSigner aborts with a precondition error when the signing key's
// derived address is not the expected authority. Nothing has been
// submitted at this point.
func requireSigner(signer *keys.Keypair, expected, role string) error {
	if expected == "" {
		return fmt.Errorf("precondition failed: no %s is configured", role)
	}
	if !strings.EqualFold(signer.Address(), expected) {
		return fmt.Errorf("precondition failed: signer %s is not the %s (%s)", signer.Address(), role, expected)
	}
	return nil
}

// runMutation drives the shared mutating-command sequence: preview,
// confirm, submit, log. In dry-run mode submit produces an effects
// preview and nothing is written.
func runMutation(operation, title string, pairs [][2]string, submit func() (*sui.TransactionResponse, error)) error {
	fmt.Println(ui.KeyValueBlock(title, pairs))

	if dryRunFlag {
		resp, err := submit()
		if err != nil {
			return err
		}
		status := "unknown"
		if resp.Effects != nil {
			status = resp.Effects.Status.Status
			if resp.Effects.Status.Error != "" {
				status += ": " + resp.Effects.Status.Error
			}
		}
		fmt.Println(ui.Meta("Dry run only; nothing was submitted."))
		fmt.Println(ui.Val("Simulated status: " + status))
		return nil
	}

	if !confirmer()("Submit this transaction?") {
		return fmt.Errorf("aborted by operator")
	}

	spin := ui.NewSpinner("Submitting transaction...")
	spin.Start()
	resp, err := submit()
	spin.Stop()
	if err != nil {
		return err
	}

	path, err := receipts.NewWriter(cfg.LogsPath()).Write(operation, resp)
	if err != nil {
		return err
	}

	fmt.Println(ui.Success(operation + " submitted"))
	fmt.Println(ui.Addr("Digest: " + resp.Digest))
	fmt.Println(ui.Meta("Receipt: " + path))
	return nil
}

// parseTokenAmount converts a decimal token amount ("12.50") to the
// coin's smallest unit via value × 10^decimals, with exact integer
// arithmetic. Fractional dust beyond decimals places is rejected.
func parseTokenAmount(s string, decimals uint8) (*big.Int, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
