package cmd

import (
	"fmt"
	"os"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/config"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/ui"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/chasemcdermott/stablecoin-sui-sub000/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir string
	cfg    *config.Config

	rpcURLFlag    string
	gasBudgetFlag uint64
	dryRunFlag    bool
	yesFlag       bool

	keyHexFlag  string
	keyNameFlag string
	schemeFlag  string

	treasuryFlag       string
	denyListFlag       string
	upgradeServiceFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "stablecoin",
	Short: "Operational CLI for stablecoin contracts on Sui",
	Long: `stablecoin — deploy, configure, upgrade, and audit stablecoin
contract state on a Sui network.

Every mutating subcommand follows the same sequence: validate
preconditions against live state, show a preview, ask for
confirmation, submit one atomic transaction, and write the full
receipt to the logs directory. --dry-run previews effects without
submitting; --yes skips the confirmation prompt for automated runs.

Any error aborts the run; nothing is retried. Commands are safe to
re-run: steps whose target state already matches are skipped.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if rpcURLFlag != "" {
			cfg.RPCURL = rpcURLFlag
		}
		if gasBudgetFlag != 0 {
			cfg.GasBudget = gasBudgetFlag
		}
		if treasuryFlag != "" {
			cfg.TreasuryObjectID = treasuryFlag
		}
		if denyListFlag != "" {
			cfg.DenyListObjectID = denyListFlag
		}
		if upgradeServiceFlag != "" {
			cfg.UpgradeServiceObjectID = upgradeServiceFlag
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// STABLECOIN_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("STABLECOIN_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.stablecoin)")
	pf.StringVar(&rpcURLFlag, "rpc-url", "", "full node RPC endpoint (default: config)")
	pf.Uint64Var(&gasBudgetFlag, "gas-budget", 0, "gas budget in MIST (default: config)")
	pf.BoolVar(&dryRunFlag, "dry-run", false, "simulate the transaction without submitting")
	pf.BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
	pf.StringVar(&keyHexFlag, "key", "", "hex private key (or STABLECOIN_PRIVATE_KEY)")
	pf.StringVar(&keyNameFlag, "key-name", "", "stored key name (default: config)")
	pf.StringVar(&schemeFlag, "scheme", "ed25519", "signature scheme: ed25519|secp256k1")
	pf.StringVar(&treasuryFlag, "treasury", "", "treasury object id (default: config)")
	pf.StringVar(&denyListFlag, "deny-list", "", "deny list object id (default: config)")
	pf.StringVar(&upgradeServiceFlag, "upgrade-service", "", "upgrade service object id (default: config)")

	rootCmd.AddCommand(
		deployCmd,
		configureMinterCmd,
		rotateControllerCmd,
		setBlocklistCmd,
		setPauseCmd,
		mintCmd,
		updateMetadataCmd,
		rotatePrivilegedRolesCmd,
		acceptTreasuryOwnerCmd,
		changeUpgradeServiceAdminCmd,
		acceptUpgradeServiceAdminCmd,
		depositUpgradeCapCmd,
		upgradeCmd,
		upgradeMigrationCmd,
		validateTreasuryCmd,
		validateUpgradeServiceCmd,
		generateKeypairCmd,
		keysCmd,
		executeTransactionCmd,
	)
}
