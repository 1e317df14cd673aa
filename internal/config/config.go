package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultRPCURL    = "https://fullnode.testnet.sui.io:443"
	defaultGasBudget = uint64(100_000_000)
	defaultLogsDir   = "logs"

	configFile = "config.json"
	keysFile   = "keys.json"
)

// Config holds persisted CLI settings.
type Config struct {
	// RPCURL is the full node JSON-RPC endpoint.
	RPCURL string `json:"rpcUrl"`
	// StablecoinPackageID is the published stablecoin package.
	StablecoinPackageID string `json:"stablecoinPackageId,omitempty"`
	// TreasuryObjectID is the shared Treasury object.
	TreasuryObjectID string `json:"treasuryObjectId,omitempty"`
	// DenyListObjectID is the shared deny list consulted for pause and
	// blocklist state.
	DenyListObjectID string `json:"denyListObjectId,omitempty"`
	// UpgradeServiceObjectID is the shared UpgradeService object.
	UpgradeServiceObjectID string `json:"upgradeServiceObjectId,omitempty"`
	// DefaultKey is the name of the key used when --key is not given.
	DefaultKey string `json:"defaultKey,omitempty"`
	// GasBudget is the default gas budget in MIST.
	GasBudget uint64 `json:"gasBudget"`
	// LogsDir is where transaction receipts are written. Relative paths
	// are resolved against the config directory.
	LogsDir string `json:"logsDir"`

	configDir string
}

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.stablecoin.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".stablecoin")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.RPCURL == "" {
		cfg.RPCURL = defaultRPCURL
	}
	if cfg.GasBudget == 0 {
		cfg.GasBudget = defaultGasBudget
	}
	if cfg.LogsDir == "" {
		cfg.LogsDir = defaultLogsDir
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LogsPath returns the absolute receipts directory.
func (c *Config) LogsPath() string {
	if filepath.IsAbs(c.LogsDir) {
		return c.LogsDir
	}
	return filepath.Join(c.configDir, c.LogsDir)
}

// KeysPath returns the key metadata file path.
func (c *Config) KeysPath() string {
	return filepath.Join(c.configDir, keysFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		RPCURL:    defaultRPCURL,
		GasBudget: defaultGasBudget,
		LogsDir:   defaultLogsDir,
		configDir: dir,
	}
}

// LoadJSON reads a JSON file into T, returning the zero value when the
// file does not exist.
func LoadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveJSON writes v to path as indented JSON.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
