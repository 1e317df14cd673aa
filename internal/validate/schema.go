package validate

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Expected-state documents are operator-supplied YAML (or JSON, which
// YAML subsumes). Decoding is strict: unknown fields are rejected by
// the decoder and required fields are checked before any network call.

// TreasuryState is the full expected observable state of a treasury.
type TreasuryState struct {
	CoinType           string               `yaml:"coinType"`
	Roles              RolesState           `yaml:"roles"`
	Metadata           MetadataState        `yaml:"metadata"`
	TotalSupply        string               `yaml:"totalSupply"`
	CompatibleVersions []string             `yaml:"compatibleVersions"`
	Paused             DualEpochBool        `yaml:"paused"`
	Controllers        map[string]string    `yaml:"controllers"`
	MintAllowances     map[string]Allowance `yaml:"mintAllowances"`
	Blocklist          []string             `yaml:"blocklist"`
}

// RolesState is the expected role assignment.
type RolesState struct {
	Owner           string `yaml:"owner"`
	PendingOwner    string `yaml:"pendingOwner,omitempty"`
	MasterMinter    string `yaml:"masterMinter"`
	Blocklister     string `yaml:"blocklister"`
	Pauser          string `yaml:"pauser"`
	MetadataUpdater string `yaml:"metadataUpdater"`
}

// MetadataState is the expected coin metadata.
type MetadataState struct {
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Description string `yaml:"description"`
	IconURL     string `yaml:"iconUrl"`
	Decimals    uint8  `yaml:"decimals"`
}

// DualEpochBool is an expected current/next epoch flag pair.
type DualEpochBool struct {
	Current bool `yaml:"current"`
	Next    bool `yaml:"next"`
}

// Allowance is one expected mint authorization entry.
type Allowance struct {
	Allowance string `yaml:"allowance"`
	Holder    string `yaml:"holder"`
}

// UpgradeServiceState is the full expected state of an upgrade service.
type UpgradeServiceState struct {
	Admin        string `yaml:"admin"`
	PendingAdmin string `yaml:"pendingAdmin,omitempty"`
	PackageID    string `yaml:"packageId"`
	Version      string `yaml:"version"`
	Policy       uint8  `yaml:"policy"`
}

// LoadTreasuryState reads and schema-checks a treasury document.
func LoadTreasuryState(path string) (*TreasuryState, error) {
	var state TreasuryState
	if err := loadStrict(path, &state); err != nil {
		return nil, err
	}
	if err := state.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &state, nil
}

// LoadUpgradeServiceState reads and schema-checks an upgrade-service
// document.
func LoadUpgradeServiceState(path string) (*UpgradeServiceState, error) {
	var state UpgradeServiceState
	if err := loadStrict(path, &state); err != nil {
		return nil, err
	}
	if err := state.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &state, nil
}

func (s *TreasuryState) check() error {
	required := map[string]string{
		"coinType":              s.CoinType,
		"roles.owner":           s.Roles.Owner,
		"roles.masterMinter":    s.Roles.MasterMinter,
		"roles.blocklister":     s.Roles.Blocklister,
		"roles.pauser":          s.Roles.Pauser,
		"roles.metadataUpdater": s.Roles.MetadataUpdater,
		"metadata.name":         s.Metadata.Name,
		"metadata.symbol":       s.Metadata.Symbol,
		"totalSupply":           s.TotalSupply,
	}
	for field, v := range required {
		if v == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	if len(s.CompatibleVersions) == 0 {
		return fmt.Errorf("missing required field %q", "compatibleVersions")
	}
	for mintCapID, a := range s.MintAllowances {
		if a.Allowance == "" || a.Holder == "" {
			return fmt.Errorf("mintAllowances[%s]: allowance and holder are required", mintCapID)
		}
	}
	return nil
}

func (s *UpgradeServiceState) check() error {
	required := map[string]string{
		"admin":     s.Admin,
		"packageId": s.PackageID,
		"version":   s.Version,
	}
	for field, v := range required {
		if v == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	return nil
}

func loadStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading expected state: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
