package treasury

import (
	"fmt"
	"math/big"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

// This file is the only place that knows the remote field layout of the
// treasury object family. Every function is a pure decoder from the raw
// nested field maps the RPC returns to a typed record, with explicit
// presence checks, so a remote schema change touches this boundary and
// nothing else.

// Roles is the decoded role assignment of a treasury.
type Roles struct {
	Owner           TwoStepRole
	MasterMinter    string
	Blocklister     string
	Pauser          string
	MetadataUpdater string
}

// TwoStepRole is a propose/accept authority pair. Pending is empty when
// no transfer is in flight.
type TwoStepRole struct {
	Active  string
	Pending string
}

// PauseState is the dual-epoch pause flag of a coin.
type PauseState struct {
	Current bool
	Next    bool
}

// decodeTreasuryRoles reads the roles record nested in treasury fields.
func decodeTreasuryRoles(fields map[string]any) (*Roles, error) {
	roles, err := nestedFields(fields, "roles")
	if err != nil {
		return nil, err
	}

	owner, err := nestedFields(roles, "owner")
	if err != nil {
		return nil, err
	}
	active, err := stringField(owner, "active_address")
	if err != nil {
		return nil, err
	}
	pending, err := optionalAddress(owner, "pending_address")
	if err != nil {
		return nil, err
	}

	out := &Roles{Owner: TwoStepRole{Active: active, Pending: pending}}
	for name, dst := range map[string]*string{
		"master_minter":    &out.MasterMinter,
		"blocklister":      &out.Blocklister,
		"pauser":           &out.Pauser,
		"metadata_updater": &out.MetadataUpdater,
	} {
		v, err := stringField(roles, name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return out, nil
}

// decodeTableID reads the object id behind a Table-valued field.
func decodeTableID(fields map[string]any, name string) (string, error) {
	table, err := nestedFields(fields, name)
	if err != nil {
		return "", err
	}
	id, ok := table["id"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("field %q: missing table id", name)
	}
	s, ok := id["id"].(string)
	if !ok {
		return "", fmt.Errorf("field %q: table id is not a string", name)
	}
	return s, nil
}

// decodeCompatibleVersions reads the VecSet of package versions the
// treasury currently accepts.
func decodeCompatibleVersions(fields map[string]any) ([]string, error) {
	set, err := nestedFields(fields, "compatible_versions")
	if err != nil {
		return nil, err
	}
	contents, ok := set["contents"].([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: missing contents", "compatible_versions")
	}
	out := make([]string, 0, len(contents))
	for i, v := range contents {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("compatible_versions[%d]: not a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeAllowanceValue reads the allowance attached to a mint
// authorization entry.
func decodeAllowanceValue(fields map[string]any) (*big.Int, error) {
	s, err := stringField(fields, "value")
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("allowance value %q is not an integer", s)
	}
	return v, nil
}

// decodeDynamicEntry reads the name/value pair of a Table entry object.
func decodeDynamicEntry(obj *sui.ObjectData) (name, value string, err error) {
	fields := obj.Fields()
	if fields == nil {
		return "", "", fmt.Errorf("table entry %s has no content", obj.ObjectID)
	}
	n, err := stringField(fields, "name")
	if err != nil {
		return "", "", err
	}
	v, err := stringField(fields, "value")
	if err != nil {
		return "", "", err
	}
	return n, v, nil
}

// decodeCoinDenyState reads the per-coin deny-list record: the dual
// epoch pause flags plus the id of the per-address table.
func decodeCoinDenyState(fields map[string]any) (PauseState, string, error) {
	paused, err := nestedFields(fields, "paused")
	if err != nil {
		return PauseState{}, "", err
	}
	current, err := boolField(paused, "current")
	if err != nil {
		return PauseState{}, "", err
	}
	next, err := boolField(paused, "next")
	if err != nil {
		return PauseState{}, "", err
	}
	addresses, err := decodeTableID(fields, "addresses")
	if err != nil {
		return PauseState{}, "", err
	}
	return PauseState{Current: current, Next: next}, addresses, nil
}

// decodeAddressDenyState reads one blocklist entry's dual epoch flags.
func decodeAddressDenyState(fields map[string]any) (PauseState, error) {
	current, err := boolField(fields, "current")
	if err != nil {
		return PauseState{}, err
	}
	next, err := boolField(fields, "next")
	if err != nil {
		return PauseState{}, err
	}
	return PauseState{Current: current, Next: next}, nil
}

// --- field primitives ---

// nestedFields unwraps a struct-valued field to its inner field map.
// The RPC nests each struct as {"type": ..., "fields": {...}}.
func nestedFields(fields map[string]any, name string) (map[string]any, error) {
	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("missing field %q", name)
	}
	outer, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected object, got %T", name, raw)
	}
	if inner, ok := outer["fields"].(map[string]any); ok {
		return inner, nil
	}
	// Some responses flatten the struct without the fields wrapper.
	return outer, nil
}

func stringField(fields map[string]any, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", name, raw)
	}
	return s, nil
}

func boolField(fields map[string]any, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok {
		return false, fmt.Errorf("missing field %q", name)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("field %q: expected bool, got %T", name, raw)
	}
	return b, nil
}

// optionalAddress decodes an Option<address> field, which the RPC
// renders as null, as the bare address, or as a {"vec": [...]} record
// depending on node version.
func optionalAddress(fields map[string]any, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case map[string]any:
		inner := v
		if f, ok := v["fields"].(map[string]any); ok {
			inner = f
		}
		vec, ok := inner["vec"].([]any)
		if !ok {
			return "", fmt.Errorf("field %q: unrecognized option encoding", name)
		}
		if len(vec) == 0 {
			return "", nil
		}
		s, ok := vec[0].(string)
		if !ok {
			return "", fmt.Errorf("field %q: option value is not a string", name)
		}
		return s, nil
	default:
		return "", fmt.Errorf("field %q: unrecognized option encoding %T", name, raw)
	}
}
