package treasury

import (
	"context"
	"fmt"
	"math/big"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

// Epoch selects which side of a dual-epoch value to read. Pause and
// blocklist writes land in the next value immediately and only become
// current after the ledger's next epoch boundary.
type Epoch string

// Epoch selectors.
const (
	EpochCurrent Epoch = "current"
	EpochNext    Epoch = "next"
)

// ControllerEntry is one controller→mint-authorization binding.
type ControllerEntry struct {
	Controller string
	MintCapID  string
}

// AllowanceEntry is one mint authorization with its allowance and the
// address currently holding the MintCap object.
type AllowanceEntry struct {
	MintCapID string
	Allowance *big.Int
	Holder    string
}

// GetRoles reads and decodes the full role assignment.
func (c *Client) GetRoles(ctx context.Context) (*Roles, error) {
	fields, err := c.treasuryFields(ctx)
	if err != nil {
		return nil, err
	}
	return decodeTreasuryRoles(fields)
}

// GetMintCapID looks up the mint authorization bound to controller.
// A controller with no binding is reported as found=false, distinct
// from a transport or decode error.
func (c *Client) GetMintCapID(ctx context.Context, controller string) (string, bool, error) {
	tableID, err := c.controllersTableID(ctx)
	if err != nil {
		return "", false, err
	}
	entry, found, err := c.rpc.GetDynamicFieldObject(ctx, tableID, sui.DynamicFieldName{
		Type:  "address",
		Value: controller,
	})
	if err != nil || !found {
		return "", false, err
	}
	_, mintCapID, err := decodeDynamicEntry(entry)
	if err != nil {
		return "", false, err
	}
	return mintCapID, true, nil
}

// GetMintAllowance reads the allowance attached to a mint
// authorization. An authorization with no allowance entry reads as 0.
func (c *Client) GetMintAllowance(ctx context.Context, mintCapID string) (*big.Int, error) {
	tableID, err := c.allowancesTableID(ctx)
	if err != nil {
		return nil, err
	}
	entry, found, err := c.rpc.GetDynamicFieldObject(ctx, tableID, sui.DynamicFieldName{
		Type:  "0x2::object::ID",
		Value: mintCapID,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return big.NewInt(0), nil
	}
	return allowanceFromEntry(entry)
}

// ListControllers enumerates every controller binding. One follow-up
// read resolves each table entry, so cost grows with the number of
// configured controllers.
func (c *Client) ListControllers(ctx context.Context) ([]ControllerEntry, error) {
	tableID, err := c.controllersTableID(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := c.rpc.GetDynamicFields(ctx, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]ControllerEntry, 0, len(infos))
	for _, info := range infos {
		entry, err := c.rpc.GetObject(ctx, info.ObjectID)
		if err != nil {
			return nil, err
		}
		controller, mintCapID, err := decodeDynamicEntry(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, ControllerEntry{Controller: controller, MintCapID: mintCapID})
	}
	return out, nil
}

// ListMintAllowances enumerates every mint authorization, resolving the
// allowance value and the current MintCap holder for each.
func (c *Client) ListMintAllowances(ctx context.Context) ([]AllowanceEntry, error) {
	tableID, err := c.allowancesTableID(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := c.rpc.GetDynamicFields(ctx, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]AllowanceEntry, 0, len(infos))
	for _, info := range infos {
		entry, err := c.rpc.GetObject(ctx, info.ObjectID)
		if err != nil {
			return nil, err
		}
		fields := entry.Fields()
		if fields == nil {
			return nil, fmt.Errorf("allowance entry %s has no content", info.ObjectID)
		}
		mintCapID, err := stringField(fields, "name")
		if err != nil {
			return nil, err
		}
		allowance, err := allowanceFromEntry(entry)
		if err != nil {
			return nil, err
		}
		owner, err := c.GetObjectOwner(ctx, mintCapID)
		if err != nil {
			return nil, err
		}
		out = append(out, AllowanceEntry{
			MintCapID: mintCapID,
			Allowance: allowance,
			Holder:    owner.AddressOwner,
		})
	}
	return out, nil
}

// GetObjectOwner reads the current owner of any object.
func (c *Client) GetObjectOwner(ctx context.Context, id string) (*sui.Owner, error) {
	obj, err := c.rpc.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj.Owner == nil {
		return nil, fmt.Errorf("object %s has no owner information", id)
	}
	return obj.Owner, nil
}

// GetMetadata reads the coin's registered metadata.
func (c *Client) GetMetadata(ctx context.Context) (*sui.CoinMetadata, error) {
	return c.rpc.GetCoinMetadata(ctx, c.coinType)
}

// GetTotalSupply reads the total minted supply in the smallest unit.
func (c *Client) GetTotalSupply(ctx context.Context) (*big.Int, error) {
	s, err := c.rpc.GetTotalSupply(ctx, c.coinType)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("total supply %q is not an integer", s)
	}
	return v, nil
}

// GetCompatibleVersions reads the package versions the treasury accepts.
func (c *Client) GetCompatibleVersions(ctx context.Context) ([]string, error) {
	fields, err := c.treasuryFields(ctx)
	if err != nil {
		return nil, err
	}
	return decodeCompatibleVersions(fields)
}

// IsPaused reads the pause flag for the chosen epoch. A coin with no
// deny-list record reads as unpaused.
func (c *Client) IsPaused(ctx context.Context, epoch Epoch) (bool, error) {
	if err := validEpoch(epoch); err != nil {
		return false, err
	}
	state, _, found, err := c.coinDenyState(ctx)
	if err != nil || !found {
		return false, err
	}
	return state.at(epoch), nil
}

// IsBlocklisted reads addr's blocklist flag for the chosen epoch. An
// address with no entry reads as not blocklisted.
func (c *Client) IsBlocklisted(ctx context.Context, addr string, epoch Epoch) (bool, error) {
	if err := validEpoch(epoch); err != nil {
		return false, err
	}
	_, addressesID, found, err := c.coinDenyState(ctx)
	if err != nil || !found {
		return false, err
	}
	entry, found, err := c.rpc.GetDynamicFieldObject(ctx, addressesID, sui.DynamicFieldName{
		Type:  "address",
		Value: addr,
	})
	if err != nil || !found {
		return false, err
	}
	fields := entry.Fields()
	if fields == nil {
		return false, fmt.Errorf("blocklist entry for %s has no content", addr)
	}
	state, err := decodeAddressDenyState(fields)
	if err != nil {
		return false, err
	}
	return state.at(epoch), nil
}

// BlocklistedEventType returns the Move event type emitted when an
// address is blocklisted. The validator replays these events.
func (c *Client) BlocklistedEventType() string {
	return c.pkgID + "::" + moduleName + "::Blocklisted"
}

// --- internal ---

func (c *Client) treasuryFields(ctx context.Context) (map[string]any, error) {
	obj, err := c.rpc.GetObject(ctx, c.treasuryID)
	if err != nil {
		return nil, err
	}
	fields := obj.Fields()
	if fields == nil {
		return nil, fmt.Errorf("treasury %s has no content", c.treasuryID)
	}
	return fields, nil
}

func (c *Client) controllersTableID(ctx context.Context) (string, error) {
	fields, err := c.treasuryFields(ctx)
	if err != nil {
		return "", err
	}
	return decodeTableID(fields, "controllers")
}

func (c *Client) allowancesTableID(ctx context.Context) (string, error) {
	fields, err := c.treasuryFields(ctx)
	if err != nil {
		return "", err
	}
	return decodeTableID(fields, "mint_allowances")
}

// coinDenyState resolves the per-coin deny-list record: pause flags and
// the id of the per-address table.
func (c *Client) coinDenyState(ctx context.Context) (PauseState, string, bool, error) {
	entry, found, err := c.rpc.GetDynamicFieldObject(ctx, c.denyListID, sui.DynamicFieldName{
		Type:  "0x1::string::String",
		Value: c.coinType,
	})
	if err != nil || !found {
		return PauseState{}, "", false, err
	}
	fields := entry.Fields()
	if fields == nil {
		return PauseState{}, "", false, fmt.Errorf("deny-list record for %s has no content", c.coinType)
	}
	state, addressesID, err := decodeCoinDenyState(fields)
	if err != nil {
		return PauseState{}, "", false, err
	}
	return state, addressesID, true, nil
}

func allowanceFromEntry(entry *sui.ObjectData) (*big.Int, error) {
	fields := entry.Fields()
	if fields == nil {
		return nil, fmt.Errorf("allowance entry %s has no content", entry.ObjectID)
	}
	value, err := nestedFields(fields, "value")
	if err != nil {
		return nil, err
	}
	return decodeAllowanceValue(value)
}

func (p PauseState) at(epoch Epoch) bool {
	if epoch == EpochNext {
		return p.Next
	}
	return p.Current
}

func validEpoch(epoch Epoch) error {
	if epoch != EpochCurrent && epoch != EpochNext {
		return fmt.Errorf("unknown epoch selector %q", epoch)
	}
	return nil
}
