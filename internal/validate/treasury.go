package validate

import (
	"context"
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
)

// TreasuryValidator reconstructs the full observable state of a live
// treasury and asserts it equals an expected-state document.
type TreasuryValidator struct {
	client *treasury.Client
	rpc    *sui.Client
}

// NewTreasuryValidator creates a validator over a live wrapper.
func NewTreasuryValidator(client *treasury.Client, rpc *sui.Client) *TreasuryValidator {
	return &TreasuryValidator{client: client, rpc: rpc}
}

// Validate issues the read sequence needed to rebuild the treasury's
// state and compares it field by field against expected, failing with
// the first mismatching field. Reconstructing controllers and
// allowances fans out one read per configured entry.
func (v *TreasuryValidator) Validate(ctx context.Context, expected *TreasuryState) error {
	if err := equalField("coinType", expected.CoinType, v.client.CoinType()); err != nil {
		return err
	}

	roles, err := v.client.GetRoles(ctx)
	if err != nil {
		return err
	}
	for _, cmp := range []struct {
		field            string
		expected, actual string
	}{
		{"roles.owner", expected.Roles.Owner, roles.Owner.Active},
		{"roles.pendingOwner", expected.Roles.PendingOwner, roles.Owner.Pending},
		{"roles.masterMinter", expected.Roles.MasterMinter, roles.MasterMinter},
		{"roles.blocklister", expected.Roles.Blocklister, roles.Blocklister},
		{"roles.pauser", expected.Roles.Pauser, roles.Pauser},
		{"roles.metadataUpdater", expected.Roles.MetadataUpdater, roles.MetadataUpdater},
	} {
		if err := equalField(cmp.field, cmp.expected, cmp.actual); err != nil {
			return err
		}
	}

	meta, err := v.client.GetMetadata(ctx)
	if err != nil {
		return err
	}
	if err := equalField("metadata.name", expected.Metadata.Name, meta.Name); err != nil {
		return err
	}
	if err := equalField("metadata.symbol", expected.Metadata.Symbol, meta.Symbol); err != nil {
		return err
	}
	if err := equalField("metadata.description", expected.Metadata.Description, meta.Description); err != nil {
		return err
	}
	if err := equalField("metadata.iconUrl", expected.Metadata.IconURL, meta.IconURL); err != nil {
		return err
	}
	if err := equalField("metadata.decimals", expected.Metadata.Decimals, meta.Decimals); err != nil {
		return err
	}

	supply, err := v.client.GetTotalSupply(ctx)
	if err != nil {
		return err
	}
	if err := equalField("totalSupply", expected.TotalSupply, supply.String()); err != nil {
		return err
	}

	versions, err := v.client.GetCompatibleVersions(ctx)
	if err != nil {
		return err
	}
	if err := equalList("compatibleVersions", expected.CompatibleVersions, versions); err != nil {
		return err
	}

	for _, epoch := range []treasury.Epoch{treasury.EpochCurrent, treasury.EpochNext} {
		paused, err := v.client.IsPaused(ctx, epoch)
		if err != nil {
			return err
		}
		want := expected.Paused.Current
		if epoch == treasury.EpochNext {
			want = expected.Paused.Next
		}
		if err := equalField(fmt.Sprintf("paused.%s", epoch), want, paused); err != nil {
			return err
		}
	}

	if err := v.validateControllers(ctx, expected.Controllers); err != nil {
		return err
	}
	if err := v.validateAllowances(ctx, expected.MintAllowances); err != nil {
		return err
	}

	blocklist, err := v.reconstructBlocklist(ctx)
	if err != nil {
		return err
	}
	return equalSet("blocklist", expected.Blocklist, blocklist)
}

func (v *TreasuryValidator) validateControllers(ctx context.Context, expected map[string]string) error {
	entries, err := v.client.ListControllers(ctx)
	if err != nil {
		return err
	}
	actual := make(map[string]string, len(entries))
	for _, e := range entries {
		actual[e.Controller] = e.MintCapID
	}
	if len(actual) != len(expected) {
		return mismatch("controllers", expected, actual)
	}
	for controller, wantID := range expected {
		gotID, ok := actual[controller]
		if !ok {
			return mismatch(fmt.Sprintf("controllers[%s]", controller), wantID, "<absent>")
		}
		if gotID != wantID {
			return mismatch(fmt.Sprintf("controllers[%s]", controller), wantID, gotID)
		}
	}
	return nil
}

func (v *TreasuryValidator) validateAllowances(ctx context.Context, expected map[string]Allowance) error {
	entries, err := v.client.ListMintAllowances(ctx)
	if err != nil {
		return err
	}
	actual := make(map[string]treasury.AllowanceEntry, len(entries))
	for _, e := range entries {
		actual[e.MintCapID] = e
	}
	if len(actual) != len(expected) {
		return mismatch("mintAllowances", len(expected), len(actual))
	}
	for mintCapID, want := range expected {
		got, ok := actual[mintCapID]
		if !ok {
			return mismatch(fmt.Sprintf("mintAllowances[%s]", mintCapID), want, "<absent>")
		}
		if err := equalField(fmt.Sprintf("mintAllowances[%s].allowance", mintCapID), want.Allowance, got.Allowance.String()); err != nil {
			return err
		}
		if err := equalField(fmt.Sprintf("mintAllowances[%s].holder", mintCapID), want.Holder, got.Holder); err != nil {
			return err
		}
	}
	return nil
}

// reconstructBlocklist rebuilds the blocklist, which has no direct
// read: replay the full Blocklisted event history, then re-check
// next-epoch membership for every candidate to drop addresses that
// were later unblocked. An address is in the final set iff it appears
// in the event log at least once and is still flagged at check time.
// The replay assumes the event log is complete; the client follows the
// query cursor across every page to avoid truncation.
func (v *TreasuryValidator) reconstructBlocklist(ctx context.Context) ([]string, error) {
	events, err := v.rpc.QueryEvents(ctx, v.client.BlocklistedEventType())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, ev := range events {
		addr, ok := ev.ParsedJSON["address"].(string)
		if !ok {
			return nil, fmt.Errorf("event %s/%s has no address field", ev.ID.TxDigest, ev.ID.EventSeq)
		}
		if !seen[addr] {
			seen[addr] = true
			candidates = append(candidates, addr)
		}
	}

	var blocklist []string
	for _, addr := range candidates {
		blocked, err := v.client.IsBlocklisted(ctx, addr, treasury.EpochNext)
		if err != nil {
			return nil, err
		}
		if blocked {
			blocklist = append(blocklist, addr)
		}
	}
	return blocklist, nil
}
