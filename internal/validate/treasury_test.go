package validate

import (
	"context"
	"testing"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui/suitest"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/treasury"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tvPkgID      = "0xdead"
	tvCoinType   = "0xc0ffee::usdc::USDC"
	tvTreasuryID = "0xt0001"
	tvDenyListID = "0xd0001"
)

// newTreasuryWorld populates a fake node with one fully configured
// treasury: a single controller/allowance pair, pause scheduled for the
// next epoch, and a blocklist where 0xbad is active and 0xformer was
// blocklisted once but since removed.
func newTreasuryWorld(t *testing.T) (*suitest.Ledger, *treasury.Client) {
	t.Helper()
	led := suitest.NewLedger(t)

	led.SetObject(tvTreasuryID, tvPkgID+"::treasury::Treasury<"+tvCoinType+">",
		map[string]any{"Shared": map[string]any{"initial_shared_version": 1}},
		map[string]any{
			"roles": map[string]any{
				"fields": map[string]any{
					"owner": map[string]any{
						"fields": map[string]any{
							"active_address":  "0xowner",
							"pending_address": nil,
						},
					},
					"master_minter":    "0xmm",
					"blocklister":      "0xbl",
					"pauser":           "0xpa",
					"metadata_updater": "0xmu",
				},
			},
			"controllers": map[string]any{
				"fields": map[string]any{"id": map[string]any{"id": "0xctable"}},
			},
			"mint_allowances": map[string]any{
				"fields": map[string]any{"id": map[string]any{"id": "0xatable"}},
			},
			"compatible_versions": map[string]any{
				"fields": map[string]any{"contents": []any{"1"}},
			},
		})

	led.SetEntry("0xctable", "0xcontroller", "0xctrlentry", map[string]any{
		"name":  "0xcontroller",
		"value": "0xmintcap",
	})
	led.SetEntry("0xatable", "0xmintcap", "0xalwentry", map[string]any{
		"name":  "0xmintcap",
		"value": map[string]any{"fields": map[string]any{"value": "500"}},
	})
	led.SetObject("0xmintcap", tvPkgID+"::treasury::MintCap<"+tvCoinType+">",
		suitest.AddressOwner("0xminter"), map[string]any{})

	led.SetEntry(tvDenyListID, tvCoinType, "0xdenyrec", map[string]any{
		"paused": map[string]any{
			"fields": map[string]any{"current": false, "next": true},
		},
		"addresses": map[string]any{
			"fields": map[string]any{"id": map[string]any{"id": "0xbtable"}},
		},
	})
	led.SetEntry("0xbtable", "0xbad", "0xdenybad", map[string]any{
		"current": false,
		"next":    true,
	})
	// 0xformer keeps its entry but both flags are off after unblocking.
	led.SetEntry("0xbtable", "0xformer", "0xdenyformer", map[string]any{
		"current": false,
		"next":    false,
	})

	eventType := tvPkgID + "::treasury::Blocklisted"
	led.Events[eventType] = []map[string]any{
		{
			"id":         map[string]any{"txDigest": "d1", "eventSeq": "0"},
			"type":       eventType,
			"parsedJson": map[string]any{"address": "0xbad"},
		},
		{
			"id":         map[string]any{"txDigest": "d2", "eventSeq": "0"},
			"type":       eventType,
			"parsedJson": map[string]any{"address": "0xformer"},
		},
		{
			// Re-blocklisting emits a second event for the same address;
			// the reconstruction must not double-count it.
			"id":         map[string]any{"txDigest": "d3", "eventSeq": "0"},
			"type":       eventType,
			"parsedJson": map[string]any{"address": "0xbad"},
		},
	}

	led.TotalSupply[tvCoinType] = "1000000"
	led.Metadata[tvCoinType] = map[string]any{
		"decimals":    float64(6),
		"name":        "Test Dollar",
		"symbol":      "USDT$",
		"description": "test coin",
		"iconUrl":     "https://icon.example/usd.png",
	}

	client, err := treasury.New(context.Background(), led.Client(), tvTreasuryID, tvDenyListID)
	require.NoError(t, err)
	return led, client
}

func matchingState() *TreasuryState {
	return &TreasuryState{
		CoinType: tvCoinType,
		Roles: RolesState{
			Owner:           "0xowner",
			MasterMinter:    "0xmm",
			Blocklister:     "0xbl",
			Pauser:          "0xpa",
			MetadataUpdater: "0xmu",
		},
		Metadata: MetadataState{
			Name:        "Test Dollar",
			Symbol:      "USDT$",
			Description: "test coin",
			IconURL:     "https://icon.example/usd.png",
			Decimals:    6,
		},
		TotalSupply:        "1000000",
		CompatibleVersions: []string{"1"},
		Paused:             DualEpochBool{Current: false, Next: true},
		Controllers:        map[string]string{"0xcontroller": "0xmintcap"},
		MintAllowances: map[string]Allowance{
			"0xmintcap": {Allowance: "500", Holder: "0xminter"},
		},
		Blocklist: []string{"0xbad"},
	}
}

func TestTreasuryValidatorMatchingState(t *testing.T) {
	led, client := newTreasuryWorld(t)
	v := NewTreasuryValidator(client, led.Client())

	require.NoError(t, v.Validate(context.Background(), matchingState()))
}

// Every single-field perturbation of a matching document must fail, and
// must fail at that field.
func TestTreasuryValidatorDetectsEachDivergence(t *testing.T) {
	cases := map[string]struct {
		mutate    func(*TreasuryState)
		wantField string
	}{
		"owner": {
			func(s *TreasuryState) { s.Roles.Owner = "0ximpostor" },
			"roles.owner",
		},
		"pending owner": {
			func(s *TreasuryState) { s.Roles.PendingOwner = "0xghost" },
			"roles.pendingOwner",
		},
		"metadata symbol": {
			func(s *TreasuryState) { s.Metadata.Symbol = "WRONG" },
			"metadata.symbol",
		},
		"total supply": {
			func(s *TreasuryState) { s.TotalSupply = "999999" },
			"totalSupply",
		},
		"compatible versions": {
			func(s *TreasuryState) { s.CompatibleVersions = []string{"1", "2"} },
			"compatibleVersions",
		},
		"pause next epoch": {
			func(s *TreasuryState) { s.Paused.Next = false },
			"paused.next",
		},
		"controller binding": {
			func(s *TreasuryState) { s.Controllers["0xcontroller"] = "0xothercap" },
			"controllers[0xcontroller]",
		},
		"extra controller": {
			func(s *TreasuryState) { s.Controllers["0xextra"] = "0xcap2" },
			"controllers",
		},
		"allowance value": {
			func(s *TreasuryState) { s.MintAllowances["0xmintcap"] = Allowance{Allowance: "501", Holder: "0xminter"} },
			"mintAllowances[0xmintcap].allowance",
		},
		"allowance holder": {
			func(s *TreasuryState) { s.MintAllowances["0xmintcap"] = Allowance{Allowance: "500", Holder: "0xthief"} },
			"mintAllowances[0xmintcap].holder",
		},
		"blocklist extra entry": {
			func(s *TreasuryState) { s.Blocklist = append(s.Blocklist, "0xformer") },
			"blocklist",
		},
		"blocklist missing entry": {
			func(s *TreasuryState) { s.Blocklist = nil },
			"blocklist",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			led, client := newTreasuryWorld(t)
			v := NewTreasuryValidator(client, led.Client())

			state := matchingState()
			tc.mutate(state)

			err := v.Validate(context.Background(), state)
			require.Error(t, err)

			var mismatch *MismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tc.wantField, mismatch.Field)
		})
	}
}

func TestBlocklistReconstructionIgnoresUnblocked(t *testing.T) {
	// 0xformer appears in the event log but is no longer flagged; it
	// must not survive into the reconstructed set.
	led, client := newTreasuryWorld(t)
	v := NewTreasuryValidator(client, led.Client())

	blocklist, err := v.reconstructBlocklist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0xbad"}, blocklist)
}
