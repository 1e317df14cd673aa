package treasury

import (
	"context"
	"testing"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui/suitest"
	"github.com/stretchr/testify/require"
)

// Shared fixture identifiers. Only type-tag addresses need to be hex.
const (
	testPkgID       = "0xdead"
	testCoinType    = "0xc0ffee::usdc::USDC"
	testTreasuryID  = "0xt0001"
	testDenyListID  = "0xd0001"
	testCtrlTableID = "0xctable"
	testAlwTableID  = "0xatable"
	testAddrTableID = "0xbtable"

	testOwner      = "0xowner"
	testMM         = "0xmasterminter"
	testController = "0xcontroller"
	testMintCapID  = "0xmintcap"
	testMinter     = "0xminter"
)

var testTreasuryType = testPkgID + "::treasury::Treasury<" + testCoinType + ">"

// newWorld populates a fake node with one treasury: a single controller
// bound to a mint authorization with allowance 500 held by the minter,
// pause scheduled for the next epoch, and one next-epoch blocklist
// entry for 0xbad.
func newWorld(t *testing.T) (*suitest.Ledger, *Client) {
	t.Helper()
	led := suitest.NewLedger(t)

	led.SetObject(testTreasuryID, testTreasuryType,
		map[string]any{"Shared": map[string]any{"initial_shared_version": 1}},
		map[string]any{
			"roles": map[string]any{
				"fields": map[string]any{
					"owner": map[string]any{
						"fields": map[string]any{
							"active_address":  testOwner,
							"pending_address": nil,
						},
					},
					"master_minter":    testMM,
					"blocklister":      "0xblocklister",
					"pauser":           "0xpauser",
					"metadata_updater": "0xmetadataupdater",
				},
			},
			"controllers": map[string]any{
				"fields": map[string]any{"id": map[string]any{"id": testCtrlTableID}},
			},
			"mint_allowances": map[string]any{
				"fields": map[string]any{"id": map[string]any{"id": testAlwTableID}},
			},
			"compatible_versions": map[string]any{
				"fields": map[string]any{"contents": []any{"1"}},
			},
		})

	led.SetEntry(testCtrlTableID, testController, "0xctrlentry", map[string]any{
		"name":  testController,
		"value": testMintCapID,
	})
	led.SetEntry(testAlwTableID, testMintCapID, "0xalwentry", map[string]any{
		"name":  testMintCapID,
		"value": map[string]any{"fields": map[string]any{"value": "500"}},
	})
	led.SetObject(testMintCapID, testPkgID+"::treasury::MintCap<"+testCoinType+">",
		suitest.AddressOwner(testMinter), map[string]any{})

	led.SetEntry(testDenyListID, testCoinType, "0xdenyrec", map[string]any{
		"paused": map[string]any{
			"fields": map[string]any{"current": false, "next": true},
		},
		"addresses": map[string]any{
			"fields": map[string]any{"id": map[string]any{"id": testAddrTableID}},
		},
	})
	led.SetEntry(testAddrTableID, "0xbad", "0xdenyaddr", map[string]any{
		"current": false,
		"next":    true,
	})

	led.TotalSupply[testCoinType] = "1000000"
	led.Metadata[testCoinType] = map[string]any{
		"decimals":    float64(6),
		"name":        "Test Dollar",
		"symbol":      "USDT$",
		"description": "test coin",
		"iconUrl":     "https://icon.example/usd.png",
	}

	client, err := New(context.Background(), led.Client(), testTreasuryID, testDenyListID)
	require.NoError(t, err)
	return led, client
}
