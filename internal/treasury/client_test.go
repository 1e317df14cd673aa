package treasury

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui/suitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) *keys.Keypair {
	t.Helper()
	kp, err := keys.Generate(keys.SchemeEd25519)
	require.NoError(t, err)
	return kp
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewResolvesCoinType(t *testing.T) {
	_, client := newWorld(t)
	assert.Equal(t, testCoinType, client.CoinType())
	assert.Equal(t, testPkgID, client.PackageID())
	assert.Equal(t, testTreasuryID, client.TreasuryID())
}

func TestNewRejectsForeignObject(t *testing.T) {
	led := suitest.NewLedger(t)
	led.SetObject("0xnotit", "0xdead::coin::CoinStore<0xc0ffee::usdc::USDC>", nil, map[string]any{})

	_, err := New(context.Background(), led.Client(), "0xnotit", testDenyListID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a treasury")
}

func TestFromPublishResponse(t *testing.T) {
	led, _ := newWorld(t)

	resp := &sui.TransactionResponse{ObjectChanges: []sui.ObjectChange{
		{Type: "published", PackageID: testPkgID},
		{Type: "created", ObjectType: testTreasuryType, ObjectID: testTreasuryID},
		{Type: "created", ObjectType: "0x2::package::UpgradeCap", ObjectID: "0xcap"},
	}}
	client, err := FromPublishResponse(context.Background(), led.Client(), resp, testDenyListID)
	require.NoError(t, err)
	assert.Equal(t, testTreasuryID, client.TreasuryID())
}

func TestFromPublishResponseAmbiguous(t *testing.T) {
	led, _ := newWorld(t)

	t.Run("none", func(t *testing.T) {
		resp := &sui.TransactionResponse{}
		_, err := FromPublishResponse(context.Background(), led.Client(), resp, testDenyListID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 0")
	})

	t.Run("two", func(t *testing.T) {
		resp := &sui.TransactionResponse{ObjectChanges: []sui.ObjectChange{
			{Type: "created", ObjectType: testTreasuryType, ObjectID: "0xa"},
			{Type: "created", ObjectType: testTreasuryType, ObjectID: "0xb"},
		}}
		_, err := FromPublishResponse(context.Background(), led.Client(), resp, testDenyListID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 2")
	})
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestRotateControllerAtomicBatch(t *testing.T) {
	led, client := newWorld(t)

	resp, err := client.RotateController(context.Background(), testSigner(t),
		testController, "0xnewcontroller", TxOptions{GasBudget: 1_000_000})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())

	// Both calls must travel in one batch transaction.
	require.Equal(t, 1, led.CallsTo("unsafe_batchTransaction"))
	assert.Zero(t, led.CallsTo("unsafe_moveCall"))

	var batch []map[string]map[string]any
	for _, call := range led.Calls() {
		if call.Method == "unsafe_batchTransaction" {
			require.NoError(t, json.Unmarshal(call.Params[1], &batch))
		}
	}
	require.Len(t, batch, 2)
	assert.Equal(t, "configure_controller", batch[0]["moveCallRequestParams"]["function"])
	assert.Equal(t, "remove_controller", batch[1]["moveCallRequestParams"]["function"])
}

func TestRotateControllerWithoutBinding(t *testing.T) {
	led, client := newWorld(t)

	_, err := client.RotateController(context.Background(), testSigner(t),
		"0xunbound", "0xnewcontroller", TxOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mint authorization")

	// Nothing may be built or submitted after the precondition fails.
	assert.Zero(t, led.CallsTo("unsafe_batchTransaction"))
	assert.Zero(t, led.CallsTo("sui_executeTransactionBlock"))
}

func TestRemoveControllerRevokesBinding(t *testing.T) {
	led, client := newWorld(t)

	resp, err := client.RemoveController(context.Background(), testSigner(t),
		testController, TxOptions{GasBudget: 1_000_000})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())

	// A standalone revocation is a single move call, not a batch.
	require.Equal(t, 1, led.CallsTo("unsafe_moveCall"))
	assert.Zero(t, led.CallsTo("unsafe_batchTransaction"))
	assert.Equal(t, 1, led.CallsTo("sui_executeTransactionBlock"))

	var fn string
	for _, call := range led.Calls() {
		if call.Method == "unsafe_moveCall" {
			require.NoError(t, json.Unmarshal(call.Params[3], &fn))
		}
	}
	assert.Equal(t, "remove_controller", fn)
}

func TestDryRunSkipsExecution(t *testing.T) {
	led, client := newWorld(t)

	resp, err := client.SetPausedState(context.Background(), testSigner(t), true,
		TxOptions{DryRun: true, GasBudget: 1_000_000})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())

	assert.Equal(t, 1, led.CallsTo("sui_dryRunTransactionBlock"))
	assert.Zero(t, led.CallsTo("sui_executeTransactionBlock"))
}

func TestExecutionRejectionSurfaced(t *testing.T) {
	led, client := newWorld(t)
	led.ExecuteError = "MoveAbort(treasury, 7)"

	_, err := client.Mint(context.Background(), testSigner(t),
		testMintCapID, big.NewInt(100), "0xrecipient", TxOptions{GasBudget: 1_000_000})
	require.Error(t, err)

	var rejection *sui.RemoteRejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Reason, "MoveAbort")
}

func TestRotatePrivilegedRolesRequiresUpdates(t *testing.T) {
	_, client := newWorld(t)
	_, err := client.RotatePrivilegedRoles(context.Background(), testSigner(t),
		RoleUpdates{}, TxOptions{})
	assert.Error(t, err)
}

func TestRotatePrivilegedRolesBatchesEveryUpdate(t *testing.T) {
	led, client := newWorld(t)

	_, err := client.RotatePrivilegedRoles(context.Background(), testSigner(t), RoleUpdates{
		MasterMinter: "0xnewmm",
		Pauser:       "0xnewpauser",
	}, TxOptions{GasBudget: 1_000_000})
	require.NoError(t, err)

	var batch []map[string]map[string]any
	for _, call := range led.Calls() {
		if call.Method == "unsafe_batchTransaction" {
			require.NoError(t, json.Unmarshal(call.Params[1], &batch))
		}
	}
	require.Len(t, batch, 2)
	functions := []string{
		batch[0]["moveCallRequestParams"]["function"].(string),
		batch[1]["moveCallRequestParams"]["function"].(string),
	}
	assert.ElementsMatch(t, []string{"update_master_minter", "update_pauser"}, functions)
}

func TestUpgradeMigrationUnknownAction(t *testing.T) {
	_, client := newWorld(t)
	_, err := client.UpgradeMigration(context.Background(), testSigner(t),
		MigrationAction("rewind"), TxOptions{})
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Reconciliation
// ---------------------------------------------------------------------------

func TestReconcile(t *testing.T) {
	assert.Equal(t, Absent, Reconcile(false, "", "0xwant"))
	assert.Equal(t, PresentMatching, Reconcile(true, "0xwant", "0xwant"))
	assert.Equal(t, PresentConflicting, Reconcile(true, "0xother", "0xwant"))
}

func TestControllerState(t *testing.T) {
	_, client := newWorld(t)
	ctx := context.Background()

	state, err := client.ControllerState(ctx, testController, testMinter)
	require.NoError(t, err)
	assert.Equal(t, PresentMatching, state)

	state, err = client.ControllerState(ctx, testController, "0xsomeoneelse")
	require.NoError(t, err)
	assert.Equal(t, PresentConflicting, state)

	state, err = client.ControllerState(ctx, "0xunbound", testMinter)
	require.NoError(t, err)
	assert.Equal(t, Absent, state)
}
