package sui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mock full node
// ---------------------------------------------------------------------------

type mockCall struct {
	Method string
	Params []json.RawMessage
}

type mockNode struct {
	t       *testing.T
	server  *httptest.Server
	calls   []mockCall
	handler func(method string, params []json.RawMessage) (any, error)
}

func newMockNode(t *testing.T, handler func(method string, params []json.RawMessage) (any, error)) *mockNode {
	t.Helper()
	node := &mockNode{t: t, handler: handler}
	node.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		node.calls = append(node.calls, mockCall{Method: req.Method, Params: req.Params})

		result, err := node.handler(req.Method, req.Params)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			resp := map[string]any{
				"jsonrpc": "2.0",
				"id":      1,
				"error":   map[string]any{"code": -32602, "message": err.Error()},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(node.server.Close)
	return node
}

func (n *mockNode) client() *Client { return NewClient(n.server.URL) }

func (n *mockNode) methods() []string {
	out := make([]string, 0, len(n.calls))
	for _, c := range n.calls {
		out = append(out, c.Method)
	}
	return out
}

// ---------------------------------------------------------------------------
// Object reads
// ---------------------------------------------------------------------------

func TestGetObject(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		assert.Equal(t, "sui_getObject", method)
		return map[string]any{
			"data": map[string]any{
				"objectId": "0xcafe",
				"version":  "7",
				"type":     "0x1::treasury::Treasury<0x2::usdc::USDC>",
				"owner":    map[string]any{"Shared": map[string]any{"initial_shared_version": 3}},
				"content": map[string]any{
					"dataType": "moveObject",
					"fields":   map[string]any{"total_supply": "100"},
				},
			},
		}, nil
	})

	obj, err := node.client().GetObject(context.Background(), "0xcafe")
	require.NoError(t, err)
	assert.Equal(t, "0xcafe", obj.ObjectID)
	assert.True(t, obj.Owner.Shared)
	assert.Equal(t, "100", obj.Fields()["total_supply"])
}

func TestGetObjectNotFound(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		return map[string]any{"error": map[string]any{"code": "notExists"}}, nil
	})

	_, err := node.client().GetObject(context.Background(), "0xmissing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notExists")
}

func TestGetObjectRPCError(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		return nil, assert.AnError
	})

	_, err := node.client().GetObject(context.Background(), "0xcafe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC error")
}

func TestGetObjectUnreachableNode(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.GetObject(context.Background(), "0xcafe")
	assert.Error(t, err)
}

func TestTruncatedResponseBodySurfaced(t *testing.T) {
	// Announce more bytes than are sent, so the client's body read fails
	// mid-stream. The error must name the read, not a JSON parse.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "4096")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"resu`)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	_, err := NewClient(server.URL).GetObject(context.Background(), "0xcafe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading sui_getObject response")
	assert.NotContains(t, err.Error(), "parsing")
}

// ---------------------------------------------------------------------------
// Dynamic fields and pagination
// ---------------------------------------------------------------------------

func TestGetDynamicFieldsFollowsCursor(t *testing.T) {
	pages := []map[string]any{
		{
			"data": []map[string]any{
				{"name": map[string]any{"type": "address", "value": "0x1"}, "objectId": "0xa"},
				{"name": map[string]any{"type": "address", "value": "0x2"}, "objectId": "0xb"},
			},
			"nextCursor":  "0xb",
			"hasNextPage": true,
		},
		{
			"data": []map[string]any{
				{"name": map[string]any{"type": "address", "value": "0x3"}, "objectId": "0xc"},
			},
			"nextCursor":  "0xc",
			"hasNextPage": false,
		},
	}
	page := 0
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "suix_getDynamicFields", method)
		result := pages[page]
		page++
		return result, nil
	})

	fields, err := node.client().GetDynamicFields(context.Background(), "0xtable")
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "0x1", fields[0].Name.Value)
	assert.Equal(t, "0xc", fields[2].ObjectID)

	// Second request must resume from the returned cursor.
	require.Len(t, node.calls, 2)
	var cursor string
	require.NoError(t, json.Unmarshal(node.calls[1].Params[1], &cursor))
	assert.Equal(t, "0xb", cursor)
}

func TestGetDynamicFieldObjectThreeWay(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
			return map[string]any{
				"data": map[string]any{
					"objectId": "0xentry",
					"content": map[string]any{
						"dataType": "moveObject",
						"fields":   map[string]any{"value": "0xminter"},
					},
				},
			}, nil
		})
		obj, found, err := node.client().GetDynamicFieldObject(context.Background(), "0xtable", DynamicFieldName{Type: "address", Value: "0x1"})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "0xentry", obj.ObjectID)
	})

	t.Run("absent", func(t *testing.T) {
		node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
			return map[string]any{"error": map[string]any{"code": "dynamicFieldNotFound"}}, nil
		})
		obj, found, err := node.client().GetDynamicFieldObject(context.Background(), "0xtable", DynamicFieldName{Type: "address", Value: "0x1"})
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, obj)
	})

	t.Run("error", func(t *testing.T) {
		node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
			return nil, assert.AnError
		})
		_, found, err := node.client().GetDynamicFieldObject(context.Background(), "0xtable", DynamicFieldName{Type: "address", Value: "0x1"})
		require.Error(t, err)
		assert.False(t, found)
	})
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func TestQueryEventsFollowsCursor(t *testing.T) {
	pages := []map[string]any{
		{
			"data": []map[string]any{
				{"id": map[string]any{"txDigest": "d1", "eventSeq": "0"}, "type": "0x1::treasury::Blocklisted", "parsedJson": map[string]any{"address": "0xbad1"}},
			},
			"nextCursor":  map[string]any{"txDigest": "d1", "eventSeq": "0"},
			"hasNextPage": true,
		},
		{
			"data": []map[string]any{
				{"id": map[string]any{"txDigest": "d2", "eventSeq": "0"}, "type": "0x1::treasury::Blocklisted", "parsedJson": map[string]any{"address": "0xbad2"}},
			},
			"hasNextPage": false,
		},
	}
	page := 0
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "suix_queryEvents", method)
		result := pages[page]
		page++
		return result, nil
	})

	events, err := node.client().QueryEvents(context.Background(), "0x1::treasury::Blocklisted")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "0xbad1", events[0].ParsedJSON["address"])
	assert.Equal(t, "d2", events[1].ID.TxDigest)
	assert.Len(t, node.calls, 2)
}

// ---------------------------------------------------------------------------
// Transaction building and execution
// ---------------------------------------------------------------------------

func TestMoveCallReturnsTxBytes(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "unsafe_moveCall", method)
		return map[string]any{"txBytes": "AAA="}, nil
	})

	txBytes, err := node.client().MoveCall(context.Background(), "0xsender", MoveCallParams{
		PackageID: "0xpkg",
		Module:    "treasury",
		Function:  "pause",
		TypeArgs:  []string{"0x2::usdc::USDC"},
		Args:      []any{"0xtreasury"},
	}, 50_000_000)
	require.NoError(t, err)
	assert.Equal(t, "AAA=", txBytes)
}

func TestBatchTransactionWrapsEveryCall(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "unsafe_batchTransaction", method)
		return map[string]any{"txBytes": "BBB="}, nil
	})

	_, err := node.client().BatchTransaction(context.Background(), "0xsender", []MoveCallParams{
		{PackageID: "0xpkg", Module: "treasury", Function: "configure_new_controller"},
		{PackageID: "0xpkg", Module: "treasury", Function: "remove_controller"},
	}, 50_000_000)
	require.NoError(t, err)

	var batch []map[string]map[string]any
	require.NoError(t, json.Unmarshal(node.calls[0].Params[1], &batch))
	require.Len(t, batch, 2)
	assert.Equal(t, "configure_new_controller", batch[0]["moveCallRequestParams"]["function"])
	assert.Equal(t, "remove_controller", batch[1]["moveCallRequestParams"]["function"])
}

func TestExecuteSuccess(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "sui_executeTransactionBlock", method)
		return map[string]any{
			"digest":  "9xyz",
			"effects": map[string]any{"status": map[string]any{"status": "success"}},
		}, nil
	})

	resp, err := node.client().Execute(context.Background(), "AAA=", []string{"sig"})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, "9xyz", resp.Digest)
	assert.NotEmpty(t, resp.Raw)
}

func TestExecuteContractRejection(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		return map[string]any{
			"digest": "9rej",
			"effects": map[string]any{
				"status": map[string]any{"status": "failure", "error": "MoveAbort(treasury, 3)"},
			},
		}, nil
	})

	resp, err := node.client().Execute(context.Background(), "AAA=", []string{"sig"})
	require.Error(t, err)

	var rejection *RemoteRejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "9rej", rejection.Digest)
	assert.Contains(t, rejection.Reason, "MoveAbort")
	// The receipt is still returned so the caller can log it.
	require.NotNil(t, resp)
	assert.False(t, resp.Succeeded())
}

func TestDryRunDoesNotExecute(t *testing.T) {
	node := newMockNode(t, func(method string, params []json.RawMessage) (any, error) {
		require.Equal(t, "sui_dryRunTransactionBlock", method)
		return map[string]any{
			"effects": map[string]any{"status": map[string]any{"status": "success"}},
		}, nil
	})

	resp, err := node.client().DryRun(context.Background(), "AAA=")
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, []string{"sui_dryRunTransactionBlock"}, node.methods())
}

// ---------------------------------------------------------------------------
// Owner decoding
// ---------------------------------------------------------------------------

func TestOwnerDecoding(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"address owner": {`{"AddressOwner":"0xabc"}`, "0xabc"},
		"object owner":  {`{"ObjectOwner":"0xdef"}`, "0xdef"},
		"shared":        {`{"Shared":{"initial_shared_version":5}}`, "Shared"},
		"immutable":     {`"Immutable"`, "Immutable"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var owner Owner
			require.NoError(t, json.Unmarshal([]byte(tc.in), &owner))
			assert.Equal(t, tc.want, owner.String())
		})
	}

	t.Run("unknown string rejected", func(t *testing.T) {
		var owner Owner
		assert.Error(t, json.Unmarshal([]byte(`"Mutable"`), &owner))
	})
}
