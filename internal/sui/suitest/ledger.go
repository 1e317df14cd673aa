// Package suitest provides an in-memory fake full node, served over
// httptest, for exercising the RPC-facing clients without a network.
package suitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

// Call records one JSON-RPC request the ledger received.
type Call struct {
	Method string
	Params []json.RawMessage
}

// Ledger is a scriptable fake full node. Populate the maps, then point
// a sui.Client at URL(). Every map value is the raw JSON shape the real
// node would return, expressed as nested map[string]any.
type Ledger struct {
	mu sync.Mutex

	// Objects maps object id to its object data.
	Objects map[string]map[string]any
	// Entries maps parent table id + field name value to the entry
	// object, as resolved by suix_getDynamicFieldObject.
	Entries map[string]map[string]any
	// Fields maps parent table id to its dynamic-field enumeration.
	Fields map[string][]map[string]any
	// Events maps Move event type to the events replayed for it.
	Events map[string][]map[string]any
	// TotalSupply and Metadata are keyed by coin type.
	TotalSupply map[string]string
	Metadata    map[string]map[string]any

	// TxBytes is returned by every transaction build endpoint.
	TxBytes string
	// Digest and ExecuteError script the execution receipt. A non-empty
	// ExecuteError yields a failure status.
	Digest       string
	ExecuteError string

	calls  []Call
	server *httptest.Server
}

// NewLedger starts a fake node that succeeds by default.
func NewLedger(t *testing.T) *Ledger {
	t.Helper()
	l := &Ledger{
		Objects:     make(map[string]map[string]any),
		Entries:     make(map[string]map[string]any),
		Fields:      make(map[string][]map[string]any),
		Events:      make(map[string][]map[string]any),
		TotalSupply: make(map[string]string),
		Metadata:    make(map[string]map[string]any),
		TxBytes:     "VFhCWVRFUw==",
		Digest:      "D1G3ST",
	}
	l.server = httptest.NewServer(http.HandlerFunc(l.handle))
	t.Cleanup(l.server.Close)
	return l
}

// URL returns the fake node's endpoint.
func (l *Ledger) URL() string { return l.server.URL }

// Client returns a sui.Client pointed at this ledger.
func (l *Ledger) Client() *sui.Client { return sui.NewClient(l.server.URL) }

// Calls returns every request received so far.
func (l *Ledger) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// Methods returns the received method names in order.
func (l *Ledger) Methods() []string {
	out := make([]string, 0)
	for _, c := range l.Calls() {
		out = append(out, c.Method)
	}
	return out
}

// CallsTo counts requests for one method.
func (l *Ledger) CallsTo(method string) int {
	n := 0
	for _, c := range l.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// SetObject registers an object with Move content.
func (l *Ledger) SetObject(id, objType string, owner any, fields map[string]any) {
	obj := map[string]any{
		"objectId": id,
		"version":  "1",
		"type":     objType,
		"content": map[string]any{
			"dataType": "moveObject",
			"type":     objType,
			"fields":   fields,
		},
	}
	if owner != nil {
		obj["owner"] = owner
	}
	l.Objects[id] = obj
}

// SetEntry registers a dynamic-field entry under parent, addressable
// both by key lookup and as an entry object of its own.
func (l *Ledger) SetEntry(parent string, keyValue any, entryID string, fields map[string]any) {
	l.SetObject(entryID, "0x2::dynamic_field::Field", nil, fields)
	l.Entries[EntryKey(parent, keyValue)] = l.Objects[entryID]
	l.Fields[parent] = append(l.Fields[parent], map[string]any{
		"name":     map[string]any{"type": "unused", "value": keyValue},
		"objectId": entryID,
	})
}

// EntryKey is the lookup key for Entries.
func EntryKey(parent string, value any) string {
	return fmt.Sprintf("%s\x00%v", parent, value)
}

// AddressOwner is the owner record for an address-owned object.
func AddressOwner(addr string) map[string]any {
	return map[string]any{"AddressOwner": addr}
}

// --- request handling ---

func (l *Ledger) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l.mu.Lock()
	l.calls = append(l.calls, Call{Method: req.Method, Params: req.Params})
	l.mu.Unlock()

	result, rpcErr := l.dispatch(req.Method, req.Params)
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"jsonrpc": "2.0", "id": 1}
	if rpcErr != "" {
		resp["error"] = map[string]any{"code": -32601, "message": rpcErr}
	} else {
		resp["result"] = result
	}
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func (l *Ledger) dispatch(method string, params []json.RawMessage) (any, string) {
	switch method {
	case "sui_getObject":
		var id string
		json.Unmarshal(params[0], &id) //nolint:errcheck
		if obj, ok := l.Objects[id]; ok {
			return map[string]any{"data": obj}, ""
		}
		return map[string]any{"error": map[string]any{"code": "notExists"}}, ""

	case "suix_getDynamicFieldObject":
		var parent string
		var name struct {
			Value any `json:"value"`
		}
		json.Unmarshal(params[0], &parent) //nolint:errcheck
		json.Unmarshal(params[1], &name)   //nolint:errcheck
		if obj, ok := l.Entries[EntryKey(parent, name.Value)]; ok {
			return map[string]any{"data": obj}, ""
		}
		return map[string]any{"error": map[string]any{"code": "dynamicFieldNotFound"}}, ""

	case "suix_getDynamicFields":
		var parent string
		json.Unmarshal(params[0], &parent) //nolint:errcheck
		fields := l.Fields[parent]
		if fields == nil {
			fields = []map[string]any{}
		}
		return map[string]any{"data": fields, "hasNextPage": false}, ""

	case "suix_queryEvents":
		var query struct {
			MoveEventType string `json:"MoveEventType"`
		}
		json.Unmarshal(params[0], &query) //nolint:errcheck
		events := l.Events[query.MoveEventType]
		if events == nil {
			events = []map[string]any{}
		}
		return map[string]any{"data": events, "hasNextPage": false}, ""

	case "suix_getTotalSupply":
		var coinType string
		json.Unmarshal(params[0], &coinType) //nolint:errcheck
		supply, ok := l.TotalSupply[coinType]
		if !ok {
			return nil, "no supply for " + coinType
		}
		return map[string]any{"value": supply}, ""

	case "suix_getCoinMetadata":
		var coinType string
		json.Unmarshal(params[0], &coinType) //nolint:errcheck
		meta, ok := l.Metadata[coinType]
		if !ok {
			return nil, "no metadata for " + coinType
		}
		return meta, ""

	case "unsafe_moveCall", "unsafe_batchTransaction", "unsafe_publish":
		return map[string]any{"txBytes": l.TxBytes}, ""

	case "sui_dryRunTransactionBlock":
		return l.receipt(), ""

	case "sui_executeTransactionBlock":
		return l.receipt(), ""

	default:
		return nil, "unknown method " + method
	}
}

func (l *Ledger) receipt() map[string]any {
	status := map[string]any{"status": "success"}
	if l.ExecuteError != "" {
		status = map[string]any{"status": "failure", "error": l.ExecuteError}
	}
	return map[string]any{
		"digest":  l.Digest,
		"effects": map[string]any{"status": status},
	}
}
