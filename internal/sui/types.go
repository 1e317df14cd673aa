package sui

import (
	"encoding/json"
	"fmt"
)

// ObjectData is the decoded on-chain object returned by object reads.
type ObjectData struct {
	ObjectID string       `json:"objectId"`
	Version  string       `json:"version"`
	Digest   string       `json:"digest"`
	Type     string       `json:"type"`
	Owner    *Owner       `json:"owner"`
	Content  *MoveContent `json:"content"`
}

// Fields returns the object's Move field map, or nil when content was
// not requested or the object is not a Move object.
func (o *ObjectData) Fields() map[string]any {
	if o == nil || o.Content == nil {
		return nil
	}
	return o.Content.Fields
}

// MoveContent is the parsed Move struct content of an object.
type MoveContent struct {
	DataType string         `json:"dataType"`
	Type     string         `json:"type"`
	Fields   map[string]any `json:"fields"`
}

// Owner describes who owns an object. The RPC encodes this as either
// the string "Immutable" or a one-key object, hence the custom decode.
type Owner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       bool
	Immutable    bool
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Immutable" {
			return fmt.Errorf("unexpected owner string: %q", s)
		}
		o.Immutable = true
		return nil
	}

	var obj struct {
		AddressOwner string          `json:"AddressOwner"`
		ObjectOwner  string          `json:"ObjectOwner"`
		Shared       json.RawMessage `json:"Shared"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("parsing owner: %w", err)
	}
	o.AddressOwner = obj.AddressOwner
	o.ObjectOwner = obj.ObjectOwner
	o.Shared = len(obj.Shared) > 0
	return nil
}

// String renders the owner the way operators expect to read it.
func (o *Owner) String() string {
	switch {
	case o == nil:
		return ""
	case o.Immutable:
		return "Immutable"
	case o.Shared:
		return "Shared"
	case o.ObjectOwner != "":
		return o.ObjectOwner
	default:
		return o.AddressOwner
	}
}

// DynamicFieldName identifies one entry of an on-chain Table.
type DynamicFieldName struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// DynamicFieldInfo is one entry of a dynamic-field enumeration page.
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	ObjectID   string           `json:"objectId"`
	ObjectType string           `json:"objectType"`
}

// Event is one emitted Move event.
type Event struct {
	ID         EventID        `json:"id"`
	Type       string         `json:"type"`
	Sender     string         `json:"sender"`
	ParsedJSON map[string]any `json:"parsedJson"`
}

// EventID is the (transaction, sequence) cursor position of an event.
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// CoinMetadata is the registered metadata of a coin type.
type CoinMetadata struct {
	Decimals    uint8  `json:"decimals"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	ID          string `json:"id"`
}

// ExecutionStatus reports whether a transaction's effects succeeded.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Effects is the subset of transaction effects this tool inspects.
type Effects struct {
	Status  ExecutionStatus `json:"status"`
	GasUsed json.RawMessage `json:"gasUsed,omitempty"`
}

// ObjectChange is one created/mutated/deleted object in a transaction.
type ObjectChange struct {
	Type       string `json:"type"` // created | mutated | deleted | published | transferred
	ObjectType string `json:"objectType,omitempty"`
	ObjectID   string `json:"objectId,omitempty"`
	PackageID  string `json:"packageId,omitempty"`
	Sender     string `json:"sender,omitempty"`
	Version    string `json:"version,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

// BalanceChange is one coin balance delta caused by a transaction.
type BalanceChange struct {
	Owner    json.RawMessage `json:"owner"`
	CoinType string          `json:"coinType"`
	Amount   string          `json:"amount"`
}

// TransactionResponse is the full receipt of an executed (or dry-run)
// transaction. Raw preserves the node's exact response for receipt logs.
type TransactionResponse struct {
	Digest         string          `json:"digest,omitempty"`
	Effects        *Effects        `json:"effects,omitempty"`
	ObjectChanges  []ObjectChange  `json:"objectChanges,omitempty"`
	Events         []Event         `json:"events,omitempty"`
	BalanceChanges []BalanceChange `json:"balanceChanges,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Succeeded reports whether the effects carry a success status.
func (r *TransactionResponse) Succeeded() bool {
	return r != nil && r.Effects != nil && r.Effects.Status.Status == "success"
}

// CreatedObjects returns the object changes with type "created".
func (r *TransactionResponse) CreatedObjects() []ObjectChange {
	var out []ObjectChange
	for _, c := range r.ObjectChanges {
		if c.Type == "created" {
			out = append(out, c)
		}
	}
	return out
}

// RemoteRejectionError wraps a transaction the ledger executed and
// rejected at the contract level. The receipt is preserved verbatim.
type RemoteRejectionError struct {
	Digest   string
	Reason   string
	Response *TransactionResponse
}

func (e *RemoteRejectionError) Error() string {
	return fmt.Sprintf("transaction %s rejected by ledger: %s", e.Digest, e.Reason)
}

// MoveCallParams describes one Move call inside a transaction.
type MoveCallParams struct {
	PackageID string
	Module    string
	Function  string
	TypeArgs  []string
	Args      []any
}
