package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal JSON-RPC client for a Sui full node. It covers
// exactly the read, event-query, dry-run and execution surface the
// operator commands need.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client pointed at a full node RPC endpoint.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string { return c.url }

// GetObject reads one object with type, owner and content.
func (c *Client) GetObject(ctx context.Context, id string) (*ObjectData, error) {
	raw, err := c.call(ctx, "sui_getObject", id, objectOptions())
	if err != nil {
		return nil, err
	}
	return decodeObjectResponse(raw, id)
}

// GetDynamicFields enumerates every entry of an on-chain Table by
// following the pagination cursor until the node reports no more pages.
func (c *Client) GetDynamicFields(ctx context.Context, parentID string) ([]DynamicFieldInfo, error) {
	var (
		all    []DynamicFieldInfo
		cursor any
	)
	for {
		raw, err := c.call(ctx, "suix_getDynamicFields", parentID, cursor, nil)
		if err != nil {
			return nil, err
		}
		var page struct {
			Data        []DynamicFieldInfo `json:"data"`
			NextCursor  json.RawMessage    `json:"nextCursor"`
			HasNextPage bool               `json:"hasNextPage"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("parsing dynamic fields page: %w", err)
		}
		all = append(all, page.Data...)
		if !page.HasNextPage {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// GetDynamicFieldObject resolves one Table entry by key. A missing key
// is reported as found=false, distinct from a transport error.
func (c *Client) GetDynamicFieldObject(ctx context.Context, parentID string, name DynamicFieldName) (*ObjectData, bool, error) {
	raw, err := c.call(ctx, "suix_getDynamicFieldObject", parentID, name)
	if err != nil {
		return nil, false, err
	}

	var resp struct {
		Data  *ObjectData `json:"data"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("parsing dynamic field response: %w", err)
	}
	if resp.Error != nil {
		if resp.Error.Code == "dynamicFieldNotFound" || resp.Error.Code == "notExists" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading dynamic field of %s: %s", parentID, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, false, fmt.Errorf("empty dynamic field response for %s", parentID)
	}
	return resp.Data, true, nil
}

// QueryEvents replays every event of one Move event type in emission
// order, following the cursor across pages.
func (c *Client) QueryEvents(ctx context.Context, eventType string) ([]Event, error) {
	query := map[string]any{"MoveEventType": eventType}
	var (
		all    []Event
		cursor any
	)
	for {
		raw, err := c.call(ctx, "suix_queryEvents", query, cursor, nil, false)
		if err != nil {
			return nil, err
		}
		var page struct {
			Data        []Event         `json:"data"`
			NextCursor  json.RawMessage `json:"nextCursor"`
			HasNextPage bool            `json:"hasNextPage"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("parsing events page: %w", err)
		}
		all = append(all, page.Data...)
		if !page.HasNextPage {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// GetTotalSupply returns the total minted supply of a coin type, in the
// coin's smallest unit.
func (c *Client) GetTotalSupply(ctx context.Context, coinType string) (string, error) {
	raw, err := c.call(ctx, "suix_getTotalSupply", coinType)
	if err != nil {
		return "", err
	}
	var resp struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parsing total supply: %w", err)
	}
	return resp.Value, nil
}

// GetCoinMetadata returns the registered metadata of a coin type.
func (c *Client) GetCoinMetadata(ctx context.Context, coinType string) (*CoinMetadata, error) {
	raw, err := c.call(ctx, "suix_getCoinMetadata", coinType)
	if err != nil {
		return nil, err
	}
	var meta CoinMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parsing coin metadata: %w", err)
	}
	return &meta, nil
}

// MoveCall asks the node to build an unsigned single-call transaction.
func (c *Client) MoveCall(ctx context.Context, signer string, call MoveCallParams, gasBudget uint64) (string, error) {
	raw, err := c.call(ctx, "unsafe_moveCall",
		signer, call.PackageID, call.Module, call.Function,
		emptyIfNil(call.TypeArgs), emptyArgsIfNil(call.Args),
		nil, fmt.Sprintf("%d", gasBudget))
	if err != nil {
		return "", err
	}
	return decodeTxBytes(raw)
}

// BatchTransaction asks the node to build one unsigned transaction
// containing every call, executed atomically by the ledger.
func (c *Client) BatchTransaction(ctx context.Context, signer string, calls []MoveCallParams, gasBudget uint64) (string, error) {
	params := make([]map[string]any, 0, len(calls))
	for _, call := range calls {
		params = append(params, map[string]any{
			"moveCallRequestParams": map[string]any{
				"packageObjectId": call.PackageID,
				"module":          call.Module,
				"function":        call.Function,
				"typeArguments":   emptyIfNil(call.TypeArgs),
				"arguments":       emptyArgsIfNil(call.Args),
			},
		})
	}
	raw, err := c.call(ctx, "unsafe_batchTransaction",
		signer, params, nil, fmt.Sprintf("%d", gasBudget))
	if err != nil {
		return "", err
	}
	return decodeTxBytes(raw)
}

// Publish asks the node to build an unsigned publish transaction from
// precompiled module bytecode (base64) and dependency package ids.
func (c *Client) Publish(ctx context.Context, signer string, modulesB64, dependencies []string, gasBudget uint64) (string, error) {
	raw, err := c.call(ctx, "unsafe_publish",
		signer, modulesB64, dependencies, nil, fmt.Sprintf("%d", gasBudget))
	if err != nil {
		return "", err
	}
	return decodeTxBytes(raw)
}

// DryRun simulates a transaction and returns its effects preview.
// Nothing is persisted on the ledger.
func (c *Client) DryRun(ctx context.Context, txBytesB64 string) (*TransactionResponse, error) {
	raw, err := c.call(ctx, "sui_dryRunTransactionBlock", txBytesB64)
	if err != nil {
		return nil, err
	}
	return decodeTransactionResponse(raw)
}

// Execute submits a signed transaction and waits for local execution.
// A transaction the ledger executed but rejected at the contract level
// is returned as a RemoteRejectionError wrapping the full receipt.
func (c *Client) Execute(ctx context.Context, txBytesB64 string, signatures []string) (*TransactionResponse, error) {
	raw, err := c.call(ctx, "sui_executeTransactionBlock",
		txBytesB64, signatures, executeOptions(), "WaitForLocalExecution")
	if err != nil {
		return nil, err
	}
	resp, err := decodeTransactionResponse(raw)
	if err != nil {
		return nil, err
	}
	if resp.Effects != nil && resp.Effects.Status.Status != "success" {
		return resp, &RemoteRejectionError{
			Digest:   resp.Digest,
			Reason:   resp.Effects.Status.Error,
			Response: resp,
		}
	}
	return resp, nil
}

// --- internal ---

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", method, err)
	}
	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

func objectOptions() map[string]bool {
	return map[string]bool{
		"showType":    true,
		"showOwner":   true,
		"showContent": true,
	}
}

func executeOptions() map[string]bool {
	return map[string]bool{
		"showEffects":        true,
		"showObjectChanges":  true,
		"showEvents":         true,
		"showBalanceChanges": true,
	}
}

func decodeObjectResponse(raw json.RawMessage, id string) (*ObjectData, error) {
	var resp struct {
		Data  *ObjectData `json:"data"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing object response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("reading object %s: %s", id, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("empty object response for %s", id)
	}
	return resp.Data, nil
}

func decodeTxBytes(raw json.RawMessage) (string, error) {
	var resp struct {
		TxBytes string `json:"txBytes"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parsing transaction bytes: %w", err)
	}
	if resp.TxBytes == "" {
		return "", fmt.Errorf("node returned no transaction bytes")
	}
	return resp.TxBytes, nil
}

func decodeTransactionResponse(raw json.RawMessage) (*TransactionResponse, error) {
	var resp TransactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing transaction response: %w", err)
	}
	resp.Raw = raw
	return &resp, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyArgsIfNil(s []any) []any {
	if s == nil {
		return []any{}
	}
	return s
}
