package upgradeservice

import (
	"context"
	"fmt"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

const moduleName = "upgrade_service"

// Client wraps one on-chain UpgradeService object, which guards the
// upgrade capability for a single contract package. Admin transfer
// follows the same propose/accept pattern as treasury ownership.
type Client struct {
	rpc       *sui.Client
	pkgID     string
	serviceID string
	otwType   string
}

// TxOptions tunes how a mutation is submitted.
type TxOptions struct {
	DryRun    bool
	GasBudget uint64
}

// New builds a client for a known upgrade service object.
func New(ctx context.Context, rpc *sui.Client, serviceID string) (*Client, error) {
	obj, err := rpc.GetObject(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	tag, err := sui.ParseTypeTag(obj.Type)
	if err != nil {
		return nil, err
	}
	if tag.Module != moduleName || tag.Name != "UpgradeService" {
		return nil, fmt.Errorf("object %s is a %s, not an upgrade service", serviceID, obj.Type)
	}
	otw, err := tag.TypeParam()
	if err != nil {
		return nil, fmt.Errorf("upgrade service %s: %w", serviceID, err)
	}
	return &Client{rpc: rpc, pkgID: tag.Address, serviceID: serviceID, otwType: otw}, nil
}

// ServiceID returns the wrapped object id.
func (c *Client) ServiceID() string { return c.serviceID }

// --- mutations ---

// DepositUpgradeCap stores a package's UpgradeCap inside the service.
func (c *Client) DepositUpgradeCap(ctx context.Context, signer *keys.Keypair, upgradeCapID string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("deposit", c.serviceID, upgradeCapID))
}

// ChangeAdmin proposes a new admin. The change becomes active only
// after the matching AcceptAdmin call signed by the proposed key.
func (c *Client) ChangeAdmin(ctx context.Context, signer *keys.Keypair, newAdmin string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("change_admin", c.serviceID, newAdmin))
}

// AcceptAdmin promotes the pending admin to active.
func (c *Client) AcceptAdmin(ctx context.Context, signer *keys.Keypair, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("accept_admin", c.serviceID))
}

// --- reads ---

// GetAdmin reads the active admin address.
func (c *Client) GetAdmin(ctx context.Context) (string, error) {
	fields, err := c.adminFields(ctx)
	if err != nil {
		return "", err
	}
	return stringField(fields, "active_address")
}

// GetPendingAdmin reads the proposed admin, empty when none is pending.
func (c *Client) GetPendingAdmin(ctx context.Context) (string, error) {
	fields, err := c.adminFields(ctx)
	if err != nil {
		return "", err
	}
	return optionalAddress(fields, "pending_address")
}

// GetUpgradeCapPackageID reads the wrapped package id.
func (c *Client) GetUpgradeCapPackageID(ctx context.Context) (string, error) {
	fields, err := c.capFields(ctx)
	if err != nil {
		return "", err
	}
	return stringField(fields, "package")
}

// GetUpgradeCapVersion reads the wrapped package version.
func (c *Client) GetUpgradeCapVersion(ctx context.Context) (string, error) {
	fields, err := c.capFields(ctx)
	if err != nil {
		return "", err
	}
	return stringField(fields, "version")
}

// GetUpgradeCapPolicy reads the wrapped package's upgrade policy code.
func (c *Client) GetUpgradeCapPolicy(ctx context.Context) (uint8, error) {
	fields, err := c.capFields(ctx)
	if err != nil {
		return 0, err
	}
	raw, ok := fields["policy"]
	if !ok {
		return 0, fmt.Errorf("missing field %q", "policy")
	}
	n, ok := raw.(float64)
	if !ok || n < 0 || n > 255 {
		return 0, fmt.Errorf("field %q: not a policy byte (%v)", "policy", raw)
	}
	return uint8(n), nil
}

// --- internal ---

func (c *Client) moveCall(fn string, args ...any) sui.MoveCallParams {
	return sui.MoveCallParams{
		PackageID: c.pkgID,
		Module:    moduleName,
		Function:  fn,
		TypeArgs:  []string{c.otwType},
		Args:      args,
	}
}

func (c *Client) execute(ctx context.Context, signer *keys.Keypair, opts TxOptions, call sui.MoveCallParams) (*sui.TransactionResponse, error) {
	txBytes, err := c.rpc.MoveCall(ctx, signer.Address(), call, opts.GasBudget)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return c.rpc.DryRun(ctx, txBytes)
	}
	sig, err := signer.SignTransaction(txBytes)
	if err != nil {
		return nil, err
	}
	return c.rpc.Execute(ctx, txBytes, []string{sig})
}

func (c *Client) serviceFields(ctx context.Context) (map[string]any, error) {
	obj, err := c.rpc.GetObject(ctx, c.serviceID)
	if err != nil {
		return nil, err
	}
	fields := obj.Fields()
	if fields == nil {
		return nil, fmt.Errorf("upgrade service %s has no content", c.serviceID)
	}
	return fields, nil
}

func (c *Client) adminFields(ctx context.Context) (map[string]any, error) {
	fields, err := c.serviceFields(ctx)
	if err != nil {
		return nil, err
	}
	return nestedFields(fields, "admin")
}

func (c *Client) capFields(ctx context.Context) (map[string]any, error) {
	fields, err := c.serviceFields(ctx)
	if err != nil {
		return nil, err
	}
	return nestedFields(fields, "upgrade_cap")
}

// --- field primitives (upgrade service layout only) ---

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
