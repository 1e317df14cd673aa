package treasury

import (
	"context"
	"fmt"
	"math/big"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/keys"
	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

const moduleName = "treasury"

// Client wraps one on-chain Treasury object and the deny list it is
// governed by. All mutations sign with the caller-provided keypair and
// return the full transaction receipt; reads decode the remote object
// layout through the decoder in decode.go.
type Client struct {
	rpc        *sui.Client
	pkgID      string
	treasuryID string
	denyListID string
	coinType   string
}

// TxOptions tunes how a mutation is submitted.
type TxOptions struct {
	// DryRun simulates the transaction instead of submitting it. The
	// effects preview is materially identical; nothing is persisted.
	DryRun    bool
	GasBudget uint64
}

// MigrationAction is one of the migration state-machine actions. The
// transition itself is enforced by the contract; this client only
// issues the action.
type MigrationAction string

// Migration actions.
const (
	MigrationStart    MigrationAction = "start"
	MigrationAbort    MigrationAction = "abort"
	MigrationComplete MigrationAction = "complete"
)

// New builds a client for a known treasury object, resolving the coin
// type from the object's own type tag.
func New(ctx context.Context, rpc *sui.Client, treasuryID, denyListID string) (*Client, error) {
	obj, err := rpc.GetObject(ctx, treasuryID)
	if err != nil {
		return nil, err
	}
	tag, err := sui.ParseTypeTag(obj.Type)
	if err != nil {
		return nil, err
	}
	if tag.Module != moduleName || tag.Name != "Treasury" {
		return nil, fmt.Errorf("object %s is a %s, not a treasury", treasuryID, obj.Type)
	}
	coinType, err := tag.TypeParam()
	if err != nil {
		return nil, fmt.Errorf("treasury %s: %w", treasuryID, err)
	}
	return &Client{
		rpc:        rpc,
		pkgID:      tag.Address,
		treasuryID: treasuryID,
		denyListID: denyListID,
		coinType:   coinType,
	}, nil
}

// FromPublishResponse builds a client from a deployment receipt by
// scanning its created objects for exactly one Treasury. Zero or more
// than one match is an error.
func FromPublishResponse(ctx context.Context, rpc *sui.Client, resp *sui.TransactionResponse, denyListID string) (*Client, error) {
	var matches []sui.ObjectChange
	for _, c := range resp.CreatedObjects() {
		tag, err := sui.ParseTypeTag(c.ObjectType)
		if err != nil {
			continue // created objects of foreign shape are not candidates
		}
		if tag.Module == moduleName && tag.Name == "Treasury" {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("expected exactly 1 created treasury object, found %d", len(matches))
	}
	return New(ctx, rpc, matches[0].ObjectID, denyListID)
}

// CoinType returns the coin type tag this treasury governs.
func (c *Client) CoinType() string { return c.coinType }

// TreasuryID returns the wrapped treasury object id.
func (c *Client) TreasuryID() string { return c.treasuryID }

// PackageID returns the package implementing the treasury module.
func (c *Client) PackageID() string { return c.pkgID }

// --- mutations ---

// ConfigureNewController creates a fresh mint authorization for minter
// and binds controller to it.
func (c *Client) ConfigureNewController(ctx context.Context, signer *keys.Keypair, controller, minter string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("configure_new_controller",
		c.treasuryID, controller, minter))
}

// RemoveController revokes a controller's binding. The mint
// authorization it pointed at survives.
func (c *Client) RemoveController(ctx context.Context, signer *keys.Keypair, controller string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("remove_controller",
		c.treasuryID, controller))
}

// SetMintAllowance sets the allowance of the mint authorization the
// signing controller manages. The value is in the coin's smallest unit.
func (c *Client) SetMintAllowance(ctx context.Context, signer *keys.Keypair, allowance *big.Int, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("configure_minter",
		c.treasuryID, c.denyListID, allowance.String()))
}

// Mint mints amount to recipient against the given mint authorization.
func (c *Client) Mint(ctx context.Context, signer *keys.Keypair, mintCapID string, amount *big.Int, recipient string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("mint",
		c.treasuryID, mintCapID, c.denyListID, amount.String(), recipient))
}

// SetBlocklistState adds or removes an address from the blocklist. The
// change lands in the next-epoch value first (see IsBlocklisted).
func (c *Client) SetBlocklistState(ctx context.Context, signer *keys.Keypair, addr string, blocked bool, opts TxOptions) (*sui.TransactionResponse, error) {
	fn := "blocklist"
	if !blocked {
		fn = "unblocklist"
	}
	return c.execute(ctx, signer, opts, c.moveCall(fn,
		c.treasuryID, c.denyListID, addr))
}

// SetPausedState pauses or unpauses the coin. The change lands in the
// next-epoch value first (see IsPaused).
func (c *Client) SetPausedState(ctx context.Context, signer *keys.Keypair, paused bool, opts TxOptions) (*sui.TransactionResponse, error) {
	fn := "pause"
	if !paused {
		fn = "unpause"
	}
	return c.execute(ctx, signer, opts, c.moveCall(fn,
		c.treasuryID, c.denyListID))
}

// RotateController moves the mint authorization held under oldController
// to newController in one atomic transaction: either the new binding is
// created and the old one removed, or neither happens. Fails before any
// submission when oldController has no authorization to move.
func (c *Client) RotateController(ctx context.Context, signer *keys.Keypair, oldController, newController string, opts TxOptions) (*sui.TransactionResponse, error) {
	mintCapID, found, err := c.GetMintCapID(ctx, oldController)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("controller %s has no mint authorization to rotate", oldController)
	}
	return c.execute(ctx, signer, opts,
		c.moveCall("configure_controller", c.treasuryID, newController, mintCapID),
		c.moveCall("remove_controller", c.treasuryID, oldController),
	)
}

// UpdateMetadata rewrites the coin metadata record.
func (c *Client) UpdateMetadata(ctx context.Context, signer *keys.Keypair, metadataID, name, symbol, description, iconURL string, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("update_metadata",
		c.treasuryID, metadataID, name, symbol, description, iconURL))
}

// RoleUpdates names the privileged role holders to replace. Empty
// fields are left untouched.
type RoleUpdates struct {
	MasterMinter    string
	Blocklister     string
	Pauser          string
	MetadataUpdater string
	// Owner proposes a new owner; it becomes active only after the
	// matching AcceptTreasuryOwner call by the proposed key.
	Owner string
}

// RotatePrivilegedRoles applies every requested role change as a single
// atomic transaction.
func (c *Client) RotatePrivilegedRoles(ctx context.Context, signer *keys.Keypair, updates RoleUpdates, opts TxOptions) (*sui.TransactionResponse, error) {
	var calls []sui.MoveCallParams
	for fn, addr := range map[string]string{
		"update_master_minter":    updates.MasterMinter,
		"update_blocklister":      updates.Blocklister,
		"update_pauser":           updates.Pauser,
		"update_metadata_updater": updates.MetadataUpdater,
		"transfer_ownership":      updates.Owner,
	} {
		if addr != "" {
			calls = append(calls, c.moveCall(fn, c.treasuryID, addr))
		}
	}
	if len(calls) == 0 {
		return nil, fmt.Errorf("no role updates requested")
	}
	return c.execute(ctx, signer, opts, calls...)
}

// AcceptTreasuryOwner promotes the pending owner to active. Must be
// signed by the pending owner's key.
func (c *Client) AcceptTreasuryOwner(ctx context.Context, signer *keys.Keypair, opts TxOptions) (*sui.TransactionResponse, error) {
	return c.execute(ctx, signer, opts, c.moveCall("accept_ownership", c.treasuryID))
}

// UpgradeMigration issues one migration state-machine action. Callers
// re-read the compatible-version list afterwards to confirm the
// transition took effect.
func (c *Client) UpgradeMigration(ctx context.Context, signer *keys.Keypair, action MigrationAction, opts TxOptions) (*sui.TransactionResponse, error) {
	var fn string
	switch action {
	case MigrationStart:
		fn = "start_migration"
	case MigrationAbort:
		fn = "abort_migration"
	case MigrationComplete:
		fn = "complete_migration"
	default:
		return nil, fmt.Errorf("unknown migration action %q", action)
	}
	return c.execute(ctx, signer, opts, c.moveCall(fn, c.treasuryID))
}

// --- internal ---

func (c *Client) moveCall(fn string, args ...any) sui.MoveCallParams {
	return sui.MoveCallParams{
		PackageID: c.pkgID,
		Module:    moduleName,
		Function:  fn,
		TypeArgs:  []string{c.coinType},
		Args:      args,
	}
}

// execute builds one transaction from the calls (a multi-call batch is
// atomic at the ledger), then dry-runs or signs and submits it.
func (c *Client) execute(ctx context.Context, signer *keys.Keypair, opts TxOptions, calls ...sui.MoveCallParams) (*sui.TransactionResponse, error) {
	var (
		txBytes string
		err     error
	)
	if len(calls) == 1 {
		txBytes, err = c.rpc.MoveCall(ctx, signer.Address(), calls[0], opts.GasBudget)
	} else {
		txBytes, err = c.rpc.BatchTransaction(ctx, signer.Address(), calls, opts.GasBudget)
	}
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
