package treasury

import "context"

// ReconcileState classifies a remote value against the value an
// idempotent configuration step wants to install. Commands branch on it
// uniformly: Absent means perform the step, PresentMatching means skip
// it, PresentConflicting means abort before any submission.
type ReconcileState int

// Reconciliation outcomes.
const (
	Absent ReconcileState = iota
	PresentMatching
	PresentConflicting
)

func (s ReconcileState) String() string {
	switch s {
	case Absent:
		return "absent"
	case PresentMatching:
		return "present-matching"
	case PresentConflicting:
		return "present-conflicting"
	default:
		return "unknown"
	}
}

// Reconcile classifies one remote value. found reports whether the
// remote side holds any value at all.
func Reconcile(found bool, current, want string) ReconcileState {
	switch {
	case !found:
		return Absent
	case current == want:
		return PresentMatching
	default:
		return PresentConflicting
	}
}

// ControllerState classifies controller's binding against the desired
// minter: Absent when the controller is unconfigured, PresentMatching
// when its mint authorization is already held by minter, and
// PresentConflicting when it is held by someone else.
func (c *Client) ControllerState(ctx context.Context, controller, minter string) (ReconcileState, error) {
	mintCapID, found, err := c.GetMintCapID(ctx, controller)
	if err != nil {
		return Absent, err
	}
	if !found {
		return Absent, nil
	}
	owner, err := c.GetObjectOwner(ctx, mintCapID)
	if err != nil {
		return Absent, err
	}
	return Reconcile(true, owner.AddressOwner, minter), nil
}
