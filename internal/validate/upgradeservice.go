package validate

import (
	"context"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/upgradeservice"
)

// UpgradeServiceValidator asserts a live upgrade service matches an
// expected-state document.
type UpgradeServiceValidator struct {
	client *upgradeservice.Client
}

// NewUpgradeServiceValidator creates a validator over a live wrapper.
func NewUpgradeServiceValidator(client *upgradeservice.Client) *UpgradeServiceValidator {
	return &UpgradeServiceValidator{client: client}
}

// Validate rebuilds the service's observable state and compares it
// field by field against expected.
func (v *UpgradeServiceValidator) Validate(ctx context.Context, expected *UpgradeServiceState) error {
	admin, err := v.client.GetAdmin(ctx)
	if err != nil {
		return err
	}
	if err := equalField("admin", expected.Admin, admin); err != nil {
		return err
	}

	pending, err := v.client.GetPendingAdmin(ctx)
	if err != nil {
		return err
	}
	if err := equalField("pendingAdmin", expected.PendingAdmin, pending); err != nil {
		return err
	}

	pkgID, err := v.client.GetUpgradeCapPackageID(ctx)
	if err != nil {
		return err
	}
	if err := equalField("packageId", expected.PackageID, pkgID); err != nil {
		return err
	}

	version, err := v.client.GetUpgradeCapVersion(ctx)
	if err != nil {
		return err
	}
	if err := equalField("version", expected.Version, version); err != nil {
		return err
	}

	policy, err := v.client.GetUpgradeCapPolicy(ctx)
	if err != nil {
		return err
	}
	return equalField("policy", expected.Policy, policy)
}
