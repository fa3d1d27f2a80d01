package entitlement

import "github.com/webdashhq/webdash/pkg/plan"

// Calculator computes website quotas from a plan catalog.
// All methods are pure; idempotence across repeated calls for the same
// transition is the caller's responsibility.
type Calculator struct {
	catalog *plan.Catalog
}

// NewCalculator creates a Calculator backed by the given catalog.
// Panics on a nil catalog to fail fast during initialization.
func NewCalculator(catalog *plan.Catalog) *Calculator {
	if catalog == nil {
		panic("entitlement: plan catalog is required")
	}
	return &Calculator{catalog: catalog}
}

// AdditionalPurchased infers how many add-on websites the user already owns
// from the currently stored limit and plan. The result is never negative:
// a stored limit below the plan's base entitlement yields zero.
//
// This derives the add-on count from a single stored integer rather than the
// authoritative add-on list; quota drift between the two is reconciled only
// when a plan or add-on change runs through the calculator again.
func (c *Calculator) AdditionalPurchased(currentLimit int, currentPlan plan.Type) int {
	extra := currentLimit - c.catalog.BaseEntitlement(currentPlan)
	if extra < 0 {
		return 0
	}
	return extra
}

// NewLimit computes the total quota after a transition to newPlan, carrying
// the given add-on count over. The result is never below the new plan's base
// entitlement.
func (c *Calculator) NewLimit(newPlan plan.Type, additionalPurchased int) int {
	if additionalPurchased < 0 {
		additionalPurchased = 0
	}
	return c.catalog.BaseEntitlement(newPlan) + additionalPurchased
}

// BaseEntitlement exposes the catalog's base entitlement lookup so callers
// holding a Calculator don't need the catalog as a second dependency.
func (c *Calculator) BaseEntitlement(t plan.Type) int {
	return c.catalog.BaseEntitlement(t)
}

// KnownPlan reports whether the plan type exists in the catalog.
func (c *Calculator) KnownPlan(t plan.Type) bool {
	return c.catalog.Known(t)
}
