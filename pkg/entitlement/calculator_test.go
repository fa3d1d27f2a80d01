package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webdashhq/webdash/pkg/entitlement"
	"github.com/webdashhq/webdash/pkg/plan"
)

func newCalculator(t *testing.T) *entitlement.Calculator {
	t.Helper()
	return entitlement.NewCalculator(plan.Default())
}

func TestAdditionalPurchased(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	tests := []struct {
		name         string
		currentLimit int
		currentPlan  plan.Type
		want         int
	}{
		{"limit equals base", 1, plan.TypeBusiness, 0},
		{"one add-on on business", 2, plan.TypeBusiness, 1},
		{"three add-ons on agency", 6, plan.TypeAgency, 3},
		{"limit below base clamps to zero", 1, plan.TypeAgency, 0},
		{"zero limit clamps to zero", 0, plan.TypeBusiness, 0},
		{"unknown plan uses lowest tier base", 4, plan.Type("mystery"), 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, calc.AdditionalPurchased(tt.currentLimit, tt.currentPlan))
		})
	}
}

func TestNewLimit(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	tests := []struct {
		name       string
		newPlan    plan.Type
		additional int
		want       int
	}{
		{"agency with one add-on", plan.TypeAgency, 1, 4},
		{"enterprise with none", plan.TypeEnterprise, 0, 10},
		{"negative add-ons clamp to base", plan.TypeBusiness, -5, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, calc.NewLimit(tt.newPlan, tt.additional))
		})
	}
}

// Upgrade from business (base=1, one add-on) to agency (base=3) carries the
// add-on over: the scenario from the billing routes.
func TestUpgradeCarriesAddOns(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	additional := calc.AdditionalPurchased(2, plan.TypeBusiness)
	assert.Equal(t, 1, additional)

	newLimit := calc.NewLimit(plan.TypeAgency, additional)
	assert.Equal(t, 4, newLimit)
}

// Result is never below the target plan's base entitlement for any stored
// limit, including corrupt ones.
func TestNewLimitNeverBelowBase(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	for _, storedLimit := range []int{-10, 0, 1, 2, 5, 100} {
		for _, from := range []plan.Type{plan.TypeFree, plan.TypeBusiness, plan.TypeAgency, plan.TypeEnterprise} {
			for _, to := range []plan.Type{plan.TypeFree, plan.TypeBusiness, plan.TypeAgency, plan.TypeEnterprise} {
				got := calc.NewLimit(to, calc.AdditionalPurchased(storedLimit, from))
				assert.GreaterOrEqual(t, got, calc.BaseEntitlement(to),
					"limit %d from %s to %s", storedLimit, from, to)
			}
		}
	}
}
