package plan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdashhq/webdash/pkg/plan"
)

func TestCatalogBaseEntitlement(t *testing.T) {
	t.Parallel()
	catalog := plan.Default()

	assert.Equal(t, 1, catalog.BaseEntitlement(plan.TypeFree))
	assert.Equal(t, 1, catalog.BaseEntitlement(plan.TypeBusiness))
	assert.Equal(t, 3, catalog.BaseEntitlement(plan.TypeAgency))
	assert.Equal(t, 10, catalog.BaseEntitlement(plan.TypeEnterprise))

	t.Run("unknown plan falls back to lowest tier", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1, catalog.BaseEntitlement(plan.Type("legacy-gold")))
		assert.False(t, catalog.Known(plan.Type("legacy-gold")))
	})
}

func TestNewCatalogValidation(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty catalog", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog()
		assert.ErrorIs(t, err, plan.ErrEmptyCatalog)
	})

	t.Run("rejects non-positive entitlement", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog(plan.Tier{Type: plan.TypeFree, BaseWebsites: 0})
		assert.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("rejects duplicate tiers", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog(
			plan.Tier{Type: plan.TypeAgency, BaseWebsites: 3},
			plan.Tier{Type: plan.TypeAgency, BaseWebsites: 5},
		)
		assert.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})
}

func TestTierByPriceID(t *testing.T) {
	t.Parallel()

	catalog, err := plan.NewCatalog(
		plan.Tier{Type: plan.TypeBusiness, BaseWebsites: 1, PriceID: "price_business"},
		plan.Tier{Type: plan.TypeAgency, BaseWebsites: 3, PriceID: "price_agency"},
	)
	require.NoError(t, err)

	tier, ok := catalog.TierByPriceID("price_agency")
	require.True(t, ok)
	assert.Equal(t, plan.TypeAgency, tier.Type)

	_, ok = catalog.TierByPriceID("price_unknown")
	assert.False(t, ok)
}

func TestLoadCatalogFile(t *testing.T) {
	t.Parallel()

	t.Run("loads tiers from yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "plans.yaml")
		doc := `tiers:
  - type: business
    name: Business
    base_websites: 1
    price_id: price_business_monthly
  - type: agency
    name: Agency
    base_websites: 3
    price_id: price_agency_monthly
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		catalog, err := plan.LoadCatalogFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, catalog.BaseEntitlement(plan.TypeAgency))

		tier, ok := catalog.Tier(plan.TypeBusiness)
		require.True(t, ok)
		assert.Equal(t, "price_business_monthly", tier.PriceID)
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()
		_, err := plan.LoadCatalogFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, plan.ErrFailedToLoadCatalog)
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		t.Parallel()
		catalog, err := plan.LoadCatalog("")
		require.NoError(t, err)
		assert.Equal(t, 10, catalog.BaseEntitlement(plan.TypeEnterprise))
	})
}
