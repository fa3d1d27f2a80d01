package plan

import "sort"

// Type identifies a subscription plan tier.
type Type string

const (
	TypeFree       Type = "free"
	TypeBusiness   Type = "business"
	TypeAgency     Type = "agency"
	TypeEnterprise Type = "enterprise"
)

// Tier describes a plan tier and its base website entitlement.
// PriceID and ProductID map the tier to the payment provider's objects so
// checkout and webhook processing can resolve tiers directly.
type Tier struct {
	Type         Type   `yaml:"type"`
	Name         string `yaml:"name"`
	BaseWebsites int    `yaml:"base_websites"`
	PriceID      string `yaml:"price_id"`
	ProductID    string `yaml:"product_id"`
}

// Catalog is a static lookup from plan type to tier definition.
type Catalog struct {
	tiers map[Type]Tier
}

// NewCatalog builds a catalog from the given tiers.
// Returns ErrInvalidCatalog when a tier has a non-positive entitlement or a
// duplicate type, and ErrEmptyCatalog when no tiers are given.
func NewCatalog(tiers ...Tier) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyCatalog
	}
	m := make(map[Type]Tier, len(tiers))
	for _, tier := range tiers {
		if tier.Type == "" || tier.BaseWebsites <= 0 {
			return nil, ErrInvalidCatalog
		}
		if _, exists := m[tier.Type]; exists {
			return nil, ErrInvalidCatalog
		}
		m[tier.Type] = tier
	}
	return &Catalog{tiers: m}, nil
}

// Default returns the built-in WebDash catalog.
func Default() *Catalog {
	catalog, err := NewCatalog(
		Tier{Type: TypeFree, Name: "Free", BaseWebsites: 1},
		Tier{Type: TypeBusiness, Name: "Business", BaseWebsites: 1},
		Tier{Type: TypeAgency, Name: "Agency", BaseWebsites: 3},
		Tier{Type: TypeEnterprise, Name: "Enterprise", BaseWebsites: 10},
	)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Known reports whether the plan type exists in the catalog.
// Callers use this to log a warning before relying on the fallback.
func (c *Catalog) Known(t Type) bool {
	_, ok := c.tiers[t]
	return ok
}

// BaseEntitlement returns the base website entitlement for a plan type.
// Unknown plan types fall back to the lowest tier's entitlement.
func (c *Catalog) BaseEntitlement(t Type) int {
	if tier, ok := c.tiers[t]; ok {
		return tier.BaseWebsites
	}
	return c.lowestEntitlement()
}

// Tier returns the full tier definition for a plan type.
func (c *Catalog) Tier(t Type) (Tier, bool) {
	tier, ok := c.tiers[t]
	return tier, ok
}

// TierByPriceID resolves a tier from the payment provider's price ID.
func (c *Catalog) TierByPriceID(priceID string) (Tier, bool) {
	for _, tier := range c.tiers {
		if tier.PriceID != "" && tier.PriceID == priceID {
			return tier, true
		}
	}
	return Tier{}, false
}

// Types returns all known plan types in deterministic order.
func (c *Catalog) Types() []Type {
	out := make([]Type, 0, len(c.tiers))
	for t := range c.tiers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Catalog) lowestEntitlement() int {
	lowest := 0
	for _, tier := range c.tiers {
		if lowest == 0 || tier.BaseWebsites < lowest {
			lowest = tier.BaseWebsites
		}
	}
	return lowest
}
