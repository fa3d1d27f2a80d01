package plan

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile mirrors the on-disk catalog document.
type catalogFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadCatalogFile reads a tier catalog from a YAML file.
//
// Example document:
//
//	tiers:
//	  - type: business
//	    name: Business
//	    base_websites: 1
//	    price_id: price_business_monthly
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	return NewCatalog(file.Tiers...)
}

// LoadCatalog returns the catalog from the configured YAML path, or the
// built-in defaults when no path is configured.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadCatalogFile(path)
}
