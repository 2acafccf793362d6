// Package catalog holds the fixed, read-only collection of dataset records
// the chat engine matches against. The default catalog is compiled into the
// binary; deployments may load an equivalent set from DynamoDB instead.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"dataset-agent/internal/domain"
)

// DefaultPortalURL is the agency's general open-data portal, cited when an
// informational query matches no record.
const DefaultPortalURL = "https://medankota.bps.go.id"

// DefaultPortalTitle labels the portal citation.
const DefaultPortalTitle = "Portal Data BPS Kota Medan"

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is a validated, immutable set of dataset records. Construct one
// with New or Embedded; the zero value is empty.
type Catalog struct {
	records []domain.DatasetRecord
}

// New validates the given records and returns a Catalog holding a private
// copy of them. IDs must be unique and non-empty, categories must come from
// the fixed category list, and every record needs a title and URL.
func New(records []domain.DatasetRecord) (Catalog, error) {
	if len(records) == 0 {
		return Catalog{}, errors.New("catalog: records must not be empty")
	}

	known := make(map[domain.Category]struct{})
	for _, c := range domain.Categories() {
		known[c] = struct{}{}
	}

	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return Catalog{}, fmt.Errorf("catalog: record %d has an empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return Catalog{}, fmt.Errorf("catalog: duplicate record id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Title) == "" {
			return Catalog{}, fmt.Errorf("catalog: record %q has an empty title", r.ID)
		}
		if strings.TrimSpace(r.URL) == "" {
			return Catalog{}, fmt.Errorf("catalog: record %q has an empty url", r.ID)
		}
		if _, ok := known[r.Category]; !ok {
			return Catalog{}, fmt.Errorf("catalog: record %q has unknown category %q", r.ID, r.Category)
		}
	}

	cp := make([]domain.DatasetRecord, len(records))
	copy(cp, records)
	return Catalog{records: cp}, nil
}

// Embedded parses and validates the catalog compiled into the binary.
func Embedded() (Catalog, error) {
	var doc struct {
		Datasets []domain.DatasetRecord `yaml:"datasets"`
	}
	if err := yaml.Unmarshal(embeddedCatalog, &doc); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse embedded catalog: %w", err)
	}
	return New(doc.Datasets)
}

// Records returns a copy of the catalog in its fixed order.
func (c Catalog) Records() []domain.DatasetRecord {
	cp := make([]domain.DatasetRecord, len(c.records))
	copy(cp, c.records)
	return cp
}

// Len returns the number of records in the catalog.
func (c Catalog) Len() int {
	return len(c.records)
}
