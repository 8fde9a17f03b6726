package services

import (
	"fmt"

	"github.com/diewo77/go-pharmacy/internal/models"
)

// Line item bounds enforced before anything is sent to the backend.
const (
	MinQuotationItems    = 1
	MaxQuotationItems    = 10
	MaxPrescriptionItems = 10
)

// Catalog indexes drugs by id.
type Catalog map[string]models.Drug

// NewCatalog builds a catalog from a drug list.
func NewCatalog(drugs []models.Drug) Catalog {
	c := make(Catalog, len(drugs))
	for _, d := range drugs {
		c[d.ID] = d
	}
	return c
}

// ComputeTotal returns the sum of amount*quantity over items, priced from the
// catalog. Embedded drug prices on the items are ignored.
func ComputeTotal(items []models.LineItem, catalog Catalog) (float64, error) {
	var total float64
	for _, it := range items {
		d, ok := catalog[it.Drug.ID]
		if !ok {
			return 0, fmt.Errorf("drug %q: %w", it.Drug.ID, ErrUnknownDrug)
		}
		total += d.Amount * float64(it.Quantity)
	}
	return total, nil
}

// CheckItems validates count bounds and quantities.
func CheckItems(items []models.LineItem, min, max int) error {
	if len(items) < min || len(items) > max {
		return fmt.Errorf("%d items, want %d..%d: %w", len(items), min, max, ErrLineItemCount)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("drug %q: %w", it.Drug.ID, ErrInvalidQuantity)
		}
	}
	return nil
}
