package inventory

import (
	"context"

	"github.com/novellea/novellea-api/pkg/models"
)

// Ledger owns per-product available stock. ReduceStock is the one mutation
// that must be an atomic read-modify-write: two concurrent reductions against
// the same product must never both pass the sufficiency check.
type Ledger interface {
	// AddOrUpdateStock replenishes a product, lazily creating the record at
	// zero before applying delta. Delta must be non-negative.
	AddOrUpdateStock(ctx context.Context, productID string, delta int) (*models.Inventory, error)

	// IsInStock reports whether available stock covers the required quantity.
	// A missing record means "not in stock", not an error.
	IsInStock(ctx context.Context, productID string, required int) (bool, error)

	// ReduceStock atomically subtracts quantity. Fails with
	// models.ErrInsufficientStock when no record exists or stock would go
	// negative.
	ReduceStock(ctx context.Context, productID string, quantity int) error

	// RestoreStock is the inverse of ReduceStock. It always succeeds for a
	// valid quantity, creating the record if it is somehow absent.
	RestoreStock(ctx context.Context, productID string, quantity int) error

	// GetStock returns the record for one product or models.ErrProductNotFound.
	GetStock(ctx context.Context, productID string) (*models.Inventory, error)

	// ListStock returns every inventory record.
	ListStock(ctx context.Context) ([]models.Inventory, error)
}
