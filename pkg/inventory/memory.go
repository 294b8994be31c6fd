package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novellea/novellea-api/pkg/models"
)

// MemoryLedger is a mutex-guarded in-process Ledger. It backs tests and local
// development runs without a database; the Mongo ledger is the durable twin.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]*models.Inventory
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]*models.Inventory)}
}

func (l *MemoryLedger) AddOrUpdateStock(ctx context.Context, productID string, delta int) (*models.Inventory, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", models.ErrValidation)
	}
	if delta < 0 {
		return nil, fmt.Errorf("%w: replenishment delta must be non-negative", models.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok {
		rec = &models.Inventory{ProductID: productID}
		l.records[productID] = rec
	}
	rec.AvailableQuantity += delta
	rec.LastUpdated = time.Now()

	copied := *rec
	return &copied, nil
}

func (l *MemoryLedger) IsInStock(ctx context.Context, productID string, required int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok {
		return false, nil
	}
	return rec.AvailableQuantity >= required, nil
}

func (l *MemoryLedger) ReduceStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok || rec.AvailableQuantity < quantity {
		return fmt.Errorf("%w: product %s", models.ErrInsufficientStock, productID)
	}
	rec.AvailableQuantity -= quantity
	rec.LastUpdated = time.Now()
	return nil
}

func (l *MemoryLedger) RestoreStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok {
		rec = &models.Inventory{ProductID: productID}
		l.records[productID] = rec
	}
	rec.AvailableQuantity += quantity
	rec.LastUpdated = time.Now()
	return nil
}

func (l *MemoryLedger) GetStock(ctx context.Context, productID string) (*models.Inventory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, productID)
	}
	copied := *rec
	return &copied, nil
}

func (l *MemoryLedger) ListStock(ctx context.Context) ([]models.Inventory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Inventory, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	return out, nil
}
