package inventory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novellea/novellea-api/pkg/models"
)

func TestLedgerBalance(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	_, err := ledger.AddOrUpdateStock(ctx, "book-1", 10)
	require.NoError(t, err)

	require.NoError(t, ledger.ReduceStock(ctx, "book-1", 4))
	require.NoError(t, ledger.RestoreStock(ctx, "book-1", 2))
	require.NoError(t, ledger.ReduceStock(ctx, "book-1", 3))

	rec, err := ledger.GetStock(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 10-4+2-3, rec.AvailableQuantity)
}

func TestReduceStockNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	_, err := ledger.AddOrUpdateStock(ctx, "book-1", 3)
	require.NoError(t, err)

	err = ledger.ReduceStock(ctx, "book-1", 4)
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	// A failed reduction must leave the balance untouched.
	rec, err := ledger.GetStock(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.AvailableQuantity)
}

func TestReduceStockMissingProduct(t *testing.T) {
	ledger := NewMemoryLedger()
	err := ledger.ReduceStock(context.Background(), "ghost", 1)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestIsInStock(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	ok, err := ledger.IsInStock(ctx, "ghost", 1)
	require.NoError(t, err)
	assert.False(t, ok, "missing record must read as out of stock, not as an error")

	_, err = ledger.AddOrUpdateStock(ctx, "book-1", 5)
	require.NoError(t, err)

	ok, _ = ledger.IsInStock(ctx, "book-1", 5)
	assert.True(t, ok)
	ok, _ = ledger.IsInStock(ctx, "book-1", 6)
	assert.False(t, ok)
}

func TestRestoreStockCreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	require.NoError(t, ledger.RestoreStock(ctx, "book-1", 7))

	rec, err := ledger.GetStock(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.AvailableQuantity)
}

func TestReplenishmentRejectsNegativeDelta(t *testing.T) {
	ledger := NewMemoryLedger()
	_, err := ledger.AddOrUpdateStock(context.Background(), "book-1", -1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestConcurrentReduceExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	_, err := ledger.AddOrUpdateStock(ctx, "book-1", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var successes, failures atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.ReduceStock(ctx, "book-1", 5); err == nil {
				successes.Add(1)
			} else {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(1), failures.Load())
}

func TestConcurrentReduceUnderLoad(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	const initial = 100
	_, err := ledger.AddOrUpdateStock(ctx, "book-1", initial)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.ReduceStock(ctx, "book-1", 1); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	rec, err := ledger.GetStock(ctx, "book-1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rec.AvailableQuantity, 0)
	assert.Equal(t, initial-int(successes.Load()), rec.AvailableQuantity)
	assert.Equal(t, int32(initial), successes.Load(), "exactly the initial stock can be sold")
}
