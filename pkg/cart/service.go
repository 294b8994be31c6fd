package cart

import (
	"context"
	"fmt"

	"github.com/novellea/novellea-api/pkg/models"
)

// Store is the keyed persistence behind a user's basket. Item identity is
// (user_id, book_id); ReplaceCart must be atomic so a concurrent reader never
// observes the transient empty cart between clear and insert.
type Store interface {
	UpsertItem(ctx context.Context, item models.CartItem) error
	GetItem(ctx context.Context, userID int64, bookID string) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID int64, bookID string) error
	GetUserCart(ctx context.Context, userID int64) ([]models.CartItem, error)
	CountItems(ctx context.Context, userID int64) (int, error)
	ReplaceCart(ctx context.Context, userID int64, items []models.CartItem) error
	ClearCart(ctx context.Context, userID int64) error
}

// Service enforces the cart's semantics on top of a Store: one line per
// (user, book) with quantities merged on repeated adds, and last-sync-wins
// wholesale replacement.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddItem adds a book to the user's cart, merging with an existing line for
// the same book.
func (s *Service) AddItem(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if existing, err := s.store.GetItem(ctx, item.UserID, item.BookID); err == nil {
		item.Quantity += existing.Quantity
	}

	if err := s.store.UpsertItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem sets the absolute quantity of an existing cart line.
func (s *Service) UpdateItem(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if _, err := s.store.GetItem(ctx, item.UserID, item.BookID); err != nil {
		return nil, err
	}

	if err := s.store.UpsertItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID int64, bookID string) error {
	if userID <= 0 || bookID == "" {
		return fmt.Errorf("%w: user id and book id are required", models.ErrValidation)
	}
	return s.store.RemoveItem(ctx, userID, bookID)
}

func (s *Service) GetUserCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return s.store.GetUserCart(ctx, userID)
}

func (s *Service) GetItemCount(ctx context.Context, userID int64) (int, error) {
	return s.store.CountItems(ctx, userID)
}

func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	return s.store.ClearCart(ctx, userID)
}

// SyncCart replaces the owning user's entire server-side cart with the
// client-supplied list in one atomic step. The owner is derived from the
// first element; an empty list is a no-op because the user to clear is
// unknown. Last sync wins; no per-item merge is attempted. Duplicate book
// ids within one sync collapse into a single line with summed quantity.
func (s *Service) SyncCart(ctx context.Context, localItems []models.CartItem) error {
	if len(localItems) == 0 {
		return nil
	}

	userID := localItems[0].UserID
	merged := make([]models.CartItem, 0, len(localItems))
	index := make(map[string]int, len(localItems))

	for _, item := range localItems {
		if err := validateItem(item); err != nil {
			return err
		}
		if item.UserID != userID {
			return fmt.Errorf("%w: sync list mixes items from different users", models.ErrValidation)
		}
		if i, ok := index[item.BookID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.BookID] = len(merged)
		merged = append(merged, item)
	}

	return s.store.ReplaceCart(ctx, userID, merged)
}

func validateItem(item models.CartItem) error {
	if item.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	if item.BookID == "" {
		return fmt.Errorf("%w: book id is required", models.ErrValidation)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}
	return nil
}
