package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/novellea/novellea-api/pkg/models"
)

// CartStore keeps each user's basket in a single Redis hash keyed
// cart:{userID}, one field per book id holding the quantity. The hash
// structurally enforces one line per (user, book), and MULTI/EXEC pipelines
// make the sync-time replace atomic: no reader ever sees the cart empty
// between the delete and the re-insert.
type CartStore struct{}

func NewCartStore() *CartStore {
	return &CartStore{}
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *CartStore) UpsertItem(ctx context.Context, item models.CartItem) error {
	client := RedisClient()
	defer client.Close()

	return client.HSet(ctx, cartKey(item.UserID), item.BookID, strconv.Itoa(item.Quantity)).Err()
}

func (s *CartStore) GetItem(ctx context.Context, userID int64, bookID string) (*models.CartItem, error) {
	client := RedisClient()
	defer client.Close()

	raw, err := client.HGet(ctx, cartKey(userID), bookID).Result()
	if errors.Is(err, redisclient.Nil) {
		return nil, fmt.Errorf("%w: user %d book %s", models.ErrCartItemNotFound, userID, bookID)
	}
	if err != nil {
		return nil, err
	}

	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt cart entry for user %d book %s: %w", userID, bookID, err)
	}

	return &models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity}, nil
}

func (s *CartStore) RemoveItem(ctx context.Context, userID int64, bookID string) error {
	client := RedisClient()
	defer client.Close()

	removed, err := client.HDel(ctx, cartKey(userID), bookID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("%w: user %d book %s", models.ErrCartItemNotFound, userID, bookID)
	}
	return nil
}

func (s *CartStore) GetUserCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	client := RedisClient()
	defer client.Close()

	fields, err := client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(fields))
	for bookID, raw := range fields {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart entry for user %d book %s: %w", userID, bookID, err)
		}
		items = append(items, models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity})
	}
	return items, nil
}

func (s *CartStore) CountItems(ctx context.Context, userID int64) (int, error) {
	client := RedisClient()
	defer client.Close()

	count, err := client.HLen(ctx, cartKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ReplaceCart swaps the whole basket in one MULTI/EXEC transaction so the
// clear and the insert land together.
func (s *CartStore) ReplaceCart(ctx context.Context, userID int64, items []models.CartItem) error {
	client := RedisClient()
	defer client.Close()

	key := cartKey(userID)
	fields := make(map[string]string, len(items))
	for _, item := range items {
		fields[item.BookID] = strconv.Itoa(item.Quantity)
	}

	pipe := client.TxPipeline()
	pipe.Del(ctx, key)
	if len(fields) > 0 {
		pipe.HSet(ctx, key, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace cart for user %d: %w", userID, err)
	}
	return nil
}

func (s *CartStore) ClearCart(ctx context.Context, userID int64) error {
	client := RedisClient()
	defer client.Close()

	return client.Del(ctx, cartKey(userID)).Err()
}
