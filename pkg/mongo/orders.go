package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/novellea/novellea-api/pkg/models"
)

const ordersCollection = "orders"

// OrderStore is the Mongo-backed order aggregate store. The unique index on
// order_number (see indexes.go) turns a generation collision into a duplicate
// key error, surfaced as models.ErrOrderNumberTaken so the engine can retry
// with a fresh number.
type OrderStore struct{}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = bson.NewObjectID()
	}

	_, err := GetCollection(ordersCollection).InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", models.ErrOrderNumberTaken, order.OrderNumber)
	}
	return err
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id %q", models.ErrValidation, id)
	}

	var order models.Order
	err = GetCollection(ordersCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := GetCollection(ordersCollection).FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID int64, page, size int) ([]models.Order, error) {
	skip := int64((page - 1) * size)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(size))

	cursor, err := GetCollection(ordersCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus is a compare-and-swap on the status field: the write only
// lands when the stored status still equals from. When the filter misses we
// look the order up again to tell "gone" apart from "moved concurrently".
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid order id %q", models.ErrValidation, id)
	}

	res, err := GetCollection(ordersCollection).UpdateOne(ctx,
		bson.M{"_id": objectID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, findErr := s.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: order %s changed status concurrently", models.ErrInvalidTransition, id)
	}
	return nil
}
