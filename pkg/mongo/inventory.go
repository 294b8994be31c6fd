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

const inventoryCollection = "inventory"

// InventoryLedger is the Mongo-backed stock ledger. Every mutation is a
// single document-level read-modify-write, so two concurrent reductions of
// the same product can never both pass the sufficiency check.
type InventoryLedger struct{}

func NewInventoryLedger() *InventoryLedger {
	return &InventoryLedger{}
}

func (l *InventoryLedger) AddOrUpdateStock(ctx context.Context, productID string, delta int) (*models.Inventory, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", models.ErrValidation)
	}
	if delta < 0 {
		return nil, fmt.Errorf("%w: replenishment delta must be non-negative", models.ErrValidation)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.Inventory
	err := GetCollection(inventoryCollection).FindOneAndUpdate(ctx,
		bson.M{"product_id": productID},
		bson.M{
			"$inc":         bson.M{"available_quantity": delta},
			"$set":         bson.M{"last_updated": time.Now()},
			"$setOnInsert": bson.M{"product_id": productID},
		},
		opts,
	).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (l *InventoryLedger) IsInStock(ctx context.Context, productID string, required int) (bool, error) {
	var record models.Inventory
	err := GetCollection(inventoryCollection).FindOne(ctx, bson.M{"product_id": productID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.AvailableQuantity >= required, nil
}

// ReduceStock guards the decrement with the sufficiency check in one atomic
// update: the filter only matches when available_quantity covers the
// quantity, so a miss means the record is absent or stock is short.
func (l *InventoryLedger) ReduceStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	res, err := GetCollection(inventoryCollection).UpdateOne(ctx,
		bson.M{"product_id": productID, "available_quantity": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"available_quantity": -quantity},
			"$set": bson.M{"last_updated": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: product %s", models.ErrInsufficientStock, productID)
	}
	return nil
}

func (l *InventoryLedger) RestoreStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	// Upsert so restoration still succeeds if the record vanished; in
	// practice it exists from the original decrement.
	_, err := GetCollection(inventoryCollection).UpdateOne(ctx,
		bson.M{"product_id": productID},
		bson.M{
			"$inc":         bson.M{"available_quantity": quantity},
			"$set":         bson.M{"last_updated": time.Now()},
			"$setOnInsert": bson.M{"product_id": productID},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (l *InventoryLedger) GetStock(ctx context.Context, productID string) (*models.Inventory, error) {
	var record models.Inventory
	err := GetCollection(inventoryCollection).FindOne(ctx, bson.M{"product_id": productID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (l *InventoryLedger) ListStock(ctx context.Context) ([]models.Inventory, error) {
	cursor, err := GetCollection(inventoryCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Inventory{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
