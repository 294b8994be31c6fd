package models

import "time"

// Inventory is the per-product stock record. AvailableQuantity never goes
// negative; every mutation path enforces that.
type Inventory struct {
	ProductID         string    `json:"product_id" bson:"product_id"`
	AvailableQuantity int       `json:"available_quantity" bson:"available_quantity"`
	LastUpdated       time.Time `json:"last_updated" bson:"last_updated"`
}
