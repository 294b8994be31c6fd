package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusProcessing     OrderStatus = "PROCESSING"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
	StatusReturned       OrderStatus = "RETURNED"
)

// allowedTransitions is the full state table. CANCELLED and RETURNED are
// absorbing: they have no outgoing edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusDelivered},
	StatusDelivered:      {StatusReturned},
	StatusCancelled:      {},
	StatusReturned:       {},
}

// ParseOrderStatus validates a status token from the outside world.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := allowedTransitions[status]
	return status, ok
}

// CanTransitionTo reports whether the state table permits moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is an absorbing state.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// OrderItem is an immutable snapshot of a catalog book captured at order
// creation time. Later catalog edits never alter a placed order.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	Author    string  `json:"author" bson:"author"`
	ISBN      string  `json:"isbn" bson:"isbn"`
	Category  string  `json:"category" bson:"category"`
	Genre     string  `json:"genre" bson:"genre"`
	Image     string  `json:"image" bson:"image"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is the aggregate root. It owns its items; an item never navigates
// back to its order.
type Order struct {
	ID            bson.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        int64         `json:"user_id" bson:"user_id"`
	OrderNumber   string        `json:"order_number" bson:"order_number"` // e.g. ORD-9F2C41AB
	Subtotal      float64       `json:"subtotal" bson:"subtotal"`
	Shipping      float64       `json:"shipping" bson:"shipping"`
	Tax           float64       `json:"tax" bson:"tax"`
	Discount      float64       `json:"discount" bson:"discount"`
	Total         float64       `json:"total" bson:"total"`
	Status        OrderStatus   `json:"status" bson:"status"`
	PaymentMethod string        `json:"payment_method" bson:"payment_method"`
	PaymentStatus string        `json:"payment_status" bson:"payment_status"`
	Items         []OrderItem   `json:"items" bson:"items"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// CalculateTotals computes subtotal from the item snapshots, applies 13% tax
// and flat-rate shipping (free at $100+), and derives the grand total.
// Discount must already be validated against the subtotal.
func (o *Order) CalculateTotals() {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	o.Subtotal = subtotal

	o.Tax = subtotal * 0.13

	if subtotal >= 100 {
		o.Shipping = 0.00
	} else {
		o.Shipping = 15.00
	}

	o.Total = o.Subtotal + o.Shipping + o.Tax - o.Discount
}

// SetTimestamps sets created_at on first call and refreshes updated_at.
func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// GenerateOrderNumber returns a collision-resistant order number in the
// stable external format ORD- followed by 8 uppercase hex characters.
// Uniqueness is verified at persistence time; collisions are retried there.
func GenerateOrderNumber() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived value rather than panicking mid-request.
		return fmt.Sprintf("ORD-%08X", uint32(time.Now().UnixNano()))
	}
	return fmt.Sprintf("ORD-%02X%02X%02X%02X", b[0], b[1], b[2], b[3])
}

// CreateOrderLine is a single requested line in an order-creation payload.
type CreateOrderLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the order-creation payload. When Items is empty the
// caller's server-side cart is consumed instead.
type CreateOrderRequest struct {
	Items         []CreateOrderLine `json:"items"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Discount      float64           `json:"discount"`
}
