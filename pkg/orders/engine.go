package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/novellea/novellea-api/pkg/inventory"
	"github.com/novellea/novellea-api/pkg/models"
)

// maxOrderNumberRetries bounds the regenerate-and-retry loop on an
// order-number collision at insert time.
const maxOrderNumberRetries = 5

// OrderStore persists the Order aggregate. Insert must enforce order_number
// uniqueness and return models.ErrOrderNumberTaken on a collision.
// UpdateStatus is a compare-and-swap on the current status so concurrent
// transitions cannot both win.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByUser(ctx context.Context, userID int64, page, size int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error
}

// Catalog is the external collaborator supplying current title/author/price
// for snapshotting. It is read-only from this engine's point of view.
type Catalog interface {
	LookupPricedItem(ctx context.Context, productID string) (*models.PricedBook, error)
}

// CartReader is the slice of the cart store the engine needs at checkout:
// read the basket, then destroy it once the order is placed.
type CartReader interface {
	GetUserCart(ctx context.Context, userID int64) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID int64) error
}

// OrderEvent is published after successful creations and status changes.
type OrderEvent struct {
	EventID     string             `json:"event_id"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      int64              `json:"user_id"`
	Type        string             `json:"type"` // created, status_updated, cancelled, returned
	Status      models.OrderStatus `json:"status"`
	Total       float64            `json:"total"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// EventPublisher fans order lifecycle events out to interested services.
// Publishing is best-effort; a failed publish never fails the request.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// Engine owns the order state machine and the contract binding carts, orders
// and stock: snapshot at creation, all-or-nothing stock reservation, and
// symmetric restoration on cancel/return.
type Engine struct {
	store   OrderStore
	ledger  inventory.Ledger
	catalog Catalog
	carts   CartReader
	events  EventPublisher
}

func NewEngine(store OrderStore, ledger inventory.Ledger, catalog Catalog, carts CartReader, events EventPublisher) *Engine {
	return &Engine{
		store:   store,
		ledger:  ledger,
		catalog: catalog,
		carts:   carts,
		events:  events,
	}
}

// CreateOrder places a new order for the user. When the request carries no
// explicit items the user's server-side cart is consumed and cleared after
// success. Stock is reserved per item with reverse-order compensation, so a
// failure anywhere leaves availability exactly as it was.
func (e *Engine) CreateOrder(ctx context.Context, userID int64, req models.CreateOrderRequest) (*models.Order, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	if req.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", models.ErrValidation)
	}
	if req.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", models.ErrValidation)
	}

	lines := req.Items
	fromCart := false
	if len(lines) == 0 {
		cartItems, err := e.carts.GetUserCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(cartItems) == 0 {
			return nil, fmt.Errorf("%w: cart is empty and no items were provided", models.ErrValidation)
		}
		for _, ci := range cartItems {
			lines = append(lines, models.CreateOrderLine{ProductID: ci.BookID, Quantity: ci.Quantity})
		}
		fromCart = true
	}

	items, err := e.snapshotLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	order, err := e.placeOrder(ctx, userID, items, req.PaymentMethod, req.Discount)
	if err != nil {
		return nil, err
	}

	if fromCart {
		// The basket is consumed by checkout. A failed clear is not worth
		// failing an already-placed order over.
		if err := e.carts.ClearCart(ctx, userID); err != nil {
			log.Printf("Warning: failed to clear cart for user %d after checkout: %v", userID, err)
		}
	}

	e.publish(ctx, order, "created")
	return order, nil
}

// Reorder places a new order whose line items are fresh copies of the
// original's snapshots. It runs the same availability and reservation path
// as CreateOrder; stock may well have changed since the original order.
func (e *Engine) Reorder(ctx context.Context, orderID string) (*models.Order, error) {
	original, err := e.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(original.Items))
	copy(items, original.Items)

	order, err := e.placeOrder(ctx, original.UserID, items, original.PaymentMethod, original.Discount)
	if err != nil {
		return nil, err
	}

	e.publish(ctx, order, "created")
	return order, nil
}

// snapshotLines resolves every requested line against the catalog and copies
// the priced attributes into immutable order items.
func (e *Engine) snapshotLines(ctx context.Context, lines []models.CreateOrderLine) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be positive", models.ErrValidation, line.ProductID)
		}
		book, err := e.catalog.LookupPricedItem(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     book.Title,
			Author:    book.Author,
			ISBN:      book.ISBN,
			Category:  book.Category,
			Genre:     book.Genre,
			Image:     book.Image,
			UnitPrice: book.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

// placeOrder runs the shared creation path: availability check, totals,
// per-item stock reservation with compensation, and the persist loop that
// retries order-number collisions with a fresh number.
func (e *Engine) placeOrder(ctx context.Context, userID int64, items []models.OrderItem, paymentMethod string, discount float64) (*models.Order, error) {
	for _, item := range items {
		ok, err := e.ledger.IsInStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: product %s", models.ErrInsufficientStock, item.ProductID)
		}
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.StatusPendingPayment,
		PaymentMethod: paymentMethod,
		PaymentStatus: "pending",
		Discount:      discount,
		Items:         items,
	}
	order.CalculateTotals()
	if order.Discount > order.Subtotal {
		return nil, fmt.Errorf("%w: discount exceeds subtotal", models.ErrValidation)
	}
	order.SetTimestamps()

	reserved, err := e.reserveStock(ctx, items)
	if err != nil {
		return nil, err
	}

	order.OrderNumber = models.GenerateOrderNumber()
	for attempt := 0; ; attempt++ {
		err = e.store.Insert(ctx, order)
		if err == nil {
			break
		}
		if isOrderNumberTaken(err) && attempt < maxOrderNumberRetries {
			order.OrderNumber = models.GenerateOrderNumber()
			continue
		}
		// Persisting failed for good: hand every reserved unit back before
		// reporting, so no stock leaks from a phantom order.
		e.releaseStock(ctx, reserved)
		return nil, err
	}

	return order, nil
}

// reserveStock decrements every line in sequence. On any failure the lines
// already reduced are restored in reverse order before the error is returned,
// making the multi-item reservation all-or-nothing.
func (e *Engine) reserveStock(ctx context.Context, items []models.OrderItem) ([]models.OrderItem, error) {
	reserved := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if err := e.ledger.ReduceStock(ctx, item.ProductID, item.Quantity); err != nil {
			e.releaseStock(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

// releaseStock restores previously reserved lines in reverse order.
func (e *Engine) releaseStock(ctx context.Context, reserved []models.OrderItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := e.ledger.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			// RestoreStock only fails on invalid input or a dead store; either
			// way there is nothing more the compensation path can do.
			log.Printf("Error: failed to restore %d units of %s during compensation: %v", item.Quantity, item.ProductID, err)
		}
	}
}

// UpdateOrderStatus moves an order along the state table. Transitions into
// CANCELLED or RETURNED always take the restocking path, so stock restoration
// cannot be skipped by calling the generic update.
func (e *Engine) UpdateOrderStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) error {
	switch newStatus {
	case models.StatusCancelled:
		return e.CancelOrder(ctx, orderID)
	case models.StatusReturned:
		return e.ReturnOrder(ctx, orderID)
	}

	order, err := e.store.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, newStatus)
	}

	if err := e.store.UpdateStatus(ctx, orderID, order.Status, newStatus, time.Now()); err != nil {
		return err
	}

	order.Status = newStatus
	e.publish(ctx, order, "status_updated")
	return nil
}

// CancelOrder transitions to CANCELLED and restores every line item's stock,
// symmetric with the decrement performed at creation.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	return e.closeWithRestock(ctx, orderID, models.StatusCancelled, "cancelled")
}

// ReturnOrder transitions to RETURNED and restores every line item's stock.
func (e *Engine) ReturnOrder(ctx context.Context, orderID string) error {
	return e.closeWithRestock(ctx, orderID, models.StatusReturned, "returned")
}

func (e *Engine) closeWithRestock(ctx context.Context, orderID string, terminal models.OrderStatus, eventType string) error {
	order, err := e.store.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(terminal) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, terminal)
	}

	// The CAS write goes first: only the caller that actually wins the
	// transition restores stock, so a concurrent cancel cannot double-restore.
	if err := e.store.UpdateStatus(ctx, orderID, order.Status, terminal, time.Now()); err != nil {
		return err
	}

	var restoreErr error
	for _, item := range order.Items {
		if err := e.ledger.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("Error: failed to restore %d units of %s for order %s: %v", item.Quantity, item.ProductID, order.OrderNumber, err)
			if restoreErr == nil {
				restoreErr = err
			}
		}
	}
	if restoreErr != nil {
		return fmt.Errorf("order %s %s but stock restoration failed: %w", order.OrderNumber, eventType, restoreErr)
	}

	order.Status = terminal
	e.publish(ctx, order, eventType)
	return nil
}

// TrackOrder returns only the order's current status.
func (e *Engine) TrackOrder(ctx context.Context, orderID string) (models.OrderStatus, error) {
	order, err := e.store.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

// TrackByOrderNumber resolves a full order by its external order number.
func (e *Engine) TrackByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return e.store.FindByOrderNumber(ctx, orderNumber)
}

// GetOrderByID is a pure read.
func (e *Engine) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	return e.store.FindByID(ctx, orderID)
}

// GetUserOrders returns one page of the user's order history, newest first.
func (e *Engine) GetUserOrders(ctx context.Context, userID int64, page, size int) ([]models.Order, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return e.store.FindByUser(ctx, userID, page, size)
}

func (e *Engine) publish(ctx context.Context, order *models.Order, eventType string) {
	if e.events == nil {
		return
	}
	event := OrderEvent{
		EventID:     uuid.NewString(),
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Type:        eventType,
		Status:      order.Status,
		Total:       order.Total,
		OccurredAt:  time.Now(),
	}
	if err := e.events.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.OrderNumber, err)
	}
}

func isOrderNumberTaken(err error) bool {
	return errors.Is(err, models.ErrOrderNumberTaken)
}
