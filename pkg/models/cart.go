package models

// CartItem is one mutable line in a user's pre-checkout basket. The cart
// store keeps at most one item per (user_id, book_id); adding the same book
// again merges quantities.
type CartItem struct {
	UserID   int64  `json:"user_id" binding:"required"`
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}
