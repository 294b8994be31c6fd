package models

// PricedBook is the read-only shape the catalog collaborator returns for a
// product. The order engine copies these fields into OrderItem snapshots.
type PricedBook struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     string  `json:"isbn"`
	Category string  `json:"category"`
	Genre    string  `json:"genre"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
}
