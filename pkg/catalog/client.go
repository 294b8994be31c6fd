package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/models"
)

// Client talks to the external books-catalog service. The order engine only
// ever reads from it, at order-creation time, to snapshot priced items.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: global.GetCatalogURL(),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// LookupPricedItem fetches the current priced attributes for one book.
// A missing book maps to models.ErrProductNotFound.
func (c *Client) LookupPricedItem(ctx context.Context, productID string) (*models.PricedBook, error) {
	url := fmt.Sprintf("%s/api/books/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup for %s failed: %w", productID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, productID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog returned status %d for product %s", resp.StatusCode, productID)
	}

	var book models.PricedBook
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response for %s: %w", productID, err)
	}
	return &book, nil
}
