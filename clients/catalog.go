package clients

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/shell"
)

// CatalogClient implements shell.Catalog against the catalog service's HTTP API.
type CatalogClient struct {
	baseClient
}

var _ shell.Catalog = CatalogClient{}

// NewCatalogClient creates a catalog client for the given base URL.
func NewCatalogClient(baseURL string, options ...ClientOption) CatalogClient {
	return CatalogClient{baseClient: newBaseClient(baseURL, options...)}
}

type catalogItemResponse struct {
	ID           string `json:"id"`
	ActiveCopies int    `json:"active_copies"`
}

// ItemExists reports whether the catalog knows the item.
func (c CatalogClient) ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var item catalogItemResponse

	found, err := c.getJSON(ctx, "/items/"+itemID.String(), &item)
	if err != nil {
		return false, err
	}

	return found, nil
}

// ActiveCopyCount returns how many copies of the item are in circulation
// according to the catalog. An unknown item counts as zero copies.
func (c CatalogClient) ActiveCopyCount(ctx context.Context, itemID uuid.UUID) (int, error) {
	var item catalogItemResponse

	found, err := c.getJSON(ctx, "/items/"+itemID.String(), &item)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, nil
	}

	return item.ActiveCopies, nil
}
