package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// CollectionClient speaks to the bearer-authenticated collection endpoints.
// Token handling lives entirely in the injected http.Client, whose transport
// is expected to be an AuthTransport.
type CollectionClient struct {
	baseURL string
	hc      *http.Client
	timeout time.Duration
}

func NewCollectionClient(baseURL string, hc *http.Client, timeout time.Duration) *CollectionClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &CollectionClient{baseURL: baseURL, hc: hc, timeout: timeout}
}

// ListItems fetches the item records without image payloads.
func (c *CollectionClient) ListItems(ctx context.Context) ([]models.Item, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var items []models.Item
	if err := doJSON(ctx, c.hc, http.MethodGet, joinURL(c.baseURL, "collection/items"), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemImage fetches one item's image payload as a data-URI.
func (c *CollectionClient) ItemImage(ctx context.Context, id models.ID) (string, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var resp itemImageResponse
	url := joinURL(c.baseURL, "collection/items", string(id), "image")
	if err := doJSON(ctx, c.hc, http.MethodGet, url, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.ImageData, nil
}

// AddItem creates a collection item. The response carries the assigned id
// and timestamps but never echoes the image bytes.
func (c *CollectionClient) AddItem(ctx context.Context, req AddItemRequest) (*models.Item, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var item models.Item
	if err := doJSON(ctx, c.hc, http.MethodPost, joinURL(c.baseURL, "collection/items"), nil, req, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, fmt.Errorf("%w: created item missing id", ErrInvalidResponse)
	}
	return &item, nil
}

// UpdateItem applies a partial update and returns the item as the server
// now sees it.
func (c *CollectionClient) UpdateItem(ctx context.Context, id models.ID, update models.ItemUpdate) (*models.Item, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var item models.Item
	url := joinURL(c.baseURL, "collection/items", string(id))
	if err := doJSON(ctx, c.hc, http.MethodPut, url, nil, update, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one item server-side.
func (c *CollectionClient) DeleteItem(ctx context.Context, id models.ID) error {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	url := joinURL(c.baseURL, "collection/items", string(id))
	return doJSON(ctx, c.hc, http.MethodDelete, url, nil, nil, nil)
}

// ExportCSV downloads the server-rendered CSV of the whole collection.
func (c *CollectionClient) ExportCSV(ctx context.Context) ([]byte, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(c.baseURL, "collection/export-csv"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}
