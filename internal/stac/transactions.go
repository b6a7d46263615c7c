package stac

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Transaction extension pass-throughs. Every write checks the transaction
// capability first; a catalog without the extension yields *ConformanceError
// before any request body leaves the process.

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func (c *Client) checkTransaction(ctx context.Context) error {
	return c.CheckConformance(ctx, ConformanceTransaction)
}

// CreateItem creates a new item in a collection and returns the catalog's
// representation of it, when the catalog echoes one back.
func (c *Client) CreateItem(ctx context.Context, collectionID string, item map[string]interface{}) (map[string]interface{}, error) {
	if err := c.checkTransaction(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/collections/%s/items", c.catalogURL, collectionID)
	var created map[string]interface{}
	if err := c.doJSON(ctx, http.MethodPost, url, item, &created); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return created, nil
}

// UpdateItem replaces an existing item. The item must carry collection and id
// fields.
func (c *Client) UpdateItem(ctx context.Context, item map[string]interface{}) (map[string]interface{}, error) {
	collectionID, _ := item["collection"].(string)
	itemID, _ := item["id"].(string)
	if collectionID == "" || itemID == "" {
		return nil, errors.New("item must have 'collection' and 'id' fields for update")
	}
	if err := c.checkTransaction(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.catalogURL, collectionID, itemID)
	var updated map[string]interface{}
	if err := c.doJSON(ctx, http.MethodPut, url, item, &updated); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return updated, nil
}

// DeleteItem deletes one item from a collection.
func (c *Client) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	if err := c.checkTransaction(ctx); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.catalogURL, collectionID, itemID)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// CreateCollection creates a new collection.
func (c *Client) CreateCollection(ctx context.Context, collection map[string]interface{}) (map[string]interface{}, error) {
	if err := c.checkTransaction(ctx); err != nil {
		return nil, err
	}
	var created map[string]interface{}
	if err := c.doJSON(ctx, http.MethodPost, c.catalogURL+"/collections", collection, &created); err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return created, nil
}

// UpdateCollection replaces an existing collection. Per the transaction
// spec, the PUT goes to /collections, not /collections/{id}.
func (c *Client) UpdateCollection(ctx context.Context, collection map[string]interface{}) (map[string]interface{}, error) {
	if err := c.checkTransaction(ctx); err != nil {
		return nil, err
	}
	var updated map[string]interface{}
	if err := c.doJSON(ctx, http.MethodPut, c.catalogURL+"/collections", collection, &updated); err != nil {
		return nil, fmt.Errorf("updating collection: %w", err)
	}
	return updated, nil
}

// DeleteCollection deletes one collection.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) error {
	if err := c.checkTransaction(ctx); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/collections/%s", c.catalogURL, collectionID)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}
