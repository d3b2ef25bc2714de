package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/loot"
	"github.com/focusflow/focusflow/internal/store"
)

// ChestStatus reports today's chest eligibility and progress.
func (c *Client) ChestStatus(ctx context.Context) (*gamification.Eligibility, error) {
	var status gamification.Eligibility
	if err := c.do(ctx, "GET", "/api/user/chest_status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// OpenChestResult is the server's resolution of one chest open.
type OpenChestResult struct {
	Success          bool        `json:"success"`
	CreditsRemaining int         `json:"credits_remaining"`
	Item             loot.Item   `json:"item"`
	IsNew            bool        `json:"is_new"`
	Count            int         `json:"count"`
	Rarity           loot.Rarity `json:"rarity"`
}

// OpenChest spends one credit and returns the drawn item.
func (c *Client) OpenChest(ctx context.Context) (*OpenChestResult, error) {
	var result OpenChestResult
	if err := c.do(ctx, "POST", "/api/user/open_chest", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OwnedItem is an inventory row joined with its catalog item.
type OwnedItem struct {
	store.UserItem
	Item loot.Item `json:"item"`
}

// CollectionItem is a catalog item overlaid with ownership state.
type CollectionItem struct {
	loot.Item
	Owned    bool `json:"owned"`
	Count    int  `json:"count"`
	IsBroken bool `json:"is_broken"`
}

// Collection is the full collection view: the user's inventory plus the
// complete catalog with ownership flags.
type Collection struct {
	OwnedItems   []OwnedItem      `json:"owned_items"`
	OwnedCount   int              `json:"owned_count"`
	BrokenCount  int              `json:"broken_count"`
	TotalItems   int              `json:"total_items"`
	ChestCredits int              `json:"chest_credits"`
	AllItems     []CollectionItem `json:"all_items"`
}

// GetCollection fetches the user's collection.
func (c *Client) GetCollection(ctx context.Context) (*Collection, error) {
	var collection Collection
	if err := c.do(ctx, "GET", "/api/user/collection", nil, nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// RepairResult is the server's response to a successful repair.
type RepairResult struct {
	Success          bool   `json:"success"`
	ItemName         string `json:"item_name"`
	CreditsSpent     int    `json:"credits_spent"`
	RemainingCredits int    `json:"remaining_credits"`
	Message          string `json:"message"`
}

// RepairItem spends credits to fix a broken inventory item. id is the
// inventory row ID from the collection's owned items.
func (c *Client) RepairItem(ctx context.Context, id int) (*RepairResult, error) {
	var result RepairResult
	if err := c.do(ctx, "POST", "/api/items/repair/"+strconv.Itoa(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog fetches the item catalog. The catalog is immutable for a server
// build, so the client revalidates a cached copy with the server's ETag and
// reuses it on 304.
func (c *Client) Catalog(ctx context.Context) ([]loot.Item, error) {
	c.mu.Lock()
	etag := c.catalogETag
	cached := c.catalog
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/items", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		return cached, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp)
	}

	var result struct {
		Items []loot.Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.mu.Lock()
	c.catalogETag = resp.Header.Get("ETag")
	c.catalog = result.Items
	c.mu.Unlock()
	return result.Items, nil
}
