package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"next-pos/models"
	"next-pos/pricing"
	"next-pos/repository"
)

// CatalogCache holds the sellable items of the active location, priced in the
// base currency. Filtering and conversion happen locally.
type CatalogCache struct {
	repo repository.CatalogRepositoryInterface

	mu       sync.RWMutex
	latest   uint64
	location string
	items    []models.CatalogItem
}

// NewCatalogCache creates an empty catalog cache
func NewCatalogCache(repo repository.CatalogRepositoryInterface) *CatalogCache {
	return &CatalogCache{repo: repo}
}

// Load fetches the items for a location and replaces the cached list.
// On failure the previous list is kept. When Load is called again before an
// earlier call returns, the earlier result is dropped.
func (c *CatalogCache) Load(ctx context.Context, location string) error {
	c.mu.Lock()
	c.latest++
	token := c.latest
	c.mu.Unlock()

	items, err := c.repo.ListItems(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to load catalog for %s: %w", location, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest {
		return nil
	}
	c.location = location
	c.items = items
	return nil
}

// Location returns the location the cache was last loaded for
func (c *CatalogCache) Location() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location
}

// Len returns the number of cached items
func (c *CatalogCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Listings returns the cached items priced with the resolution's factor,
// filtered by a case-insensitive substring of the item name. When the
// resolution is not usable no item can be priced: the list is empty and the
// resolution's warning is returned instead.
func (c *CatalogCache) Listings(res Resolution, search string) ([]models.CatalogListing, string) {
	if !res.Usable() {
		return []models.CatalogListing{}, res.Warning
	}

	needle := strings.ToLower(strings.TrimSpace(search))

	c.mu.RLock()
	defer c.mu.RUnlock()

	listings := make([]models.CatalogListing, 0, len(c.items))
	for _, item := range c.items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		listings = append(listings, models.CatalogListing{
			CatalogItem: item,
			Price:       pricing.Convert(item.BasePrice, res.Factor),
		})
	}
	return listings, ""
}

// Find returns the cached item with the given id
func (c *CatalogCache) Find(itemID string) (models.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Listing prices a single cached item
func (c *CatalogCache) Listing(itemID string, res Resolution) (models.CatalogListing, error) {
	if !res.Usable() {
		return models.CatalogListing{}, invalid(ErrItemNotListed, "%s cannot be priced in %s", itemID, res.Currency)
	}
	item, ok := c.Find(itemID)
	if !ok {
		return models.CatalogListing{}, invalid(ErrItemNotListed, "%s", itemID)
	}
	return models.CatalogListing{CatalogItem: item, Price: pricing.Convert(item.BasePrice, res.Factor)}, nil
}
