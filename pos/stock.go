package pos

import (
	"context"
	"fmt"
	"sync"

	"next-pos/models"
	"next-pos/repository"
)

type stockKey struct {
	itemID     string
	locationID string
}

type stockEntry struct {
	generation uint64
	level      models.StockLevel
}

// StockLookup lazily queries and caches stock levels. Invalidate drops every
// cached level by moving to a new generation; a query that started under an
// older generation is returned to its caller but not cached.
type StockLookup struct {
	repo repository.CatalogRepositoryInterface

	mu         sync.Mutex
	generation uint64
	levels     map[stockKey]stockEntry
}

// NewStockLookup creates an empty stock cache
func NewStockLookup(repo repository.CatalogRepositoryInterface) *StockLookup {
	return &StockLookup{
		repo:   repo,
		levels: make(map[stockKey]stockEntry),
	}
}

// Level returns the stock of an item at a location, querying it on first use
func (s *StockLookup) Level(ctx context.Context, itemID, locationID string) (models.StockLevel, error) {
	key := stockKey{itemID: itemID, locationID: locationID}

	s.mu.Lock()
	gen := s.generation
	if entry, ok := s.levels[key]; ok && entry.generation == gen {
		s.mu.Unlock()
		return entry.level, nil
	}
	s.mu.Unlock()

	level, err := s.repo.GetStockLevel(ctx, itemID, locationID)
	if err != nil {
		return models.StockLevel{}, fmt.Errorf("failed to get stock for %s at %s: %w", itemID, locationID, err)
	}
	if level == nil {
		level = &models.StockLevel{ItemID: itemID, LocationID: locationID}
	}

	s.mu.Lock()
	if s.generation == gen {
		s.levels[key] = stockEntry{generation: gen, level: *level}
	}
	s.mu.Unlock()

	return *level, nil
}

// Invalidate forgets every cached level
func (s *StockLookup) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.levels = make(map[stockKey]stockEntry)
}
