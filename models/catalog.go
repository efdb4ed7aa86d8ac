package models

import "github.com/shopspring/decimal"

// CatalogItem represents a sellable item as fetched from the document store.
// BasePrice is always expressed in the company's base currency.
type CatalogItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"imageRef,omitempty"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

// StockLevel represents the available quantity of an item at a stock location.
// AvailableQty may be negative when the upstream system allows overselling.
type StockLevel struct {
	ItemID       string          `json:"itemId"`
	LocationID   string          `json:"locationId"`
	AvailableQty decimal.Decimal `json:"availableQty"`
}

// HasStock reports whether any quantity is available
func (s StockLevel) HasStock() bool {
	return s.AvailableQty.IsPositive()
}

// CatalogListing is a catalog item priced in the session currency
type CatalogListing struct {
	CatalogItem
	Price decimal.Decimal `json:"price"`
}

// CatalogResponse represents the response for a catalog query
// Example response:
// {
//   "location": "Stores - NX",
//   "currency": "EUR",
//   "items": [{"id": "ITEM-001", "name": "Coffee", "basePrice": "2.5", "price": "2.3"}],
//   "warning": ""
// }
type CatalogResponse struct {
	Location string           `json:"location"`
	Currency string           `json:"currency"`
	Items    []CatalogListing `json:"items"`
	Warning  string           `json:"warning,omitempty"`
}

// StockResponse represents the response for a stock lookup
type StockResponse struct {
	StockLevel
	HasStock bool `json:"hasStock"`
}
