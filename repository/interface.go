package repository

import (
	"context"
	"time"

	"next-pos/models"
)

// CatalogRepositoryInterface defines the contract for catalog and stock reads
type CatalogRepositoryInterface interface {
	ListItems(ctx context.Context, locationID string) ([]models.CatalogItem, error)
	// GetStockLevel returns a zero quantity when the item has no stock record at the location
	GetStockLevel(ctx context.Context, itemID, locationID string) (*models.StockLevel, error)
}

// ExchangeRateRepositoryInterface defines the contract for exchange rate reads
type ExchangeRateRepositoryInterface interface {
	// GetExchangeRate returns the rate between currency and base configured for
	// date, in whichever direction it is stored, or nil when none is configured.
	GetExchangeRate(ctx context.Context, currency, base string, date time.Time) (*models.ExchangeRate, error)
}

// LookupRepositoryInterface defines the contract for the session and payment dialog pick lists
type LookupRepositoryInterface interface {
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	// ListAccounts lists non-group accounts, restricted to accountType when it is not empty
	ListAccounts(ctx context.Context, accountType string) ([]models.Account, error)
}

// SaleRepositoryInterface defines the contract for writing the sale document
type SaleRepositoryInterface interface {
	// CreateSalesInvoice creates and submits the document and returns its name.
	// Remote rejections are returned as *RemoteError.
	CreateSalesInvoice(ctx context.Context, doc *models.SalesInvoice) (string, error)
}

// ReadRepositoryInterface groups every read the engine performs
type ReadRepositoryInterface interface {
	CatalogRepositoryInterface
	ExchangeRateRepositoryInterface
	LookupRepositoryInterface
}
