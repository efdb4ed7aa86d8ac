package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"next-pos/models"
)

// FrappeRepository serves the engine's reads and the sale write through the
// document store REST API
type FrappeRepository struct {
	client  *FrappeClient
	company string
	limit   int
}

// NewFrappeRepository creates a new FrappeRepository. company restricts
// account lookups when not empty; limit caps list queries.
func NewFrappeRepository(client *FrappeClient, company string, limit int) *FrappeRepository {
	if limit <= 0 {
		limit = 1000
	}
	return &FrappeRepository{
		client:  client,
		company: company,
		limit:   limit,
	}
}

// Ensure FrappeRepository implements the repository interfaces
var (
	_ ReadRepositoryInterface = (*FrappeRepository)(nil)
	_ SaleRepositoryInterface = (*FrappeRepository)(nil)
)

type itemRecord struct {
	Name         string          `json:"name"`
	ItemName     string          `json:"item_name"`
	Image        string          `json:"image"`
	StandardRate decimal.Decimal `json:"standard_rate"`
}

// ListItems lists enabled sales items. Items are global in the ledger, so the
// location only scopes stock, not the list itself.
func (r *FrappeRepository) ListItems(ctx context.Context, locationID string) ([]models.CatalogItem, error) {
	log.Printf("🔍 ListItems: location=%s", locationID)

	var records []itemRecord
	err := r.client.List(ctx, ListRequest{
		Doctype: "Item",
		Fields:  []string{"name", "item_name", "image", "standard_rate"},
		Filters: []Filter{Eq("disabled", 0), Eq("is_sales_item", 1)},
		Limit:   r.limit,
		OrderBy: "item_name asc",
	}, &records)
	if err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(records))
	for _, rec := range records {
		name := rec.ItemName
		if name == "" {
			name = rec.Name
		}
		items = append(items, models.CatalogItem{
			ID:        rec.Name,
			Name:      name,
			ImageRef:  rec.Image,
			BasePrice: rec.StandardRate,
		})
	}

	log.Printf("✓ ListItems: %d items", len(items))
	return items, nil
}

// GetStockLevel returns the actual quantity of an item in a warehouse
func (r *FrappeRepository) GetStockLevel(ctx context.Context, itemID, locationID string) (*models.StockLevel, error) {
	var records []struct {
		ActualQty decimal.Decimal `json:"actual_qty"`
	}
	err := r.client.List(ctx, ListRequest{
		Doctype: "Bin",
		Fields:  []string{"actual_qty"},
		Filters: []Filter{Eq("item_code", itemID), Eq("warehouse", locationID)},
	}, &records)
	if err != nil {
		return nil, err
	}

	level := &models.StockLevel{ItemID: itemID, LocationID: locationID}
	for _, rec := range records {
		level.AvailableQty = level.AvailableQty.Add(rec.ActualQty)
	}
	return level, nil
}

// GetExchangeRate returns the most recently created rate for date that links
// currency and base in either direction
func (r *FrappeRepository) GetExchangeRate(ctx context.Context, currency, base string, date time.Time) (*models.ExchangeRate, error) {
	day := date.Format(time.DateOnly)
	var records []struct {
		FromCurrency string          `json:"from_currency"`
		ToCurrency   string          `json:"to_currency"`
		ExRate       decimal.Decimal `json:"ex_rate"`
	}
	err := r.client.List(ctx, ListRequest{
		Doctype: "Custom Exchange Rate",
		Fields:  []string{"from_currency", "to_currency", "ex_rate"},
		Filters: []Filter{Eq("date", day)},
		Limit:   r.limit,
		OrderBy: "creation desc",
	}, &records)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		forward := rec.FromCurrency == base && rec.ToCurrency == currency
		backward := rec.FromCurrency == currency && rec.ToCurrency == base
		if !forward && !backward {
			continue
		}
		return &models.ExchangeRate{
			From: rec.FromCurrency,
			To:   rec.ToCurrency,
			Rate: rec.ExRate,
			Date: date,
		}, nil
	}

	log.Printf("⚠️  GetExchangeRate: no rate between %s and %s on %s", currency, base, day)
	return nil, nil
}

// ListWarehouses lists non-group warehouses
func (r *FrappeRepository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var out []models.Warehouse
	err := r.client.List(ctx, ListRequest{
		Doctype: "Warehouse",
		Fields:  []string{"name"},
		Filters: []Filter{Eq("is_group", 0)},
		Limit:   r.limit,
	}, &out)
	return out, err
}

// ListCustomers lists enabled customers
func (r *FrappeRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := r.client.List(ctx, ListRequest{
		Doctype: "Customer",
		Fields:  []string{"name"},
		Filters: []Filter{Eq("disabled", 0)},
		Limit:   r.limit,
	}, &out)
	return out, err
}

// ListCurrencies lists enabled currencies
func (r *FrappeRepository) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	var out []models.Currency
	err := r.client.List(ctx, ListRequest{
		Doctype: "Currency",
		Fields:  []string{"name"},
		Filters: []Filter{Eq("enabled", 1)},
		Limit:   r.limit,
	}, &out)
	return out, err
}

// ListPaymentMethods lists enabled modes of payment with their category
func (r *FrappeRepository) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	err := r.client.List(ctx, ListRequest{
		Doctype: "Mode of Payment",
		Fields:  []string{"name", "type"},
		Filters: []Filter{Eq("enabled", 1)},
		Limit:   r.limit,
	}, &out)
	return out, err
}

// ListAccounts lists non-group accounts, optionally restricted to one account type
func (r *FrappeRepository) ListAccounts(ctx context.Context, accountType string) ([]models.Account, error) {
	filters := []Filter{Eq("is_group", 0)}
	if accountType != "" {
		filters = append(filters, Eq("account_type", accountType))
	}
	if r.company != "" {
		filters = append(filters, Eq("company", r.company))
	}

	var records []struct {
		Name            string `json:"name"`
		AccountType     string `json:"account_type"`
		AccountCurrency string `json:"account_currency"`
	}
	err := r.client.List(ctx, ListRequest{
		Doctype: "Account",
		Fields:  []string{"name", "account_type", "account_currency"},
		Filters: filters,
		Limit:   r.limit,
	}, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(records))
	for _, rec := range records {
		accounts = append(accounts, models.Account{
			Name:        rec.Name,
			AccountType: rec.AccountType,
			Currency:    rec.AccountCurrency,
		})
	}
	return accounts, nil
}
