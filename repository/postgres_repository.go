package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"next-pos/models"
)

// PostgresRepository serves the engine's reads straight from the ledger's
// Postgres database. Writes are never made here: the sale document has to go
// through the document store so the ledger runs its own posting logic.
type PostgresRepository struct {
	db      *sql.DB
	company string
	limit   int
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *sql.DB, company string, limit int) *PostgresRepository {
	if limit <= 0 {
		limit = 1000
	}
	return &PostgresRepository{
		db:      db,
		company: company,
		limit:   limit,
	}
}

// Ensure PostgresRepository implements ReadRepositoryInterface
var _ ReadRepositoryInterface = (*PostgresRepository)(nil)

// ListItems lists enabled sales items
func (r *PostgresRepository) ListItems(ctx context.Context, locationID string) ([]models.CatalogItem, error) {
	log.Printf("🔍 ListItems (postgres): location=%s", locationID)

	query := `
		SELECT name, COALESCE(NULLIF(item_name, ''), name), COALESCE(image, ''), COALESCE(standard_rate, 0)
		FROM "tabItem"
		WHERE disabled = 0 AND is_sales_item = 1
		ORDER BY item_name
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, r.limit)
	if err != nil {
		log.Printf("❌ ListItems: Error querying items: %v", err)
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.ImageRef, &item.BasePrice); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	log.Printf("✓ ListItems (postgres): %d items", len(items))
	return items, nil
}

// GetStockLevel sums the bin quantity of an item in a warehouse
func (r *PostgresRepository) GetStockLevel(ctx context.Context, itemID, locationID string) (*models.StockLevel, error) {
	query := `
		SELECT COALESCE(SUM(actual_qty), 0)
		FROM "tabBin"
		WHERE item_code = $1 AND warehouse = $2
	`
	var qty decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, itemID, locationID).Scan(&qty); err != nil {
		return nil, fmt.Errorf("failed to query stock for %s: %w", itemID, err)
	}

	return &models.StockLevel{
		ItemID:       itemID,
		LocationID:   locationID,
		AvailableQty: qty,
	}, nil
}

// GetExchangeRate returns the most recently created rate for date that links
// currency and base in either direction
func (r *PostgresRepository) GetExchangeRate(ctx context.Context, currency, base string, date time.Time) (*models.ExchangeRate, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	query := `
		SELECT from_currency, to_currency, ex_rate
		FROM "tabCustom Exchange Rate"
		WHERE date = $1
		  AND ((from_currency = $2 AND to_currency = $3) OR (from_currency = $3 AND to_currency = $2))
		ORDER BY creation DESC
		LIMIT 1
	`
	rate := &models.ExchangeRate{Date: date}
	err := r.db.QueryRowContext(ctx, query, day, base, currency).Scan(&rate.From, &rate.To, &rate.Rate)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("⚠️  GetExchangeRate (postgres): no rate between %s and %s on %s", currency, base, day.Format(time.DateOnly))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}
	return rate, nil
}

// ListWarehouses lists non-group warehouses
func (r *PostgresRepository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	names, err := r.listNames(ctx, `SELECT name FROM "tabWarehouse" WHERE is_group = 0 AND disabled = 0 ORDER BY name LIMIT $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	out := make([]models.Warehouse, 0, len(names))
	for _, n := range names {
		out = append(out, models.Warehouse{Name: n})
	}
	return out, nil
}

// ListCustomers lists enabled customers
func (r *PostgresRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	names, err := r.listNames(ctx, `SELECT name FROM "tabCustomer" WHERE disabled = 0 ORDER BY name LIMIT $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	out := make([]models.Customer, 0, len(names))
	for _, n := range names {
		out = append(out, models.Customer{Name: n})
	}
	return out, nil
}

// ListCurrencies lists enabled currencies
func (r *PostgresRepository) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	names, err := r.listNames(ctx, `SELECT name FROM "tabCurrency" WHERE enabled = 1 ORDER BY name LIMIT $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	out := make([]models.Currency, 0, len(names))
	for _, n := range names {
		out = append(out, models.Currency{Name: n})
	}
	return out, nil
}

// ListPaymentMethods lists enabled modes of payment with their category
func (r *PostgresRepository) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	query := `SELECT name, COALESCE(type, '') FROM "tabMode of Payment" WHERE enabled = 1 ORDER BY name LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, r.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var out []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.Name, &m.Type); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListAccounts lists non-group accounts, optionally restricted to one account type
func (r *PostgresRepository) ListAccounts(ctx context.Context, accountType string) ([]models.Account, error) {
	query := `
		SELECT name, COALESCE(account_type, ''), COALESCE(account_currency, '')
		FROM "tabAccount"
		WHERE is_group = 0
		  AND ($1 = '' OR account_type = $1)
		  AND ($2 = '' OR company = $2)
		ORDER BY name
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, accountType, r.company, r.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Name, &a.AccountType, &a.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) listNames(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, r.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
