package pos

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"next-pos/models"
	"next-pos/repository"
)

var _ repository.ReadRepositoryInterface = (*fakeStore)(nil)
var _ repository.SaleRepositoryInterface = (*fakeStore)(nil)

// fakeStore is an in-memory document store. Rate and create calls can be
// held on a gate to exercise overlapping requests.
type fakeStore struct {
	mu sync.Mutex

	items    map[string][]models.CatalogItem
	stock    map[string]decimal.Decimal
	rates    map[string]*models.ExchangeRate
	rateErr  error
	rateGate map[string]chan struct{}

	methods  []models.PaymentMethod
	accounts []models.Account

	createErr  error
	createGate chan struct{}
	created    []*models.SalesInvoice

	stockCalls int
	rateCalls  int
	itemCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: map[string][]models.CatalogItem{
			"Stores - NX": {
				{ID: "ITEM-A", Name: "Arabica Beans", BasePrice: decimal.NewFromInt(10)},
				{ID: "ITEM-B", Name: "Butter Croissant", BasePrice: decimal.RequireFromString("2.5")},
				{ID: "ITEM-C", Name: "Cold Brew", BasePrice: decimal.NewFromInt(4)},
			},
			"Kiosk - NX": {
				{ID: "ITEM-K", Name: "Kiosk Water", BasePrice: decimal.NewFromInt(1)},
			},
		},
		stock:    map[string]decimal.Decimal{"ITEM-A": decimal.NewFromInt(5)},
		rates:    map[string]*models.ExchangeRate{},
		rateGate: map[string]chan struct{}{},
		methods: []models.PaymentMethod{
			{Name: "Cash", Type: models.PaymentMethodCash},
			{Name: "Wire Transfer", Type: models.PaymentMethodBank},
		},
		accounts: []models.Account{
			{Name: "Cash - NX", AccountType: "Cash"},
			{Name: "Main Bank - NX", AccountType: "Bank"},
		},
	}
}

func (f *fakeStore) ListItems(ctx context.Context, locationID string) ([]models.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls++
	return append([]models.CatalogItem(nil), f.items[locationID]...), nil
}

func (f *fakeStore) GetStockLevel(ctx context.Context, itemID, locationID string) (*models.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockCalls++
	return &models.StockLevel{ItemID: itemID, LocationID: locationID, AvailableQty: f.stock[itemID]}, nil
}

func (f *fakeStore) GetExchangeRate(ctx context.Context, currency, base string, date time.Time) (*models.ExchangeRate, error) {
	f.mu.Lock()
	gate := f.rateGate[currency]
	f.rateCalls++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	return f.rates[currency], nil
}

func (f *fakeStore) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return []models.Warehouse{{Name: "Stores - NX"}, {Name: "Kiosk - NX"}}, nil
}

func (f *fakeStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return []models.Customer{{Name: "Walk-in"}}, nil
}

func (f *fakeStore) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	return []models.Currency{{Name: "USD"}, {Name: "EUR"}}, nil
}

func (f *fakeStore) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return f.methods, nil
}

func (f *fakeStore) ListAccounts(ctx context.Context, accountType string) ([]models.Account, error) {
	var out []models.Account
	for _, a := range f.accounts {
		if accountType == "" || a.AccountType == accountType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSalesInvoice(ctx context.Context, doc *models.SalesInvoice) (string, error) {
	f.mu.Lock()
	gate := f.createGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, doc)
	return "ACC-SINV-2026-00001", nil
}

var testDay = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestTerminal(store *fakeStore) *Terminal {
	return NewTerminal("t-1", Dependencies{
		Reads:        store,
		Sales:        store,
		BaseCurrency: "USD",
		Clock:        func() time.Time { return testDay },
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}
