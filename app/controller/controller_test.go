package controller_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"next-pos/app/controller"
	"next-pos/app/router"
	"next-pos/models"
	"next-pos/pos"
	"next-pos/repository"
	"next-pos/service"
)

type store struct {
	createErr error

	mu      sync.Mutex
	created []*models.SalesInvoice
}

func (s *store) sales() []*models.SalesInvoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.SalesInvoice(nil), s.created...)
}

func (s *store) ListItems(ctx context.Context, locationID string) ([]models.CatalogItem, error) {
	return []models.CatalogItem{
		{ID: "ITEM-A", Name: "Arabica Beans", BasePrice: decimal.NewFromInt(10)},
		{ID: "ITEM-B", Name: "Butter Croissant", BasePrice: decimal.RequireFromString("2.5")},
	}, nil
}

func (s *store) GetStockLevel(ctx context.Context, itemID, locationID string) (*models.StockLevel, error) {
	return &models.StockLevel{ItemID: itemID, LocationID: locationID, AvailableQty: decimal.NewFromInt(3)}, nil
}

func (s *store) GetExchangeRate(ctx context.Context, currency, base string, date time.Time) (*models.ExchangeRate, error) {
	if currency == "EUR" {
		return &models.ExchangeRate{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.5"), Date: date}, nil
	}
	return nil, nil
}

func (s *store) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return []models.Warehouse{{Name: "Stores - NX"}}, nil
}

func (s *store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return nil, nil
}

func (s *store) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	return []models.Currency{{Name: "USD"}, {Name: "EUR"}}, nil
}

func (s *store) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return []models.PaymentMethod{{Name: "Cash", Type: "Cash"}, {Name: "Wire Transfer", Type: "Bank"}}, nil
}

func (s *store) ListAccounts(ctx context.Context, accountType string) ([]models.Account, error) {
	all := []models.Account{{Name: "Cash - NX", AccountType: "Cash"}, {Name: "Main Bank - NX", AccountType: "Bank"}}
	var out []models.Account
	for _, a := range all {
		if accountType == "" || a.AccountType == accountType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *store) CreateSalesInvoice(ctx context.Context, doc *models.SalesInvoice) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, doc)
	return "ACC-SINV-2026-00007", nil
}

type images struct{}

func (images) GetImage(ctx context.Context, ref string, size service.ImageSize) ([]byte, error) {
	if ref == "drive:missing" {
		return nil, service.ErrImageSourceDisabled
	}
	return []byte("jpeg:" + ref + ":" + string(size)), nil
}

func newServer(t *testing.T, s *store) *httptest.Server {
	t.Helper()
	terminals := service.NewTerminalService(pos.Dependencies{Reads: s, Sales: s, BaseCurrency: "USD"}, 0)
	handler := router.SetupRoutes(&router.Controllers{
		Terminal: controller.NewTerminalController(terminals),
		Sale:     controller.NewSaleController(terminals),
		Catalog:  controller.NewCatalogController(terminals, images{}),
		Lookup:   controller.NewLookupController(s),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	assert.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func openTerminal(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	status, data := call(t, srv, http.MethodPost, "/pos/terminals", "")
	assert.Equal(t, http.StatusCreated, status)
	return decode[models.TerminalResponse](t, data).ID
}

func TestPing(t *testing.T) {
	srv := newServer(t, &store{})
	status, data := call(t, srv, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"status":"ok"}`, string(data))
}

func TestCashSaleOverHTTP(t *testing.T) {
	s := &store{}
	srv := newServer(t, s)
	id := openTerminal(t, srv)
	base := "/pos/terminals/" + id

	status, _ := call(t, srv, http.MethodPut, base+"/session", `{"locationId":"Stores - NX","counterpartyId":"Walk-in","currency":"USD"}`)
	assert.Equal(t, http.StatusOK, status)

	status, data := call(t, srv, http.MethodGet, base+"/catalog?search=arab", "")
	assert.Equal(t, http.StatusOK, status)
	catalog := decode[models.CatalogResponse](t, data)
	assert.Equal(t, 1, len(catalog.Items))

	call(t, srv, http.MethodPost, base+"/cart/items", `{"itemId":"ITEM-A"}`)
	status, data = call(t, srv, http.MethodPost, base+"/cart/items", `{"itemId":"ITEM-A"}`)
	assert.Equal(t, http.StatusOK, status)
	snap := decode[models.TerminalResponse](t, data)
	assert.Equal(t, 1, len(snap.Lines))
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(20)))

	status, _ = call(t, srv, http.MethodPost, base+"/checkout", "")
	assert.Equal(t, http.StatusOK, status)

	status, data = call(t, srv, http.MethodPut, base+"/payment", `{"status":"Paid","disposition":"Taken","method":"Cash","account":"Cash - NX"}`)
	assert.Equal(t, http.StatusOK, status)
	view := decode[models.PaymentView](t, data)
	assert.True(t, view.Complete)
	assert.True(t, view.PaidAmount.Equal(decimal.NewFromInt(20)))

	status, data = call(t, srv, http.MethodPost, base+"/payment/confirm", "")
	assert.Equal(t, http.StatusOK, status)
	sale := decode[models.SaleResponse](t, data)
	assert.Equal(t, "ACC-SINV-2026-00007", sale.Name)
	assert.Equal(t, 20.0, sale.PaidAmount)

	created := s.sales()
	assert.Equal(t, 1, len(created))
	assert.Equal(t, 1, created[0].IsPos)

	_, data = call(t, srv, http.MethodGet, base, "")
	snap = decode[models.TerminalResponse](t, data)
	assert.Equal(t, 0, len(snap.Lines))
	assert.Equal(t, "ACC-SINV-2026-00007", snap.LastSale)
}

func TestSubmissionFailureIsStructured(t *testing.T) {
	s := &store{createErr: &repository.RemoteError{
		StatusCode:     417,
		ExcType:        "NegativeStockError",
		ServerMessages: `["{\"message\": \"1.0 units of <b>ITEM-A</b> needed in Stores - NX\", \"title\": \"Message\"}"]`,
	}}
	srv := newServer(t, s)
	id := openTerminal(t, srv)
	base := "/pos/terminals/" + id

	call(t, srv, http.MethodPut, base+"/session", `{"locationId":"Stores - NX","counterpartyId":"Walk-in","currency":"USD"}`)
	call(t, srv, http.MethodPost, base+"/cart/items", `{"itemId":"ITEM-A"}`)
	call(t, srv, http.MethodPost, base+"/checkout", "")
	call(t, srv, http.MethodPut, base+"/payment", `{"status":"Not Paid","disposition":"Taken"}`)

	status, data := call(t, srv, http.MethodPost, base+"/payment/confirm", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	serverErr := decode[models.ServerError](t, data)
	assert.Equal(t, "Insufficient Stock", serverErr.Title)
	assert.Equal(t, "1.0 units of ITEM-A needed in Stores - NX", serverErr.Detail)
	assert.Equal(t, models.CategoryInsufficientStock, serverErr.Category)

	_, data = call(t, srv, http.MethodGet, base, "")
	snap := decode[models.TerminalResponse](t, data)
	assert.Equal(t, 1, len(snap.Lines))
	assert.True(t, snap.PaymentOpen)
}

func TestErrorStatuses(t *testing.T) {
	srv := newServer(t, &store{})
	id := openTerminal(t, srv)
	base := "/pos/terminals/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		error  string
	}{
		{"unknown terminal", http.MethodGet, "/pos/terminals/nope", "", http.StatusNotFound, "terminal not found"},
		{"checkout without location", http.MethodPost, base + "/checkout", "", http.StatusBadRequest, "please select a warehouse"},
		{"payment closed", http.MethodGet, base + "/payment", "", http.StatusConflict, "payment dialog is not open"},
		{"confirm without dialog", http.MethodPost, base + "/payment/confirm", "", http.StatusConflict, "payment dialog is not open"},
		{"missing item id", http.MethodPost, base + "/cart/items", `{}`, http.StatusBadRequest, "itemId is required"},
		{"bad json", http.MethodPut, base + "/session", `{`, http.StatusBadRequest, ""},
		{"unknown line", http.MethodPatch, base + "/cart/items/ITEM-Z", `{"quantity":"1"}`, http.StatusNotFound, ""},
		{"stock without location", http.MethodGet, base + "/stock/ITEM-A", "", http.StatusBadRequest, "please select a warehouse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(data))
			resp := decode[controller.ErrorResponse](t, data)
			assert.NotEqual(t, "", resp.Error)
			if tt.error != "" {
				assert.Equal(t, tt.error, resp.Error)
			}
		})
	}
}

func TestNegativeQuantityIsRejected(t *testing.T) {
	srv := newServer(t, &store{})
	id := openTerminal(t, srv)
	base := "/pos/terminals/" + id

	call(t, srv, http.MethodPut, base+"/session", `{"locationId":"Stores - NX"}`)
	call(t, srv, http.MethodPost, base+"/cart/items", `{"itemId":"ITEM-B"}`)

	status, _ := call(t, srv, http.MethodPatch, base+"/cart/items/ITEM-B", `{"quantity":"-2"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	_, data := call(t, srv, http.MethodGet, base, "")
	snap := decode[models.TerminalResponse](t, data)
	assert.True(t, snap.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))

	status, _ = call(t, srv, http.MethodDelete, base+"/cart/items/ITEM-B", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, srv, http.MethodDelete, base+"/cart/items/ITEM-B", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestForeignCurrencyCatalog(t *testing.T) {
	srv := newServer(t, &store{})
	id := openTerminal(t, srv)
	base := "/pos/terminals/" + id

	call(t, srv, http.MethodPut, base+"/session", `{"locationId":"Stores - NX","currency":"EUR"}`)
	_, data := call(t, srv, http.MethodGet, base+"/catalog", "")
	catalog := decode[models.CatalogResponse](t, data)
	assert.Equal(t, "EUR", catalog.Currency)
	assert.True(t, catalog.Items[0].Price.Equal(decimal.NewFromInt(5)))

	call(t, srv, http.MethodPut, base+"/session", `{"currency":"JPY"}`)
	_, data = call(t, srv, http.MethodGet, base+"/catalog", "")
	catalog = decode[models.CatalogResponse](t, data)
	assert.Equal(t, 0, len(catalog.Items))
	assert.NotEqual(t, "", catalog.Warning)
}

func TestLookups(t *testing.T) {
	srv := newServer(t, &store{})

	status, data := call(t, srv, http.MethodGet, "/pos/lookups/customers", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]\n", string(data))

	_, data = call(t, srv, http.MethodGet, "/pos/lookups/accounts?method=Wire%20Transfer", "")
	accounts := decode[[]models.Account](t, data)
	assert.Equal(t, []models.Account{{Name: "Main Bank - NX", AccountType: "Bank"}}, accounts)

	status, _ = call(t, srv, http.MethodGet, "/pos/lookups/accounts?method=Barter", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestImages(t *testing.T) {
	srv := newServer(t, &store{})

	status, data := call(t, srv, http.MethodGet, "/pos/images?ref=/files/a.png&size=thumb", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jpeg:/files/a.png:thumb", string(data))

	status, _ = call(t, srv, http.MethodGet, "/pos/images?ref=/files/a.png&size=huge", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodGet, "/pos/images?ref=drive:missing", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = call(t, srv, http.MethodGet, "/pos/images", "")
	assert.Equal(t, http.StatusBadRequest, status)
}
