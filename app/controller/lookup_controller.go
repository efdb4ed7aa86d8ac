package controller

import (
	"fmt"
	"log"
	"net/http"

	"next-pos/models"
	"next-pos/repository"
)

// LookupController handles HTTP requests for the pick lists of the session and payment dialog
type LookupController struct {
	repository repository.LookupRepositoryInterface
}

// NewLookupController creates a new LookupController
func NewLookupController(repo repository.LookupRepositoryInterface) *LookupController {
	return &LookupController{
		repository: repo,
	}
}

func respondList[T any](w http.ResponseWriter, handler string, list []T, err error) {
	if err != nil {
		respondError(w, handler, err)
		return
	}
	if list == nil {
		list = []T{}
	}
	log.Printf("✅ %s: Returned %d records", handler, len(list))
	writeJSON(w, http.StatusOK, list)
}

// ListWarehouses handles GET /pos/lookups/warehouses
// Example response:
// [{"name": "Stores - NX"}]
func (c *LookupController) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	list, err := c.repository.ListWarehouses(r.Context())
	respondList(w, "ListWarehouses", list, err)
}

// ListCustomers handles GET /pos/lookups/customers
func (c *LookupController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := c.repository.ListCustomers(r.Context())
	respondList(w, "ListCustomers", list, err)
}

// ListCurrencies handles GET /pos/lookups/currencies
func (c *LookupController) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	list, err := c.repository.ListCurrencies(r.Context())
	respondList(w, "ListCurrencies", list, err)
}

// ListPaymentMethods handles GET /pos/lookups/payment-methods
// Example response:
// [{"name": "Cash", "type": "Cash"}, {"name": "Wire Transfer", "type": "Bank"}]
func (c *LookupController) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	list, err := c.repository.ListPaymentMethods(r.Context())
	respondList(w, "ListPaymentMethods", list, err)
}

// ListAccounts handles GET /pos/lookups/accounts?method=Cash
// With a method, only the accounts that settle its category are listed.
func (c *LookupController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListAccounts: Received %s request to %s", r.Method, r.URL.String())

	accountType := ""
	if name := r.URL.Query().Get("method"); name != "" {
		method, err := c.findMethod(r, name)
		if err != nil {
			respondError(w, "ListAccounts", err)
			return
		}
		if method == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("mode of payment %q not found", name))
			return
		}
		accountType = models.AccountTypeFor(method.Type)
	}

	list, err := c.repository.ListAccounts(r.Context(), accountType)
	respondList(w, "ListAccounts", list, err)
}

func (c *LookupController) findMethod(r *http.Request, name string) (*models.PaymentMethod, error) {
	methods, err := c.repository.ListPaymentMethods(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].Name == name {
			return &methods[i], nil
		}
	}
	return nil, nil
}
