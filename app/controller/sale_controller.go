package controller

import (
	"context"
	"log"
	"net/http"

	"next-pos/models"
	"next-pos/service"
)

// SaleController handles the payment dialog and sale submission of a terminal
type SaleController struct {
	terminals service.TerminalServiceInterface
}

// NewSaleController creates a new SaleController
func NewSaleController(terminals service.TerminalServiceInterface) *SaleController {
	return &SaleController{
		terminals: terminals,
	}
}

// Checkout handles POST /pos/terminals/{id}/checkout
// Validates the session and the cart and opens a fresh payment dialog.
// Example response:
// {
//   "paidAmount": "0",
//   "paidAmountLocked": true,
//   "requiresSettlement": false,
//   "total": "20",
//   "outstanding": "20",
//   "complete": false,
//   "submitting": false
// }
func (c *SaleController) Checkout(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Checkout: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "Checkout")
	if !ok {
		return
	}

	view, err := term.Checkout()
	if err != nil {
		respondError(w, "Checkout", err)
		return
	}

	log.Printf("✅ Checkout: Payment dialog opened for total %s", view.Total)
	writeJSON(w, http.StatusOK, view)
}

// GetPayment handles GET /pos/terminals/{id}/payment
func (c *SaleController) GetPayment(w http.ResponseWriter, r *http.Request) {
	term, ok := terminal(w, r, c.terminals, "GetPayment")
	if !ok {
		return
	}

	view, err := term.Payment()
	if err != nil {
		respondError(w, "GetPayment", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdatePayment handles PUT /pos/terminals/{id}/payment
// Example request:
// PUT /pos/terminals/0b7c.../payment
// {
//   "status": "Partly Paid",
//   "disposition": "Taken",
//   "method": "Cash",
//   "account": "Cash - NX",
//   "paidAmount": "5"
// }
// Changing the status resets the paid amount; fields are applied in the
// order status, disposition, method, account, paid amount, remarks.
func (c *SaleController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdatePayment: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "UpdatePayment")
	if !ok {
		return
	}

	var req models.UpdatePaymentRequest
	if !decodeBody(w, r, "UpdatePayment", &req) {
		return
	}

	view, err := term.UpdatePayment(r.Context(), req)
	if err != nil {
		respondError(w, "UpdatePayment", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClosePayment handles DELETE /pos/terminals/{id}/payment
func (c *SaleController) ClosePayment(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ClosePayment: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "ClosePayment")
	if !ok {
		return
	}
	term.ClosePayment()
	w.WriteHeader(http.StatusNoContent)
}

// Confirm handles POST /pos/terminals/{id}/payment/confirm
// Example response:
// {
//   "name": "ACC-SINV-2026-00042",
//   "status": "Paid",
//   "grandTotal": 20,
//   "paidAmount": 20
// }
// Example error response (422):
// {
//   "title": "Insufficient Stock",
//   "detail": "2.0 units of ITEM-001 needed in Stores - NX to complete this transaction.",
//   "category": "insufficient_stock"
// }
func (c *SaleController) Confirm(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Confirm: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "Confirm")
	if !ok {
		return
	}

	// The sale must not be abandoned halfway when the client goes away.
	sale, err := term.Confirm(context.WithoutCancel(r.Context()))
	if err != nil {
		respondError(w, "Confirm", err)
		return
	}

	log.Printf("✅ Confirm: Created %s (%s, total %.2f)", sale.Name, sale.Status, sale.GrandTotal)
	writeJSON(w, http.StatusOK, sale)
}
