package controller

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"next-pos/models"
	"next-pos/pos"
	"next-pos/service"
)

// TerminalController handles HTTP requests for terminals, their session and their cart
type TerminalController struct {
	terminals service.TerminalServiceInterface
}

// NewTerminalController creates a new TerminalController
func NewTerminalController(terminals service.TerminalServiceInterface) *TerminalController {
	return &TerminalController{
		terminals: terminals,
	}
}

// terminal resolves the {id} path parameter, writing the error response when it fails
func terminal(w http.ResponseWriter, r *http.Request, terminals service.TerminalServiceInterface, handler string) (*pos.Terminal, bool) {
	id := chi.URLParam(r, "id")
	term, err := terminals.Get(id)
	if err != nil {
		respondError(w, handler, err)
		return nil, false
	}
	return term, true
}

// CreateTerminal handles POST /pos/terminals
// Example response:
// {
//   "id": "0b7c6f1e-...",
//   "session": {},
//   "lines": [],
//   "total": "0",
//   "itemCount": "0",
//   "paymentOpen": false,
//   "submitting": false
// }
func (c *TerminalController) CreateTerminal(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateTerminal: Received %s request to %s", r.Method, r.URL.Path)

	term := c.terminals.Create()

	log.Printf("✅ CreateTerminal: Opened terminal %s", term.ID())
	writeJSON(w, http.StatusCreated, term.Snapshot())
}

// GetTerminal handles GET /pos/terminals/{id}
func (c *TerminalController) GetTerminal(w http.ResponseWriter, r *http.Request) {
	term, ok := terminal(w, r, c.terminals, "GetTerminal")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, term.Snapshot())
}

// DeleteTerminal handles DELETE /pos/terminals/{id}
func (c *TerminalController) DeleteTerminal(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 DeleteTerminal: Received %s request to %s", r.Method, r.URL.Path)

	if err := c.terminals.Delete(chi.URLParam(r, "id")); err != nil {
		respondError(w, "DeleteTerminal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSession handles PUT /pos/terminals/{id}/session
// Example request:
// PUT /pos/terminals/0b7c.../session
// {
//   "locationId": "Stores - NX",
//   "counterpartyId": "Walk-in",
//   "currency": "EUR"
// }
// Responds with the terminal snapshot. A currency without a usable rate is
// not an error: the snapshot carries a rateWarning instead.
func (c *TerminalController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateSession: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "UpdateSession")
	if !ok {
		return
	}

	var req models.UpdateSessionRequest
	if !decodeBody(w, r, "UpdateSession", &req) {
		return
	}

	if err := term.UpdateSession(r.Context(), req); err != nil {
		respondError(w, "UpdateSession", err)
		return
	}

	snap := term.Snapshot()
	log.Printf("✅ UpdateSession: location=%q customer=%q currency=%q", snap.Session.LocationID, snap.Session.CounterpartyID, snap.Session.CurrencyCode)
	writeJSON(w, http.StatusOK, snap)
}

// AddItem handles POST /pos/terminals/{id}/cart/items
// Example request:
// POST /pos/terminals/0b7c.../cart/items
// {
//   "itemId": "ITEM-001"
// }
// Adding an item already in the cart increments its quantity.
func (c *TerminalController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "AddItem")
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if !decodeBody(w, r, "AddItem", &req) {
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	line, err := term.AddItem(req.ItemID)
	if err != nil {
		respondError(w, "AddItem", err)
		return
	}

	log.Printf("✅ AddItem: %s x%s @ %s", line.ItemID, line.Quantity, line.UnitPrice)
	writeJSON(w, http.StatusOK, term.Snapshot())
}

// UpdateItem handles PATCH /pos/terminals/{id}/cart/items/{itemId}
// Example request:
// PATCH /pos/terminals/0b7c.../cart/items/ITEM-001
// {
//   "quantity": "3",
//   "price": "9.50"
// }
func (c *TerminalController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateItem: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "UpdateItem")
	if !ok {
		return
	}

	var req models.UpdateCartLineRequest
	if !decodeBody(w, r, "UpdateItem", &req) {
		return
	}

	if _, err := term.UpdateLine(chi.URLParam(r, "itemId"), req.Quantity, req.Price); err != nil {
		respondError(w, "UpdateItem", err)
		return
	}
	writeJSON(w, http.StatusOK, term.Snapshot())
}

// RemoveItem handles DELETE /pos/terminals/{id}/cart/items/{itemId}
func (c *TerminalController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RemoveItem: Received %s request to %s", r.Method, r.URL.Path)

	term, ok := terminal(w, r, c.terminals, "RemoveItem")
	if !ok {
		return
	}

	if err := term.RemoveItem(chi.URLParam(r, "itemId")); err != nil {
		respondError(w, "RemoveItem", err)
		return
	}
	writeJSON(w, http.StatusOK, term.Snapshot())
}
