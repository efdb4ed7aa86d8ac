package controller

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"next-pos/models"
	"next-pos/service"
)

// CatalogController handles HTTP requests for the priced catalog, stock levels and item images
type CatalogController struct {
	terminals service.TerminalServiceInterface
	images    service.ItemImageServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(terminals service.TerminalServiceInterface, images service.ItemImageServiceInterface) *CatalogController {
	return &CatalogController{
		terminals: terminals,
		images:    images,
	}
}

// GetCatalog handles GET /pos/terminals/{id}/catalog?search=
// Example request:
// GET /pos/terminals/0b7c.../catalog?search=coff
// Example response:
// {
//   "location": "Stores - NX",
//   "currency": "EUR",
//   "items": [{"id": "ITEM-001", "name": "Coffee", "basePrice": "2.5", "price": "2.3"}]
// }
// When the currency has no usable rate, items is empty and warning explains why.
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetCatalog: Received %s request to %s", r.Method, r.URL.String())

	term, ok := terminal(w, r, c.terminals, "GetCatalog")
	if !ok {
		return
	}

	resp := term.Catalog(r.URL.Query().Get("search"))
	if resp.Warning != "" {
		log.Printf("⚠️  GetCatalog: %s", resp.Warning)
	}
	log.Printf("✅ GetCatalog: %d items in %s", len(resp.Items), resp.Currency)
	writeJSON(w, http.StatusOK, resp)
}

// GetStock handles GET /pos/terminals/{id}/stock/{itemId}
// Example response:
// {
//   "itemId": "ITEM-001",
//   "locationId": "Stores - NX",
//   "availableQty": "12",
//   "hasStock": true
// }
func (c *CatalogController) GetStock(w http.ResponseWriter, r *http.Request) {
	term, ok := terminal(w, r, c.terminals, "GetStock")
	if !ok {
		return
	}

	level, err := term.Stock(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		respondError(w, "GetStock", err)
		return
	}
	writeJSON(w, http.StatusOK, models.StockResponse{StockLevel: level, HasStock: level.HasStock()})
}

// GetImage handles GET /pos/images?ref=/files/coffee.png&size=thumb
// Serves an optimized JPEG rendition of an item image.
func (c *CatalogController) GetImage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetImage: Received %s request to %s", r.Method, r.URL.String())

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "ref parameter is required")
		return
	}
	size, err := service.ParseImageSize(r.URL.Query().Get("size"))
	if err != nil {
		respondError(w, "GetImage", err)
		return
	}

	data, err := c.images.GetImage(r.Context(), ref, size)
	if err != nil {
		respondError(w, "GetImage", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetImage: Error writing response: %v", err)
	}
}
