package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"next-pos/app/controller"
)

type Controllers struct {
	Terminal *controller.TerminalController
	Sale     *controller.SaleController
	Catalog  *controller.CatalogController
	Lookup   *controller.LookupController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the HTTP handler of the service
func SetupRoutes(controllers *Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/pos", func(r chi.Router) {
		// Terminals: one per open point-of-sale screen
		r.Post("/terminals", controllers.Terminal.CreateTerminal)
		r.Route("/terminals/{id}", func(r chi.Router) {
			r.Get("/", controllers.Terminal.GetTerminal)
			r.Delete("/", controllers.Terminal.DeleteTerminal)
			r.Put("/session", controllers.Terminal.UpdateSession)

			r.Get("/catalog", controllers.Catalog.GetCatalog)
			r.Get("/stock/{itemId}", controllers.Catalog.GetStock)

			r.Post("/cart/items", controllers.Terminal.AddItem)
			r.Patch("/cart/items/{itemId}", controllers.Terminal.UpdateItem)
			r.Delete("/cart/items/{itemId}", controllers.Terminal.RemoveItem)

			r.Post("/checkout", controllers.Sale.Checkout)
			r.Get("/payment", controllers.Sale.GetPayment)
			r.Put("/payment", controllers.Sale.UpdatePayment)
			r.Delete("/payment", controllers.Sale.ClosePayment)
			r.Post("/payment/confirm", controllers.Sale.Confirm)
		})

		r.Route("/lookups", func(r chi.Router) {
			r.Get("/warehouses", controllers.Lookup.ListWarehouses)
			r.Get("/customers", controllers.Lookup.ListCustomers)
			r.Get("/currencies", controllers.Lookup.ListCurrencies)
			r.Get("/payment-methods", controllers.Lookup.ListPaymentMethods)
			r.Get("/accounts", controllers.Lookup.ListAccounts)
		})

		r.Get("/images", controllers.Catalog.GetImage)
	})

	return r
}
