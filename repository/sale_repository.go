package repository

import (
	"context"
	"log"

	"next-pos/models"
)

const salesInvoiceDoctype = "Sales Invoice"

// CreateSalesInvoice creates the sale document in a single remote call.
// The document carries docstatus=1, so the ledger submits it on insert.
func (r *FrappeRepository) CreateSalesInvoice(ctx context.Context, doc *models.SalesInvoice) (string, error) {
	log.Printf("📦 CreateSalesInvoice: customer=%s, currency=%s, lines=%d, grand_total=%.2f, status=%s",
		doc.Customer, doc.Currency, len(doc.Items), doc.GrandTotal, doc.Status)

	name, err := r.client.Create(ctx, salesInvoiceDoctype, doc)
	if err != nil {
		log.Printf("❌ CreateSalesInvoice: %v", err)
		return "", err
	}

	log.Printf("✅ CreateSalesInvoice: created %s", name)
	return name, nil
}
