package models

import "fmt"

// SalesInvoice is the sale document sent to the remote ledger in a single
// create call. Field names follow the remote doctype.
type SalesInvoice struct {
	Customer        string                `json:"customer"`
	PostingDate     string                `json:"posting_date"`
	UpdateStock     int                   `json:"update_stock"`
	SetWarehouse    string                `json:"set_warehouse,omitempty"`
	Currency        string                `json:"currency"`
	Items           []SalesInvoiceItem    `json:"items"`
	GrandTotal      float64               `json:"grand_total"`
	Status          string                `json:"status"`
	PaidAmount      *float64              `json:"paid_amount,omitempty"`
	IsPos           int                   `json:"is_pos"`
	DocStatus       int                   `json:"docstatus"`
	CashBankAccount string                `json:"cash_bank_account,omitempty"`
	Remarks         string                `json:"remarks,omitempty"`
	Payments        []SalesInvoicePayment `json:"payments"`
}

// SalesInvoiceItem represents one line of the sale document
type SalesInvoiceItem struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name,omitempty"`
	Qty      float64 `json:"qty"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

// SalesInvoicePayment represents the payment allocation row of a POS sale
type SalesInvoicePayment struct {
	ModeOfPayment string  `json:"mode_of_payment"`
	Amount        float64 `json:"amount"`
	BaseAmount    float64 `json:"base_amount"`
	Account       string  `json:"account"`
	Type          string  `json:"type,omitempty"`
	Default       int     `json:"default"`
}

// Document statuses written on the sale
const (
	DocumentStatusUnpaid     = "Unpaid"
	DocumentStatusPaid       = "Paid"
	DocumentStatusPartlyPaid = "Partly Paid"
)

// SaleResponse represents the response for a confirmed sale
// Example response:
// {
//   "name": "ACC-SINV-2026-00042",
//   "status": "Paid",
//   "grandTotal": 20,
//   "paidAmount": 20
// }
type SaleResponse struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	GrandTotal float64 `json:"grandTotal"`
	PaidAmount float64 `json:"paidAmount"`
}

// Server error categories
const (
	CategoryGeneral           = "general"
	CategoryInsufficientStock = "insufficient_stock"
	CategoryTransport         = "transport"
)

// ServerError is the structured shape every remote write failure is reduced to.
// Title and Detail are plain text.
type ServerError struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Category string `json:"category"`
	Cause    error  `json:"-"`
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *ServerError) Unwrap() error {
	return e.Cause
}
