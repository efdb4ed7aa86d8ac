package models

import "github.com/shopspring/decimal"

// Session holds the operator's selections for one terminal.
// All three must be set before checkout is permitted.
type Session struct {
	LocationID     string `json:"locationId,omitempty"`
	CounterpartyID string `json:"counterpartyId,omitempty"`
	CurrencyCode   string `json:"currency,omitempty"`
}

// Ready reports whether location, counterparty and currency are all selected
func (s Session) Ready() bool {
	return s.LocationID != "" && s.CounterpartyID != "" && s.CurrencyCode != ""
}

// CartLine represents one selection in the cart, keyed by ItemID
type CartLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Amount returns quantity times unit price
func (l CartLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Payment statuses selectable in the payment dialog
type PaymentStatus string

const (
	PaymentNotPaid    PaymentStatus = "Not Paid"
	PaymentPaid       PaymentStatus = "Paid"
	PaymentPartlyPaid PaymentStatus = "Partly Paid"
)

// Valid reports whether s is one of the known statuses
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentNotPaid, PaymentPaid, PaymentPartlyPaid:
		return true
	}
	return false
}

// StockDisposition tells whether inventory is decremented at the moment of sale
type StockDisposition string

const (
	StockTaken    StockDisposition = "Taken"
	StockNotTaken StockDisposition = "Not Taken"
)

// Valid reports whether d is one of the known dispositions
func (d StockDisposition) Valid() bool {
	return d == StockTaken || d == StockNotTaken
}

// UpdateSessionRequest represents the request body for changing session selections.
// Omitted fields are left untouched.
// Example: {"locationId": "Stores - NX", "counterpartyId": "Walk-in", "currency": "USD"}
type UpdateSessionRequest struct {
	LocationID     *string `json:"locationId,omitempty"`
	CounterpartyID *string `json:"counterpartyId,omitempty"`
	CurrencyCode   *string `json:"currency,omitempty"`
}

// AddCartItemRequest represents the request body for adding an item to the cart
// Example: {"itemId": "ITEM-001"}
type AddCartItemRequest struct {
	ItemID string `json:"itemId"`
}

// UpdateCartLineRequest represents the request body for overriding a cart line
// Example: {"quantity": "3", "price": "9.5"}
type UpdateCartLineRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// UpdatePaymentRequest represents the request body for changing payment dialog fields.
// Omitted fields are left untouched.
// Example: {"status": "Partly Paid", "disposition": "Taken", "method": "Cash", "account": "Cash - NX", "paidAmount": "40"}
type UpdatePaymentRequest struct {
	Status      *PaymentStatus    `json:"status,omitempty"`
	Disposition *StockDisposition `json:"disposition,omitempty"`
	Method      *string           `json:"method,omitempty"`
	Account     *string           `json:"account,omitempty"`
	PaidAmount  *decimal.Decimal  `json:"paidAmount,omitempty"`
	Remarks     *string           `json:"remarks,omitempty"`
}

// PaymentView represents the observable state of the payment dialog
type PaymentView struct {
	Status             PaymentStatus    `json:"status,omitempty"`
	Disposition        StockDisposition `json:"disposition,omitempty"`
	Method             string           `json:"method,omitempty"`
	Account            string           `json:"account,omitempty"`
	PaidAmount         decimal.Decimal  `json:"paidAmount"`
	PaidAmountLocked   bool             `json:"paidAmountLocked"`
	RequiresSettlement bool             `json:"requiresSettlement"`
	Total              decimal.Decimal  `json:"total"`
	Outstanding        decimal.Decimal  `json:"outstanding"`
	Remarks            string           `json:"remarks,omitempty"`
	Complete           bool             `json:"complete"`
	Submitting         bool             `json:"submitting"`
}

// TerminalResponse represents a snapshot of a terminal
// Example response:
// {
//   "id": "0b7c...",
//   "session": {"locationId": "Stores - NX", "counterpartyId": "Walk-in", "currency": "USD"},
//   "lines": [{"itemId": "ITEM-001", "name": "Coffee", "quantity": "2", "unitPrice": "10"}],
//   "total": "20",
//   "itemCount": "2",
//   "paymentOpen": false,
//   "submitting": false
// }
type TerminalResponse struct {
	ID          string          `json:"id"`
	Session     Session         `json:"session"`
	Lines       []CartLine      `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   decimal.Decimal `json:"itemCount"`
	PaymentOpen bool            `json:"paymentOpen"`
	Payment     *PaymentView    `json:"payment,omitempty"`
	Submitting  bool            `json:"submitting"`
	RateWarning string          `json:"rateWarning,omitempty"`
	LastSale    string          `json:"lastSale,omitempty"`
}
