package models

// Warehouse represents a stock location
type Warehouse struct {
	Name string `json:"name"`
}

// Customer represents a counterparty on a sale
type Customer struct {
	Name string `json:"name"`
}

// Currency represents an enabled currency code
type Currency struct {
	Name string `json:"name"`
}

// PaymentMethod represents a mode of payment.
// Type is the method's category: "Cash", "Bank" or "General".
type PaymentMethod struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Account represents a non-group ledger account usable for settlement
type Account struct {
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	Currency    string `json:"currency,omitempty"`
}

// Payment method categories
const (
	PaymentMethodCash    = "Cash"
	PaymentMethodBank    = "Bank"
	PaymentMethodGeneral = "General"
)

// AccountTypeFor returns the account type that settles payments of the given
// method category, or "" when any settlement account is acceptable.
func AccountTypeFor(methodType string) string {
	switch methodType {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodBank:
		return "Bank"
	default:
		return ""
	}
}
