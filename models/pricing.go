package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents a directional conversion rate configured for a date:
// one unit of From is worth Rate units of To.
type ExchangeRate struct {
	From string          `json:"fromCurrency"`
	To   string          `json:"toCurrency"`
	Rate decimal.Decimal `json:"rate"`
	Date time.Time       `json:"date"`
}
