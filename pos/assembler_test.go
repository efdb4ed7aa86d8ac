package pos

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"next-pos/models"
)

var readySession = models.Session{LocationID: "Stores - NX", CounterpartyID: "Walk-in", CurrencyCode: "USD"}

func twoCoffees() []models.CartLine {
	return []models.CartLine{{ItemID: "ITEM-A", Name: "Arabica Beans", Quantity: dec("2"), UnitPrice: dec("10")}}
}

func TestAssembleCashSale(t *testing.T) {
	details := PaymentDetails{
		Outcome:     Paid{Method: cash, Account: "Cash - NX", Amount: dec("20")},
		Disposition: models.StockTaken,
	}

	doc, err := Assemble(readySession, twoCoffees(), details, testDay)
	assert.NoError(t, err)
	assert.Equal(t, "Walk-in", doc.Customer)
	assert.Equal(t, "2026-03-14", doc.PostingDate)
	assert.Equal(t, "Stores - NX", doc.SetWarehouse)
	assert.Equal(t, 1, doc.IsPos)
	assert.Equal(t, 1, doc.UpdateStock)
	assert.Equal(t, 1, doc.DocStatus)
	assert.Equal(t, "Paid", doc.Status)
	assert.Equal(t, 20.0, doc.GrandTotal)
	assert.Equal(t, 20.0, *doc.PaidAmount)
	assert.Equal(t, "Cash - NX", doc.CashBankAccount)
	assert.Equal(t, []models.SalesInvoicePayment{{
		ModeOfPayment: "Cash", Amount: 20, BaseAmount: 20, Account: "Cash - NX", Type: "Cash", Default: 1,
	}}, doc.Payments)
	assert.Equal(t, []models.SalesInvoiceItem{{
		ItemCode: "ITEM-A", ItemName: "Arabica Beans", Qty: 2, Rate: 10, Amount: 20,
	}}, doc.Items)
}

func TestAssemblePaymentAllocation(t *testing.T) {
	tests := []struct {
		name        string
		outcome     PaymentOutcome
		disposition models.StockDisposition
		isPos       int
		updateStock int
		status      string
		paid        *float64
		payments    int
		account     string
	}{
		{"not paid", NotPaid{}, models.StockNotTaken, 0, 0, "Unpaid", nil, 0, ""},
		{"partly paid", PartlyPaid{Method: cash, Account: "Cash - NX", Amount: dec("5")}, models.StockTaken, 1, 1, "Partly Paid", floatPtr(5), 1, "Cash - NX"},
		{"partly paid zero", PartlyPaid{Method: cash, Account: "Cash - NX"}, models.StockNotTaken, 0, 0, "Partly Paid", floatPtr(0), 0, "Cash - NX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Assemble(readySession, twoCoffees(), PaymentDetails{Outcome: tt.outcome, Disposition: tt.disposition}, testDay)
			assert.NoError(t, err)
			assert.Equal(t, tt.isPos, doc.IsPos)
			assert.Equal(t, tt.updateStock, doc.UpdateStock)
			assert.Equal(t, tt.status, doc.Status)
			assert.Equal(t, tt.paid, doc.PaidAmount)
			assert.Equal(t, tt.payments, len(doc.Payments))
			assert.Equal(t, tt.account, doc.CashBankAccount)
		})
	}
}

func TestAssembleRejectsIncompleteInput(t *testing.T) {
	details := PaymentDetails{Outcome: NotPaid{}, Disposition: models.StockTaken}
	tests := []struct {
		name    string
		session models.Session
		lines   []models.CartLine
		details PaymentDetails
		want    error
	}{
		{"no location", models.Session{CounterpartyID: "Walk-in", CurrencyCode: "USD"}, twoCoffees(), details, ErrNoLocation},
		{"no counterparty", models.Session{LocationID: "Stores - NX", CurrencyCode: "USD"}, twoCoffees(), details, ErrNoCounterparty},
		{"no currency", models.Session{LocationID: "Stores - NX", CounterpartyID: "Walk-in"}, twoCoffees(), details, ErrNoCurrency},
		{"empty cart", readySession, nil, details, ErrEmptyCart},
		{"no outcome", readySession, twoCoffees(), PaymentDetails{}, ErrPaymentIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Assemble(tt.session, tt.lines, tt.details, testDay)
			assert.True(t, errors.Is(err, tt.want))
			assert.Zero(t, doc)
		})
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
