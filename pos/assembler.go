package pos

import (
	"time"

	"github.com/shopspring/decimal"

	"next-pos/models"
)

// Assemble builds the sale document from a ready session, a non-empty cart and
// a validated payment. The payment outcome decides the payment allocation:
//
//	NotPaid                 is_pos 0, no paid_amount, no payments
//	Paid                    is_pos 1, paid_amount = amount, one payment row
//	PartlyPaid, amount > 0  is_pos 1, paid_amount = amount, one payment row
//	PartlyPaid, amount = 0  is_pos 0, paid_amount = 0, no payments
func Assemble(session models.Session, lines []models.CartLine, details PaymentDetails, postingDate time.Time) (*models.SalesInvoice, error) {
	switch {
	case session.LocationID == "":
		return nil, ErrNoLocation
	case session.CounterpartyID == "":
		return nil, ErrNoCounterparty
	case session.CurrencyCode == "":
		return nil, ErrNoCurrency
	case len(lines) == 0:
		return nil, ErrEmptyCart
	case details.Outcome == nil:
		return nil, invalid(ErrPaymentIncomplete, "missing payment status")
	}

	total := decimal.Zero
	items := make([]models.SalesInvoiceItem, 0, len(lines))
	for _, line := range lines {
		amount := line.Amount()
		total = total.Add(amount)
		items = append(items, models.SalesInvoiceItem{
			ItemCode: line.ItemID,
			ItemName: line.Name,
			Qty:      line.Quantity.InexactFloat64(),
			Rate:     line.UnitPrice.InexactFloat64(),
			Amount:   amount.InexactFloat64(),
		})
	}

	doc := &models.SalesInvoice{
		Customer:     session.CounterpartyID,
		PostingDate:  postingDate.Format(time.DateOnly),
		SetWarehouse: session.LocationID,
		Currency:     session.CurrencyCode,
		Items:        items,
		GrandTotal:   total.InexactFloat64(),
		Status:       details.Outcome.DocumentStatus(),
		DocStatus:    1,
		Remarks:      details.Remarks,
		Payments:     []models.SalesInvoicePayment{},
	}
	if details.UpdateStock() {
		doc.UpdateStock = 1
	}
	if details.Outcome.IsPos() {
		doc.IsPos = 1
	}

	switch o := details.Outcome.(type) {
	case NotPaid:
	case Paid:
		allocate(doc, o.Method, o.Account, o.Amount)
	case PartlyPaid:
		paid := o.Amount.InexactFloat64()
		doc.PaidAmount = &paid
		doc.CashBankAccount = o.Account
		if o.Amount.IsPositive() {
			allocate(doc, o.Method, o.Account, o.Amount)
		}
	}

	return doc, nil
}

func allocate(doc *models.SalesInvoice, method models.PaymentMethod, account string, amount decimal.Decimal) {
	paid := amount.InexactFloat64()
	doc.PaidAmount = &paid
	doc.CashBankAccount = account
	doc.Payments = append(doc.Payments, models.SalesInvoicePayment{
		ModeOfPayment: method.Name,
		Amount:        paid,
		BaseAmount:    paid,
		Account:       account,
		Type:          method.Type,
		Default:       1,
	})
}
