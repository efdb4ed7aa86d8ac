package pos

import (
	"strings"

	"github.com/shopspring/decimal"

	"next-pos/models"
)

// PaymentOutcome is the settled payment state of a sale: NotPaid, Paid or PartlyPaid
type PaymentOutcome interface {
	// DocumentStatus is the status written on the sale document
	DocumentStatus() string
	// IsPos reports whether the sale is marked point-of-sale
	IsPos() bool
}

// NotPaid is a sale on credit
type NotPaid struct{}

// Paid is a sale settled in full
type Paid struct {
	Method  models.PaymentMethod
	Account string
	Amount  decimal.Decimal
}

// PartlyPaid is a sale with a partial payment. Amount may be zero.
type PartlyPaid struct {
	Method  models.PaymentMethod
	Account string
	Amount  decimal.Decimal
}

func (NotPaid) DocumentStatus() string    { return models.DocumentStatusUnpaid }
func (Paid) DocumentStatus() string       { return models.DocumentStatusPaid }
func (PartlyPaid) DocumentStatus() string { return models.DocumentStatusPartlyPaid }

func (NotPaid) IsPos() bool      { return false }
func (Paid) IsPos() bool         { return true }
func (p PartlyPaid) IsPos() bool { return p.Amount.IsPositive() }

// PaymentDetails is a complete, validated snapshot of the payment dialog
type PaymentDetails struct {
	Outcome     PaymentOutcome
	Disposition models.StockDisposition
	Remarks     string
}

// UpdateStock reports whether inventory is decremented at the moment of sale
func (d PaymentDetails) UpdateStock() bool {
	return d.Disposition == models.StockTaken
}

// Reconciler is the payment dialog state machine. It combines a payment
// status and a stock disposition into the fields a sale requires.
//
//	status       paid amount          method+account  is_pos
//	Not Paid     0, locked            no              false
//	Paid         cart total, locked   yes             true
//	Partly Paid  0, editable          yes             amount > 0
//
// Changing the status always resets the paid amount to the status default.
type Reconciler struct {
	status      models.PaymentStatus
	disposition models.StockDisposition
	method      models.PaymentMethod
	account     string
	paidAmount  decimal.Decimal
	remarks     string
	total       decimal.Decimal
}

// NewReconciler opens a fresh payment dialog for a cart total
func NewReconciler(total decimal.Decimal) *Reconciler {
	return &Reconciler{total: total}
}

// SetStatus selects the payment status and resets the paid amount
func (r *Reconciler) SetStatus(status models.PaymentStatus) error {
	if !status.Valid() {
		return invalid(ErrUnknownPaymentStatus, "%q", status)
	}
	if status == r.status {
		return nil
	}
	r.status = status
	r.resetPaidAmount()
	return nil
}

func (r *Reconciler) resetPaidAmount() {
	switch r.status {
	case models.PaymentPaid:
		r.paidAmount = r.total
	default:
		r.paidAmount = decimal.Zero
	}
}

// SetDisposition selects whether stock is taken now
func (r *Reconciler) SetDisposition(d models.StockDisposition) error {
	if !d.Valid() {
		return invalid(ErrUnknownDisposition, "%q", d)
	}
	r.disposition = d
	return nil
}

// SelectMethod selects the mode of payment. The settlement account depends on
// the method's category, so any previously chosen account is cleared.
func (r *Reconciler) SelectMethod(method models.PaymentMethod) {
	r.method = method
	r.account = ""
}

// SelectAccount selects the settlement account. When both the method's
// category and the account type are known they have to agree.
func (r *Reconciler) SelectAccount(account models.Account) error {
	want := models.AccountTypeFor(r.method.Type)
	if want != "" && account.AccountType != "" && !strings.EqualFold(want, account.AccountType) {
		return invalid(ErrAccountMismatch, "%s is a %s account, %s needs %s", account.Name, account.AccountType, r.method.Name, want)
	}
	r.account = account.Name
	return nil
}

// SetPaidAmount sets a partial payment. Only Partly Paid leaves the amount editable.
func (r *Reconciler) SetPaidAmount(amount decimal.Decimal) error {
	if r.status != models.PaymentPartlyPaid {
		return invalid(ErrPaidAmountLocked, "status is %q", r.status)
	}
	if amount.IsNegative() {
		return invalid(ErrNegativePaidAmount, "%s", amount.String())
	}
	if amount.GreaterThan(r.total) {
		return invalid(ErrPaidAmountExceedsTotal, "%s > %s", amount.String(), r.total.String())
	}
	r.paidAmount = amount
	return nil
}

// Method returns the selected mode of payment
func (r *Reconciler) Method() models.PaymentMethod {
	return r.method
}

// SetRemarks sets the free-text remarks
func (r *Reconciler) SetRemarks(remarks string) {
	r.remarks = remarks
}

// SyncTotal follows cart changes made while the dialog is open. A locked Paid
// amount tracks the total; a partial amount is capped at it.
func (r *Reconciler) SyncTotal(total decimal.Decimal) {
	r.total = total
	switch r.status {
	case models.PaymentPaid:
		r.paidAmount = total
	case models.PaymentPartlyPaid:
		if r.paidAmount.GreaterThan(total) {
			r.paidAmount = total
		}
	}
}

// RequiresSettlement reports whether method and account are needed
func (r *Reconciler) RequiresSettlement() bool {
	return r.status == models.PaymentPaid || r.status == models.PaymentPartlyPaid
}

// IsComplete reports whether the dialog can be confirmed
func (r *Reconciler) IsComplete() bool {
	return len(r.missing()) == 0
}

func (r *Reconciler) missing() []string {
	var fields []string
	if r.status == "" {
		fields = append(fields, "payment status")
	}
	if r.disposition == "" {
		fields = append(fields, "stock status")
	}
	if r.RequiresSettlement() {
		if r.method.Name == "" {
			fields = append(fields, "mode of payment")
		}
		if r.account == "" {
			fields = append(fields, "account")
		}
	}
	return fields
}

// Details returns the validated payment snapshot used to assemble the sale
func (r *Reconciler) Details() (PaymentDetails, error) {
	if missing := r.missing(); len(missing) > 0 {
		return PaymentDetails{}, invalid(ErrPaymentIncomplete, "missing %s", strings.Join(missing, ", "))
	}

	var outcome PaymentOutcome
	switch r.status {
	case models.PaymentNotPaid:
		outcome = NotPaid{}
	case models.PaymentPaid:
		outcome = Paid{Method: r.method, Account: r.account, Amount: r.paidAmount}
	case models.PaymentPartlyPaid:
		outcome = PartlyPaid{Method: r.method, Account: r.account, Amount: r.paidAmount}
	}

	return PaymentDetails{
		Outcome:     outcome,
		Disposition: r.disposition,
		Remarks:     r.remarks,
	}, nil
}

// View returns the observable dialog state
func (r *Reconciler) View() models.PaymentView {
	return models.PaymentView{
		Status:             r.status,
		Disposition:        r.disposition,
		Method:             r.method.Name,
		Account:            r.account,
		PaidAmount:         r.paidAmount,
		PaidAmountLocked:   r.status != models.PaymentPartlyPaid,
		RequiresSettlement: r.RequiresSettlement(),
		Total:              r.total,
		Outstanding:        r.total.Sub(r.paidAmount),
		Remarks:            r.remarks,
		Complete:           r.IsComplete(),
	}
}
