package pos

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"next-pos/models"
)

var (
	cash = models.PaymentMethod{Name: "Cash", Type: models.PaymentMethodCash}
	wire = models.PaymentMethod{Name: "Wire Transfer", Type: models.PaymentMethodBank}

	cashAccount = models.Account{Name: "Cash - NX", AccountType: "Cash"}
	bankAccount = models.Account{Name: "Main Bank - NX", AccountType: "Bank"}
)

func TestStatusSetsPaidAmountDefault(t *testing.T) {
	tests := []struct {
		status models.PaymentStatus
		want   string
		locked bool
	}{
		{models.PaymentNotPaid, "0", true},
		{models.PaymentPaid, "120", true},
		{models.PaymentPartlyPaid, "0", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := NewReconciler(dec("120"))
			assert.NoError(t, r.SetStatus(tt.status))

			view := r.View()
			assert.True(t, view.PaidAmount.Equal(dec(tt.want)), "paid %s", view.PaidAmount)
			assert.Equal(t, tt.locked, view.PaidAmountLocked)
		})
	}
}

func TestStatusChangeDiscardsPartialAmount(t *testing.T) {
	r := NewReconciler(dec("100"))
	assert.NoError(t, r.SetStatus(models.PaymentPartlyPaid))
	assert.NoError(t, r.SetPaidAmount(dec("40")))

	assert.NoError(t, r.SetStatus(models.PaymentPaid))
	assert.True(t, r.View().PaidAmount.Equal(dec("100")))

	assert.NoError(t, r.SetStatus(models.PaymentPartlyPaid))
	assert.True(t, r.View().PaidAmount.IsZero())
}

func TestPaidAmountEditing(t *testing.T) {
	r := NewReconciler(dec("100"))

	assert.NoError(t, r.SetStatus(models.PaymentPaid))
	assert.True(t, errors.Is(r.SetPaidAmount(dec("10")), ErrPaidAmountLocked))

	assert.NoError(t, r.SetStatus(models.PaymentPartlyPaid))
	assert.True(t, errors.Is(r.SetPaidAmount(dec("-1")), ErrNegativePaidAmount))
	assert.True(t, errors.Is(r.SetPaidAmount(dec("100.01")), ErrPaidAmountExceedsTotal))
	assert.NoError(t, r.SetPaidAmount(dec("100")))
	assert.True(t, r.View().Outstanding.IsZero())
}

func TestSelectMethodClearsAccount(t *testing.T) {
	r := NewReconciler(dec("10"))
	r.SelectMethod(cash)
	assert.NoError(t, r.SelectAccount(cashAccount))
	assert.Equal(t, "Cash - NX", r.View().Account)

	r.SelectMethod(wire)
	assert.Equal(t, "", r.View().Account)
}

func TestSelectAccountChecksCategory(t *testing.T) {
	r := NewReconciler(dec("10"))
	r.SelectMethod(cash)
	err := r.SelectAccount(bankAccount)
	assert.True(t, errors.Is(err, ErrAccountMismatch))
	assert.Equal(t, "", r.View().Account)

	// A general method settles into any account.
	r.SelectMethod(models.PaymentMethod{Name: "Voucher", Type: models.PaymentMethodGeneral})
	assert.NoError(t, r.SelectAccount(bankAccount))
}

func TestGateCompleteness(t *testing.T) {
	tests := []struct {
		name        string
		status      models.PaymentStatus
		disposition models.StockDisposition
		method      bool
		account     bool
		want        bool
	}{
		{"nothing set", "", "", false, false, false},
		{"status only", models.PaymentNotPaid, "", false, false, false},
		{"disposition only", "", models.StockTaken, true, true, false},
		{"not paid needs no settlement", models.PaymentNotPaid, models.StockNotTaken, false, false, true},
		{"paid without method", models.PaymentPaid, models.StockTaken, false, false, false},
		{"paid without account", models.PaymentPaid, models.StockTaken, true, false, false},
		{"paid complete", models.PaymentPaid, models.StockTaken, true, true, true},
		{"partly paid without account", models.PaymentPartlyPaid, models.StockTaken, true, false, false},
		{"partly paid complete", models.PaymentPartlyPaid, models.StockNotTaken, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconciler(dec("50"))
			if tt.status != "" {
				assert.NoError(t, r.SetStatus(tt.status))
			}
			if tt.disposition != "" {
				assert.NoError(t, r.SetDisposition(tt.disposition))
			}
			if tt.method {
				r.SelectMethod(cash)
			}
			if tt.account {
				assert.NoError(t, r.SelectAccount(cashAccount))
			}

			assert.Equal(t, tt.want, r.IsComplete())
			_, err := r.Details()
			assert.Equal(t, tt.want, err == nil)
		})
	}
}

func TestUnknownStatusAndDisposition(t *testing.T) {
	r := NewReconciler(dec("50"))
	assert.True(t, errors.Is(r.SetStatus("Refunded"), ErrUnknownPaymentStatus))
	assert.True(t, errors.Is(r.SetDisposition("Maybe"), ErrUnknownDisposition))
}

func TestOutcomeFlags(t *testing.T) {
	tests := []struct {
		name    string
		outcome PaymentOutcome
		status  string
		isPos   bool
	}{
		{"not paid", NotPaid{}, models.DocumentStatusUnpaid, false},
		{"paid", Paid{Method: cash, Account: "Cash - NX", Amount: dec("20")}, models.DocumentStatusPaid, true},
		{"partly paid with amount", PartlyPaid{Method: cash, Account: "Cash - NX", Amount: dec("5")}, models.DocumentStatusPartlyPaid, true},
		{"partly paid with nothing", PartlyPaid{Method: cash, Account: "Cash - NX"}, models.DocumentStatusPartlyPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.outcome.DocumentStatus())
			assert.Equal(t, tt.isPos, tt.outcome.IsPos())
		})
	}
}

func TestSyncTotal(t *testing.T) {
	r := NewReconciler(dec("100"))
	assert.NoError(t, r.SetStatus(models.PaymentPaid))
	r.SyncTotal(dec("130"))
	assert.True(t, r.View().PaidAmount.Equal(dec("130")))

	assert.NoError(t, r.SetStatus(models.PaymentPartlyPaid))
	assert.NoError(t, r.SetPaidAmount(dec("90")))
	r.SyncTotal(dec("60"))
	assert.True(t, r.View().PaidAmount.Equal(dec("60")))
	r.SyncTotal(dec("80"))
	assert.True(t, r.View().PaidAmount.Equal(dec("60")))
	assert.True(t, r.View().Outstanding.Equal(dec("20")))
}
