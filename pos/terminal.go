package pos

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"next-pos/models"
	"next-pos/repository"
)

// Dependencies are the collaborators a terminal talks to
type Dependencies struct {
	Reads        repository.ReadRepositoryInterface
	Sales        repository.SaleRepositoryInterface
	BaseCurrency string
	// Clock supplies the posting date and activity timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// Terminal is one operator's point-of-sale screen: session selections, the
// cart, the payment dialog and the single in-flight submission.
//
// All state is guarded by mu. Remote calls are made without holding it, so a
// slow catalog, rate or submission call never blocks snapshots or other edits.
type Terminal struct {
	id        string
	catalog   *CatalogCache
	rates     *RateResolver
	stock     *StockLookup
	lookups   repository.LookupRepositoryInterface
	submitter *Submitter
	now       func() time.Time

	mu         sync.Mutex
	session    models.Session
	cart       *Cart
	payment    *Reconciler
	submitting bool
	lastSale   string
	lastActive time.Time
}

// NewTerminal creates a terminal with an empty session. The currency starts
// unselected; the resolver assumes the base currency until one is chosen.
func NewTerminal(id string, deps Dependencies) *Terminal {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Terminal{
		id:         id,
		catalog:    NewCatalogCache(deps.Reads),
		rates:      NewRateResolver(deps.Reads, deps.BaseCurrency),
		stock:      NewStockLookup(deps.Reads),
		lookups:    deps.Reads,
		submitter:  NewSubmitter(deps.Sales),
		now:        clock,
		cart:       NewCart(),
		lastActive: clock(),
	}
}

// ID returns the terminal identifier
func (t *Terminal) ID() string {
	return t.id
}

// LastActive returns when the terminal was last used
func (t *Terminal) LastActive() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActive
}

// touch must be called with mu held
func (t *Terminal) touch() {
	t.lastActive = t.now()
}

// Session returns the current selections
func (t *Terminal) Session() models.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// SelectLocation switches the stock location, reloads the catalog for it and
// drops every cached stock level.
func (t *Terminal) SelectLocation(ctx context.Context, locationID string) error {
	locationID = strings.TrimSpace(locationID)

	t.mu.Lock()
	t.session.LocationID = locationID
	t.touch()
	t.mu.Unlock()

	t.stock.Invalidate()
	if locationID == "" {
		return nil
	}

	if err := t.catalog.Load(ctx, locationID); err != nil {
		log.Printf("❌ Terminal %s: %v", t.id, err)
		return err
	}
	log.Printf("📦 Terminal %s: loaded %d items for %s", t.id, t.catalog.Len(), locationID)
	return nil
}

// SelectCounterparty sets the customer of the sale
func (t *Terminal) SelectCounterparty(counterpartyID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.CounterpartyID = strings.TrimSpace(counterpartyID)
	t.touch()
}

// SelectCurrency sets the sale currency and resolves its conversion factor.
// Lines already in the cart keep the price they were added at.
func (t *Terminal) SelectCurrency(ctx context.Context, code string) Resolution {
	code = strings.ToUpper(strings.TrimSpace(code))

	t.mu.Lock()
	t.session.CurrencyCode = code
	t.touch()
	t.mu.Unlock()

	if code == "" {
		code = t.rates.Base()
	}
	// A response overtaken by a newer selection is discarded; report what is applied.
	t.rates.Resolve(ctx, code, t.now())
	return t.rates.Current()
}

// UpdateSession applies the fields present in req. Counterparty is applied
// first since it needs no remote call.
func (t *Terminal) UpdateSession(ctx context.Context, req models.UpdateSessionRequest) error {
	if req.CounterpartyID != nil {
		t.SelectCounterparty(*req.CounterpartyID)
	}
	if req.CurrencyCode != nil {
		t.SelectCurrency(ctx, *req.CurrencyCode)
	}
	if req.LocationID != nil {
		if err := t.SelectLocation(ctx, *req.LocationID); err != nil {
			return err
		}
	}
	return nil
}

// Catalog returns the catalog of the active location priced in the session
// currency, filtered by search. The list is empty with a warning while the
// currency cannot be converted.
func (t *Terminal) Catalog(search string) models.CatalogResponse {
	session := t.Session()
	res := t.rates.Current()

	resp := models.CatalogResponse{
		Location: session.LocationID,
		Currency: res.Currency,
		Items:    []models.CatalogListing{},
	}
	switch {
	case session.LocationID == "":
		resp.Warning = "Select a warehouse to load the catalog."
	case t.catalog.Location() != session.LocationID:
		resp.Warning = fmt.Sprintf("The catalog for %s has not been loaded.", session.LocationID)
	case res.Status == RatePending:
		resp.Warning = fmt.Sprintf("Loading the exchange rate for %s.", res.Currency)
	default:
		resp.Items, resp.Warning = t.catalog.Listings(res, search)
	}
	return resp
}

// Stock returns the stock level of an item at the active location
func (t *Terminal) Stock(ctx context.Context, itemID string) (models.StockLevel, error) {
	session := t.Session()
	if session.LocationID == "" {
		return models.StockLevel{}, ErrNoLocation
	}
	return t.stock.Level(ctx, itemID, session.LocationID)
}

// AddItem adds one unit of a catalog item at its price in the session currency
func (t *Terminal) AddItem(itemID string) (models.CartLine, error) {
	session := t.Session()
	if t.catalog.Location() != session.LocationID {
		return models.CartLine{}, invalid(ErrItemNotListed, "%s", itemID)
	}
	listing, err := t.catalog.Listing(itemID, t.rates.Current())
	if err != nil {
		return models.CartLine{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.submitting {
		return models.CartLine{}, ErrSubmissionInFlight
	}
	t.touch()
	line := t.cart.AddItem(listing)
	t.syncPayment()
	return line, nil
}

// UpdateLine overrides the quantity and/or price of a cart line
func (t *Terminal) UpdateLine(itemID string, quantity, price *decimal.Decimal) (models.CartLine, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.submitting {
		return models.CartLine{}, ErrSubmissionInFlight
	}
	t.touch()
	line, err := t.cart.UpdateLine(itemID, quantity, price)
	if err != nil {
		return models.CartLine{}, err
	}
	t.syncPayment()
	return line, nil
}

// RemoveItem deletes a cart line. Removing an absent item is not an error.
func (t *Terminal) RemoveItem(itemID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.submitting {
		return ErrSubmissionInFlight
	}
	t.touch()
	t.cart.RemoveItem(itemID)
	t.syncPayment()
	return nil
}

// syncPayment must be called with mu held
func (t *Terminal) syncPayment() {
	if t.payment != nil {
		t.payment.SyncTotal(t.cart.Total())
	}
}

// Checkout validates the session and the cart and opens a fresh payment dialog.
// Validation failures never reach the network.
func (t *Terminal) Checkout() (models.PaymentView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.submitting {
		return models.PaymentView{}, ErrSubmissionInFlight
	}
	switch {
	case t.session.LocationID == "":
		return models.PaymentView{}, ErrNoLocation
	case t.session.CounterpartyID == "":
		return models.PaymentView{}, ErrNoCounterparty
	case t.session.CurrencyCode == "":
		return models.PaymentView{}, ErrNoCurrency
	case t.cart.Len() == 0:
		return models.PaymentView{}, ErrEmptyCart
	}

	t.touch()
	t.payment = NewReconciler(t.cart.Total())
	return t.paymentView(), nil
}

// Payment returns the payment dialog state
func (t *Terminal) Payment() (models.PaymentView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.payment == nil {
		return models.PaymentView{}, ErrPaymentClosed
	}
	return t.paymentView(), nil
}

// paymentView must be called with mu held and the dialog open
func (t *Terminal) paymentView() models.PaymentView {
	view := t.payment.View()
	view.Submitting = t.submitting
	return view
}

// UpdatePayment applies the fields present in req to the payment dialog.
// Method and account names are resolved against the lookups first. The update
// is all or nothing: on error the dialog is left as it was.
func (t *Terminal) UpdatePayment(ctx context.Context, req models.UpdatePaymentRequest) (models.PaymentView, error) {
	t.mu.Lock()
	if t.payment == nil {
		t.mu.Unlock()
		return models.PaymentView{}, ErrPaymentClosed
	}
	current := t.payment.Method()
	t.mu.Unlock()

	var method *models.PaymentMethod
	if req.Method != nil {
		m, err := t.findPaymentMethod(ctx, *req.Method)
		if err != nil {
			return models.PaymentView{}, err
		}
		method = &m
		current = m
	}

	var account *models.Account
	if req.Account != nil {
		a, err := t.findAccount(ctx, current, *req.Account)
		if err != nil {
			return models.PaymentView{}, err
		}
		account = &a
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.payment == nil {
		return models.PaymentView{}, ErrPaymentClosed
	}

	next := *t.payment
	if req.Status != nil {
		if err := next.SetStatus(*req.Status); err != nil {
			return models.PaymentView{}, err
		}
	}
	if req.Disposition != nil {
		if err := next.SetDisposition(*req.Disposition); err != nil {
			return models.PaymentView{}, err
		}
	}
	if method != nil {
		next.SelectMethod(*method)
	}
	if account != nil {
		if err := next.SelectAccount(*account); err != nil {
			return models.PaymentView{}, err
		}
	}
	if req.PaidAmount != nil {
		if err := next.SetPaidAmount(*req.PaidAmount); err != nil {
			return models.PaymentView{}, err
		}
	}
	if req.Remarks != nil {
		next.SetRemarks(*req.Remarks)
	}

	t.touch()
	*t.payment = next
	return t.paymentView(), nil
}

func (t *Terminal) findPaymentMethod(ctx context.Context, name string) (models.PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.PaymentMethod{}, nil
	}
	methods, err := t.lookups.ListPaymentMethods(ctx)
	if err != nil {
		return models.PaymentMethod{}, fmt.Errorf("failed to list modes of payment: %w", err)
	}
	for _, m := range methods {
		if m.Name == name {
			return m, nil
		}
	}
	return models.PaymentMethod{}, invalid(ErrPaymentIncomplete, "unknown mode of payment %q", name)
}

// findAccount looks the account up among those valid for the method's category
func (t *Terminal) findAccount(ctx context.Context, method models.PaymentMethod, name string) (models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Account{}, nil
	}
	accountType := models.AccountTypeFor(method.Type)
	accounts, err := t.lookups.ListAccounts(ctx, accountType)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, a := range accounts {
		if a.Name == name {
			return a, nil
		}
	}
	if accountType != "" {
		return models.Account{}, invalid(ErrAccountMismatch, "%s is not a %s account", name, accountType)
	}
	return models.Account{}, invalid(ErrPaymentIncomplete, "unknown account %q", name)
}

// ClosePayment discards the payment dialog. A submission already in flight
// is not aborted.
func (t *Terminal) ClosePayment() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.payment = nil
}

// Confirm submits the sale. Only one submission per terminal may be in
// flight. On success the cart is cleared, the dialog closed and stock levels
// invalidated. On failure everything is kept so the operator can retry.
func (t *Terminal) Confirm(ctx context.Context) (*models.SaleResponse, error) {
	t.mu.Lock()
	if t.submitting {
		t.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if t.payment == nil {
		t.mu.Unlock()
		return nil, ErrPaymentClosed
	}
	details, err := t.payment.Details()
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	doc, err := Assemble(t.session, t.cart.Lines(), details, t.now())
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.submitting = true
	t.touch()
	t.mu.Unlock()

	name, err := t.submitter.Submit(ctx, doc)

	t.mu.Lock()
	t.submitting = false
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.cart.Clear()
	t.payment = nil
	t.lastSale = name
	t.mu.Unlock()

	t.stock.Invalidate()

	resp := &models.SaleResponse{
		Name:       name,
		Status:     doc.Status,
		GrandTotal: doc.GrandTotal,
	}
	if doc.PaidAmount != nil {
		resp.PaidAmount = *doc.PaidAmount
	}
	return resp, nil
}

// Snapshot returns the observable state of the terminal
func (t *Terminal) Snapshot() models.TerminalResponse {
	res := t.rates.Current()

	t.mu.Lock()
	defer t.mu.Unlock()

	resp := models.TerminalResponse{
		ID:          t.id,
		Session:     t.session,
		Lines:       t.cart.Lines(),
		Total:       t.cart.Total(),
		ItemCount:   t.cart.ItemCount(),
		PaymentOpen: t.payment != nil,
		Submitting:  t.submitting,
		LastSale:    t.lastSale,
	}
	if t.payment != nil {
		view := t.paymentView()
		resp.Payment = &view
	}
	if !res.Usable() {
		resp.RateWarning = res.Warning
	}
	return resp
}
