package pos

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"next-pos/pricing"
	"next-pos/repository"
)

// RateStatus tells how a currency resolution ended
type RateStatus string

const (
	// RatePending means a resolution has been requested but not applied yet
	RatePending RateStatus = "pending"
	// RateBase means the currency is the base currency; no conversion
	RateBase RateStatus = "base"
	// RateAvailable means a rate was found and converted into a factor
	RateAvailable RateStatus = "available"
	// RateMissing means no rate is configured for the date
	RateMissing RateStatus = "missing"
	// RateFailed means the rate could not be fetched
	RateFailed RateStatus = "failed"
)

// Resolution is the outcome of resolving a currency against the base currency
type Resolution struct {
	Currency string
	Status   RateStatus
	// Factor converts base-currency amounts into Currency. Zero unless Usable.
	Factor  decimal.Decimal
	Warning string
	Token   uint64
}

// Usable reports whether catalog prices can be converted with this resolution
func (r Resolution) Usable() bool {
	return r.Status == RateBase || r.Status == RateAvailable
}

// RateResolver resolves the conversion factor for the session currency.
//
// Each call to Resolve takes a new token. Only the response for the latest
// token is applied; a slower response to an older request is discarded, so
// rapid currency changes settle on the last selection.
type RateResolver struct {
	repo repository.ExchangeRateRepositoryInterface
	base string

	mu      sync.Mutex
	latest  uint64
	current Resolution
}

// NewRateResolver creates a resolver for the given base currency
func NewRateResolver(repo repository.ExchangeRateRepositoryInterface, base string) *RateResolver {
	return &RateResolver{
		repo: repo,
		base: base,
		current: Resolution{
			Currency: base,
			Status:   RateBase,
			Factor:   decimal.NewFromInt(1),
		},
	}
}

// Base returns the base currency
func (r *RateResolver) Base() string {
	return r.base
}

// Current returns the applied resolution
func (r *RateResolver) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *RateResolver) begin(currency string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest++
	r.current = Resolution{Currency: currency, Status: RatePending, Token: r.latest}
	return r.latest
}

// apply stores res if its token is still the latest
func (r *RateResolver) apply(res Resolution) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Token != r.latest {
		return false
	}
	r.current = res
	return true
}

// Resolve resolves currency for date and applies the result unless a newer
// Resolve started meanwhile. It returns the resolution and whether it was applied.
func (r *RateResolver) Resolve(ctx context.Context, currency string, date time.Time) (Resolution, bool) {
	token := r.begin(currency)

	if pricing.SameCurrency(currency, r.base) {
		res := Resolution{Currency: currency, Status: RateBase, Factor: decimal.NewFromInt(1), Token: token}
		return res, r.apply(res)
	}

	res := r.fetch(ctx, currency, date)
	res.Token = token
	applied := r.apply(res)
	if !applied {
		log.Printf("⏭️  RateResolver: discarding stale %s resolution (token %d)", currency, token)
	}
	return res, applied
}

func (r *RateResolver) fetch(ctx context.Context, currency string, date time.Time) Resolution {
	day := date.Format(time.DateOnly)

	rate, err := r.repo.GetExchangeRate(ctx, currency, r.base, date)
	if err != nil {
		log.Printf("❌ RateResolver: failed to fetch %s rate for %s: %v", currency, day, err)
		return Resolution{
			Currency: currency,
			Status:   RateFailed,
			Warning:  fmt.Sprintf("Could not load the exchange rate for %s. Items cannot be sold in %s until it loads.", currency, currency),
		}
	}

	factor, ok := pricing.ConversionFactor(rate, r.base, currency)
	if !ok {
		return Resolution{
			Currency: currency,
			Status:   RateMissing,
			Warning:  fmt.Sprintf("No exchange rate between %s and %s is set for %s.", r.base, currency, day),
		}
	}

	log.Printf("💱 RateResolver: %s", pricing.Describe(factor, r.base, currency))
	return Resolution{Currency: currency, Status: RateAvailable, Factor: factor}
}
