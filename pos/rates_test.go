package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"next-pos/models"
)

func TestResolveBaseCurrencySkipsFetch(t *testing.T) {
	store := newFakeStore()
	r := NewRateResolver(store, "USD")

	res, applied := r.Resolve(context.Background(), "usd", testDay)
	assert.True(t, applied)
	assert.Equal(t, RateBase, res.Status)
	assert.True(t, res.Factor.Equal(dec("1")))
	assert.Equal(t, 0, store.rateCalls)
}

func TestResolveOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		rate    *models.ExchangeRate
		err     error
		status  RateStatus
		factor  string
		warning bool
	}{
		{"base to target", &models.ExchangeRate{From: "USD", To: "EUR", Rate: dec("0.8")}, nil, RateAvailable, "0.8", false},
		{"target to base", &models.ExchangeRate{From: "EUR", To: "USD", Rate: dec("1.25")}, nil, RateAvailable, "0.8", false},
		{"no rate for the date", nil, nil, RateMissing, "0", true},
		{"fetch failed", nil, errors.New("connection refused"), RateFailed, "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.rates["EUR"] = tt.rate
			store.rateErr = tt.err
			r := NewRateResolver(store, "USD")

			res, applied := r.Resolve(context.Background(), "EUR", testDay)
			assert.True(t, applied)
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Factor.Equal(dec(tt.factor)), "factor %s", res.Factor)
			assert.Equal(t, tt.warning, res.Warning != "")
			assert.Equal(t, tt.status == RateAvailable, res.Usable())
			assert.Equal(t, res, r.Current())
		})
	}
}

func TestMissingAndFailedWarningsDiffer(t *testing.T) {
	store := newFakeStore()
	r := NewRateResolver(store, "USD")
	missing, _ := r.Resolve(context.Background(), "EUR", testDay)

	store.rateErr = errors.New("timeout")
	failed, _ := r.Resolve(context.Background(), "EUR", testDay)

	assert.NotEqual(t, missing.Warning, failed.Warning)
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	store := newFakeStore()
	store.rates["EUR"] = &models.ExchangeRate{From: "USD", To: "EUR", Rate: dec("0.9")}
	store.rates["GBP"] = &models.ExchangeRate{From: "USD", To: "GBP", Rate: dec("0.8")}
	gate := make(chan struct{})
	store.rateGate["EUR"] = gate
	r := NewRateResolver(store, "USD")

	type result struct {
		res     Resolution
		applied bool
	}
	done := make(chan result)
	go func() {
		res, applied := r.Resolve(context.Background(), "EUR", testDay)
		done <- result{res, applied}
	}()

	// Wait until the EUR request is in flight.
	for {
		store.mu.Lock()
		calls := store.rateCalls
		store.mu.Unlock()
		if calls == 1 {
			break
		}
	}

	gbp, applied := r.Resolve(context.Background(), "GBP", testDay)
	assert.True(t, applied)
	assert.Equal(t, "GBP", gbp.Currency)

	close(gate)
	eur := <-done
	assert.False(t, eur.applied)
	assert.Equal(t, RateAvailable, eur.res.Status)

	current := r.Current()
	assert.Equal(t, "GBP", current.Currency)
	assert.True(t, current.Factor.Equal(dec("0.8")))
}

func TestReturnToBaseAfterForeignCurrency(t *testing.T) {
	store := newFakeStore()
	r := NewRateResolver(store, "USD")
	r.Resolve(context.Background(), "EUR", testDay)
	assert.Equal(t, RateMissing, r.Current().Status)

	r.Resolve(context.Background(), "USD", testDay)
	assert.Equal(t, RateBase, r.Current().Status)
	assert.Equal(t, 1, store.rateCalls)
}
