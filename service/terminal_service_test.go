package service

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"next-pos/pos"
)

func TestTerminalRegistry(t *testing.T) {
	svc := NewTerminalService(pos.Dependencies{BaseCurrency: "USD"}, 0)

	term := svc.Create()
	got, err := svc.Get(term.ID())
	assert.NoError(t, err)
	assert.Equal(t, term, got)

	assert.NoError(t, svc.Delete(term.ID()))
	_, err = svc.Get(term.ID())
	assert.IsError(t, err, ErrTerminalNotFound)
	assert.IsError(t, svc.Delete(term.ID()), ErrTerminalNotFound)
}

func TestSweepEvictsIdleTerminals(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewTerminalService(pos.Dependencies{BaseCurrency: "USD", Clock: clock}, time.Hour)

	stale := svc.Create()
	now = now.Add(50 * time.Minute)
	fresh := svc.Create()
	fresh.SelectCounterparty("Walk-in")

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.Len())

	_, err := svc.Get(stale.ID())
	assert.IsError(t, err, ErrTerminalNotFound)
	_, err = svc.Get(fresh.ID())
	assert.NoError(t, err)
}
