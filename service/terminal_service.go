package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"next-pos/pos"
)

// ErrTerminalNotFound is returned for unknown or evicted terminal ids
var ErrTerminalNotFound = errors.New("terminal not found")

// TerminalServiceInterface defines the contract for the terminal registry
type TerminalServiceInterface interface {
	Create() *pos.Terminal
	Get(id string) (*pos.Terminal, error)
	Delete(id string) error
	Sweep() int
}

// TerminalService keeps one pos.Terminal per open point-of-sale screen
type TerminalService struct {
	deps        pos.Dependencies
	idleTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	terminals map[string]*pos.Terminal
}

// Ensure TerminalService implements TerminalServiceInterface
var _ TerminalServiceInterface = (*TerminalService)(nil)

// NewTerminalService creates a new TerminalService. A zero idleTimeout
// disables eviction.
func NewTerminalService(deps pos.Dependencies, idleTimeout time.Duration) *TerminalService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &TerminalService{
		deps:        deps,
		idleTimeout: idleTimeout,
		now:         now,
		terminals:   make(map[string]*pos.Terminal),
	}
}

// Create opens a new terminal with an empty session and cart
func (s *TerminalService) Create() *pos.Terminal {
	id := uuid.NewString()
	term := pos.NewTerminal(id, s.deps)

	s.mu.Lock()
	s.terminals[id] = term
	s.mu.Unlock()

	log.Printf("🆕 Terminal %s opened", id)
	return term
}

// Get returns a terminal by id
func (s *TerminalService) Get(id string) (*pos.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term, ok := s.terminals[id]
	if !ok {
		return nil, ErrTerminalNotFound
	}
	return term, nil
}

// Delete closes a terminal. Its cart and payment dialog are discarded.
func (s *TerminalService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terminals[id]; !ok {
		return ErrTerminalNotFound
	}
	delete(s.terminals, id)
	log.Printf("🗑️  Terminal %s closed", id)
	return nil
}

// Sweep evicts terminals idle for longer than the idle timeout and returns
// how many were evicted. Terminals with a submission in flight are kept.
func (s *TerminalService) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, term := range s.terminals {
		if term.LastActive().Before(cutoff) && !term.Snapshot().Submitting {
			delete(s.terminals, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("🧹 Evicted %d idle terminals", evicted)
	}
	return evicted
}

// Len returns the number of open terminals
func (s *TerminalService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.terminals)
}
