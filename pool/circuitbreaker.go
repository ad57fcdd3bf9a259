package pool

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls the per-server circuit breaker's trip and recovery
// behavior: Closed -> (Threshold consecutive failures) -> Open for
// ResetTimeout -> HalfOpen (one probe request) -> Closed on success, back
// to Open on failure.
type BreakerConfig struct {
	Threshold    uint32
	ResetTimeout time.Duration
	// HalfOpenMaxProbes bounds how many requests are allowed through while
	// HalfOpen before the breaker decides whether to close or re-open.
	// DIMSE/UPS-RS servers are probed one at a time, so this defaults to 1.
	HalfOpenMaxProbes uint32
	OnStateChange     func(server ServerEntry, from, to BreakerState)
}

func (c BreakerConfig) applyDefaults() BreakerConfig {
	if c.Threshold == 0 {
		c.Threshold = 5
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = 30 * time.Second
	}
	if c.HalfOpenMaxProbes == 0 {
		c.HalfOpenMaxProbes = 1
	}
	return c
}

// BreakerState mirrors gobreaker's three-state model without leaking the
// dependency's type into this package's exported surface.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

func fromGobreakerState(s gobreaker.State) BreakerState {
	switch s {
	case gobreaker.StateHalfOpen:
		return BreakerHalfOpen
	case gobreaker.StateOpen:
		return BreakerOpen
	default:
		return BreakerClosed
	}
}

// ErrCircuitOpen is returned by BreakerTable.Call when the server's breaker
// is Open (or HalfOpen with its probe slot already taken) and the
// underlying operation was never invoked.
var ErrCircuitOpen = errors.New("pool: circuit breaker open, server not attempted")

// BreakerTable holds one circuit breaker per server entry, built with
// sony/gobreaker: the library this pack uses for the circuit-breaking
// concern rather than hand-rolling the Closed/Open/HalfOpen state machine.
// Breakers are created lazily on first use and keyed by host:port, so the
// table itself needs no locking beyond what sync.Map already gives it.
type BreakerTable struct {
	cfg      BreakerConfig
	breakers sync.Map // string (host:port) -> *gobreaker.CircuitBreaker
}

// NewBreakerTable creates a BreakerTable. cfg's zero values fall back to
// Threshold=5 consecutive failures and ResetTimeout=30s, matching the
// defaults a Part 8 SCU/SCP deployment typically tunes away from only
// after observing production traffic.
func NewBreakerTable(cfg BreakerConfig) *BreakerTable {
	return &BreakerTable{cfg: cfg.applyDefaults()}
}

func (t *BreakerTable) breakerFor(server ServerEntry) *gobreaker.CircuitBreaker {
	key := server.key()
	if existing, ok := t.breakers.Load(key); ok {
		return existing.(*gobreaker.CircuitBreaker)
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: t.cfg.HalfOpenMaxProbes,
		Timeout:     t.cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= t.cfg.Threshold
		},
		IsSuccessful: func(err error) bool {
			// Non-transient errors (bad dataset, DIMSE status failure, ...)
			// are the peer behaving correctly and must not trip the
			// breaker; only transient network failures count against it.
			return err == nil || !IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if t.cfg.OnStateChange != nil {
				t.cfg.OnStateChange(server, fromGobreakerState(from), fromGobreakerState(to))
			}
		},
	})
	actual, _ := t.breakers.LoadOrStore(key, cb)
	return actual.(*gobreaker.CircuitBreaker)
}

// Call runs op through server's breaker. If the breaker is Open (or
// HalfOpen with no probe slot available) op is never invoked and
// ErrCircuitOpen is returned immediately, with no socket call made.
func (t *BreakerTable) Call(server ServerEntry, op func() error) error {
	_, err := t.breakerFor(server).Execute(func() (interface{}, error) {
		return nil, op()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State reports the current breaker state for server, defaulting to Closed
// for a server never seen before.
func (t *BreakerTable) State(server ServerEntry) BreakerState {
	if existing, ok := t.breakers.Load(server.key()); ok {
		return fromGobreakerState(existing.(*gobreaker.CircuitBreaker).State())
	}
	return BreakerClosed
}
