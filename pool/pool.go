package pool

import (
	"fmt"
	"math/rand"
	"sync"
)

// ServerEntry is one destination a Pool may select: a DIMSE peer or UPS-RS
// endpoint, along with the weighting/priority/enablement the selection
// strategies read.
type ServerEntry struct {
	Host     string
	Port     int
	Weight   int
	Priority int
	Enabled  bool
}

func (e ServerEntry) key() string { return fmt.Sprintf("%s:%d", e.Host, e.Port) }

// Strategy picks the next ServerEntry to try from a candidate list. A
// Strategy is free to hold selection state (e.g. round-robin cursors)
// across calls; Pool serializes calls to it with its own mutex.
type Strategy interface {
	Select(candidates []ServerEntry) (ServerEntry, error)
}

// ErrNoServers is returned when a Pool has no enabled candidates to select
// from.
var ErrNoServers = fmt.Errorf("no enabled servers available")

// Pool holds a set of server entries and a selection Strategy, exposing a
// synchronized Next() that a retry loop calls once per attempt. An optional
// Breakers table removes any server whose circuit is Open from
// consideration before the Strategy ever sees it.
type Pool struct {
	mu       sync.Mutex
	servers  []ServerEntry
	strategy Strategy
	Breakers *BreakerTable
}

// NewPool creates a Pool over the given servers using strategy.
func NewPool(servers []ServerEntry, strategy Strategy) *Pool {
	return &Pool{servers: append([]ServerEntry(nil), servers...), strategy: strategy}
}

// Next selects the next server to try, considering only entries that are
// Enabled and, if Breakers is set, whose circuit is not Open.
func (p *Pool) Next() (ServerEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := make([]ServerEntry, 0, len(p.servers))
	for _, s := range p.servers {
		if !s.Enabled {
			continue
		}
		if p.Breakers != nil && p.Breakers.State(s) == BreakerOpen {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return ServerEntry{}, ErrNoServers
	}
	return p.strategy.Select(candidates)
}

// SetEnabled toggles a server's availability, e.g. when a circuit breaker
// opens or closes for it.
func (p *Pool) SetEnabled(host string, port int, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.servers {
		if p.servers[i].Host == host && p.servers[i].Port == port {
			p.servers[i].Enabled = enabled
		}
	}
}

// Servers returns a copy of the pool's current entries.
func (p *Pool) Servers() []ServerEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ServerEntry(nil), p.servers...)
}

// RoundRobinStrategy cycles through candidates in order, wrapping around.
type RoundRobinStrategy struct {
	mu   sync.Mutex
	next int
}

func (s *RoundRobinStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := candidates[s.next%len(candidates)]
	s.next++
	return entry, nil
}

// PriorityStrategy always selects the candidate with the highest Priority,
// breaking ties by input order.
type PriorityStrategy struct{}

func (PriorityStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best, nil
}

// FailoverStrategy always selects the first candidate (the primary), on
// the assumption that the pool has already disabled any server it
// considers down. It never round-robins away from a healthy primary.
type FailoverStrategy struct{}

func (FailoverStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	return candidates[0], nil
}

// RandomStrategy selects uniformly at random among candidates.
type RandomStrategy struct{}

func (RandomStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	return candidates[rand.Intn(len(candidates))], nil
}

// RandomWeightedStrategy selects at random with probability proportional
// to each candidate's Weight. A non-positive weight is treated as 1.
type RandomWeightedStrategy struct{}

func (RandomWeightedStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	total := 0
	for _, c := range candidates {
		total += normalizedWeight(c)
	}
	pick := rand.Intn(total)
	for _, c := range candidates {
		pick -= normalizedWeight(c)
		if pick < 0 {
			return c, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

func normalizedWeight(e ServerEntry) int {
	if e.Weight <= 0 {
		return 1
	}
	return e.Weight
}

// WeightedRoundRobinStrategy implements smooth weighted round-robin
// (as used by nginx's upstream module): each candidate accumulates its
// weight every selection, and the entry with the highest accumulator wins,
// after which its accumulator is reduced by the total weight. This spreads
// selections evenly over time rather than in runs proportional to weight.
type WeightedRoundRobinStrategy struct {
	mu    sync.Mutex
	accum map[string]int
}

func (s *WeightedRoundRobinStrategy) Select(candidates []ServerEntry) (ServerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accum == nil {
		s.accum = make(map[string]int)
	}

	total := 0
	var best ServerEntry
	bestScore := -1
	for _, c := range candidates {
		w := normalizedWeight(c)
		total += w
		s.accum[c.key()] += w
		if s.accum[c.key()] > bestScore {
			bestScore = s.accum[c.key()]
			best = c
		}
	}
	s.accum[best.key()] -= total
	return best, nil
}
