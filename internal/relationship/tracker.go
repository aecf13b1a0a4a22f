// Package relationship tracks per-source familiarity. Familiarity follows a
// saturating curve over observed interactions: new sources read near zero
// and approach one as the relationship deepens.
package relationship

import (
	"sync"
	"time"

	"github.com/lialabs/liad/internal/agent"
)

// timeNow is a test seam.
var timeNow = time.Now

// Config holds tracker tuning.
type Config struct {
	// HalfLife is the observation count at which familiarity reads 0.5.
	HalfLife float64 `json:"half_life" koanf:"half_life"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{HalfLife: 5}
}

// Relation is the tracked state for one source.
type Relation struct {
	Source    string    `json:"source"`
	Observed  uint64    `json:"observed"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Tracker maintains per-source relations. Observe writes; Familiarity and
// Relation are pure reads.
type Tracker struct {
	config *Config

	mu        sync.RWMutex
	relations map[string]*Relation
}

// NewTracker creates an empty tracker.
func NewTracker(config *Config) *Tracker {
	if config == nil {
		config = DefaultConfig()
	}
	return &Tracker{
		config:    config,
		relations: make(map[string]*Relation),
	}
}

// Observe records one completed interaction with the source. Unknown and
// empty sources are tolerated; an empty source is not tracked.
func (t *Tracker) Observe(source string) {
	if source == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := timeNow()
	rel, ok := t.relations[source]
	if !ok {
		rel = &Relation{Source: source, FirstSeen: now}
		t.relations[source] = rel
	}
	rel.Observed++
	rel.LastSeen = now
}

// Familiarity reports the saturating familiarity of a source in [0,1].
// Unknown sources read zero.
func (t *Tracker) Familiarity(source string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rel, ok := t.relations[source]
	if !ok {
		return 0
	}
	n := float64(rel.Observed)
	return n / (n + t.config.HalfLife)
}

// Relation returns a copy of the tracked state for a source.
func (t *Tracker) Relation(source string) (Relation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rel, ok := t.relations[source]
	if !ok {
		return Relation{}, false
	}
	return *rel, true
}

var _ agent.RelationshipTracker = (*Tracker)(nil)
