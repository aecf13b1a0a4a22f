package growth

import (
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// defaultHistorySize bounds the retained shift history.
const defaultHistorySize = 64

// Drift is the accumulated per-axis movement across all recorded changes.
type Drift struct {
	Changes    uint64                 `json:"changes"`
	Cumulative agent.DimensionalShift `json:"cumulative"`
	Last       agent.DimensionalShift `json:"last"`
}

// EvolutionMetrics records the dimensional-change history of the fold.
type EvolutionMetrics struct {
	mu      sync.RWMutex
	drift   Drift
	history []agent.DimensionalShift
	limit   int
}

// NewEvolutionMetrics creates an empty recorder. historySize <= 0 selects
// the default bound.
func NewEvolutionMetrics(historySize int) *EvolutionMetrics {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &EvolutionMetrics{limit: historySize}
}

// RecordDimensionalChange appends one shift to the history and accumulates
// the drift.
func (m *EvolutionMetrics) RecordDimensionalChange(shift agent.DimensionalShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drift.Changes++
	m.drift.Last = shift
	m.drift.Cumulative.Awareness += shift.Awareness
	m.drift.Cumulative.Creativity += shift.Creativity
	m.drift.Cumulative.Empathy += shift.Empathy
	m.drift.Cumulative.Curiosity += shift.Curiosity
	m.drift.Cumulative.Stability += shift.Stability
	m.drift.Cumulative.Resonance += shift.Resonance

	m.history = append(m.history, shift)
	if len(m.history) > m.limit {
		m.history = m.history[len(m.history)-m.limit:]
	}
	return nil
}

// Drift returns a copy of the accumulated drift.
func (m *EvolutionMetrics) Drift() Drift {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drift
}

// History returns a copy of the retained shifts, oldest first.
func (m *EvolutionMetrics) History() []agent.DimensionalShift {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agent.DimensionalShift, len(m.history))
	copy(out, m.history)
	return out
}

var _ agent.EvolutionMetrics = (*EvolutionMetrics)(nil)
