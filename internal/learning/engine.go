// Package learning accumulates per-descriptor knowledge strength from every
// folded response.
package learning

import (
	"errors"
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Config holds engine tuning.
type Config struct {
	// Rate scales how much each response strengthens its descriptors.
	Rate float64 `json:"rate" koanf:"rate"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{Rate: 0.05}
}

// Engine integrates responses into accumulated knowledge.
type Engine struct {
	config *Config

	mu            sync.RWMutex
	strength      map[string]float64
	integrations  uint64
	meanCoherence float64
}

// NewEngine creates the engine.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config:   config,
		strength: make(map[string]float64),
	}
}

// Integrate folds one response into the knowledge base: every carried
// pattern strengthens its descriptor, and the running coherence mean moves.
func (e *Engine) Integrate(resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range resp.NeuralPatterns {
		e.strength[p.Descriptor] += e.config.Rate * p.Weight
	}
	e.integrations++
	n := float64(e.integrations)
	e.meanCoherence += (resp.QuantumCoherence - e.meanCoherence) / n
	return nil
}

// Strength returns the accumulated strength for a descriptor.
func (e *Engine) Strength(descriptor string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strength[descriptor]
}

// Integrations returns how many responses have been folded in.
func (e *Engine) Integrations() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.integrations
}

// MeanCoherence returns the running mean coherence of folded responses.
func (e *Engine) MeanCoherence() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.meanCoherence
}

var _ agent.LearningEngine = (*Engine)(nil)
