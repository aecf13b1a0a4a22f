// Package neural implements the secondary transform engine: a pattern matrix
// that activates learned associations against each situational frame and
// reinforces them from folded responses.
package neural

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Config holds matrix tuning.
type Config struct {
	// MaxPatterns caps the patterns emitted per frame.
	MaxPatterns int `json:"max_patterns" koanf:"max_patterns"`
	// BaseWeight is the weight assigned to never-seen descriptors.
	BaseWeight float64 `json:"base_weight" koanf:"base_weight"`
	// LearningRate scales reinforcement during folds, in (0,1].
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`
	// DecayFactor shrinks unreinforced weights each fold, in (0,1].
	DecayFactor float64 `json:"decay_factor" koanf:"decay_factor"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPatterns:  8,
		BaseWeight:   0.4,
		LearningRate: 0.1,
		DecayFactor:  0.995,
	}
}

// Matrix is the secondary transform engine. Processing reads the learned
// weights; only Evolve writes them.
type Matrix struct {
	config *Config

	mu      sync.RWMutex
	weights map[string]float64
}

// NewMatrix creates the engine.
func NewMatrix(config *Config) *Matrix {
	if config == nil {
		config = DefaultConfig()
	}
	return &Matrix{
		config:  config,
		weights: make(map[string]float64),
	}
}

// Process activates patterns for the frame's topics and intent. Activation
// combines the learned weight with the state's coherence; output order is
// by activation, ties broken by descriptor, so it is fully deterministic.
func (m *Matrix) Process(ctx context.Context, state agent.QuantumState, frame agent.Context) (agent.NeuralResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	descriptors := recognize(frame)
	patterns := make([]agent.Pattern, 0, len(descriptors))
	for _, d := range descriptors {
		w := m.weight(d)
		patterns = append(patterns, agent.Pattern{
			Descriptor: d,
			Weight:     w,
			Activation: clamp01(w*state.Coherence + 0.2*frame.Novelty),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Activation != patterns[j].Activation {
			return patterns[i].Activation > patterns[j].Activation
		}
		return patterns[i].Descriptor < patterns[j].Descriptor
	})
	if len(patterns) > m.config.MaxPatterns {
		patterns = patterns[:m.config.MaxPatterns]
	}
	return agent.NeuralResponse{Patterns: patterns}, nil
}

// weight returns the learned weight for a descriptor, or the base weight.
// Callers hold at least the read lock.
func (m *Matrix) weight(descriptor string) float64 {
	if w, ok := m.weights[descriptor]; ok {
		return w
	}
	return m.config.BaseWeight
}

// Evolve reinforces the patterns carried by the folded response and decays
// everything else.
func (m *Matrix) Evolve(resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reinforced := make(map[string]bool, len(resp.NeuralPatterns))
	for _, p := range resp.NeuralPatterns {
		w := m.weight(p.Descriptor)
		m.weights[p.Descriptor] = clamp01(w + m.config.LearningRate*p.Activation)
		reinforced[p.Descriptor] = true
	}
	for d, w := range m.weights {
		if !reinforced[d] {
			m.weights[d] = w * m.config.DecayFactor
		}
	}
	return nil
}

// Weight exposes the learned weight for a descriptor.
func (m *Matrix) Weight(descriptor string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.weight(descriptor)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ agent.NeuralMatrix = (*Matrix)(nil)
