package quantum

import (
	"context"

	"github.com/lialabs/liad/internal/agent"
)

// ThoughtConfig holds thought-generation tuning.
type ThoughtConfig struct {
	// MinActivation filters out patterns below this activation.
	MinActivation float64 `json:"min_activation" koanf:"min_activation"`
	// MaxThoughts caps the number of generated thoughts.
	MaxThoughts int `json:"max_thoughts" koanf:"max_thoughts"`
}

// DefaultThoughtConfig returns sensible defaults.
func DefaultThoughtConfig() *ThoughtConfig {
	return &ThoughtConfig{
		MinActivation: 0.2,
		MaxThoughts:   5,
	}
}

// ThoughtEngine turns neural pattern activity into ideation units, weighted
// by the coherence of the quantum state that produced it. Generation is pure.
type ThoughtEngine struct {
	config *ThoughtConfig
}

// NewThoughtEngine creates the engine.
func NewThoughtEngine(config *ThoughtConfig) *ThoughtEngine {
	if config == nil {
		config = DefaultThoughtConfig()
	}
	return &ThoughtEngine{config: config}
}

// Generate emits one thought per sufficiently activated pattern, in the
// pattern order of the neural response. Strength scales with pattern
// activation and state coherence. An empty pattern list yields no thoughts.
func (e *ThoughtEngine) Generate(ctx context.Context, neural agent.NeuralResponse, state agent.QuantumState) ([]agent.ThoughtPattern, error) {
	thoughts := make([]agent.ThoughtPattern, 0, len(neural.Patterns))
	for _, p := range neural.Patterns {
		if p.Activation < e.config.MinActivation {
			continue
		}
		thoughts = append(thoughts, agent.ThoughtPattern{
			Descriptor: p.Descriptor,
			Strength:   clamp01(p.Activation * (0.5 + 0.5*state.Coherence)),
		})
		if len(thoughts) == e.config.MaxThoughts {
			break
		}
	}
	return thoughts, nil
}

var _ agent.ThoughtProcessor = (*ThoughtEngine)(nil)
