// Package dimension derives per-axis growth impacts from assembled
// responses. The calculation is pure; applying the shift is owned by the
// agent's fold.
package dimension

import (
	"errors"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Config holds impact tuning.
type Config struct {
	// Rate scales every axis shift; small values keep growth gradual.
	Rate float64 `json:"rate" koanf:"rate"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{Rate: 0.02}
}

// Processor calculates dimensional impacts.
type Processor struct {
	config *Config
}

// NewProcessor creates the processor.
func NewProcessor(config *Config) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Processor{config: config}
}

// CalculateImpacts derives the per-axis shift from one response. Centered
// scalars (0.5 for unit ranges, 0 for valence) produce no drift; responses
// above center push the axis up, below center pull it down.
func (p *Processor) CalculateImpacts(resp *agent.Response) (agent.DimensionalShift, error) {
	if resp == nil {
		return agent.DimensionalShift{}, ErrNilResponse
	}

	rate := p.config.Rate
	layer := resp.EmotionalLayer

	return agent.DimensionalShift{
		Awareness:  rate * (resp.ConsciousnessLevel - 0.5),
		Creativity: rate * (patternDiversity(resp.NeuralPatterns) - 0.5),
		Empathy:    rate * layer.Valence * layer.Intensity,
		Curiosity:  rate * (layer.Arousal - 0.5),
		Stability:  rate * (resp.QuantumCoherence - 0.5),
		Resonance:  rate * ((resp.QuantumCoherence+resp.ConsciousnessLevel)/2 - 0.5),
	}, nil
}

// patternDiversity is the ratio of distinct descriptors to patterns carried
// by the response, or 0 for an empty pattern list.
func patternDiversity(patterns []agent.Pattern) float64 {
	if len(patterns) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		distinct[p.Descriptor] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(patterns))
}

var _ agent.DimensionalProcessor = (*Processor)(nil)
