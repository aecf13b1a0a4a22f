// Package consciousness implements the field-integration subsystem: it
// blends thought activity into a running awareness level, surfaces insights
// from strong thoughts, and tracks the committed dimensional vector.
package consciousness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
	ErrInvalidAxis = errors.New("dimensional axis is not a finite number")
)

// Config holds field tuning.
type Config struct {
	// InitialAwareness seeds the awareness level, in [0,1].
	InitialAwareness float64 `json:"initial_awareness" koanf:"initial_awareness"`
	// DriftRate controls how fast folds pull awareness toward each
	// response, in (0,1].
	DriftRate float64 `json:"drift_rate" koanf:"drift_rate"`
	// InsightThreshold is the minimum thought strength that surfaces an
	// insight.
	InsightThreshold float64 `json:"insight_threshold" koanf:"insight_threshold"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InitialAwareness: 0.5,
		DriftRate:        0.12,
		InsightThreshold: 0.65,
	}
}

// Field is the consciousness-integration subsystem. Processing is pure;
// Evolve and ProcessDimensionalChange write internal state.
type Field struct {
	config *Config

	mu          sync.RWMutex
	awareness   float64
	dimensional agent.DimensionalState
	aligned     bool
}

// NewField creates the subsystem.
func NewField(config *Config) *Field {
	if config == nil {
		config = DefaultConfig()
	}
	return &Field{
		config:    config,
		awareness: config.InitialAwareness,
	}
}

// Process integrates thought activity against the frame. Awareness rises
// with mean thought strength and novelty; insights surface for thoughts
// above the configured threshold, in thought order.
func (f *Field) Process(ctx context.Context, frame agent.Context, thoughts []agent.ThoughtPattern) (agent.ConsciousnessResponse, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var mean float64
	var insights []string
	for _, t := range thoughts {
		mean += t.Strength
		if t.Strength >= f.config.InsightThreshold {
			insights = append(insights, fmt.Sprintf("strong resonance around %q", t.Descriptor))
		}
	}
	if len(thoughts) > 0 {
		mean /= float64(len(thoughts))
	}

	return agent.ConsciousnessResponse{
		AwarenessLevel: clamp01(0.6*f.awareness + 0.3*mean + 0.1*frame.Novelty),
		Insights:       insights,
	}, nil
}

// Evolve drifts awareness toward the folded response's consciousness level.
func (f *Field) Evolve(resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rate := f.config.DriftRate
	f.awareness = clamp01(f.awareness*(1-rate) + resp.ConsciousnessLevel*rate)
	return nil
}

// ProcessDimensionalChange records the staged dimensional vector. The field
// validates the vector before the agent commits it; a rejection here leaves
// the agent's vector untouched.
func (f *Field) ProcessDimensionalChange(state agent.DimensionalState) error {
	for axis, v := range state.Axes() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dimensional = state
	f.aligned = true
	return nil
}

// AwarenessLevel returns the current awareness level.
func (f *Field) AwarenessLevel() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.awareness
}

// Alignment returns the last dimensional vector the field was notified of
// and whether any notification has happened yet.
func (f *Field) Alignment() (agent.DimensionalState, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dimensional, f.aligned
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

var _ agent.ConsciousnessField = (*Field)(nil)
