// Package emotion implements the affect subsystem: it scores the emotional
// layer of each pipeline pass and keeps a running emotional state that folds
// pull toward every produced response.
package emotion

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Primary emotion labels, classified from the valence/arousal plane.
const (
	EmotionJoy         = "joy"
	EmotionContentment = "contentment"
	EmotionDistress    = "distress"
	EmotionSorrow      = "sorrow"
	EmotionCuriosity   = "curiosity"
	EmotionEquanimity  = "equanimity"
)

// Config holds resonance tuning.
type Config struct {
	// DriftRate controls how fast folds pull the running state toward
	// each response, in (0,1].
	DriftRate float64 `json:"drift_rate" koanf:"drift_rate"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{DriftRate: 0.2}
}

// Resonance is the affect subsystem. Processing is pure; only Evolve writes
// the running state.
type Resonance struct {
	config *Config

	mu      sync.RWMutex
	current agent.EmotionalResponse
}

// NewResonance creates the subsystem in a neutral state.
func NewResonance(config *Config) *Resonance {
	if config == nil {
		config = DefaultConfig()
	}
	return &Resonance{
		config: config,
		current: agent.EmotionalResponse{
			Primary:   EmotionEquanimity,
			Valence:   0,
			Arousal:   0.3,
			Intensity: 0.2,
		},
	}
}

// Process scores the affect of one pipeline pass. Valence follows the
// frame's sentiment blended with the running state; arousal rises with
// novelty and awareness.
func (r *Resonance) Process(ctx context.Context, frame agent.Context, conscious agent.ConsciousnessResponse) (agent.EmotionalResponse, error) {
	r.mu.RLock()
	cur := r.current
	r.mu.RUnlock()

	valence := clampSigned(0.6*frame.Sentiment + 0.4*cur.Valence)
	arousal := clamp01(0.5*frame.Novelty + 0.3*conscious.AwarenessLevel + 0.2*cur.Arousal)
	intensity := clamp01(0.5*math.Abs(valence) + 0.5*arousal)

	return agent.EmotionalResponse{
		Primary:   classify(valence, arousal),
		Valence:   valence,
		Arousal:   arousal,
		Intensity: intensity,
	}, nil
}

// Evolve pulls the running state toward the folded response's emotional
// layer. The primary label is adopted when the incoming layer is more
// intense than the running state.
func (r *Resonance) Evolve(resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rate := r.config.DriftRate
	layer := resp.EmotionalLayer
	next := agent.EmotionalResponse{
		Primary:   r.current.Primary,
		Valence:   clampSigned(r.current.Valence*(1-rate) + layer.Valence*rate),
		Arousal:   clamp01(r.current.Arousal*(1-rate) + layer.Arousal*rate),
		Intensity: clamp01(r.current.Intensity*(1-rate) + layer.Intensity*rate),
	}
	if layer.Intensity > r.current.Intensity {
		next.Primary = layer.Primary
	}
	r.current = next
	return nil
}

// CurrentState returns a copy of the running emotional state.
func (r *Resonance) CurrentState() agent.EmotionalResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// classify maps a valence/arousal pair to a primary emotion label.
func classify(valence, arousal float64) string {
	switch {
	case valence > 0.15 && arousal > 0.5:
		return EmotionJoy
	case valence > 0.15:
		return EmotionContentment
	case valence < -0.15 && arousal > 0.5:
		return EmotionDistress
	case valence < -0.15:
		return EmotionSorrow
	case arousal > 0.6:
		return EmotionCuriosity
	default:
		return EmotionEquanimity
	}
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

func clampSigned(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ agent.EmotionalResonance = (*Resonance)(nil)
