// Package quantum implements the primary transform engine and the thought
// processor built on top of it. The "quantum" framing is a modelling device:
// the engine keeps a coherence scalar, a phase accumulator, and an
// entanglement level, and projects each situational frame into a state whose
// amplitudes derive deterministically from the frame's topics.
package quantum

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sync"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Config holds engine tuning.
type Config struct {
	// InitialCoherence seeds the coherence scalar, in [0,1].
	InitialCoherence float64 `json:"initial_coherence" koanf:"initial_coherence"`
	// DriftRate controls how fast folds pull internal state toward each
	// response, in (0,1].
	DriftRate float64 `json:"drift_rate" koanf:"drift_rate"`
	// AmplitudeCount is the length of the projected amplitude vector.
	AmplitudeCount int `json:"amplitude_count" koanf:"amplitude_count"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InitialCoherence: 0.6,
		DriftRate:        0.15,
		AmplitudeCount:   8,
	}
}

// Core is the primary transform engine. Processing is pure; only Evolve
// moves internal state.
type Core struct {
	config *Config

	mu           sync.RWMutex
	coherence    float64
	phase        float64
	entanglement float64
}

// NewCore creates the engine.
func NewCore(config *Config) *Core {
	if config == nil {
		config = DefaultConfig()
	}
	return &Core{
		config:       config,
		coherence:    config.InitialCoherence,
		phase:        0,
		entanglement: 0.3,
	}
}

// Process projects the situational frame into a quantum state. Familiar,
// positive frames raise coherence; high novelty lowers it. The engine's own
// state is read but never written.
func (c *Core) Process(ctx context.Context, frame agent.Context) (agent.QuantumState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coherence := clamp01(c.coherence +
		0.10*frame.Familiarity -
		0.08*frame.Novelty +
		0.05*frame.Sentiment)

	return agent.QuantumState{
		Coherence:    coherence,
		Phase:        math.Mod(c.phase+frame.Novelty*math.Pi, 2*math.Pi),
		Entanglement: clamp01(c.entanglement*0.9 + frame.Familiarity*0.1),
		Amplitudes:   amplitudes(frame.Topics, c.config.AmplitudeCount),
	}, nil
}

// Evolve drifts internal state toward the folded response.
func (c *Core) Evolve(resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rate := c.config.DriftRate
	c.coherence = clamp01(c.coherence*(1-rate) + resp.QuantumCoherence*rate)
	c.entanglement = clamp01(c.entanglement*(1-rate) + resp.ConsciousnessLevel*rate)
	c.phase = math.Mod(c.phase+resp.EmotionalLayer.Intensity*math.Pi/4, 2*math.Pi)
	return nil
}

// Coherence returns the engine's current coherence scalar.
func (c *Core) Coherence() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coherence
}

// amplitudes spreads the topics over a fixed-size vector by hashing, then
// L1-normalizes so the magnitudes sum to 1. No topics yields a uniform
// superposition.
func amplitudes(topics []string, size int) []float64 {
	if size <= 0 {
		return nil
	}
	amps := make([]float64, size)
	if len(topics) == 0 {
		for i := range amps {
			amps[i] = 1 / float64(size)
		}
		return amps
	}

	for _, t := range topics {
		h := fnv.New32a()
		h.Write([]byte(t))
		amps[int(h.Sum32())%size]++
	}
	total := float64(len(topics))
	for i := range amps {
		amps[i] /= total
	}
	return amps
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

var _ agent.QuantumCore = (*Core)(nil)
