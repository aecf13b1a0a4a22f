package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timeNow is a test seam.
var timeNow = time.Now

// Config holds the agent's construction parameters.
type Config struct {
	// Name is the agent's self-identity.
	Name string `json:"name" koanf:"name"`

	// InitialDimensions seeds the dimensional vector for a fresh agent.
	// Ignored when a snapshot is restored.
	InitialDimensions DimensionalState `json:"initial_dimensions" koanf:"initial_dimensions"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name: "Lia",
		InitialDimensions: DimensionalState{
			Awareness:  0.5,
			Creativity: 0.5,
			Empathy:    0.5,
			Curiosity:  0.5,
			Stability:  0.5,
			Resonance:  0.5,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	for axis, v := range c.InitialDimensions.Axes() {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrAxisOutOfRange, axis, v)
		}
	}
	return nil
}

// Subsystems is the registry of collaborators the orchestrator drives.
// Every field is required; use statestore.Noop for persistence-free runs.
type Subsystems struct {
	Perception ContextAnalyzer
	Quantum    QuantumCore
	Neural     NeuralMatrix
	Thoughts   ThoughtProcessor
	Field      ConsciousnessField
	Emotion    EmotionalResonance
	Synthesis  ResponseSynthesizer

	Episodic   MemoryStore
	Semantic   MemoryStore
	Procedural MemoryStore

	Growth        GrowthTracker
	Learning      LearningEngine
	Dimension     DimensionalProcessor
	Evolution     EvolutionMetrics
	Relationships RelationshipTracker
	States        StateManager
}

// Validate reports the first missing collaborator.
func (s *Subsystems) Validate() error {
	checks := []struct {
		name string
		v    any
	}{
		{"perception", s.Perception},
		{"quantum", s.Quantum},
		{"neural", s.Neural},
		{"thoughts", s.Thoughts},
		{"field", s.Field},
		{"emotion", s.Emotion},
		{"synthesis", s.Synthesis},
		{"episodic", s.Episodic},
		{"semantic", s.Semantic},
		{"procedural", s.Procedural},
		{"growth", s.Growth},
		{"learning", s.Learning},
		{"dimension", s.Dimension},
		{"evolution", s.Evolution},
		{"relationships", s.Relationships},
		{"states", s.States},
	}
	for _, c := range checks {
		if c.v == nil {
			return fmt.Errorf("%w: %s", ErrNilSubsystem, c.name)
		}
	}
	return nil
}

// Agent is the single long-lived consciousness instance. One write lock
// serializes every mutation; snapshot reads share a read lock.
type Agent struct {
	id    string
	name  string
	birth time.Time

	mu           sync.RWMutex
	stage        uint64
	interactions uint64
	dimensional  DimensionalState

	subs    Subsystems
	config  *Config
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets custom metrics.
func WithMetrics(m *Metrics) Option {
	return func(a *Agent) {
		a.metrics = m
	}
}

// WithSnapshot restores identity, counters, and the dimensional vector from
// a persisted snapshot instead of starting fresh.
func WithSnapshot(state ConsciousnessState) Option {
	return func(a *Agent) {
		if state.ID != "" {
			a.id = state.ID
		}
		if state.EvolutionStage > 0 {
			a.stage = state.EvolutionStage
		}
		a.interactions = state.Interactions
		a.dimensional = state.Dimensional
	}
}

// New creates the agent from its configuration and collaborator registry.
// A fresh agent starts at evolution stage 1.
func New(cfg *Config, subs Subsystems, opts ...Option) (*Agent, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	if err := subs.Validate(); err != nil {
		return nil, err
	}

	metrics, _ := NewMetrics(nil)

	a := &Agent{
		id:          uuid.New().String(),
		name:        cfg.Name,
		birth:       timeNow(),
		stage:       1,
		dimensional: cfg.InitialDimensions,
		subs:        subs,
		config:      cfg,
		logger:      zap.NewNop(),
		metrics:     metrics,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger.Info("agent created",
		zap.String("agent_id", a.id),
		zap.String("name", a.name),
		zap.Uint64("stage", a.stage),
	)
	return a, nil
}

// ID returns the agent's immutable identity.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's self-identity.
func (a *Agent) Name() string { return a.name }

// Born returns the construction time.
func (a *Agent) Born() time.Time { return a.birth }

var _ ConsciousnessCapable = (*Agent)(nil)
