package agent

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one inbound stimulus. Callers may leave ID and Timestamp
// zero; the pipeline fills them in before processing. The value is consumed
// read-only and never retained after the call.
type Interaction struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInteraction builds an interaction with a fresh identity.
func NewInteraction(content, source string) Interaction {
	return Interaction{
		ID:        uuid.New().String(),
		Content:   content,
		Source:    source,
		Timestamp: timeNow(),
	}
}

// Experience is one inbound memory unit for the memory path. The payload is
// opaque to the orchestrator; the stores decide what to extract from it.
type Experience struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AsInteraction converts the experience for the pipeline path.
func (e Experience) AsInteraction() Interaction {
	return Interaction{
		ID:        e.ID,
		Content:   e.Content,
		Source:    e.Source,
		Timestamp: e.Timestamp,
	}
}

// Context is the situational frame derived from one interaction. It is
// scoped to a single pipeline pass and never stored on the agent.
type Context struct {
	Topics      []string `json:"topics"`
	Tokens      int      `json:"tokens"`
	Sentiment   float64  `json:"sentiment"`   // [-1,1]
	Novelty     float64  `json:"novelty"`     // [0,1]
	Familiarity float64  `json:"familiarity"` // [0,1]
	Intent      string   `json:"intent"`
}

// QuantumState is the primary transform output. Coherence is the only field
// with externally specified meaning; the rest are engine-internal.
type QuantumState struct {
	Coherence    float64   `json:"coherence"` // [0,1]
	Phase        float64   `json:"phase"`
	Entanglement float64   `json:"entanglement"`
	Amplitudes   []float64 `json:"amplitudes,omitempty"`
}

// Pattern is one activated pattern descriptor.
type Pattern struct {
	Descriptor string  `json:"descriptor"`
	Weight     float64 `json:"weight"`
	Activation float64 `json:"activation"`
}

// NeuralResponse carries the ordered pattern activations of the secondary
// transform. Order is significant and preserved verbatim into the Response.
type NeuralResponse struct {
	Patterns []Pattern `json:"patterns"`
}

// ThoughtPattern is one ideation unit generated from neural activity.
type ThoughtPattern struct {
	Descriptor string  `json:"descriptor"`
	Strength   float64 `json:"strength"`
}

// ConsciousnessResponse is the field-integration output.
type ConsciousnessResponse struct {
	AwarenessLevel float64  `json:"awareness_level"` // [0,1]
	Insights       []string `json:"insights,omitempty"`
}

// EmotionalResponse is the affect layer of a response. It is embedded
// verbatim into the Response and is also the shape of the resonance
// subsystem's snapshot.
type EmotionalResponse struct {
	Primary   string  `json:"primary"`
	Valence   float64 `json:"valence"`   // [-1,1]
	Arousal   float64 `json:"arousal"`   // [0,1]
	Intensity float64 `json:"intensity"` // [0,1]
}

// Response is the assembled output of one pipeline pass. Exactly one is
// produced per successful interaction; it is immutable after assembly.
type Response struct {
	ID                 string            `json:"id"`
	InteractionID      string            `json:"interaction_id"`
	Content            string            `json:"content"`
	QuantumCoherence   float64           `json:"quantum_coherence"`
	NeuralPatterns     []Pattern         `json:"neural_patterns"`
	ConsciousnessLevel float64           `json:"consciousness_level"`
	EmotionalLayer     EmotionalResponse `json:"emotional_layer"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Artifacts bundles the read-only stage outputs handed to synthesis.
type Artifacts struct {
	Interaction Interaction
	Frame       Context
	Quantum     QuantumState
	Neural      NeuralResponse
	Thoughts    []ThoughtPattern
	Conscious   ConsciousnessResponse
	Emotional   EmotionalResponse
}

// DimensionalState positions the agent along its fixed growth axes. Every
// axis is a magnitude in [0,1]. The value is owned by the agent and mutated
// only by the dimensional-update step of the evolution fold.
type DimensionalState struct {
	Awareness  float64 `json:"awareness" koanf:"awareness"`
	Creativity float64 `json:"creativity" koanf:"creativity"`
	Empathy    float64 `json:"empathy" koanf:"empathy"`
	Curiosity  float64 `json:"curiosity" koanf:"curiosity"`
	Stability  float64 `json:"stability" koanf:"stability"`
	Resonance  float64 `json:"resonance" koanf:"resonance"`
}

// DimensionalShift is a per-axis delta produced by the impact calculator.
type DimensionalShift struct {
	Awareness  float64 `json:"awareness"`
	Creativity float64 `json:"creativity"`
	Empathy    float64 `json:"empathy"`
	Curiosity  float64 `json:"curiosity"`
	Stability  float64 `json:"stability"`
	Resonance  float64 `json:"resonance"`
}

// Apply returns a copy of s with the shift applied, every axis clamped
// to [0,1]. The receiver is not modified.
func (s DimensionalState) Apply(d DimensionalShift) DimensionalState {
	return DimensionalState{
		Awareness:  clamp01(s.Awareness + d.Awareness),
		Creativity: clamp01(s.Creativity + d.Creativity),
		Empathy:    clamp01(s.Empathy + d.Empathy),
		Curiosity:  clamp01(s.Curiosity + d.Curiosity),
		Stability:  clamp01(s.Stability + d.Stability),
		Resonance:  clamp01(s.Resonance + d.Resonance),
	}
}

// Axes returns the state as a name→magnitude map for logging and export.
func (s DimensionalState) Axes() map[string]float64 {
	return map[string]float64{
		"awareness":  s.Awareness,
		"creativity": s.Creativity,
		"empathy":    s.Empathy,
		"curiosity":  s.Curiosity,
		"stability":  s.Stability,
		"resonance":  s.Resonance,
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

// ConsciousnessState is a point-in-time external view of the agent. It is
// derived on demand and carries value copies only; mutating a snapshot never
// touches the agent.
type ConsciousnessState struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	EvolutionStage     uint64            `json:"evolution_stage"`
	Interactions       uint64            `json:"interactions"`
	Dimensional        DimensionalState  `json:"dimensional"`
	QuantumCoherence   float64           `json:"quantum_coherence"`
	ConsciousnessLevel float64           `json:"consciousness_level"`
	EmotionalState     EmotionalResponse `json:"emotional_state"`
	ObservedAt         time.Time         `json:"observed_at"`
}

// Stage identifies one pipeline stage for error classification and metrics.
type Stage string

// Pipeline stages in execution order.
const (
	StageContext       Stage = "context_analysis"
	StageQuantum       Stage = "quantum_processing"
	StageNeural        Stage = "neural_processing"
	StageThoughts      Stage = "thought_generation"
	StageConsciousness Stage = "consciousness_integration"
	StageEmotional     Stage = "emotional_processing"
	StageSynthesis     Stage = "response_synthesis"
)

// EvolutionStep identifies one step of the evolution fold.
type EvolutionStep string

// Fold steps in execution order.
const (
	StepGrowth      EvolutionStep = "growth_tracking"
	StepSubsystems  EvolutionStep = "subsystem_folds"
	StepLearning    EvolutionStep = "learning_integration"
	StepDimensional EvolutionStep = "dimensional_update"
	StepPersistence EvolutionStep = "state_persistence"
)
