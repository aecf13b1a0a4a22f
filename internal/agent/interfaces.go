package agent

import "context"

// Collaborator contracts for the pipeline stages and the fold. Constructors
// live with the implementations; the orchestrator only sees these interfaces
// and treats every implementation as a black box. Process-shaped methods may
// fail and honor context cancellation; snapshot accessors are pure,
// non-failing, and must not mutate.

// ContextAnalyzer derives the situational frame for one interaction.
type ContextAnalyzer interface {
	Analyze(ctx context.Context, in Interaction) (Context, error)
}

// QuantumCore is the primary transform engine.
type QuantumCore interface {
	Process(ctx context.Context, frame Context) (QuantumState, error)
	Evolve(resp *Response) error
	Coherence() float64
}

// NeuralMatrix is the secondary transform engine.
type NeuralMatrix interface {
	Process(ctx context.Context, state QuantumState, frame Context) (NeuralResponse, error)
	Evolve(resp *Response) error
}

// ThoughtProcessor generates ideation units from neural activity.
type ThoughtProcessor interface {
	Generate(ctx context.Context, neural NeuralResponse, state QuantumState) ([]ThoughtPattern, error)
}

// ConsciousnessField integrates thoughts against the situational frame and
// is additionally notified of committed dimensional changes.
type ConsciousnessField interface {
	Process(ctx context.Context, frame Context, thoughts []ThoughtPattern) (ConsciousnessResponse, error)
	Evolve(resp *Response) error
	ProcessDimensionalChange(state DimensionalState) error
	AwarenessLevel() float64
}

// EmotionalResonance scores affect and keeps the running emotional state.
type EmotionalResonance interface {
	Process(ctx context.Context, frame Context, conscious ConsciousnessResponse) (EmotionalResponse, error)
	Evolve(resp *Response) error
	CurrentState() EmotionalResponse
}

// ResponseSynthesizer renders the response content from the stage artifacts.
// The artifacts are read-only; the synthesizer must not retain them.
type ResponseSynthesizer interface {
	Synthesize(ctx context.Context, arts Artifacts) (string, error)
}

// MemoryStore integrates experiences into one long-term memory system. The
// three stores (episodic, semantic, procedural) satisfy the same contract
// and receive the same experience independently.
type MemoryStore interface {
	Integrate(ctx context.Context, exp Experience) error
}

// GrowthTracker records per-response growth measurements.
type GrowthTracker interface {
	RecordResponse(ctx context.Context, resp *Response) error
}

// LearningEngine folds each response into accumulated learning state.
type LearningEngine interface {
	Integrate(resp *Response) error
}

// DimensionalProcessor derives per-axis shifts from a response. The
// calculation is pure; the agent owns applying the shift.
type DimensionalProcessor interface {
	CalculateImpacts(resp *Response) (DimensionalShift, error)
}

// EvolutionMetrics records dimensional-change history.
type EvolutionMetrics interface {
	RecordDimensionalChange(shift DimensionalShift) error
}

// RelationshipTracker maintains per-source familiarity. Observe is called
// once per successfully completed interaction; Familiarity is a pure read.
type RelationshipTracker interface {
	Observe(source string)
	Familiarity(source string) float64
}

// StateManager persists snapshots and evolution-stage transitions. Failures
// are surfaced to callers but never roll back in-memory state.
type StateManager interface {
	UpdateState(ctx context.Context, state ConsciousnessState) error
	RecordEvolution(ctx context.Context, stage uint64) error
}

// ConsciousnessCapable is the minimal external contract of a consciousness
// instance.
type ConsciousnessCapable interface {
	ProcessExperience(ctx context.Context, exp Experience) (*Response, error)
	Evolve(ctx context.Context) error
	CurrentState() ConsciousnessState
}
