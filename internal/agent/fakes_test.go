package agent

import (
	"context"
	"sync"
)

// Deterministic stage outputs shared by the fakes. Tests assert the assembled
// response against these values verbatim.
var (
	testFrame = Context{
		Topics:      []string{"greeting"},
		Tokens:      3,
		Sentiment:   0.5,
		Novelty:     0.3,
		Familiarity: 0.2,
		Intent:      "greeting",
	}
	testQuantum = QuantumState{
		Coherence:    0.8,
		Phase:        0.25,
		Entanglement: 0.5,
	}
	testNeural = NeuralResponse{
		Patterns: []Pattern{
			{Descriptor: "curiosity", Weight: 0.7, Activation: 0.9},
			{Descriptor: "warmth", Weight: 0.4, Activation: 0.6},
		},
	}
	testThoughts = []ThoughtPattern{
		{Descriptor: "curiosity", Strength: 0.63},
	}
	testConscious = ConsciousnessResponse{
		AwarenessLevel: 0.7,
		Insights:       []string{"a familiar voice"},
	}
	testEmotional = EmotionalResponse{
		Primary:   "joy",
		Valence:   0.6,
		Arousal:   0.4,
		Intensity: 0.5,
	}
	testShift = DimensionalShift{
		Awareness:  0.1,
		Creativity: 0.02,
		Empathy:    0.03,
		Curiosity:  0.04,
		Stability:  -0.01,
		Resonance:  0.05,
	}
)

type fakeAnalyzer struct {
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, in Interaction) (Context, error) {
	f.calls++
	if f.err != nil {
		return Context{}, f.err
	}
	return testFrame, nil
}

type fakeQuantum struct {
	mu          sync.Mutex
	processErr  error
	evolveErr   error
	evolveCalls int
}

func (f *fakeQuantum) Process(ctx context.Context, frame Context) (QuantumState, error) {
	if f.processErr != nil {
		return QuantumState{}, f.processErr
	}
	return testQuantum, nil
}

func (f *fakeQuantum) Evolve(resp *Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evolveCalls++
	return f.evolveErr
}

func (f *fakeQuantum) Coherence() float64 { return testQuantum.Coherence }

type fakeNeural struct {
	mu          sync.Mutex
	processErr  error
	evolveErr   error
	evolveCalls int
}

func (f *fakeNeural) Process(ctx context.Context, state QuantumState, frame Context) (NeuralResponse, error) {
	if f.processErr != nil {
		return NeuralResponse{}, f.processErr
	}
	return testNeural, nil
}

func (f *fakeNeural) Evolve(resp *Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evolveCalls++
	return f.evolveErr
}

type fakeThoughtEngine struct {
	err error
}

func (f *fakeThoughtEngine) Generate(ctx context.Context, neural NeuralResponse, state QuantumState) ([]ThoughtPattern, error) {
	if f.err != nil {
		return nil, f.err
	}
	return testThoughts, nil
}

type fakeField struct {
	mu          sync.Mutex
	processErr  error
	evolveErr   error
	dimErr      error
	evolveCalls int
	dimStates   []DimensionalState
}

func (f *fakeField) Process(ctx context.Context, frame Context, thoughts []ThoughtPattern) (ConsciousnessResponse, error) {
	if f.processErr != nil {
		return ConsciousnessResponse{}, f.processErr
	}
	return testConscious, nil
}

func (f *fakeField) Evolve(resp *Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evolveCalls++
	return f.evolveErr
}

func (f *fakeField) ProcessDimensionalChange(state DimensionalState) error {
	if f.dimErr != nil {
		return f.dimErr
	}
	f.dimStates = append(f.dimStates, state)
	return nil
}

func (f *fakeField) AwarenessLevel() float64 { return testConscious.AwarenessLevel }

type fakeEmotion struct {
	mu          sync.Mutex
	processErr  error
	evolveErr   error
	evolveCalls int
}

func (f *fakeEmotion) Process(ctx context.Context, frame Context, conscious ConsciousnessResponse) (EmotionalResponse, error) {
	if f.processErr != nil {
		return EmotionalResponse{}, f.processErr
	}
	return testEmotional, nil
}

func (f *fakeEmotion) Evolve(resp *Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evolveCalls++
	return f.evolveErr
}

func (f *fakeEmotion) CurrentState() EmotionalResponse { return testEmotional }

type fakeSynthesizer struct {
	err  error
	arts []Artifacts
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, arts Artifacts) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.arts = append(f.arts, arts)
	return "synthesized response", nil
}

type fakeMemoryStore struct {
	mu   sync.Mutex
	err  error
	exps []Experience
}

func (f *fakeMemoryStore) Integrate(ctx context.Context, exp Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.exps = append(f.exps, exp)
	return nil
}

func (f *fakeMemoryStore) experiences() []Experience {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Experience, len(f.exps))
	copy(out, f.exps)
	return out
}

type fakeGrowth struct {
	err   error
	resps []*Response
}

func (f *fakeGrowth) RecordResponse(ctx context.Context, resp *Response) error {
	if f.err != nil {
		return f.err
	}
	f.resps = append(f.resps, resp)
	return nil
}

type fakeLearning struct {
	err   error
	resps []*Response
}

func (f *fakeLearning) Integrate(resp *Response) error {
	if f.err != nil {
		return f.err
	}
	f.resps = append(f.resps, resp)
	return nil
}

type fakeDimension struct {
	err   error
	shift DimensionalShift
}

func (f *fakeDimension) CalculateImpacts(resp *Response) (DimensionalShift, error) {
	if f.err != nil {
		return DimensionalShift{}, f.err
	}
	return f.shift, nil
}

type fakeEvolutionMetrics struct {
	err    error
	shifts []DimensionalShift
}

func (f *fakeEvolutionMetrics) RecordDimensionalChange(shift DimensionalShift) error {
	if f.err != nil {
		return f.err
	}
	f.shifts = append(f.shifts, shift)
	return nil
}

type fakeRelationships struct {
	observed []string
}

func (f *fakeRelationships) Observe(source string) {
	f.observed = append(f.observed, source)
}

func (f *fakeRelationships) Familiarity(source string) float64 { return 0.2 }

type fakeStateManager struct {
	updateErr  error
	evolveErr  error
	snapshots  []ConsciousnessState
	evolutions []uint64
}

func (f *fakeStateManager) UpdateState(ctx context.Context, state ConsciousnessState) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.snapshots = append(f.snapshots, state)
	return nil
}

func (f *fakeStateManager) RecordEvolution(ctx context.Context, stage uint64) error {
	if f.evolveErr != nil {
		return f.evolveErr
	}
	f.evolutions = append(f.evolutions, stage)
	return nil
}

// fakes bundles one instance of every collaborator so tests can inject
// failures and inspect calls.
type fakes struct {
	perception *fakeAnalyzer
	quantum    *fakeQuantum
	neural     *fakeNeural
	thoughts   *fakeThoughtEngine
	field      *fakeField
	emotion    *fakeEmotion
	synthesis  *fakeSynthesizer

	episodic   *fakeMemoryStore
	semantic   *fakeMemoryStore
	procedural *fakeMemoryStore

	growth        *fakeGrowth
	learning      *fakeLearning
	dimension     *fakeDimension
	evolution     *fakeEvolutionMetrics
	relationships *fakeRelationships
	states        *fakeStateManager
}

func newFakes() *fakes {
	return &fakes{
		perception:    &fakeAnalyzer{},
		quantum:       &fakeQuantum{},
		neural:        &fakeNeural{},
		thoughts:      &fakeThoughtEngine{},
		field:         &fakeField{},
		emotion:       &fakeEmotion{},
		synthesis:     &fakeSynthesizer{},
		episodic:      &fakeMemoryStore{},
		semantic:      &fakeMemoryStore{},
		procedural:    &fakeMemoryStore{},
		growth:        &fakeGrowth{},
		learning:      &fakeLearning{},
		dimension:     &fakeDimension{shift: testShift},
		evolution:     &fakeEvolutionMetrics{},
		relationships: &fakeRelationships{},
		states:        &fakeStateManager{},
	}
}

func (f *fakes) subsystems() Subsystems {
	return Subsystems{
		Perception:    f.perception,
		Quantum:       f.quantum,
		Neural:        f.neural,
		Thoughts:      f.thoughts,
		Field:         f.field,
		Emotion:       f.emotion,
		Synthesis:     f.synthesis,
		Episodic:      f.episodic,
		Semantic:      f.semantic,
		Procedural:    f.procedural,
		Growth:        f.growth,
		Learning:      f.learning,
		Dimension:     f.dimension,
		Evolution:     f.evolution,
		Relationships: f.relationships,
		States:        f.states,
	}
}
