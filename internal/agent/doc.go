// Package agent implements the consciousness pipeline orchestrator: a single
// long-lived agent that turns interactions into synthesized responses and
// folds every response back into its own evolving state.
//
// # Pipeline
//
// ProcessInteraction drives a fixed seven-stage chain. Each stage consumes
// the outputs of its predecessors and produces one intermediate value:
//
//	Interaction → Context → QuantumState → NeuralResponse → []ThoughtPattern
//	            → ConsciousnessResponse → EmotionalResponse → Response
//
// Stage ordering is total and never skipped or reordered. The assembled
// Response copies stage outputs verbatim (coherence, patterns, awareness,
// emotional layer) and delegates content generation to the synthesizer with
// all upstream artifacts as read-only inputs.
//
// # Evolution
//
// After assembly, and inside the same exclusive section, the response is
// folded into long-lived state in five steps: growth tracking, the four
// subsystem folds (parallel, no cross-dependency), learning integration, the
// staged dimensional update, and snapshot persistence. Completed steps stay
// committed when a later step fails; the dimensional update stages its new
// vector and commits it only after the field notification and metrics
// recording succeed.
//
// The per-response fold never moves the evolution stage counter. Only the
// explicit Evolve method advances it; the two are distinct lifecycle events.
//
// # Concurrency
//
// One sync.RWMutex serializes everything: ProcessInteraction, ProcessMemory,
// and Evolve hold the write lock for their full duration, CurrentState holds
// the read lock. Snapshots therefore always reflect a prefix of
// fully-completed operations; a half-applied fold is never observable.
// Cancellation is cooperative and honored at stage and step boundaries only.
//
// # Collaborators
//
// Stage subsystems are supplied through the Subsystems registry as
// interfaces; any implementation satisfying the contracts can be swapped in.
// The concrete defaults live in the sibling packages (perception, quantum,
// neural, consciousness, emotion, synthesis, dimension, learning, growth,
// memory, statestore).
package agent
