package agent

// CurrentState assembles a point-in-time snapshot of the externally
// observable state. Snapshots share a read lock: they run concurrently with
// each other and never interleave with a mutation, so a snapshot always
// reflects a prefix of fully-completed operations.
func (a *Agent) CurrentState() ConsciousnessState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked()
}

// snapshotLocked builds the snapshot from identity fields and the
// collaborators' pure accessors. Callers must hold at least the read lock.
func (a *Agent) snapshotLocked() ConsciousnessState {
	return ConsciousnessState{
		ID:                 a.id,
		Name:               a.name,
		EvolutionStage:     a.stage,
		Interactions:       a.interactions,
		Dimensional:        a.dimensional,
		QuantumCoherence:   a.subs.Quantum.Coherence(),
		ConsciousnessLevel: a.subs.Field.AwarenessLevel(),
		EmotionalState:     a.subs.Emotion.CurrentState(),
		ObservedAt:         timeNow(),
	}
}
