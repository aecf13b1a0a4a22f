package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestProcessInteraction(t *testing.T) {
	t.Run("assembles response from stage outputs", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		in := NewInteraction("hello there", "alice")
		resp, err := a.ProcessInteraction(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, in.ID, resp.InteractionID)
		assert.Equal(t, "synthesized response", resp.Content)
		assert.Equal(t, testQuantum.Coherence, resp.QuantumCoherence)
		assert.Equal(t, testNeural.Patterns, resp.NeuralPatterns)
		assert.Equal(t, testConscious.AwarenessLevel, resp.ConsciousnessLevel)
		assert.Equal(t, testEmotional, resp.EmotionalLayer)
		assert.False(t, resp.CreatedAt.IsZero())
	})

	t.Run("hands every stage artifact to synthesis", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		in := NewInteraction("hello", "alice")
		_, err := a.ProcessInteraction(context.Background(), in)
		require.NoError(t, err)

		require.Len(t, f.synthesis.arts, 1)
		arts := f.synthesis.arts[0]
		assert.Equal(t, in.ID, arts.Interaction.ID)
		assert.Equal(t, testFrame, arts.Frame)
		assert.Equal(t, testQuantum, arts.Quantum)
		assert.Equal(t, testNeural, arts.Neural)
		assert.Equal(t, testThoughts, arts.Thoughts)
		assert.Equal(t, testConscious, arts.Conscious)
		assert.Equal(t, testEmotional, arts.Emotional)
	})

	t.Run("fills missing id and timestamp", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		_, err := a.ProcessInteraction(context.Background(), Interaction{Content: "hello"})
		require.NoError(t, err)

		require.Len(t, f.synthesis.arts, 1)
		got := f.synthesis.arts[0].Interaction
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("counts and observes completed interactions", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		for i := 0; i < 3; i++ {
			_, err := a.ProcessInteraction(context.Background(), NewInteraction("hi", "alice"))
			require.NoError(t, err)
		}

		assert.Equal(t, uint64(3), a.CurrentState().Interactions)
		assert.Equal(t, []string{"alice", "alice", "alice"}, f.relationships.observed)
	})

	t.Run("never advances the evolution stage", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		for i := 0; i < 5; i++ {
			_, err := a.ProcessInteraction(context.Background(), NewInteraction("hi", "alice"))
			require.NoError(t, err)
		}

		assert.Equal(t, uint64(1), a.CurrentState().EvolutionStage)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		resp, err := a.ProcessInteraction(context.Background(), Interaction{Source: "alice"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrEmptyContent)
		assert.ErrorIs(t, err, ErrStageFailed)
		assert.Equal(t, StageContext, FailedStage(err))

		// Nothing ran, nothing changed.
		assert.Equal(t, 0, f.perception.calls)
		assert.Equal(t, uint64(0), a.CurrentState().Interactions)
	})

	t.Run("honors cancellation before the first stage", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := a.ProcessInteraction(ctx, NewInteraction("hello", "alice"))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StageContext, FailedStage(err))
		assert.Equal(t, 0, f.perception.calls)
	})
}

func TestProcessInteraction_StageFailure(t *testing.T) {
	stageErr := errors.New("boom")

	tests := []struct {
		name   string
		inject func(f *fakes)
		stage  Stage
	}{
		{
			name:   "context analysis",
			inject: func(f *fakes) { f.perception.err = stageErr },
			stage:  StageContext,
		},
		{
			name:   "quantum processing",
			inject: func(f *fakes) { f.quantum.processErr = stageErr },
			stage:  StageQuantum,
		},
		{
			name:   "neural processing",
			inject: func(f *fakes) { f.neural.processErr = stageErr },
			stage:  StageNeural,
		},
		{
			name:   "thought generation",
			inject: func(f *fakes) { f.thoughts.err = stageErr },
			stage:  StageThoughts,
		},
		{
			name:   "consciousness integration",
			inject: func(f *fakes) { f.field.processErr = stageErr },
			stage:  StageConsciousness,
		},
		{
			name:   "emotional processing",
			inject: func(f *fakes) { f.emotion.processErr = stageErr },
			stage:  StageEmotional,
		},
		{
			name:   "response synthesis",
			inject: func(f *fakes) { f.synthesis.err = stageErr },
			stage:  StageSynthesis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakes()
			tt.inject(f)
			a := newTestAgent(t, f)

			before := a.CurrentState()
			resp, err := a.ProcessInteraction(context.Background(), NewInteraction("hello", "alice"))

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, stageErr)
			assert.ErrorIs(t, err, ErrStageFailed)
			assert.Equal(t, tt.stage, FailedStage(err))

			// A stage failure aborts before the fold: no growth recording,
			// no counter movement, no dimensional change.
			assert.Empty(t, f.growth.resps)
			assert.Empty(t, f.relationships.observed)
			after := a.CurrentState()
			assert.Equal(t, before.Interactions, after.Interactions)
			assert.Equal(t, before.Dimensional, after.Dimensional)
		})
	}
}

func TestProcessInteraction_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakes()
	a := newTestAgent(t, f)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := NewInteraction(fmt.Sprintf("message %d", i), "alice")
			_, errs[i] = a.ProcessInteraction(context.Background(), in)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "worker %d", i)
	}

	// The writer lock serializes the passes; every one must be counted.
	assert.Equal(t, uint64(workers), a.CurrentState().Interactions)
	assert.Len(t, f.states.snapshots, workers)
}

func TestProcessInteraction_Deterministic(t *testing.T) {
	run := func() ConsciousnessState {
		a := newTestAgent(t, newFakes())
		for i := 0; i < 5; i++ {
			_, err := a.ProcessInteraction(context.Background(), NewInteraction("hello", "alice"))
			require.NoError(t, err)
		}
		return a.CurrentState()
	}

	first := run()
	second := run()

	// Identity and observation time differ per agent; everything derived from
	// the interactions must not.
	ignore := cmpopts.IgnoreFields(ConsciousnessState{}, "ID", "ObservedAt")
	if diff := cmp.Diff(first, second, ignore); diff != "" {
		t.Errorf("state diverged across identical runs (-first +second):\n%s", diff)
	}
}

func TestCurrentState_NeverObservesPartialFold(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakes()
	a := newTestAgent(t, f)

	stop := make(chan struct{})
	var observed []ConsciousnessState
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				observed = append(observed, a.CurrentState())
			}
		}
	}()

	const passes = 8
	for i := 0; i < passes; i++ {
		_, err := a.ProcessInteraction(context.Background(), NewInteraction("hello", "alice"))
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	// Each snapshot must pair the interaction counter with the dimensional
	// vector of exactly that many committed folds; a torn read would break
	// the correspondence.
	require.NotEmpty(t, observed)
	for _, state := range observed {
		k := float64(state.Interactions)
		assert.InDelta(t, math.Min(0.5+0.1*k, 1.0), state.Dimensional.Awareness, 1e-9)
		assert.InDelta(t, 0.5+0.04*k, state.Dimensional.Curiosity, 1e-9)
		assert.InDelta(t, 0.5-0.01*k, state.Dimensional.Stability, 1e-9)
	}
}

func TestProcessExperience(t *testing.T) {
	t.Run("runs the experience through the pipeline", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		exp := Experience{ID: "exp-1", Content: "a memory", Source: "diary"}
		resp, err := a.ProcessExperience(context.Background(), exp)
		require.NoError(t, err)
		assert.Equal(t, "exp-1", resp.InteractionID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := newFakes()
		a := newTestAgent(t, f)

		_, err := a.ProcessExperience(context.Background(), Experience{Source: "diary"})
		assert.ErrorIs(t, err, ErrEmptyExperience)
	})
}
