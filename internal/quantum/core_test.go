package quantum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lialabs/liad/internal/agent"
)

func TestProcess(t *testing.T) {
	t.Run("is pure and deterministic", func(t *testing.T) {
		c := NewCore(nil)
		frame := agent.Context{
			Topics:      []string{"stars", "night"},
			Sentiment:   0.4,
			Novelty:     0.6,
			Familiarity: 0.3,
		}

		first, err := c.Process(context.Background(), frame)
		require.NoError(t, err)
		second, err := c.Process(context.Background(), frame)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, DefaultConfig().InitialCoherence, c.Coherence())
	})

	t.Run("familiarity raises coherence, novelty lowers it", func(t *testing.T) {
		c := NewCore(nil)

		familiar, err := c.Process(context.Background(), agent.Context{Familiarity: 1})
		require.NoError(t, err)
		novel, err := c.Process(context.Background(), agent.Context{Novelty: 1})
		require.NoError(t, err)

		assert.Greater(t, familiar.Coherence, c.Coherence())
		assert.Less(t, novel.Coherence, c.Coherence())
	})

	t.Run("coherence stays in range", func(t *testing.T) {
		c := NewCore(&Config{InitialCoherence: 0.99, DriftRate: 0.15, AmplitudeCount: 4})

		state, err := c.Process(context.Background(), agent.Context{Familiarity: 1, Sentiment: 1})
		require.NoError(t, err)
		assert.Equal(t, 1.0, state.Coherence)

		low := NewCore(&Config{InitialCoherence: 0.01, DriftRate: 0.15, AmplitudeCount: 4})
		state, err = low.Process(context.Background(), agent.Context{Novelty: 1, Sentiment: -1})
		require.NoError(t, err)
		assert.Equal(t, 0.0, state.Coherence)
	})
}

func TestAmplitudes(t *testing.T) {
	t.Run("no topics yields a uniform superposition", func(t *testing.T) {
		c := NewCore(&Config{InitialCoherence: 0.6, DriftRate: 0.15, AmplitudeCount: 4})

		state, err := c.Process(context.Background(), agent.Context{})
		require.NoError(t, err)
		assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, state.Amplitudes)
	})

	t.Run("amplitudes sum to one", func(t *testing.T) {
		c := NewCore(nil)

		state, err := c.Process(context.Background(), agent.Context{
			Topics: []string{"river", "stone", "cloud"},
		})
		require.NoError(t, err)

		var sum float64
		for _, a := range state.Amplitudes {
			sum += a
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})
}

func TestEvolve(t *testing.T) {
	t.Run("drifts coherence toward the response", func(t *testing.T) {
		c := NewCore(nil)
		before := c.Coherence()

		require.NoError(t, c.Evolve(&agent.Response{QuantumCoherence: 1.0}))
		after := c.Coherence()

		assert.Greater(t, after, before)
		assert.Less(t, after, 1.0) // partial drift, not a jump
	})

	t.Run("repeated folds converge", func(t *testing.T) {
		c := NewCore(nil)
		for i := 0; i < 200; i++ {
			require.NoError(t, c.Evolve(&agent.Response{QuantumCoherence: 0.9}))
		}
		assert.InDelta(t, 0.9, c.Coherence(), 0.01)
	})

	t.Run("rejects nil response", func(t *testing.T) {
		c := NewCore(nil)
		assert.ErrorIs(t, c.Evolve(nil), ErrNilResponse)
	})
}

func TestGenerate(t *testing.T) {
	t.Run("preserves pattern order", func(t *testing.T) {
		e := NewThoughtEngine(nil)
		neural := agent.NeuralResponse{Patterns: []agent.Pattern{
			{Descriptor: "wonder", Activation: 0.9},
			{Descriptor: "focus", Activation: 0.5},
			{Descriptor: "calm", Activation: 0.4},
		}}

		thoughts, err := e.Generate(context.Background(), neural, agent.QuantumState{Coherence: 1})
		require.NoError(t, err)

		require.Len(t, thoughts, 3)
		assert.Equal(t, "wonder", thoughts[0].Descriptor)
		assert.Equal(t, "focus", thoughts[1].Descriptor)
		assert.Equal(t, "calm", thoughts[2].Descriptor)
	})

	t.Run("filters weak activations", func(t *testing.T) {
		e := NewThoughtEngine(&ThoughtConfig{MinActivation: 0.5, MaxThoughts: 5})
		neural := agent.NeuralResponse{Patterns: []agent.Pattern{
			{Descriptor: "strong", Activation: 0.8},
			{Descriptor: "weak", Activation: 0.1},
		}}

		thoughts, err := e.Generate(context.Background(), neural, agent.QuantumState{Coherence: 0.5})
		require.NoError(t, err)

		require.Len(t, thoughts, 1)
		assert.Equal(t, "strong", thoughts[0].Descriptor)
	})

	t.Run("caps the thought count", func(t *testing.T) {
		e := NewThoughtEngine(&ThoughtConfig{MinActivation: 0, MaxThoughts: 2})
		neural := agent.NeuralResponse{Patterns: []agent.Pattern{
			{Descriptor: "a", Activation: 0.9},
			{Descriptor: "b", Activation: 0.9},
			{Descriptor: "c", Activation: 0.9},
		}}

		thoughts, err := e.Generate(context.Background(), neural, agent.QuantumState{})
		require.NoError(t, err)
		assert.Len(t, thoughts, 2)
	})

	t.Run("coherence scales strength", func(t *testing.T) {
		e := NewThoughtEngine(nil)
		neural := agent.NeuralResponse{Patterns: []agent.Pattern{
			{Descriptor: "wonder", Activation: 0.8},
		}}

		dim, err := e.Generate(context.Background(), neural, agent.QuantumState{Coherence: 0})
		require.NoError(t, err)
		bright, err := e.Generate(context.Background(), neural, agent.QuantumState{Coherence: 1})
		require.NoError(t, err)

		require.Len(t, dim, 1)
		require.Len(t, bright, 1)
		assert.Less(t, dim[0].Strength, bright[0].Strength)
		assert.InDelta(t, 0.4, dim[0].Strength, 1e-9)    // 0.8 * 0.5
		assert.InDelta(t, 0.8, bright[0].Strength, 1e-9) // 0.8 * 1.0
	})

	t.Run("no patterns yields no thoughts", func(t *testing.T) {
		e := NewThoughtEngine(nil)
		thoughts, err := e.Generate(context.Background(), agent.NeuralResponse{}, agent.QuantumState{})
		require.NoError(t, err)
		assert.Empty(t, thoughts)
	})
}
