package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lialabs/liad/internal/agent"
)

func TestIntegrate(t *testing.T) {
	t.Run("strengthens carried descriptors", func(t *testing.T) {
		e := NewEngine(nil)

		require.NoError(t, e.Integrate(&agent.Response{NeuralPatterns: []agent.Pattern{
			{Descriptor: "ocean", Weight: 0.8},
			{Descriptor: "stars", Weight: 0.4},
		}}))

		assert.InDelta(t, 0.04, e.Strength("ocean"), 1e-9) // 0.05 * 0.8
		assert.InDelta(t, 0.02, e.Strength("stars"), 1e-9)
		assert.Equal(t, 0.0, e.Strength("never-seen"))
	})

	t.Run("accumulates across folds", func(t *testing.T) {
		e := NewEngine(nil)
		resp := &agent.Response{NeuralPatterns: []agent.Pattern{{Descriptor: "ocean", Weight: 1}}}

		for i := 0; i < 4; i++ {
			require.NoError(t, e.Integrate(resp))
		}

		assert.InDelta(t, 0.2, e.Strength("ocean"), 1e-9)
		assert.Equal(t, uint64(4), e.Integrations())
	})

	t.Run("tracks the running coherence mean", func(t *testing.T) {
		e := NewEngine(nil)

		require.NoError(t, e.Integrate(&agent.Response{QuantumCoherence: 0.4}))
		require.NoError(t, e.Integrate(&agent.Response{QuantumCoherence: 0.8}))

		assert.InDelta(t, 0.6, e.MeanCoherence(), 1e-9)
		assert.Equal(t, uint64(2), e.Integrations())
	})

	t.Run("rejects nil response", func(t *testing.T) {
		e := NewEngine(nil)
		assert.ErrorIs(t, e.Integrate(nil), ErrNilResponse)
		assert.Equal(t, uint64(0), e.Integrations())
	})
}
