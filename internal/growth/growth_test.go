package growth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lialabs/liad/internal/agent"
)

func TestRecordResponse(t *testing.T) {
	t.Run("keeps running means and the peak", func(t *testing.T) {
		tr := NewTracker()
		now := time.Now()

		require.NoError(t, tr.RecordResponse(context.Background(), &agent.Response{
			QuantumCoherence:   0.4,
			ConsciousnessLevel: 0.6,
			EmotionalLayer:     agent.EmotionalResponse{Intensity: 0.2},
			CreatedAt:          now,
		}))
		require.NoError(t, tr.RecordResponse(context.Background(), &agent.Response{
			QuantumCoherence:   0.8,
			ConsciousnessLevel: 0.2,
			EmotionalLayer:     agent.EmotionalResponse{Intensity: 0.6},
			CreatedAt:          now.Add(time.Second),
		}))

		snap := tr.Snapshot()
		assert.Equal(t, uint64(2), snap.Responses)
		assert.InDelta(t, 0.6, snap.MeanCoherence, 1e-9)
		assert.InDelta(t, 0.4, snap.MeanAwareness, 1e-9)
		assert.InDelta(t, 0.4, snap.MeanIntensity, 1e-9)
		assert.Equal(t, 0.8, snap.PeakCoherence)
		assert.Equal(t, now.Add(time.Second), snap.LastResponseAt)
	})

	t.Run("peak never falls", func(t *testing.T) {
		tr := NewTracker()

		require.NoError(t, tr.RecordResponse(context.Background(), &agent.Response{QuantumCoherence: 0.9}))
		require.NoError(t, tr.RecordResponse(context.Background(), &agent.Response{QuantumCoherence: 0.3}))

		assert.Equal(t, 0.9, tr.Snapshot().PeakCoherence)
	})

	t.Run("rejects nil response", func(t *testing.T) {
		tr := NewTracker()
		assert.ErrorIs(t, tr.RecordResponse(context.Background(), nil), ErrNilResponse)
		assert.Equal(t, uint64(0), tr.Snapshot().Responses)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.RecordResponse(context.Background(), &agent.Response{QuantumCoherence: 0.5}))

		snap := tr.Snapshot()
		snap.Responses = 99
		assert.Equal(t, uint64(1), tr.Snapshot().Responses)
	})
}

func TestEvolutionMetrics(t *testing.T) {
	t.Run("accumulates drift", func(t *testing.T) {
		m := NewEvolutionMetrics(0)

		require.NoError(t, m.RecordDimensionalChange(agent.DimensionalShift{Awareness: 0.1, Stability: -0.05}))
		require.NoError(t, m.RecordDimensionalChange(agent.DimensionalShift{Awareness: 0.2, Curiosity: 0.1}))

		drift := m.Drift()
		assert.Equal(t, uint64(2), drift.Changes)
		assert.InDelta(t, 0.3, drift.Cumulative.Awareness, 1e-9)
		assert.InDelta(t, -0.05, drift.Cumulative.Stability, 1e-9)
		assert.InDelta(t, 0.1, drift.Cumulative.Curiosity, 1e-9)
		assert.Equal(t, agent.DimensionalShift{Awareness: 0.2, Curiosity: 0.1}, drift.Last)
	})

	t.Run("bounds the history", func(t *testing.T) {
		m := NewEvolutionMetrics(3)

		for i := 0; i < 5; i++ {
			require.NoError(t, m.RecordDimensionalChange(agent.DimensionalShift{
				Awareness: float64(i),
			}))
		}

		history := m.History()
		require.Len(t, history, 3)
		// Oldest entries fall off the front.
		assert.Equal(t, 2.0, history[0].Awareness)
		assert.Equal(t, 4.0, history[2].Awareness)
	})

	t.Run("history is a copy", func(t *testing.T) {
		m := NewEvolutionMetrics(0)
		require.NoError(t, m.RecordDimensionalChange(agent.DimensionalShift{Awareness: 0.1}))

		history := m.History()
		history[0].Awareness = 99

		assert.Equal(t, 0.1, m.History()[0].Awareness)
	})
}
