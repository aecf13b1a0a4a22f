package emotion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lialabs/liad/internal/agent"
)

func TestProcess(t *testing.T) {
	t.Run("positive sentiment yields positive valence", func(t *testing.T) {
		r := NewResonance(nil)

		resp, err := r.Process(context.Background(),
			agent.Context{Sentiment: 0.8}, agent.ConsciousnessResponse{AwarenessLevel: 0.5})
		require.NoError(t, err)

		assert.Greater(t, resp.Valence, 0.0)
		assert.Greater(t, resp.Intensity, 0.0)
	})

	t.Run("novelty raises arousal", func(t *testing.T) {
		r := NewResonance(nil)

		calm, err := r.Process(context.Background(),
			agent.Context{Novelty: 0}, agent.ConsciousnessResponse{})
		require.NoError(t, err)
		stirred, err := r.Process(context.Background(),
			agent.Context{Novelty: 1}, agent.ConsciousnessResponse{})
		require.NoError(t, err)

		assert.Greater(t, stirred.Arousal, calm.Arousal)
	})

	t.Run("does not move the running state", func(t *testing.T) {
		r := NewResonance(nil)
		before := r.CurrentState()

		_, err := r.Process(context.Background(),
			agent.Context{Sentiment: 1, Novelty: 1}, agent.ConsciousnessResponse{AwarenessLevel: 1})
		require.NoError(t, err)

		assert.Equal(t, before, r.CurrentState())
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		valence float64
		arousal float64
		want    string
	}{
		{"high valence high arousal", 0.6, 0.8, EmotionJoy},
		{"high valence low arousal", 0.6, 0.2, EmotionContentment},
		{"low valence high arousal", -0.6, 0.8, EmotionDistress},
		{"low valence low arousal", -0.6, 0.2, EmotionSorrow},
		{"neutral valence high arousal", 0.0, 0.8, EmotionCuriosity},
		{"neutral valence low arousal", 0.0, 0.3, EmotionEquanimity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.valence, tt.arousal))
		})
	}
}

func TestEvolve(t *testing.T) {
	t.Run("drifts toward the folded layer", func(t *testing.T) {
		r := NewResonance(nil)
		before := r.CurrentState()

		err := r.Evolve(&agent.Response{EmotionalLayer: agent.EmotionalResponse{
			Primary: EmotionJoy, Valence: 1, Arousal: 1, Intensity: 1,
		}})
		require.NoError(t, err)

		after := r.CurrentState()
		assert.Greater(t, after.Valence, before.Valence)
		assert.Greater(t, after.Arousal, before.Arousal)
		assert.Less(t, after.Valence, 1.0)
	})

	t.Run("adopts the label only when more intense", func(t *testing.T) {
		r := NewResonance(nil)

		// Weaker than the neutral starting intensity: label stays.
		require.NoError(t, r.Evolve(&agent.Response{EmotionalLayer: agent.EmotionalResponse{
			Primary: EmotionJoy, Intensity: 0.05,
		}}))
		assert.Equal(t, EmotionEquanimity, r.CurrentState().Primary)

		// Stronger: label flips.
		require.NoError(t, r.Evolve(&agent.Response{EmotionalLayer: agent.EmotionalResponse{
			Primary: EmotionJoy, Intensity: 0.9,
		}}))
		assert.Equal(t, EmotionJoy, r.CurrentState().Primary)
	})

	t.Run("rejects nil response", func(t *testing.T) {
		r := NewResonance(nil)
		assert.ErrorIs(t, r.Evolve(nil), ErrNilResponse)
	})
}
