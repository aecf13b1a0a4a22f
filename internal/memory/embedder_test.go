package memory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashEmbedder(t *testing.T) {
	t.Run("uses the requested size", func(t *testing.T) {
		assert.Equal(t, 64, NewHashEmbedder(64).Size())
	})

	t.Run("falls back to the default size", func(t *testing.T) {
		assert.Equal(t, 256, NewHashEmbedder(0).Size())
		assert.Equal(t, 256, NewHashEmbedder(-5).Size())
	})
}

func TestHashEmbedder_Embed(t *testing.T) {
	ctx := context.Background()
	embedder := NewHashEmbedder(64)

	t.Run("is deterministic", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "the tide pulls the moon")
		require.NoError(t, err)
		b, err := embedder.Embed(ctx, "the tide pulls the moon")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("ignores case and punctuation", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "Hello, World!")
		require.NoError(t, err)
		b, err := embedder.Embed(ctx, "hello world")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("normalizes to unit length", func(t *testing.T) {
		vec, err := embedder.Embed(ctx, "quiet rivers carve deep canyons")
		require.NoError(t, err)
		require.Len(t, vec, 64)

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	})

	t.Run("distinct texts yield distinct vectors", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "ocean salt foam")
		require.NoError(t, err)
		b, err := embedder.Embed(ctx, "compiler machine instructions")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("empty text yields a zero vector", func(t *testing.T) {
		for _, text := range []string{"", "   ", "?!"} {
			vec, err := embedder.Embed(ctx, text)
			require.NoError(t, err)
			require.Len(t, vec, 64)
			for _, v := range vec {
				assert.Zero(t, v)
			}
		}
	})
}
