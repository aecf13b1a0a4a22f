package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lialabs/liad/internal/agent"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		var cfg Config
		cfg.ApplyDefaults()

		assert.Equal(t, ProviderChromem, cfg.Provider)
		assert.Equal(t, "./data/memory", cfg.Path)
		assert.Equal(t, "liad", cfg.CollectionPrefix)
		assert.Equal(t, 256, cfg.VectorSize)
		assert.Equal(t, "localhost", cfg.QdrantHost)
		assert.Equal(t, 6334, cfg.QdrantPort)
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		cfg := Config{
			Provider:         ProviderQdrant,
			Path:             "/tmp/mem",
			CollectionPrefix: "test",
			VectorSize:       128,
			QdrantHost:       "qdrant.internal",
			QdrantPort:       7777,
		}
		cfg.ApplyDefaults()

		assert.Equal(t, ProviderQdrant, cfg.Provider)
		assert.Equal(t, "/tmp/mem", cfg.Path)
		assert.Equal(t, "test", cfg.CollectionPrefix)
		assert.Equal(t, 128, cfg.VectorSize)
		assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
		assert.Equal(t, 7777, cfg.QdrantPort)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid chromem",
			config: Config{Provider: ProviderChromem, VectorSize: 256},
		},
		{
			name:   "valid qdrant",
			config: Config{Provider: ProviderQdrant, VectorSize: 128},
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "pinecone", VectorSize: 256},
			wantErr: ErrUnknownProvider,
		},
		{
			name:    "non-positive vector size",
			config:  Config{Provider: ProviderChromem, VectorSize: -1},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKindDocument(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	exp := agent.Experience{
		Content:   "watered the garden",
		Source:    "chat",
		Tags:      []string{"routine", "plants"},
		Timestamp: ts,
	}

	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{
			name: "episodic keeps the event frame",
			kind: KindEpisodic,
			want: "2025-06-01T10:00:00Z | chat | watered the garden",
		},
		{
			name: "semantic keeps the raw content",
			kind: KindSemantic,
			want: "watered the garden",
		},
		{
			name: "procedural folds the tags in",
			kind: KindProcedural,
			want: "watered the garden | routine plants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindDocument(tt.kind, exp))
		})
	}

	t.Run("procedural without tags", func(t *testing.T) {
		bare := agent.Experience{Content: "watered the garden", Timestamp: ts}
		assert.Equal(t, "watered the garden", kindDocument(KindProcedural, bare))
	})
}

func TestKindStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	scoped := NewKindStore(store, KindSemantic)
	assert.Equal(t, KindSemantic, scoped.Kind())

	exp := agent.Experience{
		ID:        "exp-1",
		Content:   "rivers carve canyons over centuries",
		Source:    "chat",
		Timestamp: time.Now(),
	}
	require.NoError(t, scoped.Integrate(ctx, exp))

	// The write lands under the scoped kind only.
	n, err := store.Count(ctx, KindSemantic)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.Count(ctx, KindEpisodic)
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := scoped.Search(ctx, "rivers carve canyons over centuries", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "exp-1", records[0].ID)
}

func TestNewStore(t *testing.T) {
	embedder := NewHashEmbedder(64)

	t.Run("chromem provider", func(t *testing.T) {
		store, err := NewStore(Config{Provider: ProviderChromem, Path: t.TempDir(), VectorSize: 64}, embedder, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &ChromemStore{}, store)
	})

	t.Run("empty provider defaults to chromem", func(t *testing.T) {
		store, err := NewStore(Config{Path: t.TempDir(), VectorSize: 64}, embedder, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &ChromemStore{}, store)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewStore(Config{Provider: "pinecone"}, embedder, zap.NewNop())
		require.ErrorIs(t, err, ErrUnknownProvider)
		assert.Contains(t, err.Error(), "supported")
	})
}
