package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/lialabs/liad/internal/agent"
)

var chromemTracer = otel.Tracer("liad.memory.chromem")

// ChromemStore implements Store on an embedded chromem-go database. One
// collection per memory kind; persistence is plain files under the
// configured path, no external service required.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   Config
	logger   *zap.Logger
}

// NewChromemStore opens (or creates) the embedded database.
func NewChromemStore(config Config, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	path, err := expandPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	logger.Info("memory store initialized",
		zap.String("provider", "chromem"),
		zap.String("path", path),
		zap.Int("vector_size", config.VectorSize),
	)
	return store, nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// embeddingFunc bridges the Embedder interface to chromem.
func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

// Integrate stores one experience under the given kind.
func (s *ChromemStore) Integrate(ctx context.Context, kind Kind, exp agent.Experience) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Integrate")
	defer span.End()

	if exp.Content == "" {
		return ErrEmptyExperience
	}

	collection, err := s.db.GetOrCreateCollection(s.config.collectionName(kind), nil, s.embeddingFunc())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("collection %s: %w", kind, err)
	}

	content := kindDocument(kind, exp)
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	doc := chromem.Document{
		ID:        exp.ID,
		Content:   content,
		Embedding: embedding,
		Metadata: map[string]string{
			"kind":       string(kind),
			"source":     exp.Source,
			"created_at": exp.Timestamp.UTC().Format(time.RFC3339),
		},
	}
	if err := collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		span.RecordError(err)
		return fmt.Errorf("adding document: %w", err)
	}

	s.logger.Debug("experience integrated",
		zap.String("kind", string(kind)),
		zap.String("experience_id", exp.ID),
	)
	return nil
}

// Search returns the most similar records of one kind, best first.
func (s *ChromemStore) Search(ctx context.Context, kind Kind, query string, limit int) ([]Record, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Search")
	defer span.End()

	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 5
	}

	collection := s.db.GetCollection(s.config.collectionName(kind), s.embeddingFunc())
	if collection == nil {
		return []Record{}, nil
	}

	// chromem requires the result count to not exceed the document count.
	count := collection.Count()
	if count == 0 {
		return []Record{}, nil
	}
	if limit > count {
		limit = count
	}

	results, err := collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}

	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = Record{
			ID:        r.ID,
			Content:   r.Content,
			Source:    r.Metadata["source"],
			Score:     float64(r.Similarity),
			CreatedAt: parseCreatedAt(r.Metadata["created_at"]),
		}
	}
	return records, nil
}

// Count reports how many records one kind holds.
func (s *ChromemStore) Count(ctx context.Context, kind Kind) (int, error) {
	collection := s.db.GetCollection(s.config.collectionName(kind), s.embeddingFunc())
	if collection == nil {
		return 0, nil
	}
	return collection.Count(), nil
}

// Close is a no-op for the embedded backend; writes land as they happen.
func (s *ChromemStore) Close() error { return nil }

func parseCreatedAt(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ Store = (*ChromemStore)(nil)
