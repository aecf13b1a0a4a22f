package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lialabs/liad/internal/agent"
)

var qdrantTracer = otel.Tracer("liad.memory.qdrant")

// qdrantMaxMessageSize bounds gRPC payloads; experiences are small but
// batched recalls with payloads can add up.
const qdrantMaxMessageSize = 32 * 1024 * 1024

// QdrantStore implements Store against a Qdrant server over native gRPC.
// One collection per memory kind, created on first write.
type QdrantStore struct {
	client   *qdrant.Client
	embedder Embedder
	config   Config
	logger   *zap.Logger

	// collections caches existence checks so the happy path skips a
	// round trip per Integrate.
	collections sync.Map
}

// NewQdrantStore connects to Qdrant and verifies the server is reachable.
func NewQdrantStore(config Config, embedder Embedder, logger *zap.Logger) (*QdrantStore, error) {
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

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.QdrantHost,
		Port:   config.QdrantPort,
		APIKey: config.QdrantAPIKey,
		UseTLS: config.QdrantUseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(qdrantMaxMessageSize),
				grpc.MaxCallSendMsgSize(qdrantMaxMessageSize),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	store := &QdrantStore{
		client:   client,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.HealthCheck(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("qdrant health check: %w", err)
	}

	logger.Info("memory store initialized",
		zap.String("provider", "qdrant"),
		zap.String("host", config.QdrantHost),
		zap.Int("port", config.QdrantPort),
		zap.Int("vector_size", config.VectorSize),
	)
	return store, nil
}

// ensureCollection creates the kind's collection if it does not exist yet.
func (s *QdrantStore) ensureCollection(ctx context.Context, name string) error {
	if _, ok := s.collections.Load(name); ok {
		return nil
	}

	_, err := s.client.GetCollectionInfo(ctx, name)
	if err == nil {
		s.collections.Store(name, true)
		return nil
	}
	if st, ok := status.FromError(err); !ok || st.Code() != grpccodes.NotFound {
		return fmt.Errorf("checking collection %s: %w", name, err)
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.config.VectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", name, err)
	}

	s.collections.Store(name, true)
	s.logger.Debug("collection created", zap.String("collection", name))
	return nil
}

// Integrate stores one experience under the given kind.
func (s *QdrantStore) Integrate(ctx context.Context, kind Kind, exp agent.Experience) error {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Integrate")
	defer span.End()

	if exp.Content == "" {
		return ErrEmptyExperience
	}

	name := s.config.collectionName(kind)
	if err := s.ensureCollection(ctx, name); err != nil {
		span.RecordError(err)
		return err
	}

	content := kindDocument(kind, exp)
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	// Qdrant point IDs must be UUIDs; the experience ID travels in the
	// payload so recall can hand it back unchanged.
	pointID := exp.ID
	if _, err := uuid.Parse(pointID); err != nil {
		pointID = uuid.New().String()
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(pointID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: map[string]*qdrant.Value{
			"id":         {Kind: &qdrant.Value_StringValue{StringValue: exp.ID}},
			"content":    {Kind: &qdrant.Value_StringValue{StringValue: content}},
			"kind":       {Kind: &qdrant.Value_StringValue{StringValue: string(kind)}},
			"source":     {Kind: &qdrant.Value_StringValue{StringValue: exp.Source}},
			"created_at": {Kind: &qdrant.Value_StringValue{StringValue: exp.Timestamp.UTC().Format(time.RFC3339)}},
		},
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("upserting to %s: %w", name, err)
	}

	s.logger.Debug("experience integrated",
		zap.String("kind", string(kind)),
		zap.String("experience_id", exp.ID),
	)
	return nil
}

// Search returns the most similar records of one kind, best first.
func (s *QdrantStore) Search(ctx context.Context, kind Kind, query string, limit int) ([]Record, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Search")
	defer span.End()

	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 5
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	name := s.config.collectionName(kind)
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == grpccodes.NotFound {
			return []Record{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}

	records := make([]Record, len(results))
	for i, point := range results {
		rec := Record{Score: float64(point.Score)}
		for k, v := range point.Payload {
			sv, ok := v.Kind.(*qdrant.Value_StringValue)
			if !ok {
				continue
			}
			switch k {
			case "id":
				rec.ID = sv.StringValue
			case "content":
				rec.Content = sv.StringValue
			case "source":
				rec.Source = sv.StringValue
			case "created_at":
				rec.CreatedAt = parseCreatedAt(sv.StringValue)
			}
		}
		records[i] = rec
	}
	return records, nil
}

// Count reports how many records one kind holds.
func (s *QdrantStore) Count(ctx context.Context, kind Kind) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.config.collectionName(kind))
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == grpccodes.NotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("collection info for %s: %w", kind, err)
	}
	if info.PointsCount == nil {
		return 0, nil
	}
	return int(*info.PointsCount), nil
}

// Close tears down the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ Store = (*QdrantStore)(nil)
