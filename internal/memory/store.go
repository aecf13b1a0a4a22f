// Package memory implements the agent's long-term memory: vector-backed
// episodic, semantic, and procedural stores over a shared backend. Two
// backends are provided, an embedded chromem-go database and an external
// Qdrant deployment, selected by configuration.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrInvalidConfig   = errors.New("invalid memory configuration")
	ErrEmptyExperience = errors.New("experience content is required")
	ErrEmptyQuery      = errors.New("query is required")
	ErrUnknownProvider = errors.New("unknown memory provider")
	ErrEmbeddingFailed = errors.New("embedding failed")
)

// Kind selects one of the three memory systems.
type Kind string

// Memory kinds.
const (
	KindEpisodic   Kind = "episodic"
	KindSemantic   Kind = "semantic"
	KindProcedural Kind = "procedural"
)

// Kinds lists every memory kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindEpisodic, KindSemantic, KindProcedural}
}

// Supported providers.
const (
	ProviderChromem = "chromem"
	ProviderQdrant  = "qdrant"
)

// Record is one stored memory as returned by search.
type Record struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the vector-backed long-term memory shared by the three kinds.
type Store interface {
	// Integrate stores one experience under the given kind.
	Integrate(ctx context.Context, kind Kind, exp agent.Experience) error
	// Search returns the most similar records of one kind, best first.
	Search(ctx context.Context, kind Kind, query string, limit int) ([]Record, error)
	// Count reports how many records one kind holds.
	Count(ctx context.Context, kind Kind) (int, error)
	// Close releases backend resources.
	Close() error
}

// Config holds memory configuration.
type Config struct {
	// Provider selects the backend: "chromem" or "qdrant".
	Provider string `json:"provider" koanf:"provider"`
	// Path is the on-disk location for the embedded backend.
	Path string `json:"path" koanf:"path"`
	// CollectionPrefix namespaces the per-kind collections.
	CollectionPrefix string `json:"collection_prefix" koanf:"collection_prefix"`
	// VectorSize is the embedding dimension.
	VectorSize int `json:"vector_size" koanf:"vector_size"`
	// Compress enables gzip persistence for the embedded backend.
	Compress bool `json:"compress" koanf:"compress"`

	// Qdrant settings, used when Provider is "qdrant".
	QdrantHost   string `json:"qdrant_host" koanf:"qdrant_host"`
	QdrantPort   int    `json:"qdrant_port" koanf:"qdrant_port"`
	QdrantAPIKey string `json:"qdrant_api_key" koanf:"qdrant_api_key"`
	QdrantUseTLS bool   `json:"qdrant_use_tls" koanf:"qdrant_use_tls"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderChromem
	}
	if c.Path == "" {
		c.Path = "./data/memory"
	}
	if c.CollectionPrefix == "" {
		c.CollectionPrefix = "liad"
	}
	if c.VectorSize == 0 {
		c.VectorSize = 256
	}
	if c.QdrantHost == "" {
		c.QdrantHost = "localhost"
	}
	if c.QdrantPort == 0 {
		c.QdrantPort = 6334
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	switch c.Provider {
	case ProviderChromem, ProviderQdrant:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}

// collectionName builds the per-kind collection name.
func (c *Config) collectionName(kind Kind) string {
	return fmt.Sprintf("%s-%s", c.CollectionPrefix, kind)
}

// kindDocument shapes the stored text per memory kind: episodic memories
// keep the event frame (when, who), semantic memories keep the raw content,
// procedural memories fold the tags in.
func kindDocument(kind Kind, exp agent.Experience) string {
	switch kind {
	case KindEpisodic:
		return fmt.Sprintf("%s | %s | %s",
			exp.Timestamp.UTC().Format(time.RFC3339), exp.Source, exp.Content)
	case KindProcedural:
		if len(exp.Tags) == 0 {
			return exp.Content
		}
		return exp.Content + " | " + strings.Join(exp.Tags, " ")
	default:
		return exp.Content
	}
}

// KindStore scopes a Store to one memory kind, satisfying the agent's
// per-system memory contract.
type KindStore struct {
	store Store
	kind  Kind
}

// NewKindStore creates the scoped view.
func NewKindStore(store Store, kind Kind) *KindStore {
	return &KindStore{store: store, kind: kind}
}

// Integrate stores the experience under the scoped kind.
func (k *KindStore) Integrate(ctx context.Context, exp agent.Experience) error {
	return k.store.Integrate(ctx, k.kind, exp)
}

// Search searches the scoped kind.
func (k *KindStore) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	return k.store.Search(ctx, k.kind, query, limit)
}

// Kind returns the scoped kind.
func (k *KindStore) Kind() Kind { return k.kind }

var _ agent.MemoryStore = (*KindStore)(nil)
