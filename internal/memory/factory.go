package memory

import (
	"fmt"

	"go.uber.org/zap"
)

// NewStore creates a Store for the configured provider.
//
// Providers:
//   - "chromem" (default): embedded persistent store, no external service
//   - "qdrant": external Qdrant server over gRPC
func NewStore(config Config, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch config.Provider {
	case ProviderChromem, "":
		return NewChromemStore(config, embedder, logger)
	case ProviderQdrant:
		return NewQdrantStore(config, embedder, logger)
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s, %s)",
			ErrUnknownProvider, config.Provider, ProviderChromem, ProviderQdrant)
	}
}
