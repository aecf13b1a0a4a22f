package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessMemory integrates one experience into the episodic, semantic, and
// procedural stores. The three integrations are independent and run
// concurrently. The interaction pipeline, the counters, and the dimensional
// vector are never touched by this path.
func (a *Agent) ProcessMemory(ctx context.Context, exp Experience) error {
	if exp.Content == "" {
		return ErrEmptyExperience
	}
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.Timestamp.IsZero() {
		exp.Timestamp = timeNow()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, span := StartSpan(ctx, "agent.process_memory", a.id)
	defer span.End()

	stores := []struct {
		name  string
		store MemoryStore
	}{
		{"episodic", a.subs.Episodic},
		{"semantic", a.subs.Semantic},
		{"procedural", a.subs.Procedural},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range stores {
		g.Go(func() error {
			if err := s.store.Integrate(gctx, exp); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.metrics.RecordMemoryFailed(ctx)
		RecordError(ctx, err)
		SetSpanStatus(ctx, codes.Error, "memory integration failed")
		a.logger.Warn("experience rejected",
			zap.String("agent_id", a.id),
			zap.String("experience_id", exp.ID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrMemoryIntegration, err)
	}

	a.metrics.RecordMemoryIntegrated(ctx)
	SetSpanStatus(ctx, codes.Ok, "")
	a.logger.Debug("experience integrated",
		zap.String("agent_id", a.id),
		zap.String("experience_id", exp.ID),
	)
	return nil
}
