package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lialabs/liad/internal/agent"
	"github.com/lialabs/liad/internal/config"
	"github.com/lialabs/liad/internal/consciousness"
	"github.com/lialabs/liad/internal/dimension"
	"github.com/lialabs/liad/internal/emotion"
	"github.com/lialabs/liad/internal/events"
	"github.com/lialabs/liad/internal/growth"
	"github.com/lialabs/liad/internal/httpapi"
	"github.com/lialabs/liad/internal/learning"
	"github.com/lialabs/liad/internal/logging"
	"github.com/lialabs/liad/internal/memory"
	"github.com/lialabs/liad/internal/neural"
	"github.com/lialabs/liad/internal/perception"
	"github.com/lialabs/liad/internal/quantum"
	"github.com/lialabs/liad/internal/relationship"
	"github.com/lialabs/liad/internal/statestore"
	"github.com/lialabs/liad/internal/synthesis"
	"github.com/lialabs/liad/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the liad daemon",
	Long: `Start the consciousness agent with its HTTP API.

The daemon loads configuration, restores the latest persisted snapshot if
one exists, and serves until SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logging.Sync(logger)

	logger.Info("starting liad",
		zap.String("version", version),
		zap.String("agent", cfg.Agent.Name),
		zap.Int("port", cfg.Server.Port),
	)

	tel, err := telemetry.New(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Observability.Shutdown.Timeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	if tel.IsEnabled() {
		logger.Info("telemetry enabled",
			zap.String("endpoint", cfg.Observability.Endpoint),
			zap.Bool("degraded", tel.Degraded()),
		)
	}

	deps, err := initDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}
	defer deps.Close()

	mind, err := buildAgent(ctx, cfg, deps, logger)
	if err != nil {
		return fmt.Errorf("building agent: %w", err)
	}

	srv, err := httpapi.NewServer(cfg.Server, mind, logger,
		httpapi.WithMemorySearcher(deps.memories),
		httpapi.WithGrowth(deps.growthTracker),
		httpapi.WithDrift(deps.evolutionMetrics),
		httpapi.WithPublisher(deps.publisher),
	)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("api_prefix", "/v1"),
		zap.String("metrics_endpoint", "/metrics"),
	)

	// Blocks until signal; ErrServerClosed marks a clean shutdown.
	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// dependencies holds the infrastructure the agent is wired to.
type dependencies struct {
	memories  memory.Store
	states    *statestore.Store
	publisher events.Publisher

	growthTracker    *growth.Tracker
	evolutionMetrics *growth.EvolutionMetrics

	logger *zap.Logger
}

// Close releases infrastructure resources in reverse initialization order.
func (d *dependencies) Close() {
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.states != nil {
		if err := d.states.Close(); err != nil {
			d.logger.Warn("closing state store", zap.Error(err))
		}
	}
	if d.memories != nil {
		if err := d.memories.Close(); err != nil {
			d.logger.Warn("closing memory store", zap.Error(err))
		}
	}
}

// initDependencies connects the memory backend, the snapshot store, and the
// event publisher.
func initDependencies(ctx context.Context, cfg config.Config, logger *zap.Logger) (*dependencies, error) {
	embedder := memory.NewHashEmbedder(cfg.Memory.VectorSize)

	memories, err := memory.NewStore(cfg.Memory, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("creating memory store: %w", err)
	}
	logger.Info("memory store initialized",
		zap.String("provider", cfg.Memory.Provider),
		zap.Int("vector_size", cfg.Memory.VectorSize),
	)

	deps := &dependencies{
		memories:         memories,
		publisher:        events.Noop{},
		growthTracker:    growth.NewTracker(),
		evolutionMetrics: growth.NewEvolutionMetrics(0),
		logger:           logger,
	}

	if cfg.State.Enabled {
		states, err := statestore.NewStore(cfg.State, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("creating state store: %w", err)
		}
		deps.states = states
		logger.Info("state store initialized", zap.String("path", cfg.State.Path))
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewNATSPublisher(cfg.Events, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("creating event publisher: %w", err)
		}
		deps.publisher = publisher
	}

	return deps, nil
}

// buildAgent assembles the subsystem registry and constructs the agent,
// restoring the latest snapshot when state persistence is enabled.
func buildAgent(ctx context.Context, cfg config.Config, deps *dependencies, logger *zap.Logger) (*agent.Agent, error) {
	relationships := relationship.NewTracker(nil)

	var states agent.StateManager = statestore.Noop{}
	if deps.states != nil {
		states = deps.states
	}

	subs := agent.Subsystems{
		Perception: perception.NewAnalyzer(nil, relationships),
		Quantum:    quantum.NewCore(nil),
		Neural:     neural.NewMatrix(nil),
		Thoughts:   quantum.NewThoughtEngine(nil),
		Field:      consciousness.NewField(nil),
		Emotion:    emotion.NewResonance(nil),
		Synthesis:  synthesis.NewSynthesizer(nil),

		Episodic:   memory.NewKindStore(deps.memories, memory.KindEpisodic),
		Semantic:   memory.NewKindStore(deps.memories, memory.KindSemantic),
		Procedural: memory.NewKindStore(deps.memories, memory.KindProcedural),

		Growth:        deps.growthTracker,
		Learning:      learning.NewEngine(nil),
		Dimension:     dimension.NewProcessor(nil),
		Evolution:     deps.evolutionMetrics,
		Relationships: relationships,
		States:        states,
	}

	opts := []agent.Option{agent.WithLogger(logger)}

	if deps.states != nil {
		restoreCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		snap, err := deps.states.Latest(restoreCtx)
		switch {
		case err == nil:
			opts = append(opts, agent.WithSnapshot(snap))
			logger.Info("snapshot restored",
				zap.String("agent_id", snap.ID),
				zap.Uint64("evolution_stage", snap.EvolutionStage),
				zap.Uint64("interactions", snap.Interactions),
			)
		case errors.Is(err, statestore.ErrNotFound):
			logger.Info("no snapshot found, starting fresh")
		default:
			return nil, fmt.Errorf("restoring snapshot: %w", err)
		}
	}

	return agent.New(&cfg.Agent, subs, opts...)
}
