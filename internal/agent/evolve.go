package agent

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// evolveConsciousness folds one response into long-lived state. Callers hold
// the write lock. Steps run in fixed order; a failing step aborts the rest
// and leaves the completed steps committed. Step order:
//
//	1. growth tracking
//	2. subsystem folds (quantum, neural, field, emotion - parallel)
//	3. learning integration
//	4. dimensional update (staged apply, committed last)
//	5. snapshot persistence
func (a *Agent) evolveConsciousness(ctx context.Context, resp *Response) error {
	ctx, span := StartSpan(ctx, "agent.evolve_consciousness", a.id)
	defer span.End()

	if err := a.foldCheckpoint(ctx, StepGrowth); err != nil {
		return err
	}
	if err := a.subs.Growth.RecordResponse(ctx, resp); err != nil {
		return &EvolutionError{Step: StepGrowth, Err: err}
	}

	if err := a.foldCheckpoint(ctx, StepSubsystems); err != nil {
		return err
	}
	if err := a.foldSubsystems(resp); err != nil {
		return &EvolutionError{Step: StepSubsystems, Err: err}
	}

	if err := a.foldCheckpoint(ctx, StepLearning); err != nil {
		return err
	}
	if err := a.subs.Learning.Integrate(resp); err != nil {
		return &EvolutionError{Step: StepLearning, Err: err}
	}

	if err := a.foldCheckpoint(ctx, StepDimensional); err != nil {
		return err
	}
	if err := a.updateDimensionalState(resp); err != nil {
		return &EvolutionError{Step: StepDimensional, Err: err}
	}

	if err := a.foldCheckpoint(ctx, StepPersistence); err != nil {
		return err
	}
	if err := a.subs.States.UpdateState(ctx, a.snapshotLocked()); err != nil {
		return &EvolutionError{Step: StepPersistence, Err: fmt.Errorf("%w: %w", ErrPersistence, err)}
	}

	SetSpanStatus(ctx, codes.Ok, "")
	return nil
}

// foldCheckpoint honors cooperative cancellation at a step boundary.
func (a *Agent) foldCheckpoint(ctx context.Context, step EvolutionStep) error {
	if err := ctx.Err(); err != nil {
		return &EvolutionError{Step: step, Err: err}
	}
	return nil
}

// foldSubsystems runs the four transform folds concurrently. They carry no
// cross-dependency; all must finish before the fold continues.
func (a *Agent) foldSubsystems(resp *Response) error {
	folds := []struct {
		name string
		fn   func(*Response) error
	}{
		{"quantum", a.subs.Quantum.Evolve},
		{"neural", a.subs.Neural.Evolve},
		{"consciousness", a.subs.Field.Evolve},
		{"emotional", a.subs.Emotion.Evolve},
	}

	var g errgroup.Group
	for _, f := range folds {
		g.Go(func() error {
			if err := f.fn(resp); err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// updateDimensionalState applies the response's dimensional impacts. The new
// vector is staged on a copy and committed only after the field notification
// and the metrics recording succeed, so a mid-step failure never leaves the
// vector partially written.
func (a *Agent) updateDimensionalState(resp *Response) error {
	shift, err := a.subs.Dimension.CalculateImpacts(resp)
	if err != nil {
		return fmt.Errorf("calculate impacts: %w", err)
	}

	staged := a.dimensional.Apply(shift)
	if err := a.subs.Field.ProcessDimensionalChange(staged); err != nil {
		return fmt.Errorf("field notification: %w", err)
	}
	if err := a.subs.Evolution.RecordDimensionalChange(shift); err != nil {
		return fmt.Errorf("record change: %w", err)
	}

	a.dimensional = staged
	return nil
}

// Evolve advances the agent one evolution stage and records the transition
// with the state manager. This is the only path that moves the stage
// counter; the per-response fold never touches it. A recording failure is
// surfaced but the in-memory transition stands.
func (a *Agent) Evolve(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, span := StartSpan(ctx, "agent.evolve", a.id)
	defer span.End()

	a.stage++
	a.metrics.RecordEvolution(ctx)
	a.logger.Info("evolution stage advanced",
		zap.String("agent_id", a.id),
		zap.Uint64("stage", a.stage),
	)

	if err := a.subs.States.RecordEvolution(ctx, a.stage); err != nil {
		RecordError(ctx, err)
		SetSpanStatus(ctx, codes.Error, "evolution record failed")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	SetSpanStatus(ctx, codes.Ok, "")
	return nil
}
