package agent

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ProcessInteraction runs one interaction through the seven-stage pipeline
// and folds the assembled response back into the agent's state. The call
// holds the write lock for its full duration; a stage failure aborts before
// any state is touched, a fold failure leaves the completed steps committed.
func (a *Agent) ProcessInteraction(ctx context.Context, in Interaction) (*Response, error) {
	if in.Content == "" {
		return nil, &StageError{Stage: StageContext, Err: ErrEmptyContent}
	}
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = timeNow()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, span := StartSpan(ctx, "agent.process_interaction", a.id)
	defer span.End()

	start := timeNow()
	resp, err := a.runPipeline(ctx, in)
	if err != nil {
		a.metrics.RecordInteractionFailed(ctx, FailedStage(err))
		RecordError(ctx, err)
		SetSpanStatus(ctx, codes.Error, "pipeline failed")
		a.logger.Warn("interaction rejected",
			zap.String("agent_id", a.id),
			zap.String("interaction_id", in.ID),
			zap.String("stage", string(FailedStage(err))),
			zap.Error(err),
		)
		return nil, err
	}

	if err := a.evolveConsciousness(ctx, resp); err != nil {
		a.metrics.RecordFoldFailed(ctx, FailedStep(err))
		RecordError(ctx, err)
		SetSpanStatus(ctx, codes.Error, "evolution fold failed")
		a.logger.Error("evolution fold failed",
			zap.String("agent_id", a.id),
			zap.String("response_id", resp.ID),
			zap.String("step", string(FailedStep(err))),
			zap.Error(err),
		)
		return nil, err
	}

	a.subs.Relationships.Observe(in.Source)
	a.interactions++
	elapsed := timeNow().Sub(start)
	a.metrics.RecordInteraction(ctx, resp, elapsed)
	SetSpanStatus(ctx, codes.Ok, "")
	a.logger.Info("interaction processed",
		zap.String("agent_id", a.id),
		zap.String("interaction_id", in.ID),
		zap.String("response_id", resp.ID),
		zap.Float64("coherence", resp.QuantumCoherence),
		zap.Duration("duration", elapsed),
	)
	return resp, nil
}

// ProcessExperience converts an experience and runs it through the
// interaction pipeline.
func (a *Agent) ProcessExperience(ctx context.Context, exp Experience) (*Response, error) {
	if exp.Content == "" {
		return nil, ErrEmptyExperience
	}
	return a.ProcessInteraction(ctx, exp.AsInteraction())
}

// runPipeline executes stages 1-7 in their fixed order. Cancellation is
// checked at each stage boundary, never mid-stage.
func (a *Agent) runPipeline(ctx context.Context, in Interaction) (*Response, error) {
	if err := a.checkpoint(ctx, StageContext); err != nil {
		return nil, err
	}
	frame, err := a.runContext(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageQuantum); err != nil {
		return nil, err
	}
	quantum, err := a.runQuantum(ctx, frame)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageNeural); err != nil {
		return nil, err
	}
	neural, err := a.runNeural(ctx, quantum, frame)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageThoughts); err != nil {
		return nil, err
	}
	thoughts, err := a.runThoughts(ctx, neural, quantum)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageConsciousness); err != nil {
		return nil, err
	}
	conscious, err := a.runConsciousness(ctx, frame, thoughts)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageEmotional); err != nil {
		return nil, err
	}
	emotional, err := a.runEmotional(ctx, frame, conscious)
	if err != nil {
		return nil, err
	}

	if err := a.checkpoint(ctx, StageSynthesis); err != nil {
		return nil, err
	}
	return a.assemble(ctx, Artifacts{
		Interaction: in,
		Frame:       frame,
		Quantum:     quantum,
		Neural:      neural,
		Thoughts:    thoughts,
		Conscious:   conscious,
		Emotional:   emotional,
	})
}

// checkpoint honors cooperative cancellation at a stage boundary.
func (a *Agent) checkpoint(ctx context.Context, stage Stage) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

func (a *Agent) runContext(ctx context.Context, in Interaction) (Context, error) {
	start := timeNow()
	frame, err := a.subs.Perception.Analyze(ctx, in)
	a.metrics.RecordStageDuration(ctx, StageContext, timeNow().Sub(start))
	if err != nil {
		return Context{}, &StageError{Stage: StageContext, Err: err}
	}
	return frame, nil
}

func (a *Agent) runQuantum(ctx context.Context, frame Context) (QuantumState, error) {
	start := timeNow()
	state, err := a.subs.Quantum.Process(ctx, frame)
	a.metrics.RecordStageDuration(ctx, StageQuantum, timeNow().Sub(start))
	if err != nil {
		return QuantumState{}, &StageError{Stage: StageQuantum, Err: err}
	}
	return state, nil
}

func (a *Agent) runNeural(ctx context.Context, state QuantumState, frame Context) (NeuralResponse, error) {
	start := timeNow()
	neural, err := a.subs.Neural.Process(ctx, state, frame)
	a.metrics.RecordStageDuration(ctx, StageNeural, timeNow().Sub(start))
	if err != nil {
		return NeuralResponse{}, &StageError{Stage: StageNeural, Err: err}
	}
	return neural, nil
}

func (a *Agent) runThoughts(ctx context.Context, neural NeuralResponse, state QuantumState) ([]ThoughtPattern, error) {
	start := timeNow()
	thoughts, err := a.subs.Thoughts.Generate(ctx, neural, state)
	a.metrics.RecordStageDuration(ctx, StageThoughts, timeNow().Sub(start))
	if err != nil {
		return nil, &StageError{Stage: StageThoughts, Err: err}
	}
	return thoughts, nil
}

func (a *Agent) runConsciousness(ctx context.Context, frame Context, thoughts []ThoughtPattern) (ConsciousnessResponse, error) {
	start := timeNow()
	conscious, err := a.subs.Field.Process(ctx, frame, thoughts)
	a.metrics.RecordStageDuration(ctx, StageConsciousness, timeNow().Sub(start))
	if err != nil {
		return ConsciousnessResponse{}, &StageError{Stage: StageConsciousness, Err: err}
	}
	return conscious, nil
}

func (a *Agent) runEmotional(ctx context.Context, frame Context, conscious ConsciousnessResponse) (EmotionalResponse, error) {
	start := timeNow()
	emotional, err := a.subs.Emotion.Process(ctx, frame, conscious)
	a.metrics.RecordStageDuration(ctx, StageEmotional, timeNow().Sub(start))
	if err != nil {
		return EmotionalResponse{}, &StageError{Stage: StageEmotional, Err: err}
	}
	return emotional, nil
}

// assemble builds the response. Aggregation is pure: coherence, patterns,
// awareness, and the emotional layer are copied verbatim from the stage
// outputs; only the content is delegated.
func (a *Agent) assemble(ctx context.Context, arts Artifacts) (*Response, error) {
	start := timeNow()
	content, err := a.subs.Synthesis.Synthesize(ctx, arts)
	a.metrics.RecordStageDuration(ctx, StageSynthesis, timeNow().Sub(start))
	if err != nil {
		return nil, &StageError{Stage: StageSynthesis, Err: err}
	}

	patterns := make([]Pattern, len(arts.Neural.Patterns))
	copy(patterns, arts.Neural.Patterns)

	return &Response{
		ID:                 uuid.New().String(),
		InteractionID:      arts.Interaction.ID,
		Content:            content,
		QuantumCoherence:   arts.Quantum.Coherence,
		NeuralPatterns:     patterns,
		ConsciousnessLevel: arts.Conscious.AwarenessLevel,
		EmotionalLayer:     arts.Emotional,
		CreatedAt:          timeNow(),
	}, nil
}
