package agent

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrEmptyContent    = errors.New("interaction content is required")
	ErrEmptyExperience = errors.New("experience content is required")
	ErrEmptyName       = errors.New("agent name is required")
	ErrAxisOutOfRange  = errors.New("dimensional axis must be in [0,1]")
	ErrNilSubsystem    = errors.New("subsystem must not be nil")
)

// Category sentinels. Matched with errors.Is; the typed errors below carry
// the stage or step that failed.
var (
	ErrStageFailed       = errors.New("pipeline stage failed")
	ErrEvolutionFailed   = errors.New("evolution step failed")
	ErrPersistence       = errors.New("state persistence failed")
	ErrMemoryIntegration = errors.New("memory integration failed")
)

// StageError reports which pipeline stage rejected or failed an interaction.
// A stage failure aborts the call before the fold; no partial response is
// produced and no state is mutated.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is makes every stage error match the ErrStageFailed category.
func (e *StageError) Is(target error) bool { return target == ErrStageFailed }

// EvolutionError reports which fold step failed. Steps completed before the
// failing one stay committed; later steps are skipped.
type EvolutionError struct {
	Step EvolutionStep
	Err  error
}

func (e *EvolutionError) Error() string {
	return fmt.Sprintf("evolution step %s: %v", e.Step, e.Err)
}

func (e *EvolutionError) Unwrap() error { return e.Err }

// Is makes every evolution error match the ErrEvolutionFailed category.
func (e *EvolutionError) Is(target error) bool { return target == ErrEvolutionFailed }

// FailedStage extracts the stage from an error chain, or "" if no stage
// error is present.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// FailedStep extracts the fold step from an error chain, or "" if no
// evolution error is present.
func FailedStep(err error) EvolutionStep {
	var ee *EvolutionError
	if errors.As(err, &ee) {
		return ee.Step
	}
	return ""
}
