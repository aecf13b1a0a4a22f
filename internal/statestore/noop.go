package statestore

import (
	"context"

	"github.com/lialabs/liad/internal/agent"
)

// Noop discards snapshots and milestones. Used when persistence is
// disabled and as a default in tests.
type Noop struct{}

func (Noop) UpdateState(context.Context, agent.ConsciousnessState) error { return nil }

func (Noop) RecordEvolution(context.Context, uint64) error { return nil }

var _ agent.StateManager = Noop{}
