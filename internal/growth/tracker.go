// Package growth keeps the agent's growth measurements: per-response
// aggregates and the dimensional-change history recorded during evolution
// folds.
package growth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNilResponse = errors.New("response is required")
)

// Snapshot is a point-in-time view of the growth aggregates.
type Snapshot struct {
	Responses      uint64    `json:"responses"`
	MeanCoherence  float64   `json:"mean_coherence"`
	PeakCoherence  float64   `json:"peak_coherence"`
	MeanAwareness  float64   `json:"mean_awareness"`
	MeanIntensity  float64   `json:"mean_intensity"`
	LastResponseAt time.Time `json:"last_response_at"`
}

// Tracker records per-response growth measurements.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordResponse folds one response into the running aggregates.
func (t *Tracker) RecordResponse(ctx context.Context, resp *agent.Response) error {
	if resp == nil {
		return ErrNilResponse
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Responses++
	n := float64(t.snap.Responses)
	t.snap.MeanCoherence += (resp.QuantumCoherence - t.snap.MeanCoherence) / n
	t.snap.MeanAwareness += (resp.ConsciousnessLevel - t.snap.MeanAwareness) / n
	t.snap.MeanIntensity += (resp.EmotionalLayer.Intensity - t.snap.MeanIntensity) / n
	if resp.QuantumCoherence > t.snap.PeakCoherence {
		t.snap.PeakCoherence = resp.QuantumCoherence
	}
	t.snap.LastResponseAt = resp.CreatedAt
	return nil
}

// Snapshot returns a copy of the current aggregates.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

var _ agent.GrowthTracker = (*Tracker)(nil)
