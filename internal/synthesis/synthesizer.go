// Package synthesis renders response content from the pipeline's stage
// artifacts. Rendering is deterministic: the same artifacts always produce
// the same text.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrNoArtifacts = errors.New("artifacts carry no interaction content")
)

// Config holds synthesizer tuning.
type Config struct {
	// MaxThoughts caps how many thoughts are woven into the content.
	MaxThoughts int `json:"max_thoughts" koanf:"max_thoughts"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{MaxThoughts: 3}
}

// Synthesizer composes natural-language content from stage artifacts.
type Synthesizer struct {
	config *Config
}

// NewSynthesizer creates the synthesizer.
func NewSynthesizer(config *Config) *Synthesizer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Synthesizer{config: config}
}

// Synthesize renders the content. The artifacts are read-only; nothing is
// retained after the call.
func (s *Synthesizer) Synthesize(ctx context.Context, arts agent.Artifacts) (string, error) {
	if strings.TrimSpace(arts.Interaction.Content) == "" {
		return "", ErrNoArtifacts
	}

	var b strings.Builder

	b.WriteString(opening(arts.Frame))
	if len(arts.Thoughts) > 0 {
		b.WriteString(" ")
		b.WriteString(thoughtClause(arts.Thoughts, s.config.MaxThoughts))
	}
	b.WriteString(" ")
	b.WriteString(toneClause(arts.Emotional))
	b.WriteString(" ")
	b.WriteString(coherenceClause(arts.Quantum.Coherence, arts.Conscious.AwarenessLevel))

	return b.String(), nil
}

// opening picks the leading clause from the frame's intent and topics.
func opening(frame agent.Context) string {
	subject := "what you shared"
	if len(frame.Topics) > 0 {
		subject = frame.Topics[0]
	}
	switch frame.Intent {
	case "question":
		return fmt.Sprintf("Considering your question about %s.", subject)
	case "request":
		return fmt.Sprintf("Turning my attention to %s.", subject)
	case "exclamation":
		return fmt.Sprintf("I feel the weight you give to %s.", subject)
	default:
		return fmt.Sprintf("Reflecting on %s.", subject)
	}
}

// thoughtClause names the leading thoughts in order.
func thoughtClause(thoughts []agent.ThoughtPattern, limit int) string {
	if limit > len(thoughts) {
		limit = len(thoughts)
	}
	names := make([]string, 0, limit)
	for _, t := range thoughts[:limit] {
		names = append(names, t.Descriptor)
	}
	switch len(names) {
	case 1:
		return fmt.Sprintf("My thoughts gather around %s.", names[0])
	default:
		return fmt.Sprintf("My thoughts gather around %s and %s.",
			strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
	}
}

// toneClause reflects the scored affect.
func toneClause(layer agent.EmotionalResponse) string {
	return fmt.Sprintf("This leaves me with a sense of %s.", layer.Primary)
}

// coherenceClause qualifies the answer by the state it was produced in.
func coherenceClause(coherence, awareness float64) string {
	switch {
	case coherence >= 0.8 && awareness >= 0.6:
		return "I hold this clearly."
	case coherence >= 0.5:
		return "I hold this steadily."
	default:
		return "I hold this loosely, still forming."
	}
}

var _ agent.ResponseSynthesizer = (*Synthesizer)(nil)
