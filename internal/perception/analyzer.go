package perception

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"

	"github.com/lialabs/liad/internal/agent"
)

// Validation errors.
var (
	ErrEmptyInteraction = errors.New("interaction content is required")
)

// FamiliaritySource reports how familiar an interaction source is, in [0,1].
// Reads must be pure.
type FamiliaritySource interface {
	Familiarity(source string) float64
}

// Config holds analyzer tuning.
type Config struct {
	MaxTopics     int `json:"max_topics" koanf:"max_topics"`
	MinWordLength int `json:"min_word_length" koanf:"min_word_length"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTopics:     5,
		MinWordLength: 3,
	}
}

// Analyzer implements context analysis over raw interaction text.
type Analyzer struct {
	config      *Config
	familiarity FamiliaritySource
}

// NewAnalyzer creates an analyzer. familiarity may be nil, in which case
// every source reads as unfamiliar.
func NewAnalyzer(config *Config, familiarity FamiliaritySource) *Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Analyzer{
		config:      config,
		familiarity: familiarity,
	}
}

// Analyze derives the situational frame for one interaction. The analysis is
// deterministic and touches no analyzer state.
func (a *Analyzer) Analyze(ctx context.Context, in agent.Interaction) (agent.Context, error) {
	if strings.TrimSpace(in.Content) == "" {
		return agent.Context{}, ErrEmptyInteraction
	}

	tokens := tokenize(in.Content)

	frame := agent.Context{
		Topics:    a.topics(tokens),
		Tokens:    len(tokens),
		Sentiment: sentiment(tokens),
		Novelty:   lexicalNovelty(tokens),
		Intent:    classifyIntent(in.Content, tokens),
	}
	if a.familiarity != nil {
		frame.Familiarity = a.familiarity.Familiarity(in.Source)
	}
	return frame, nil
}

// topics returns the most frequent content words, most frequent first.
// Ties break alphabetically so the order is stable.
func (a *Analyzer) topics(tokens []string) []string {
	freq := make(map[string]int)
	for _, t := range tokens {
		if len(t) < a.config.MinWordLength || stopwords[t] {
			continue
		}
		freq[t]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > a.config.MaxTopics {
		words = words[:a.config.MaxTopics]
	}
	return words
}

// tokenize lowercases and splits on non-letter/digit boundaries.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// sentiment scores tokens against small polarity lexicons, yielding [-1,1].
func sentiment(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var score float64
	for _, t := range tokens {
		switch {
		case positiveWords[t]:
			score++
		case negativeWords[t]:
			score--
		}
	}
	// Dampen by length so one word cannot saturate long inputs.
	norm := score / float64(len(tokens)) * 4
	if norm > 1 {
		return 1
	}
	if norm < -1 {
		return -1
	}
	return norm
}

// lexicalNovelty is the type-token ratio: unique tokens over total tokens.
func lexicalNovelty(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return float64(len(seen)) / float64(len(tokens))
}

// classifyIntent applies rule-based intent detection.
func classifyIntent(raw string, tokens []string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasSuffix(trimmed, "?") {
		return "question"
	}
	if len(tokens) > 0 {
		if interrogatives[tokens[0]] {
			return "question"
		}
		if imperatives[tokens[0]] {
			return "request"
		}
	}
	if strings.HasSuffix(trimmed, "!") {
		return "exclamation"
	}
	return "statement"
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"they": true, "from": true, "what": true, "your": true, "about": true,
	"would": true, "there": true, "their": true, "will": true, "when": true,
	"them": true, "then": true, "than": true, "were": true, "been": true,
	"being": true, "into": true, "just": true, "like": true, "some": true,
	"could": true, "should": true, "very": true, "also": true, "more": true,
}

var positiveWords = map[string]bool{
	"good": true, "great": true, "wonderful": true, "love": true, "happy": true,
	"joy": true, "excellent": true, "beautiful": true, "thank": true, "thanks": true,
	"amazing": true, "delight": true, "glad": true, "hope": true, "kind": true,
	"peaceful": true, "calm": true, "curious": true, "excited": true, "fascinating": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "hate": true, "sad": true, "angry": true,
	"awful": true, "fear": true, "afraid": true, "worried": true, "pain": true,
	"hurt": true, "lonely": true, "lost": true, "wrong": true, "broken": true,
	"tired": true, "anxious": true, "confused": true, "frustrated": true,
}

var interrogatives = map[string]bool{
	"who": true, "what": true, "when": true, "where": true, "why": true,
	"how": true, "which": true, "whose": true, "can": true, "could": true,
	"would": true, "will": true, "do": true, "does": true, "did": true,
	"is": true, "are": true, "am": true,
}

var imperatives = map[string]bool{
	"tell": true, "show": true, "explain": true, "describe": true, "help": true,
	"give": true, "make": true, "find": true, "remember": true, "imagine": true,
	"consider": true, "think": true, "please": true,
}

var _ agent.ContextAnalyzer = (*Analyzer)(nil)
