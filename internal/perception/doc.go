// Package perception derives the situational frame for inbound interactions:
// topics, token counts, sentiment, novelty, intent, and source familiarity.
// Analysis is pure; the analyzer never mutates state during a pipeline pass.
package perception
