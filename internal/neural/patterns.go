package neural

import "github.com/lialabs/liad/internal/agent"

// recognize extracts pattern descriptors from a situational frame: one per
// topic, one for the intent, and one for the dominant affect polarity.
// Order follows the frame's topic order.
func recognize(frame agent.Context) []string {
	descriptors := make([]string, 0, len(frame.Topics)+2)
	descriptors = append(descriptors, frame.Topics...)

	if frame.Intent != "" {
		descriptors = append(descriptors, "intent:"+frame.Intent)
	}
	switch {
	case frame.Sentiment > 0.2:
		descriptors = append(descriptors, "affect:positive")
	case frame.Sentiment < -0.2:
		descriptors = append(descriptors, "affect:negative")
	}
	return descriptors
}
