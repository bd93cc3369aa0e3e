package normalize

import "time"

// NormalizedEvent is the uniform representation every CCB response shape is
// reduced to. It is transient — rebuilt on every discovery call, never stored.
type NormalizedEvent struct {
	EventID string
	Title   string
	// GroupID is "" when the shape carried no group reference; such events
	// pass group filters unfiltered and are matched downstream.
	GroupID     string
	Occurrences []EventOccurrence
	// LowConfidence marks occurrences synthesized from a textual recurrence
	// description rather than real occurrence data.
	LowConfidence bool
}

// EventOccurrence is one (possibly recurring) instance. Start always parses to
// a valid instant — unparsable occurrences are dropped during extraction.
type EventOccurrence struct {
	Start time.Time
	End   *time.Time
}
