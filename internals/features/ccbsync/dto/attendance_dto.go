package dto

// AttendeeRef is one person on an occurrence's roster as CCB reported them.
type AttendeeRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // regular | visitor
}

// AttendanceSummary is the authoritative "what CCB says happened" record for
// one occurrence of one event.
type AttendanceSummary struct {
	EventID        string        `json:"event_id"`
	Occurrence     string        `json:"occurrence"` // YYYY-MM-DD
	DidNotMeet     *bool         `json:"did_not_meet"`
	HeadCount      *int          `json:"head_count"`
	Topic          string        `json:"topic,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	PrayerRequests string        `json:"prayer_requests,omitempty"`
	Attendees      []AttendeeRef `json:"attendees,omitempty"`
}

// LinkRow is one concrete, date-resolved event occurrence with its deep link
// into CCB and, once fetched, its attendance.
type LinkRow struct {
	EventID    string             `json:"event_id"`
	Title      string             `json:"title"`
	OccurDate  string             `json:"occur_date"` // YYYY-MM-DD
	DeepLink   string             `json:"deep_link"`
	Attendance *AttendanceSummary `json:"attendance,omitempty"`
}
