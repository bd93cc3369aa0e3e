package dto

// DiscoverDetail reports one leader's discovery outcome.
type DiscoverDetail struct {
	LeaderID   string   `json:"leader_id"`
	LeaderName string   `json:"leader_name"`
	EventIDs   []string `json:"event_ids,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// DiscoverResult is the summary returned by the discovery trigger.
type DiscoverResult struct {
	Processed  int              `json:"processed"`
	Discovered int              `json:"discovered"`
	NoEvents   int              `json:"no_events"`
	Errors     int              `json:"errors"`
	Details    []DiscoverDetail `json:"details"`
}

// SyncResult is the summary returned by the sync trigger. Callers inspect the
// counters for partial failure — a run never surfaces per-leader errors as
// anything but counts.
type SyncResult struct {
	Synced           int    `json:"synced"`
	Errors           int    `json:"errors"`
	NoRecordFilled   int    `json:"no_record_filled"`
	LeadersProcessed int    `json:"leaders_processed"`
	LeadersWithData  int    `json:"leaders_with_data"`
	RosterRefreshed  int    `json:"roster_refreshed"`
	RosterErrors     int    `json:"roster_errors"`
	CCBEventsTotal   int    `json:"ccb_events_total"`
	MissingEventIDs  int    `json:"missing_event_ids"`
	DateRange        string `json:"date_range"`
	Warning          string `json:"warning,omitempty"`
}
