package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CircleOccurrenceModel is one reconciled meeting date for one leader.
// At most one row may exist per (leader_id, meeting_date) — enforced by the
// unique index plus upsert-on-conflict, which also keeps concurrent scheduler
// invocations safe without in-process locking.
type CircleOccurrenceModel struct {
	CircleOccurrenceID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"circle_occurrence_id"`
	CircleOccurrenceLeaderID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_circle_occurrence_leader_date" json:"circle_occurrence_leader_id"`
	CircleOccurrenceMeetingDate  time.Time      `gorm:"type:date;not null;uniqueIndex:uq_circle_occurrence_leader_date" json:"circle_occurrence_meeting_date"`
	CircleOccurrenceEventID      *string        `gorm:"type:varchar(50)" json:"circle_occurrence_event_id"`
	CircleOccurrenceStatus       string         `gorm:"type:varchar(20);not null" json:"circle_occurrence_status"` // met | did_not_meet | no_record
	CircleOccurrenceHeadcount    *int           `json:"circle_occurrence_headcount"`
	CircleOccurrenceRegularCount *int           `json:"circle_occurrence_regular_count"`
	CircleOccurrenceVisitorCount *int           `json:"circle_occurrence_visitor_count"`
	CircleOccurrenceSource       string         `gorm:"type:varchar(20);not null;default:ccb" json:"circle_occurrence_source"` // ccb | manual | event_summary
	CircleOccurrenceRawPayload   datatypes.JSON `json:"circle_occurrence_raw_payload"`
	CircleOccurrenceSyncedAt     time.Time      `gorm:"not null" json:"circle_occurrence_synced_at"`
}

func (CircleOccurrenceModel) TableName() string {
	return "circle_occurrences"
}
