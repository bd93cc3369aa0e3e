package model

import (
	"github.com/google/uuid"
)

// CircleAttendeeModel is one person on one occurrence's roster. Rows are fully
// replaced (delete-then-insert) per occurrence on each sync — CCB is the single
// source of truth for a given occurrence's roster, so merging would only
// preserve stale entries.
type CircleAttendeeModel struct {
	CircleAttendeeID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"circle_attendee_id"`
	CircleAttendeeOccurrenceID uuid.UUID `gorm:"type:uuid;not null;index" json:"circle_attendee_occurrence_id"`
	CircleAttendeeIndividualID string    `gorm:"type:varchar(50);not null" json:"circle_attendee_individual_id"`
	CircleAttendeeName         string    `gorm:"type:varchar(100)" json:"circle_attendee_name"`
	CircleAttendeeType         string    `gorm:"type:varchar(10);not null;default:regular" json:"circle_attendee_type"` // regular | visitor
}

func (CircleAttendeeModel) TableName() string {
	return "circle_attendees"
}
