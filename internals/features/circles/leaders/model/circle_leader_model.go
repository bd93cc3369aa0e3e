package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CircleLeaderModel is a circle (small-group) leader. Owned by the CRUD layer;
// the sync engine reads it and only ever writes back CircleLeaderEventIDs,
// the cached discovery result. A NULL event-id list means discovery has never
// run; an empty list means discovery ran and found nothing.
//
// GroupID is the external CCB group id. MeetingDay is a weekday name,
// Frequency is "weekly" or "biweekly" (MeetingStartDate anchors the biweekly
// parity), and Status is "active" or "inactive".
type CircleLeaderModel struct {
	CircleLeaderID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"circle_leader_id"`
	CircleLeaderName             string         `gorm:"type:varchar(100);not null" json:"circle_leader_name"`
	CircleLeaderEmail            string         `gorm:"type:varchar(255)" json:"circle_leader_email"`
	CircleLeaderCampusID         *uuid.UUID     `gorm:"type:uuid;index" json:"circle_leader_campus_id"`
	CircleLeaderGroupID          string         `gorm:"type:varchar(50);index" json:"circle_leader_group_id"`
	CircleLeaderEventIDs         pq.StringArray `gorm:"type:text[]" json:"circle_leader_event_ids"`
	CircleLeaderMeetingDay       string         `gorm:"type:varchar(10)" json:"circle_leader_meeting_day"`
	CircleLeaderFrequency        string         `gorm:"type:varchar(10);not null;default:weekly" json:"circle_leader_frequency"`
	CircleLeaderMeetingStartDate *time.Time     `gorm:"type:date" json:"circle_leader_meeting_start_date"`
	CircleLeaderStatus           string         `gorm:"type:varchar(10);not null;default:active" json:"circle_leader_status"`
	CircleLeaderCreatedAt        time.Time      `gorm:"autoCreateTime" json:"circle_leader_created_at"`
	CircleLeaderUpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"circle_leader_updated_at"`
}

func (CircleLeaderModel) TableName() string {
	return "circle_leaders"
}
