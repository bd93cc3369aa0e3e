package model

import (
	"time"

	"github.com/google/uuid"
)

// CircleRosterEntryModel caches one group member per leader. Refresh is
// additive/upsert-only: a member absent from the latest CCB fetch keeps their
// row, because CCB sometimes omits members transiently and losing them would
// be worse than carrying a stale one.
type CircleRosterEntryModel struct {
	CircleRosterEntryID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"circle_roster_entry_id"`
	CircleRosterEntryLeaderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_circle_roster_leader_individual" json:"circle_roster_entry_leader_id"`
	CircleRosterEntryIndividualID string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_circle_roster_leader_individual" json:"circle_roster_entry_individual_id"`
	CircleRosterEntryName         string    `gorm:"type:varchar(100)" json:"circle_roster_entry_name"`
	CircleRosterEntryEmail        string    `gorm:"type:varchar(255)" json:"circle_roster_entry_email"`
	CircleRosterEntryPhone        string    `gorm:"type:varchar(50)" json:"circle_roster_entry_phone"`
	CircleRosterEntryFetchedAt    time.Time `gorm:"not null" json:"circle_roster_entry_fetched_at"`
}

func (CircleRosterEntryModel) TableName() string {
	return "circle_roster_entries"
}
