package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScorecardModel is one periodic evaluation of a leader: a period label, a
// map of question-key → numeric score, and a free-text summary.
type ScorecardModel struct {
	ScorecardID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"scorecard_id"`
	ScorecardLeaderID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"scorecard_leader_id"`
	ScorecardPeriod    string         `gorm:"type:varchar(20);not null" json:"scorecard_period"` // e.g. 2026-Q1
	ScorecardScores    datatypes.JSON `json:"scorecard_scores"`
	ScorecardSummary   string         `gorm:"type:text" json:"scorecard_summary"`
	ScorecardCreatedAt time.Time      `gorm:"autoCreateTime" json:"scorecard_created_at"`
	ScorecardUpdatedAt time.Time      `gorm:"autoUpdateTime" json:"scorecard_updated_at"`
}

func (ScorecardModel) TableName() string {
	return "scorecards"
}
