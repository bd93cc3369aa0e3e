package dto

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"circleops_backend/internals/features/circles/scorecards/model"
)

type ScorecardRequest struct {
	ScorecardLeaderID uuid.UUID          `json:"scorecard_leader_id" validate:"required"`
	ScorecardPeriod   string             `json:"scorecard_period" validate:"required,max=20"`
	ScorecardScores   map[string]float64 `json:"scorecard_scores"`
	ScorecardSummary  string             `json:"scorecard_summary"`
}

// Convert request → model
func (r *ScorecardRequest) ToModel() *model.ScorecardModel {
	m := &model.ScorecardModel{
		ScorecardLeaderID: r.ScorecardLeaderID,
		ScorecardPeriod:   r.ScorecardPeriod,
		ScorecardSummary:  r.ScorecardSummary,
	}
	if r.ScorecardScores != nil {
		if raw, err := json.Marshal(r.ScorecardScores); err == nil {
			m.ScorecardScores = datatypes.JSON(raw)
		}
	}
	return m
}
