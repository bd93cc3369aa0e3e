package dto

import (
	"time"

	"github.com/google/uuid"

	"circleops_backend/internals/features/circles/leaders/model"
)

type CircleLeaderRequest struct {
	CircleLeaderName             string     `json:"circle_leader_name" validate:"required,min=2,max=100"`
	CircleLeaderEmail            string     `json:"circle_leader_email" validate:"omitempty,email"`
	CircleLeaderCampusID         *uuid.UUID `json:"circle_leader_campus_id"`
	CircleLeaderGroupID          string     `json:"circle_leader_group_id"`
	CircleLeaderMeetingDay       string     `json:"circle_leader_meeting_day" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	CircleLeaderFrequency        string     `json:"circle_leader_frequency" validate:"omitempty,oneof=weekly biweekly"`
	CircleLeaderMeetingStartDate *string    `json:"circle_leader_meeting_start_date"` // YYYY-MM-DD
	CircleLeaderStatus           string     `json:"circle_leader_status" validate:"omitempty,oneof=active inactive"`
}

type CircleLeaderResponse struct {
	CircleLeaderID               uuid.UUID  `json:"circle_leader_id"`
	CircleLeaderName             string     `json:"circle_leader_name"`
	CircleLeaderEmail            string     `json:"circle_leader_email"`
	CircleLeaderCampusID         *uuid.UUID `json:"circle_leader_campus_id"`
	CircleLeaderGroupID          string     `json:"circle_leader_group_id"`
	CircleLeaderEventIDs         []string   `json:"circle_leader_event_ids"`
	CircleLeaderMeetingDay       string     `json:"circle_leader_meeting_day"`
	CircleLeaderFrequency        string     `json:"circle_leader_frequency"`
	CircleLeaderMeetingStartDate *string    `json:"circle_leader_meeting_start_date"`
	CircleLeaderStatus           string     `json:"circle_leader_status"`
	CircleLeaderCreatedAt        string     `json:"circle_leader_created_at"`
}

// Convert request → model
func (r *CircleLeaderRequest) ToModel() (*model.CircleLeaderModel, error) {
	m := &model.CircleLeaderModel{
		CircleLeaderName:       r.CircleLeaderName,
		CircleLeaderEmail:      r.CircleLeaderEmail,
		CircleLeaderCampusID:   r.CircleLeaderCampusID,
		CircleLeaderGroupID:    r.CircleLeaderGroupID,
		CircleLeaderMeetingDay: r.CircleLeaderMeetingDay,
		CircleLeaderFrequency:  r.CircleLeaderFrequency,
		CircleLeaderStatus:     r.CircleLeaderStatus,
	}
	if m.CircleLeaderFrequency == "" {
		m.CircleLeaderFrequency = "weekly"
	}
	if m.CircleLeaderStatus == "" {
		m.CircleLeaderStatus = "active"
	}
	if r.CircleLeaderMeetingStartDate != nil && *r.CircleLeaderMeetingStartDate != "" {
		t, err := time.Parse("2006-01-02", *r.CircleLeaderMeetingStartDate)
		if err != nil {
			return nil, err
		}
		m.CircleLeaderMeetingStartDate = &t
	}
	return m, nil
}

// Convert model → response
func ToCircleLeaderResponse(m *model.CircleLeaderModel) *CircleLeaderResponse {
	resp := &CircleLeaderResponse{
		CircleLeaderID:         m.CircleLeaderID,
		CircleLeaderName:       m.CircleLeaderName,
		CircleLeaderEmail:      m.CircleLeaderEmail,
		CircleLeaderCampusID:   m.CircleLeaderCampusID,
		CircleLeaderGroupID:    m.CircleLeaderGroupID,
		CircleLeaderEventIDs:   m.CircleLeaderEventIDs,
		CircleLeaderMeetingDay: m.CircleLeaderMeetingDay,
		CircleLeaderFrequency:  m.CircleLeaderFrequency,
		CircleLeaderStatus:     m.CircleLeaderStatus,
		CircleLeaderCreatedAt:  m.CircleLeaderCreatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.CircleLeaderMeetingStartDate != nil {
		d := m.CircleLeaderMeetingStartDate.Format("2006-01-02")
		resp.CircleLeaderMeetingStartDate = &d
	}
	return resp
}

// Convert slice → response list
func ToCircleLeaderResponseList(models []model.CircleLeaderModel) []CircleLeaderResponse {
	result := make([]CircleLeaderResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToCircleLeaderResponse(&models[i]))
	}
	return result
}
