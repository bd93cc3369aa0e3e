package model

import (
	"time"

	"github.com/google/uuid"
)

// FollowUpNoteModel is one pastoral follow-up note attached to a leader.
type FollowUpNoteModel struct {
	FollowUpNoteID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"follow_up_note_id"`
	FollowUpNoteLeaderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"follow_up_note_leader_id"`
	FollowUpNoteAuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"follow_up_note_author_id"`
	FollowUpNoteBody      string    `gorm:"type:text;not null" json:"follow_up_note_body"`
	FollowUpNoteCreatedAt time.Time `gorm:"autoCreateTime" json:"follow_up_note_created_at"`
}

func (FollowUpNoteModel) TableName() string {
	return "follow_up_notes"
}
