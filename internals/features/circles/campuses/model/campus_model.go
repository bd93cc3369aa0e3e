package model

import (
	"time"

	"github.com/google/uuid"
)

type CampusModel struct {
	CampusID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"campus_id"`
	CampusName      string    `gorm:"type:varchar(100);not null;unique" json:"campus_name"`
	CampusCity      string    `gorm:"type:varchar(100)" json:"campus_city"`
	CampusCreatedAt time.Time `gorm:"autoCreateTime" json:"campus_created_at"`
}

func (CampusModel) TableName() string {
	return "campuses"
}
