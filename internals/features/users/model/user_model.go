package model

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	UserName         string    `gorm:"type:varchar(100);not null" json:"user_name"`
	UserEmail        string    `gorm:"type:varchar(255);not null;unique" json:"user_email"`
	UserPasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	UserRole         string    `gorm:"type:varchar(20);not null;default:staff" json:"user_role"` // admin | staff
	UserStatus       string    `gorm:"type:varchar(10);not null;default:active" json:"user_status"`
	UserCreatedAt    time.Time `gorm:"autoCreateTime" json:"user_created_at"`
}

func (UserModel) TableName() string {
	return "users"
}
