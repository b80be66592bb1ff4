package model

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is an operator of the admin panel
type AdminUser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"type:varchar(20);default:'admin'" json:"role"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all sessions
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
}
