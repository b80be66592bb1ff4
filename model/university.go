package model

import (
	"time"

	"gorm.io/gorm"
)

// University is a delivery-fee tier and the scope of the courses sold for it
type University struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;uniqueIndex" json:"name"`
	Slug        string         `gorm:"type:varchar(255);index" json:"slug"`
	DeliveryFee float64        `gorm:"type:numeric(10,2);not null;default:0" json:"delivery_fee"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Courses []Course `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}
