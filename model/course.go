package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a summary packet sold for one university
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"type:varchar(255);index" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"type:numeric(10,2);not null" json:"price"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	PDFKey       string         `gorm:"type:varchar(512)" json:"-"` // object key of the digital copy, empty when none

	// Relationships
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
}
