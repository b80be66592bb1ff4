package model

import "time"

// Student is the contact captured at checkout. A new row is inserted for
// every checkout; rows are never looked up by phone or name.
type Student struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(32);not null" json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`

	Orders []Order `gorm:"foreignKey:StudentID" json:"-"`
}
