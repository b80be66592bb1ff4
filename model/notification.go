package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationStatus is the outcome of one outbound notification attempt
type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusSkipped NotificationStatus = "skipped"
)

// NotificationLog records every attempt to announce a checkout on a channel
type NotificationLog struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time          `gorm:"index" json:"created_at"`
	Channel   string             `gorm:"type:varchar(30);not null" json:"channel"` // telegram, email
	OrderID   uint               `gorm:"index" json:"order_id"`
	GroupTag  string             `gorm:"type:varchar(40);index" json:"group_tag"`
	Status    NotificationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Payload   datatypes.JSON     `gorm:"type:jsonb" json:"payload,omitempty"`
	Error     string             `gorm:"type:text" json:"error,omitempty"`
}

// OrderedCourse is one line of an order summary
type OrderedCourse struct {
	CourseName string  `json:"course_name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// OrderSummary describes a whole checkout for outbound notifications.
// It is not persisted.
type OrderSummary struct {
	ReferenceOrderID uint            `json:"reference_order_id"`
	GroupTag         string          `json:"group_tag"`
	FullName         string          `json:"full_name"`
	PhoneNumber      string          `json:"phone_number"`
	UniversityName   string          `json:"university_name"`
	Courses          []OrderedCourse `json:"courses"`
	TotalQuantity    int             `json:"total_quantity"`
	Subtotal         float64         `json:"subtotal"`
	DeliveryFee      float64         `json:"delivery_fee"`
	Total            float64         `json:"total"`
	Notes            string          `json:"notes,omitempty"`
	PlacedAt         time.Time       `json:"placed_at"`
}
