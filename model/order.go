package model

import "time"

const (
	// DefaultDeliveryMethodID is assigned to every order created by the storefront
	DefaultDeliveryMethodID uint = 1
	// StatusPendingID is the initial status of a new order
	StatusPendingID uint = 1
)

// DeliveryMethod is a lookup row (e.g. campus delivery)
type DeliveryMethod struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// OrderStatus is a configured admin status. The set is data driven.
type OrderStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

// Order is one course line of a checkout. Lines of the same checkout share
// StudentID, Notes and GroupTag.
type Order struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Quantity         int       `gorm:"not null;default:1" json:"quantity"`
	StudentID        uint      `gorm:"not null;index" json:"student_id"`
	UniversityID     uint      `gorm:"not null;index" json:"university_id"`
	CourseID         uint      `gorm:"not null;index" json:"course_id"`
	DeliveryMethodID uint      `gorm:"not null;default:1" json:"delivery_method_id"`
	StatusID         uint      `gorm:"not null;default:1;index" json:"status_id"`
	OrderDate        time.Time `gorm:"not null;autoCreateTime" json:"order_date"`
	Notes            string    `gorm:"type:text" json:"notes"`
	GroupTag         string    `gorm:"type:varchar(40);index" json:"group_tag,omitempty"`

	// Relationships
	Student        Student        `gorm:"foreignKey:StudentID" json:"-"`
	University     University     `gorm:"foreignKey:UniversityID" json:"-"`
	Course         Course         `gorm:"foreignKey:CourseID" json:"-"`
	DeliveryMethod DeliveryMethod `gorm:"foreignKey:DeliveryMethodID" json:"-"`
	Status         OrderStatus    `gorm:"foreignKey:StatusID" json:"-"`
}

// OrderRow is an order line joined with the display names the admin panel needs.
// UniversityDeliveryFee is the configured fee before per-university overrides.
type OrderRow struct {
	OrderID               uint      `json:"order_id"`
	Quantity              int       `json:"quantity"`
	StudentID             uint      `json:"student_id"`
	StudentName           string    `json:"student_name"`
	PhoneNumber           string    `json:"phone_number"`
	UniversityID          uint      `json:"university_id"`
	UniversityName        string    `json:"university_name"`
	UniversityDeliveryFee float64   `json:"university_delivery_fee"`
	CourseID              uint      `json:"course_id"`
	CourseName            string    `json:"course_name"`
	CoursePrice           float64   `json:"course_price"`
	DeliveryMethodID      uint      `json:"delivery_method_id"`
	StatusID              uint      `json:"status_id"`
	StatusName            string    `json:"status_name"`
	OrderDate             time.Time `json:"order_date"`
	Notes                 string    `json:"notes"`
	GroupTag              string    `json:"group_tag"`
}
