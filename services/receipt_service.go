package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const receiptQRSize = 256

// ReceiptLine is one course on a receipt
type ReceiptLine struct {
	CourseName string `json:"course_name"`
	Quantity   int    `json:"quantity"`
}

// Receipt is the student facing confirmation of a checkout
type Receipt struct {
	ReferenceOrderID uint          `json:"reference_order_id"`
	GroupTag         string        `json:"group_tag"`
	StudentName      string        `json:"student_name"`
	PhoneNumber      string        `json:"phone_number"`
	UniversityName   string        `json:"university_name"`
	StatusName       string        `json:"status_name"`
	OrderDate        time.Time     `json:"order_date"`
	Lines            []ReceiptLine `json:"lines"`
	TotalQuantity    int           `json:"total_quantity"`
	Subtotal         float64       `json:"subtotal"`
	DeliveryFee      float64       `json:"delivery_fee"`
	Total            float64       `json:"total"`
	QRCode           string        `json:"qr_code"` // data URI of a PNG
}

// ReceiptService renders checkout receipts
type ReceiptService struct {
	orders *OrderAdminService
}

// NewReceiptService creates a receipt service
func NewReceiptService(orders *OrderAdminService) *ReceiptService {
	return &ReceiptService{orders: orders}
}

// Receipt builds the receipt of the checkout containing orderID
func (s *ReceiptService) Receipt(ctx context.Context, orderID uint) (*Receipt, error) {
	group, err := s.orders.GroupOf(ctx, orderID)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		ReferenceOrderID: firstOrderID(group.OrderIDs),
		GroupTag:         group.Key,
		StudentName:      group.StudentName,
		PhoneNumber:      MaskPhone(group.PhoneNumber),
		UniversityName:   group.UniversityName,
		StatusName:       group.StatusName,
		OrderDate:        group.OrderDate,
		TotalQuantity:    group.TotalQuantity,
		Subtotal:         group.Subtotal,
		DeliveryFee:      group.DeliveryFee,
		Total:            group.Total,
	}
	for i, name := range group.Courses {
		receipt.Lines = append(receipt.Lines, ReceiptLine{CourseName: name, Quantity: group.Quantities[i]})
	}

	png, err := qrcode.Encode(ReceiptQRContent(receipt), qrcode.Medium, receiptQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt qr code: %w", err)
	}
	receipt.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return receipt, nil
}

// firstOrderID is the reference id handed out at checkout
func firstOrderID(ids []uint) uint {
	first := ids[0]
	for _, id := range ids[1:] {
		if id < first {
			first = id
		}
	}
	return first
}

// ReceiptQRContent is the text encoded in a receipt QR code
func ReceiptQRContent(r *Receipt) string {
	return fmt.Sprintf("DOSYA|%d|%s|%d|%.2f", r.ReferenceOrderID, r.GroupTag, r.TotalQuantity, r.Total)
}

// MaskPhone hides all but the last three digits
func MaskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 3 {
		return phone
	}
	for i := 0; i < len(runes)-3; i++ {
		runes[i] = '*'
	}
	return string(runes)
}
