package services

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services/cart"
)

// legacyTagPattern finds the group tag embedded in notes by older checkouts
var legacyTagPattern = regexp.MustCompile(`#G(\d+)`)

// OrderGroup is one checkout rebuilt from its order rows
type OrderGroup struct {
	Key            string    `json:"key"`
	DisplayID      uint      `json:"display_id"`
	OrderIDs       []uint    `json:"order_ids"`
	StudentID      uint      `json:"student_id"`
	StudentName    string    `json:"student_name"`
	PhoneNumber    string    `json:"phone_number"`
	UniversityID   uint      `json:"university_id"`
	UniversityName string    `json:"university_name"`
	StatusID       uint      `json:"status_id"`
	StatusName     string    `json:"status_name"`
	OrderDate      time.Time `json:"order_date"`
	Notes          string    `json:"notes"`
	Courses        []string  `json:"courses"`
	Quantities     []int     `json:"quantities"`
	TotalQuantity  int       `json:"total_quantity"`
	Subtotal       float64   `json:"subtotal"`
	DeliveryFee    float64   `json:"delivery_fee"`
	Total          float64   `json:"total"`
	WhatsAppLink   string    `json:"whatsapp_link"`
}

// GroupKey returns the checkout key of a row: the group_tag column, else a
// #G tag found in notes, else student, university and order minute.
func GroupKey(row model.OrderRow) string {
	if row.GroupTag != "" {
		return row.GroupTag
	}
	if m := legacyTagPattern.FindString(row.Notes); m != "" {
		return m
	}
	return fmt.Sprintf("s%d-u%d-%s", row.StudentID, row.UniversityID,
		row.OrderDate.UTC().Truncate(time.Minute).Format("200601021504"))
}

// GroupOrders folds order rows into checkouts. Each group keeps the first
// row's student, university and status, lists courses in row order, and is
// identified by its largest order id. Groups are sorted newest first.
func GroupOrders(rows []model.OrderRow) []OrderGroup {
	index := make(map[string]int)
	groups := make([]OrderGroup, 0)

	for _, row := range rows {
		key := GroupKey(row)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, OrderGroup{
				Key:            key,
				StudentID:      row.StudentID,
				StudentName:    row.StudentName,
				PhoneNumber:    row.PhoneNumber,
				UniversityID:   row.UniversityID,
				UniversityName: row.UniversityName,
				StatusID:       row.StatusID,
				StatusName:     row.StatusName,
				OrderDate:      row.OrderDate,
				Notes:          row.Notes,
				DeliveryFee:    cart.DeliveryFee(row.UniversityID, row.UniversityDeliveryFee),
			})
		}

		g := &groups[i]
		g.OrderIDs = append(g.OrderIDs, row.OrderID)
		g.Courses = append(g.Courses, row.CourseName)
		g.Quantities = append(g.Quantities, row.Quantity)
		g.TotalQuantity += row.Quantity
		g.Subtotal += row.CoursePrice * float64(row.Quantity)
		if row.OrderID > g.DisplayID {
			g.DisplayID = row.OrderID
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].DisplayID > groups[b].DisplayID
	})

	for i := range groups {
		groups[i].Total = groups[i].Subtotal + groups[i].DeliveryFee
		groups[i].WhatsAppLink = WhatsAppLink(groups[i])
	}
	return groups
}

// WhatsAppLink opens a chat with the student prefilled with the order details
func WhatsAppLink(g OrderGroup) string {
	courses := make([]string, len(g.Courses))
	for i, name := range g.Courses {
		courses[i] = fmt.Sprintf("%s (%d)", name, g.Quantities[i])
	}

	message := fmt.Sprintf("السلام عليكم %s\nبخصوص طلب الدوسية رقم (%d)\n\n- المادة: %s\n- الجامعة: %s\n- الكمية: %d\n\nنحن جاهزون لأي استفسار",
		g.StudentName, g.DisplayID, strings.Join(courses, "، "), g.UniversityName, g.TotalQuantity)

	return fmt.Sprintf("https://wa.me/%s?text=%s", internationalPhone(g.PhoneNumber), encodeURIComponent(message))
}

// internationalPhone turns 07XXXXXXXX into 9627XXXXXXXX
func internationalPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "962") {
		return phone
	}
	return "962" + strings.TrimPrefix(phone, "0")
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
