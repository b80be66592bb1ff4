package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/model"
	"gopkg.in/gomail.v2"
)

func TestRenderOrderEmailEscapesInput(t *testing.T) {
	body, err := renderOrderEmail(model.OrderSummary{
		ReferenceOrderID: 7,
		FullName:         "<script>x</script>",
		UniversityName:   "جامعة جرش",
		Courses:          []model.OrderedCourse{{CourseName: "برمجة 1", Quantity: 2, UnitPrice: 5}},
		TotalQuantity:    2,
		Subtotal:         10,
		DeliveryFee:      2,
		Total:            12,
		PlacedAt:         time.Date(2025, 1, 2, 21, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("renderOrderEmail() error = %v", err)
	}

	if strings.Contains(body, "<script>") {
		t.Error("name was not escaped")
	}
	for _, want := range []string{"#7", "برمجة 1", "12.00", "03/01/2025 00:30"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestEmailServiceSendOrderSummary(t *testing.T) {
	svc := NewEmailService(&config.EnvironmentVariable{
		SMTP_HOST:   "smtp.example.com",
		SMTP_PORT:   587,
		SMTP_FROM:   "orders@dosya.jo",
		ADMIN_EMAIL: "admin@dosya.jo",
	})
	if !svc.Enabled() {
		t.Fatal("expected enabled service")
	}

	var sent []*gomail.Message
	svc.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	}

	if err := svc.SendOrderSummary(context.Background(), model.OrderSummary{ReferenceOrderID: 3}); err != nil {
		t.Fatalf("SendOrderSummary() error = %v", err)
	}
	if len(sent) != 1 || sent[0].GetHeader("To")[0] != "admin@dosya.jo" {
		t.Fatalf("unexpected messages %v", sent)
	}

	svc.send = func(m ...*gomail.Message) error { return errors.New("smtp down") }
	if err := svc.SendOrderSummary(context.Background(), model.OrderSummary{}); err == nil {
		t.Error("expected send error")
	}
}

func TestEmailServiceDisabledWithoutRecipient(t *testing.T) {
	svc := NewEmailService(&config.EnvironmentVariable{SMTP_HOST: "smtp.example.com", SMTP_FROM: "a@b.c"})
	if svc.Enabled() {
		t.Error("service without ADMIN_EMAIL must be disabled")
	}
}
