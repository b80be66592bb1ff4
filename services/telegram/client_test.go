package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dosya-jo/dosya-api/model"
)

func sampleSummary() model.OrderSummary {
	return model.OrderSummary{
		ReferenceOrderID: 41,
		GroupTag:         "#G1700000000000123",
		FullName:         "ليان <b>",
		PhoneNumber:      "0791234567",
		UniversityName:   "جامعة جدارا",
		Courses: []model.OrderedCourse{
			{CourseName: "برمجة 1", Quantity: 2},
			{CourseName: "C++", Quantity: 1},
		},
		TotalQuantity: 3,
		Total:         16.5,
		PlacedAt:      time.Date(2025, 3, 4, 9, 5, 0, 0, time.UTC),
	}
}

func TestSendOrderSummary(t *testing.T) {
	var got sendMessageRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "123:abc", ChatID: "-100", BaseURL: server.URL}, server.Client())
	if err := client.SendOrderSummary(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("SendOrderSummary() error = %v", err)
	}

	if path != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if got.ChatID != "-100" || got.ParseMode != "HTML" {
		t.Errorf("unexpected request %+v", got)
	}
	if !strings.Contains(got.Text, "#41") {
		t.Errorf("text missing reference id: %q", got.Text)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "t", ChatID: "c", BaseURL: server.URL}, server.Client())
	err := client.SendMessage(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("SendMessage() error = %v", err)
	}
}

func TestSendMessageErrorHidesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(Config{BotToken: "123:SECRET", ChatID: "c", BaseURL: baseURL}, nil)
	err := client.SendMessage(context.Background(), "hi")
	if err == nil {
		t.Fatal("SendMessage() to a closed server succeeded")
	}
	if strings.Contains(err.Error(), "SECRET") {
		t.Errorf("error text contains the bot token: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "telegram request failed") {
		t.Errorf("SendMessage() error = %v", err)
	}
}

func TestSendMessageCanceledKeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{BotToken: "123:SECRET", ChatID: "c", BaseURL: "http://127.0.0.1:1"}, nil)
	err := client.SendMessage(ctx, "hi")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("SendMessage() error = %v, want context.Canceled", err)
	}
	if strings.Contains(err.Error(), "SECRET") {
		t.Errorf("error text contains the bot token: %v", err)
	}
}

func TestSendMessageUnreadableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "t", ChatID: "c", BaseURL: server.URL}, server.Client())
	err := client.SendMessage(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "failed to decode telegram response") {
		t.Fatalf("SendMessage() error = %v", err)
	}
}

func TestSendMessageNotConfigured(t *testing.T) {
	client := NewClient(Config{BotToken: "t"}, nil)
	if client.Enabled() {
		t.Fatal("client without chat id must be disabled")
	}
	if err := client.SendMessage(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("SendMessage() error = %v, want ErrNotConfigured", err)
	}
}

func TestFormatOrderMessage(t *testing.T) {
	msg := FormatOrderMessage(sampleSummary())

	for _, want := range []string{
		"رقم الطلب: <b>#41</b>",
		"ليان &lt;b&gt;",
		"0791234567",
		"جامعة جدارا",
		"برمجة 1 (×2)، C++ (×1)",
		"الكمية: 3",
		"16.5 دينار",
		"04/03/2025 12:05",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "ملاحظات") {
		t.Error("empty notes must be omitted")
	}
}
