// Package telegram posts order announcements to the shop's Telegram chat
// through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the public Bot API endpoint
const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured is returned when the bot token or chat id is missing
var ErrNotConfigured = errors.New("telegram bot token or chat id not configured")

// Jordan has been on UTC+3 all year since 2022
var jordanTime = time.FixedZone("Asia/Amman", 3*60*60)

// Config holds the bot credentials
type Config struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// Client sends messages with sendMessage
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a client; httpClient may be nil
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{config: cfg, httpClient: httpClient}
}

// Enabled reports whether both credentials are set
func (c *Client) Enabled() bool {
	return c.config.BotToken != "" && c.config.ChatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// SendMessage posts an HTML formatted message to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    c.config.ChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.config.BaseURL, "/"), c.config.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", c.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the request URL carries the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram request failed: %w", c.redact(err))
	}
	defer resp.Body.Close()

	var result apiResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		err = json.Unmarshal(raw, &result)
	}
	if err != nil && resp.StatusCode == http.StatusOK {
		log.Warnf("telegram: unreadable sendMessage response: %v", err)
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		if result.Description != "" {
			return fmt.Errorf("telegram API error %d: %s", resp.StatusCode, result.Description)
		}
		return fmt.Errorf("telegram API error %d", resp.StatusCode)
	}
	return nil
}

// redact strips the bot token from err's text
func (c *Client) redact(err error) error {
	if c.config.BotToken == "" || !strings.Contains(err.Error(), c.config.BotToken) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), c.config.BotToken, "<redacted>"))
}

// Name identifies the channel in notification logs
func (c *Client) Name() string { return "telegram" }

// SendOrderSummary announces a checkout
func (c *Client) SendOrderSummary(ctx context.Context, summary model.OrderSummary) error {
	return c.SendMessage(ctx, FormatOrderMessage(summary))
}

// FormatOrderMessage renders the Arabic order announcement. User input is escaped for HTML parse mode.
func FormatOrderMessage(s model.OrderSummary) string {
	var courses []string
	for _, line := range s.Courses {
		courses = append(courses, fmt.Sprintf("%s (×%d)", html.EscapeString(line.CourseName), line.Quantity))
	}

	var b strings.Builder
	b.WriteString("🆕 <b>طلب جديد</b>\n\n")
	fmt.Fprintf(&b, "📦 رقم الطلب: <b>#%d</b>\n", s.ReferenceOrderID)
	fmt.Fprintf(&b, "👤 الاسم: %s\n", html.EscapeString(s.FullName))
	fmt.Fprintf(&b, "📱 الهاتف: %s\n", html.EscapeString(s.PhoneNumber))
	fmt.Fprintf(&b, "🏫 الجامعة: %s\n", html.EscapeString(s.UniversityName))
	fmt.Fprintf(&b, "📚 المادة: %s\n", strings.Join(courses, "، "))
	fmt.Fprintf(&b, "🔢 الكمية: %d\n", s.TotalQuantity)
	fmt.Fprintf(&b, "💰 المجموع: %s دينار\n", formatAmount(s.Total))
	if notes := strings.TrimSpace(s.Notes); notes != "" {
		fmt.Fprintf(&b, "📝 ملاحظات: %s\n", html.EscapeString(notes))
	}
	fmt.Fprintf(&b, "🕒 الوقت: %s", s.PlacedAt.In(jordanTime).Format("02/01/2006 15:04"))
	return b.String()
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
