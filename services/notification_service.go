package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
)

// NotificationChannel is one outbound destination for order announcements
type NotificationChannel interface {
	Name() string
	Enabled() bool
	SendOrderSummary(ctx context.Context, summary model.OrderSummary) error
}

// Notifier announces a completed checkout
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, summary model.OrderSummary) error
}

// NotificationService fans an order summary out to every channel and records
// each attempt. Channels are tried once, without retry.
type NotificationService struct {
	logs     database.NotificationLogStore
	channels []NotificationChannel
}

// NewNotificationService creates a new notification service; logs may be nil
func NewNotificationService(logs database.NotificationLogStore, channels ...NotificationChannel) *NotificationService {
	return &NotificationService{logs: logs, channels: channels}
}

// NotifyOrderPlaced sends the summary on every enabled channel. Disabled
// channels are skipped with a warning. The returned error joins every
// channel failure.
func (s *NotificationService) NotifyOrderPlaced(ctx context.Context, summary model.OrderSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal order summary: %w", err)
	}

	var errs []error
	for _, ch := range s.channels {
		entry := &model.NotificationLog{
			Channel:  ch.Name(),
			OrderID:  summary.ReferenceOrderID,
			GroupTag: summary.GroupTag,
			Payload:  datatypes.JSON(payload),
		}

		if !ch.Enabled() {
			log.Warnf("notification: %s not configured, skipping order #%d", ch.Name(), summary.ReferenceOrderID)
			entry.Status = model.NotificationStatusSkipped
		} else if sendErr := ch.SendOrderSummary(ctx, summary); sendErr != nil {
			log.Errorf("notification: %s failed for order #%d: %v", ch.Name(), summary.ReferenceOrderID, sendErr)
			entry.Status = model.NotificationStatusFailed
			entry.Error = sendErr.Error()
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), sendErr))
		} else {
			log.Infof("notification: %s sent for order #%d", ch.Name(), summary.ReferenceOrderID)
			entry.Status = model.NotificationStatusSent
		}

		s.record(ctx, entry)
	}

	return errors.Join(errs...)
}

func (s *NotificationService) record(ctx context.Context, entry *model.NotificationLog) {
	if s.logs == nil {
		return
	}
	if err := s.logs.CreateNotificationLog(ctx, entry); err != nil {
		log.Warnf("notification: failed to record %s attempt: %v", entry.Channel, err)
	}
}
