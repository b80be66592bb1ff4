package cron

import (
	"context"
	"fmt"
	"time"
)

// NotificationLogRetention is how long notification history is kept
const NotificationLogRetention = 90 * 24 * time.Hour

// PurgeExpiredTokens removes blacklist entries of sessions that expired anyway
func (m *CronManager) PurgeExpiredTokens() {
	m.runJob("purge_expired_tokens", time.Minute, func(ctx context.Context) (string, error) {
		n, err := m.store.PurgeExpiredTokens(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to purge expired tokens: %w", err)
		}
		return fmt.Sprintf("Removed %d expired tokens", n), nil
	})
}

// WarmCatalogCache reloads active universities and courses into Redis
func (m *CronManager) WarmCatalogCache() {
	m.runJob("warm_catalog_cache", 2*time.Minute, func(ctx context.Context) (string, error) {
		if m.catalog == nil {
			return "Catalog cache not configured", nil
		}
		n, err := m.catalog.WarmCache(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to warm catalog cache: %w", err)
		}
		return fmt.Sprintf("Cached %d universities", n), nil
	})
}

// ReportOrphanedStudents counts students without orders. They are left
// behind when a checkout fails after the student insert.
func (m *CronManager) ReportOrphanedStudents() {
	m.runJob("report_orphaned_students", 5*time.Minute, func(ctx context.Context) (string, error) {
		n, err := m.store.CountOrphanedStudents(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to count orphaned students: %w", err)
		}
		return fmt.Sprintf("Found %d students without orders", n), nil
	})
}

// PurgeNotificationLogs removes notification history past retention
func (m *CronManager) PurgeNotificationLogs() {
	m.runJob("purge_notification_logs", 5*time.Minute, func(ctx context.Context) (string, error) {
		cutoff := m.now().Add(-NotificationLogRetention)
		n, err := m.store.PurgeNotificationLogs(ctx, cutoff)
		if err != nil {
			return "", fmt.Errorf("failed to purge notification logs: %w", err)
		}
		return fmt.Sprintf("Removed %d notification logs older than %s", n, cutoff.Format("2006-01-02")), nil
	})
}
