package cron

import (
	"context"
	"log"
	"time"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/robfig/cron/v3"
)

// Job statuses recorded in cron_job_logs
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store is what the maintenance jobs read and write
type Store interface {
	database.CronStore
	PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error)
}

// CatalogWarmer preloads the catalog cache
type CatalogWarmer interface {
	WarmCache(ctx context.Context) (int, error)
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	store   Store
	catalog CatalogWarmer
	now     func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(store Store, catalog CatalogWarmer) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	jobs := []struct {
		spec string
		run  func()
	}{
		// Every hour: drop expired revoked sessions
		{"0 0 * * * *", m.PurgeExpiredTokens},
		// Every 10 minutes: refresh the catalog cache
		{"0 */10 * * * *", m.WarmCatalogCache},
		// Daily at 3 AM: report students left behind by interrupted checkouts
		{"0 0 3 * * *", m.ReportOrphanedStudents},
		// Daily at 4 AM: trim notification history
		{"0 0 4 * * *", m.PurgeNotificationLogs},
	}

	for _, job := range jobs {
		if _, err := m.cron.AddFunc(job.spec, job.run); err != nil {
			return err
		}
	}

	log.Printf("All %d cron jobs registered successfully", len(jobs))
	return nil
}

// runJob records a run of fn in cron_job_logs
func (m *CronManager) runJob(jobName string, timeout time.Duration, fn func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entry := m.logJobStart(ctx, jobName)
	message, err := fn(ctx)
	if err != nil {
		m.logJobError(ctx, entry, err)
		return
	}
	m.logJobComplete(ctx, entry, message)
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(ctx context.Context, jobName string) *model.CronJobLog {
	log.Printf("[CRON] Starting job: %s at %s", jobName, m.now().Format(time.RFC3339))

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    StatusRunning,
		StartedAt: m.now(),
	}
	if err := m.store.CreateCronJobLog(ctx, entry); err != nil {
		log.Printf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(ctx context.Context, entry *model.CronJobLog, message string) {
	log.Printf("[CRON] Completed job: %s - %s", entry.JobName, message)

	m.finish(entry, StatusCompleted)
	entry.Message = message
	m.save(ctx, entry)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(ctx context.Context, entry *model.CronJobLog, err error) {
	log.Printf("[CRON] Error in job: %s - %v", entry.JobName, err)

	m.finish(entry, StatusFailed)
	entry.ErrorMsg = err.Error()
	m.save(ctx, entry)
}

func (m *CronManager) finish(entry *model.CronJobLog, status string) {
	completedAt := m.now()
	entry.Status = status
	entry.CompletedAt = &completedAt
	entry.Duration = completedAt.Sub(entry.StartedAt).Milliseconds()
}

func (m *CronManager) save(ctx context.Context, entry *model.CronJobLog) {
	if entry.ID == 0 {
		return
	}
	if err := m.store.UpdateCronJobLog(ctx, entry); err != nil {
		log.Printf("[CRON] Failed to record result of %s: %v", entry.JobName, err)
	}
}
