package scheduler

import (
	"log"
	"time"

	"github.com/nitman/internal/service"
	"github.com/robfig/cron/v3"
)

// PublishFunc performs the actual publish action for one due schedule.
// Returning an error records a failed attempt on the schedule row.
type PublishFunc func(schedule ScheduleRef) error

// ScheduleRef is the slice of schedule state a publish attempt needs.
type ScheduleRef struct {
	ID           uint
	PostID       uint
	ScheduledFor time.Time
	RetryCount   uint
}

// PublishWorker periodically scans due post schedules and attempts to mark
// them published, recording a retry on failure. The worker owns the scan
// and retry policy; the schedule rows themselves live in ScheduleService.
type PublishWorker struct {
	schedules *service.ScheduleService
	publish   PublishFunc
	now       func() time.Time
	cron      *cron.Cron
}

// NewPublishWorker creates a worker over the given schedule service. A nil
// publish func means schedules are marked published as soon as they are due.
func NewPublishWorker(schedules *service.ScheduleService, publish PublishFunc) *PublishWorker {
	return &PublishWorker{
		schedules: schedules,
		publish:   publish,
		now:       time.Now,
	}
}

// WithClock replaces the time source, mainly for tests.
func (w *PublishWorker) WithClock(now func() time.Time) *PublishWorker {
	if now != nil {
		w.now = now
	}
	return w
}

// Start registers the scan on a cron schedule and begins running it.
// spec uses the robfig/cron syntax, e.g. "@every 1m".
func (w *PublishWorker) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := w.RunOnce(); err != nil {
			log.Printf("publish scan failed: %v", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	w.cron = c
	return nil
}

// Stop halts the cron loop; running scans finish their current pass.
func (w *PublishWorker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

// RunOnce performs a single scan over due schedules. Failures on one
// schedule do not stop the pass; each failed attempt bumps that row's
// retry counter.
func (w *PublishWorker) RunOnce() error {
	now := w.now()
	due, err := w.schedules.Due(now)
	if err != nil {
		return err
	}

	for _, schedule := range due {
		if w.publish != nil {
			ref := ScheduleRef{
				ID:           schedule.ID,
				PostID:       schedule.PostID,
				ScheduledFor: schedule.ScheduledFor,
				RetryCount:   schedule.RetryCount,
			}
			if err := w.publish(ref); err != nil {
				log.Printf("publish attempt for schedule %d failed: %v", schedule.ID, err)
				if recordErr := w.schedules.RecordFailure(schedule.ID); recordErr != nil {
					return recordErr
				}
				continue
			}
		}
		if err := w.schedules.MarkPublished(schedule.ID, now); err != nil {
			return err
		}
	}
	return nil
}
