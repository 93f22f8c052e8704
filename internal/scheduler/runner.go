// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
)

// Job is one scheduled unit of work. The context is cancelled on shutdown.
type Job func(ctx context.Context) error

// Runner wraps a cron scheduler whose specs include a seconds field.
type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

// New creates a stopped Runner. Jobs receive baseCtx.
func New(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		baseCtx: baseCtx,
	}
}

// Add schedules job under name. Failures are logged and do not stop the schedule.
func (r *Runner) Add(spec, name string, job Job) (cron.EntryID, error) {
	id, err := r.cron.AddFunc(spec, func() {
		op := logging.StartOperation(r.baseCtx, "job."+name)
		if err := job(op.Context()); err != nil {
			op.EndWithError(err)
			return
		}
		op.End()
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	return id, nil
}

// Len returns the number of scheduled jobs.
func (r *Runner) Len() int {
	return len(r.cron.Entries())
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (r *Runner) Run(ctx context.Context) error {
	logging.Info(ctx, "Scheduler started", "jobs", r.Len())
	r.cron.Start()

	<-ctx.Done()

	<-r.cron.Stop().Done()
	logging.Info(context.Background(), "Scheduler stopped")
	return nil
}
