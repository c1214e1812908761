package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// OverdueSweepJob periodically flags Shipped deliveries whose expected date
// has passed as Delayed, pushing them onto the exception worklist.
type OverdueSweepJob struct {
	handler  commands.MarkOverdueCommandHandler
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
}

// NewOverdueSweepJob creates the sweep job. The schedule is a standard
// five-field cron expression.
func NewOverdueSweepJob(
	handler commands.MarkOverdueCommandHandler,
	schedule string,
	logger *slog.Logger,
) *OverdueSweepJob {
	return &OverdueSweepJob{
		handler:  handler,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger.With("component", "overdue_sweep_job"),
	}
}

// Start schedules the sweep and begins running it.
func (j *OverdueSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewMarkOverdueCommand(time.Now().UTC())
		if err != nil {
			j.logger.ErrorContext(ctx, "Overdue sweep command rejected", "error", err)
			return
		}

		flipped, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			// A failed ledger append still leaves the deliveries marked.
			if errors.Is(err, errs.ErrAuditAppendFailed) {
				j.logger.WarnContext(ctx, "Overdue sweep audit append failed",
					"flipped", flipped, "error", err)
			} else {
				j.logger.ErrorContext(ctx, "Overdue sweep failed", "error", err)
				return
			}
		}

		if flipped > 0 {
			j.logger.InfoContext(ctx, "Overdue deliveries marked delayed", "count", flipped)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *OverdueSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue sweep job stopped")
}
