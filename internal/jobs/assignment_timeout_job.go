package jobs

import (
	"context"
	"log/slog"
	"time"

	"pharmaflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AssignmentTimeoutJob sweeps orders stuck awaiting an agent's answer.
// Runs every five seconds and reverts overdue proposals to ready.
type AssignmentTimeoutJob struct {
	handler commands.ExpireAssignmentsCommandHandler
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAssignmentTimeoutJob creates the sweep job. Proposals older than the
// given timeout are expired on each run.
func NewAssignmentTimeoutJob(
	handler commands.ExpireAssignmentsCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *AssignmentTimeoutJob {
	return &AssignmentTimeoutJob{
		handler: handler,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "assignment_timeout_job"),
	}
}

// Start begins the sweep to run every five seconds.
func (j *AssignmentTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		cmd, cmdErr := commands.NewExpireAssignmentsCommand(j.timeout)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Assignment timeout job misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Assignment timeout job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Assignment timeout job started (running every five seconds)",
		"timeout", j.timeout.String())
	return nil
}

// Stop stops the sweep job.
func (j *AssignmentTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment timeout job stopped")
}
