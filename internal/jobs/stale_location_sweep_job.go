package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleLocationSweepJob periodically clears driver positions whose last
// report is older than the staleness window, so dispatch ranking and the
// fleet dashboard never act on dead coordinates.
type StaleLocationSweepJob struct {
	handler    commands.SweepStaleLocationsCommandHandler
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleLocationSweepJob creates a sweep job. staleAfter is the age at
// which a stored position stops being trusted.
func NewStaleLocationSweepJob(
	handler commands.SweepStaleLocationsCommandHandler,
	staleAfter time.Duration,
	logger *slog.Logger,
) *StaleLocationSweepJob {
	return &StaleLocationSweepJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_location_sweep_job"),
	}
}

// Start begins the sweep job, running once a minute.
func (j *StaleLocationSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewSweepStaleLocationsCommand(time.Now().UTC().Add(-j.staleAfter))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale location sweep command invalid", "error", cmdErr)
			return
		}

		swept, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale location sweep failed", "error", handleErr)
			return
		}

		if swept > 0 {
			j.logger.InfoContext(ctx, "Swept stale driver locations", "count", swept)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale location sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *StaleLocationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale location sweep job stopped")
}
