package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleLocationSweepJob *StaleLocationSweepJob
}

// NewJobManager creates a job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	sweepHandler commands.SweepStaleLocationsCommandHandler,
	staleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleLocationSweepJob: NewStaleLocationSweepJob(sweepHandler, staleAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleLocationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale location sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleLocationSweepJob.Stop()
}
