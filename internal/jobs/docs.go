// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance the request path cannot cover.
//
// # Available Jobs
//
// 1. StaleLocationSweepJob - Runs every minute to clear driver positions
// whose last report is older than the configured staleness window.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepHandler, staleAfter, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick; a failed sweep
// never takes the process down.
package jobs
