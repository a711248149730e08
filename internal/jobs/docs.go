// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the order lifecycle requires.
//
// # Available Jobs
//
// 1. AssignmentTimeoutJob - Runs every five seconds to revert orders whose
// delivery agent proposal went unanswered past the configured timeout.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireAssignmentsHandler, acceptTimeout, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick; a partial sweep
// leaves the remaining overdue orders for the next run.
package jobs
