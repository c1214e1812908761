// Package jobs provides scheduled background tasks for the card delivery
// tracker, built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OverdueSweepJob - Periodically marks Shipped deliveries past their
// expected date as Delayed, surfacing them on the exception worklist.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(markOverdueHandler, "0 * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep that marks deliveries but fails to append the audit entries logs a
// warning and keeps the status changes; any other failure is logged as an
// error and retried on the next tick.
package jobs
