// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and never change
// fulfillment state; escalation of stuck orders, if wanted, belongs to an
// external scheduler calling the status API.
//
// # Available Jobs
//
//  1. FulfillmentStatsJob - recomputes the order counts and delivery
//     performance and publishes them as Prometheus gauges
//
// # Usage
//
//	jobManager := jobs.NewJobManager(statsHandler, recorder, config.StatsJobSchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed refresh is logged and the previous gauge values stay in place
// until the next run.
package jobs
