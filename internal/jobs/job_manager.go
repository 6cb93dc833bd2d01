package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	statsJob *FulfillmentStatsJob
}

// NewJobManager wires the jobs to their handlers.
func NewJobManager(
	statsHandler StatsHandler,
	statsSink StatsSink,
	statsSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		statsJob: NewFulfillmentStatsJob(statsHandler, statsSink, statsSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.statsJob.Start(); err != nil {
		return fmt.Errorf("failed to start fulfillment stats job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.statsJob.Stop()
}
