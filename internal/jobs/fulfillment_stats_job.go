package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultStatsSchedule refreshes the stats every 30 seconds.
const DefaultStatsSchedule = "*/30 * * * * *"

// StatsHandler computes the fulfillment stats.
type StatsHandler interface {
	Handle(ctx context.Context, query queries.GetFulfillmentStatsQuery) (queries.FulfillmentStats, error)
}

// StatsSink receives every computed snapshot.
type StatsSink interface {
	RecordStats(stats queries.FulfillmentStats)
}

// FulfillmentStatsJob periodically recomputes the fulfillment stats and
// hands them to the metrics gauges.
type FulfillmentStatsJob struct {
	handler  StatsHandler
	sink     StatsSink
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewFulfillmentStatsJob creates the job. schedule is a six-field cron
// expression (with seconds); an empty schedule means DefaultStatsSchedule.
func NewFulfillmentStatsJob(handler StatsHandler, sink StatsSink, schedule string, logger *slog.Logger) *FulfillmentStatsJob {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	return &FulfillmentStatsJob{
		handler:  handler,
		sink:     sink,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "fulfillment_stats_job"),
	}
}

// Start schedules the job. An invalid schedule is returned as an error.
func (j *FulfillmentStatsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Fulfillment stats job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *FulfillmentStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Fulfillment stats job stopped")
}

func (j *FulfillmentStatsJob) run(ctx context.Context) {
	stats, err := j.handler.Handle(ctx, queries.NewGetFulfillmentStatsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Fulfillment stats job failed", "error", err)
		return
	}
	j.sink.RecordStats(stats)
	j.logger.DebugContext(ctx, "Fulfillment stats refreshed", "total_orders", stats.TotalOrders)
}
