package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsHandler struct{ mock.Mock }

func (m *MockStatsHandler) Handle(ctx context.Context, q queries.GetFulfillmentStatsQuery) (queries.FulfillmentStats, error) {
	args := m.Called(ctx, q)
	s, _ := args.Get(0).(queries.FulfillmentStats)
	return s, args.Error(1)
}

type recordingSink struct{ got []queries.FulfillmentStats }

func (s *recordingSink) RecordStats(stats queries.FulfillmentStats) { s.got = append(s.got, stats) }

func TestFulfillmentStatsJob_RunRecordsStats(t *testing.T) {
	stats := queries.FulfillmentStats{
		TotalOrders:    2,
		CountsByStatus: map[fulfillment.Status]int64{fulfillment.StatusPicking: 2},
	}
	handler := new(MockStatsHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(stats, nil).Once()
	sink := &recordingSink{}

	job := NewFulfillmentStatsJob(handler, sink, "", slog.Default())
	job.run(t.Context())

	require.Len(t, sink.got, 1)
	assert.Equal(t, int64(2), sink.got[0].TotalOrders)
	handler.AssertExpectations(t)
}

func TestFulfillmentStatsJob_RunKeepsPreviousValuesOnError(t *testing.T) {
	handler := new(MockStatsHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
	sink := &recordingSink{}

	job := NewFulfillmentStatsJob(handler, sink, "", slog.Default())
	job.run(t.Context())

	assert.Empty(t, sink.got)
}

func TestFulfillmentStatsJob_StartRejectsInvalidSchedule(t *testing.T) {
	job := NewFulfillmentStatsJob(new(MockStatsHandler), &recordingSink{}, "every now and then", slog.Default())

	require.Error(t, job.Start())
}

func TestJobManager_StartAndStop(t *testing.T) {
	jm := NewJobManager(new(MockStatsHandler), &recordingSink{}, "0 0 0 1 1 *", slog.Default())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}
