package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
)

func seedConfig(t *testing.T, factory *repository.Factory, cfg *models.NotifyConfig) *models.NotifyConfig {
	t.Helper()
	require.NoError(t, factory.GetRepositories().NotifyConfig.Upsert(cfg))
	return cfg
}

func newTestScheduler(t *testing.T) (*Scheduler, *repository.Factory, *fakeGateway) {
	t.Helper()
	factory := newTestFactory(t)
	gw := &fakeGateway{}
	return NewScheduler(factory, NewDispatcher(factory, gw)), factory, gw
}

func TestTickFiresOncePerDay(t *testing.T) {
	sched, factory, gw := newTestScheduler(t)
	seedAccount(t, factory, 1, models.ProviderBitLaunch, "ops@x.com", 50)
	seedConfig(t, factory, testConfig(1))

	day := func(h, m int) time.Time {
		return time.Date(2026, 8, 30, h, m, 0, 0, time.UTC)
	}

	// Before the configured time nothing happens
	sched.Tick(context.Background(), day(7, 59))
	assert.Empty(t, gw.sent())

	// At 08:00 the notification fires
	sched.Tick(context.Background(), day(8, 0))
	assert.Len(t, gw.sent(), 1)

	// Later ticks the same day do not re-fire
	sched.Tick(context.Background(), day(8, 3))
	sched.Tick(context.Background(), day(15, 0))
	assert.Len(t, gw.sent(), 1)

	cfg, err := factory.GetRepositories().NotifyConfig.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", cfg.LastFiredDate)

	// Next day it fires again
	sched.Tick(context.Background(), time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC))
	assert.Len(t, gw.sent(), 2)
}

func TestTickFiresLateWhenTickMissedTheMinute(t *testing.T) {
	sched, factory, gw := newTestScheduler(t)
	seedAccount(t, factory, 1, models.ProviderBitLaunch, "ops@x.com", 50)
	cfg := testConfig(1)
	cfg.NotifyMinute = 30
	seedConfig(t, factory, cfg)

	// First tick of the day lands well past 08:30; the fire must not be lost
	sched.Tick(context.Background(), time.Date(2026, 8, 30, 11, 45, 0, 0, time.UTC))
	assert.Len(t, gw.sent(), 1)
}

func TestTickSkipsInactiveConfigs(t *testing.T) {
	sched, factory, gw := newTestScheduler(t)
	seedAccount(t, factory, 1, models.ProviderBitLaunch, "ops@x.com", 50)
	cfg := testConfig(1)
	cfg.Active = false
	seedConfig(t, factory, cfg)

	sched.Tick(context.Background(), time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, gw.sent())
}

func TestTickRecordsFireDateOnDeliveryFailure(t *testing.T) {
	factory := newTestFactory(t)
	gw := &fakeGateway{fail: true}
	sched := NewScheduler(factory, NewDispatcher(factory, gw))
	seedAccount(t, factory, 1, models.ProviderBitLaunch, "ops@x.com", 50)
	seedConfig(t, factory, testConfig(1))

	sched.Tick(context.Background(), time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))

	// A broken recipient is not retried all day
	cfg, err := factory.GetRepositories().NotifyConfig.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", cfg.LastFiredDate)
}

func TestFireNowBypassesScheduleWithoutConsumingIt(t *testing.T) {
	sched, factory, gw := newTestScheduler(t)
	seedAccount(t, factory, 1, models.ProviderBitLaunch, "ops@x.com", 50)
	seedConfig(t, factory, testConfig(1))

	// Force-fire before the configured time
	early := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	require.NoError(t, sched.FireNow(context.Background(), 1, early))
	assert.Len(t, gw.sent(), 1)

	cfg, err := factory.GetRepositories().NotifyConfig.GetByUserID(1)
	require.NoError(t, err)
	assert.Empty(t, cfg.LastFiredDate)

	// The scheduled daily fire still happens
	sched.Tick(context.Background(), time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	assert.Len(t, gw.sent(), 2)
}

func TestFireNowRejectsDisabledConfig(t *testing.T) {
	sched, factory, _ := newTestScheduler(t)
	cfg := testConfig(1)
	cfg.Active = false
	seedConfig(t, factory, cfg)

	err := sched.FireNow(context.Background(), 1, time.Now())
	assert.Error(t, err)
}
