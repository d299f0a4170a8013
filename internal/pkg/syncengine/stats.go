package syncengine

import (
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/internal/pkg/cache"
)

// SweepStatsKey is the cache hash holding sweep counters.
const SweepStatsKey = "sync_stats"

// StatsSink receives the aggregate of each sweep.
type StatsSink interface {
	RecordSweep(res Result, at time.Time)
}

// redisStats mirrors sweep counters into a Redis hash so the control surface
// can report sync health without touching the database.
type redisStats struct{}

// NewRedisStats creates the default cache-backed stats sink.
func NewRedisStats() StatsSink {
	return &redisStats{}
}

func (s *redisStats) RecordSweep(res Result, at time.Time) {
	if err := cache.HIncrBy(SweepStatsKey, "succeeded", int64(res.Succeeded)); err != nil {
		log.Errorf("[SyncEngine] Failed to record sweep stats: %v", err)
		return
	}
	_ = cache.HIncrBy(SweepStatsKey, "failed", int64(res.Failed))
	_ = cache.HIncrBy(SweepStatsKey, "sweeps", 1)
	_ = cache.Set(SweepStatsKey+":last_run", at.Format(time.RFC3339), 0)
}

// SweepStats returns the accumulated sweep counters and the last run time.
func SweepStats() (map[string]string, error) {
	stats, err := cache.HGetAll(SweepStatsKey)
	if err != nil {
		return nil, err
	}
	if lastRun, err := cache.Get(SweepStatsKey + ":last_run"); err == nil {
		stats["last_run"] = lastRun
	}
	return stats, nil
}
