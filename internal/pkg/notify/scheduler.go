package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/app/repository"
)

// Scheduler fires each active recipient's daily notification at most once per
// calendar day, at or after their configured time.
type Scheduler struct {
	factory    *repository.Factory
	dispatcher *Dispatcher
}

func NewScheduler(factory *repository.Factory, dispatcher *Dispatcher) *Scheduler {
	return &Scheduler{factory: factory, dispatcher: dispatcher}
}

// Tick evaluates every active config against the current time. A config fires
// when its notify time has been reached and it has not yet fired today. The
// fired date is recorded after the dispatch attempt regardless of delivery
// outcome, so a broken recipient does not get retried all day.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	repos := s.factory.GetRepositories()

	configs, err := repos.NotifyConfig.ListActive()
	if err != nil {
		log.Errorf("[Notify] Failed to list notify configs: %v", err)
		return
	}

	for i := range configs {
		cfg := configs[i]
		if !cfg.TimeReached(now) || cfg.FiredToday(now) {
			continue
		}

		log.Infof("[Notify] Firing daily notification for user %d", cfg.UserID)
		s.dispatcher.DispatchFor(ctx, &cfg, now)

		if err := repos.NotifyConfig.SetLastFired(cfg.ID, now.Format("2006-01-02")); err != nil {
			log.Errorf("[Notify] Failed to record fire date for user %d: %v", cfg.UserID, err)
		}
	}
}

// FireNow dispatches a user's notification immediately, bypassing the time
// check. It does not touch the fired date, so the regular daily fire still
// happens.
func (s *Scheduler) FireNow(ctx context.Context, userID uint, now time.Time) error {
	repos := s.factory.GetRepositories()

	cfg, err := repos.NotifyConfig.GetByUserID(userID)
	if err != nil {
		return err
	}
	if !cfg.Active {
		return fmt.Errorf("notify config for user %d is disabled", userID)
	}

	if !s.dispatcher.DispatchFor(ctx, cfg, now) {
		return fmt.Errorf("notification for user %d was not delivered", userID)
	}
	return nil
}
