package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Job is one recurring background task. The handler is invoked once at
// startup and then on every interval tick.
type Job struct {
	Name    string
	Every   time.Duration
	Handler func(ctx context.Context)
}

// Service runs a fixed table of recurring jobs on independent tickers.
type Service struct {
	jobs    []Job
	stopCh  chan struct{}
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

func NewService(jobs ...Job) *Service {
	return &Service{
		jobs:   jobs,
		stopCh: make(chan struct{}),
	}
}

// Start launches one goroutine per job. Each job runs immediately, then on
// its own ticker until Stop is called.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.run(ctx, job)
	}
	log.Infof("[Scheduler] Started %d jobs", len(s.jobs))
}

func (s *Service) run(ctx context.Context, job Job) {
	defer s.wg.Done()

	s.invoke(ctx, job)

	ticker := time.NewTicker(job.Every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.invoke(ctx, job)
		}
	}
}

func (s *Service) invoke(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[Scheduler] Job %s panicked: %v", job.Name, r)
		}
	}()
	job.Handler(ctx)
}

// Stop signals all jobs, cancels their context and waits for them to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopCh)
	s.cancel()
	s.wg.Wait()
	log.Info("[Scheduler] All jobs stopped")
}
