package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of periodic work.
type Task func(context.Context) error

// Scheduler runs a single task on a fixed interval. It is deliberately best
// effort: ticks that fire while the task is still running are skipped, but
// nothing coordinates with manually triggered runs of the same work.
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler builds a scheduler for the given task.
func NewScheduler(name string, interval time.Duration, task Task, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{name: name, interval: interval, task: task, logger: logger}
}

// Start launches the ticker goroutine. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.interval <= 0 {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
	s.started = true
	s.logger.Sugar().Infow("scheduler started", "name", s.name, "interval", s.interval)
}

// Stop cancels the ticker and waits for a running task to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Sugar().Infow("scheduler stopped", "name", s.name)
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.task(s.ctx); err != nil {
				s.logger.Sugar().Errorw("scheduled task failed", "name", s.name, "error", err)
			}
		}
	}
}
