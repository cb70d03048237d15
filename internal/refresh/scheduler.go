package refresh

import (
	"context"
	"sync"
	"time"
)

// Scheduler is the process-wide RefreshScheduler singleton (spec §4.7):
// it ticks on an interval and delegates due refreshes to the Manager,
// independent of any tool call, and separately accepts manual triggers.
type Scheduler struct {
	manager  *Manager
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	nextCheckAt time.Time
}

func NewScheduler(manager *Manager, checkInterval time.Duration) *Scheduler {
	return &Scheduler{manager: manager, interval: checkInterval, now: time.Now}
}

// Start begins the periodic tick. It no-ops if already running or if
// enabled is false (bot auth, operator-disabled, or missing workspace).
func (s *Scheduler) Start(ctx context.Context, enabled bool) {
	s.mu.Lock()
	if s.running || !enabled {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.nextCheckAt = s.now().Add(s.interval)
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	s.nextCheckAt = s.now().Add(s.interval)
	s.mu.Unlock()

	if s.manager.State().Status == "in_progress" {
		return
	}
	if !s.manager.IsRefreshDue() {
		return
	}
	s.manager.RefreshWithRetry(ctx, false)
}

// TriggerManual runs a refresh now, regardless of isRefreshDue or
// nextCheckAt, for the refresh_credentials tool (spec §4.9).
func (s *Scheduler) TriggerManual(ctx context.Context) *Error {
	return s.manager.RefreshWithRetry(ctx, true)
}

// NextCheckAt reports when the scheduler will next evaluate isRefreshDue.
func (s *Scheduler) NextCheckAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCheckAt
}

// Stop cancels the tick. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
}
