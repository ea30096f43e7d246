package synthesis

import (
	"context"
	"log"
	"time"

	"talkinghead/internal/domain/job"
)

// Scheduler drives the job lifecycle on a fixed interval. A tick advances
// at most one job: an in-flight job is always serviced before a waiting one
// is promoted, which keeps at most one job in processing/pending at any
// time. Ticks never overlap; a slow gateway call simply delays the next
// tick.
type Scheduler struct {
	store    JobStore
	machine  *Machine
	interval time.Duration
	ticks    <-chan time.Time
	logger   *log.Logger
}

// NewScheduler creates a scheduler ticking on the given interval.
func NewScheduler(store JobStore, machine *Machine, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Scheduler{
		store:    store,
		machine:  machine,
		interval: interval,
		logger:   logger,
	}
}

// WithTicks replaces the internal timer with an externally driven tick
// source, so tests can fire ticks on demand.
func (s *Scheduler) WithTicks(ticks <-chan time.Time) *Scheduler {
	s.ticks = ticks
	return s
}

// Run executes ticks until the context is cancelled. Individual tick
// failures are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ticks := s.ticks
	if ticks == nil {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	s.logger.Printf("scheduler started: interval=%s", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler stopped")
			return
		case <-ticks:
			if err := s.Tick(ctx); err != nil {
				s.logger.Printf("scheduler tick failed: %v", err)
			}
		}
	}
}

// Tick performs one scheduling pass:
//  1. poll the in-flight pending job, if any;
//  2. otherwise resume a job stuck in processing (restart recovery);
//  3. otherwise promote the earliest waiting job;
//  4. otherwise do nothing.
//
// The returned error covers store access only; gateway failures are
// absorbed by the state machine as a failed status on the affected job.
func (s *Scheduler) Tick(ctx context.Context) error {
	for _, status := range []job.Status{job.StatusPending, job.StatusProcessing, job.StatusWaiting} {
		j, err := s.store.FindFirstByStatus(ctx, status)
		if err != nil {
			return err
		}
		if j != nil {
			return s.machine.Advance(ctx, j)
		}
	}
	return nil
}
