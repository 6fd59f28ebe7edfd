// Package jobs runs the scheduled maintenance tasks.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Completer is the part of the booking service the sweep needs.
type Completer interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler registers the booking completion sweep on schedule (standard
// five-field cron). An overrunning sweep skips the next tick.
func NewScheduler(schedule string, bookings Completer) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		timeout: 4 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(bookings) }); err != nil {
		return nil, err
	}
	log.Printf("[Jobs] booking sweep scheduled %q", schedule)
	return s, nil
}

// Sweep completes approved bookings whose end date has passed.
func (s *Scheduler) Sweep(bookings Completer) int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := bookings.CompleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("[Jobs] booking sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[Jobs] completed %d expired bookings", n)
	}
	return n
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
