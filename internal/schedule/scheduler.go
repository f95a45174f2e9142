// internal/schedule/scheduler.go
//
// Wall-clock timers for live games, backed by gocron.
// Responsibilities:
//   - One-time jobs for delayed actions (mismatch settle, hint end).
//   - Duration jobs for periodic work (session tick, idle-game sweep).
//   - Cancellation by job id.
//
// gocron logs through zerolog so scheduler noise lands in the same stream
// as the rest of the server.

package schedule

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Scheduler runs callbacks on gocron's executor goroutines.
type Scheduler struct {
	s gocron.Scheduler
}

// New creates and starts a gocron scheduler. Extra options (for example a
// fake clock) are applied after the defaults.
func New(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	opts = append([]gocron.SchedulerOption{gocron.WithLogger(zerologAdapter{})}, opts...)
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	s.Start()
	return &Scheduler{s: s}, nil
}

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) func() {
	start := gocron.OneTimeJobStartImmediately()
	if d > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(d))
	}
	job, err := s.s.NewJob(gocron.OneTimeJob(start), gocron.NewTask(fn))
	if err != nil {
		// a start time that slipped into the past is the usual cause;
		// the game must still settle, so fall back to a plain timer.
		log.Warn().Err(err).Dur("delay", d).Msg("one-time job rejected, using timer")
		t := time.AfterFunc(d, fn)
		return func() { t.Stop() }
	}
	return s.remover(job)
}

// Every runs fn each d until cancelled. A run that would overlap the
// previous one is skipped.
func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	job, err := s.s.NewJob(
		gocron.DurationJob(d),
		gocron.NewTask(fn),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Dur("every", d).Msg("schedule duration job")
		return func() {}
	}
	return s.remover(job)
}

func (s *Scheduler) remover(job gocron.Job) func() {
	id := job.ID()
	return func() {
		// ErrJobNotFound just means a one-time job already ran
		_ = s.s.RemoveJob(id)
	}
}

// Jobs returns the number of jobs still registered.
func (s *Scheduler) Jobs() int { return len(s.s.Jobs()) }

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error { return s.s.Shutdown() }

// zerologAdapter satisfies gocron.Logger. gocron passes slog-style
// key/value pairs, which zerolog accepts as a field list.
type zerologAdapter struct{}

func (zerologAdapter) Debug(msg string, args ...any) {
	log.Debug().Str("component", "gocron").Fields(args).Msg(msg)
}

func (zerologAdapter) Info(msg string, args ...any) {
	log.Info().Str("component", "gocron").Fields(args).Msg(msg)
}

func (zerologAdapter) Warn(msg string, args ...any) {
	log.Warn().Str("component", "gocron").Fields(args).Msg(msg)
}

func (zerologAdapter) Error(msg string, args ...any) {
	log.Error().Str("component", "gocron").Fields(args).Msg(msg)
}
