package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/robfig/cron/v3"
)

// DefaultInterval is the period between scheduled ingestion cycles.
const DefaultInterval = 12 * time.Hour

// Scheduler runs an Ingester periodically in the background. A cycle that
// fails or panics is logged and the next cycle still runs. A cycle is
// skipped while the previous one is still running.
type Scheduler struct {
	Ingester sitekb.Ingester

	// Interval between cycles. Zero means DefaultInterval.
	Interval time.Duration

	// Schedule overrides Interval when set.
	Schedule cron.Schedule

	// OnCycle, when set, is called after every cycle that returns.
	OnCycle func(*sitekb.IngestResult, error)

	Logger *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// Start begins scheduling in a background goroutine. Cycles run with ctx.
// Returns ECONFLICT if already started.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return sitekb.Errorf(sitekb.ECONFLICT, "scheduler already started")
	}

	sched := s.Schedule
	if sched == nil {
		interval := s.Interval
		if interval == 0 {
			interval = DefaultInterval
		}
		if interval < time.Second {
			return sitekb.Errorf(sitekb.EINVALID, "schedule interval %s is below 1s", interval)
		}
		sched = cron.Every(interval)
	}

	logger := &cronLogger{logger: s.logger()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(sched, cron.FuncJob(func() { s.run(ctx) }))
	c.Start()
	s.cron = c

	s.logger().Info("scheduler started", "next", sched.Next(time.Now()))
	return nil
}

// Stop halts scheduling and returns a context that is done once any
// running cycle has finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	ctx := s.cron.Stop()
	s.cron = nil
	return ctx
}

func (s *Scheduler) run(ctx context.Context) {
	begin := time.Now()
	res, err := s.Ingester.IngestAll(ctx)
	if err != nil {
		s.logger().Error("ingestion cycle failed", "duration", time.Since(begin), "error", err)
	} else {
		s.logger().Info("ingestion cycle complete",
			"run", res.RunID,
			"added", res.Added,
			"duration", time.Since(begin),
		)
	}
	if s.OnCycle != nil {
		s.OnCycle(res, err)
	}
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// cronLogger adapts slog to cron.Logger. Cron's routine chatter goes to
// debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
