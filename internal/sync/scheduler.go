package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"
)

// runTimeout bounds one pipeline run end to end, including transport
// connect and auth. On timeout the run fails and the checkpoint is not
// advanced, so the next tick retries the same window.
const runTimeout = 2 * time.Minute

// Scheduler runs the pipeline periodically and exposes a manual-trigger
// entry point. It has two states, idle and syncing; a tick or trigger
// arriving while syncing is dropped, so no two runs for the same account
// overlap.
type Scheduler struct {
	pipeline *Pipeline
	interval time.Duration

	// onResult, when set, receives every run's result.
	onResult func(RunResult)

	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	syncing bool
	running bool
	last    *RunResult

	logger *log.Logger
}

// NewScheduler creates a scheduler around the pipeline. A non-positive
// interval falls back to five minutes.
func NewScheduler(p *Pipeline, interval time.Duration, onResult func(RunResult)) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		pipeline:  p,
		interval:  interval,
		onResult:  onResult,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		logger:    log.Default().With("component", "scheduler"),
	}
}

// Start launches the polling loop. An initial run happens immediately.
// Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.loop()
}

// Stop halts the polling loop. An in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
}

// TriggerNow requests an immediate run. Safe to invoke concurrently with
// the timer: a run already in progress absorbs the trigger via the same
// run-in-progress guard.
func (s *Scheduler) TriggerNow() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
		// A trigger is already pending; one run covers both.
	}
}

// LastResult returns the outcome of the most recent run, or nil before
// the first run completes.
func (s *Scheduler) LastResult() *RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	res := *s.last
	return &res
}

// RunNow executes one guarded run. It returns false without running when
// a sync is already in progress.
func (s *Scheduler) RunNow(ctx context.Context) (RunResult, bool) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return RunResult{}, false
	}
	s.syncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	res := s.pipeline.Run(runCtx)

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()

	if res.Err != nil {
		s.logger.Error("sync run failed", "err", res.Err)
	} else {
		s.logger.Info("sync run complete",
			"fetched", res.Fetched,
			"new", res.Inserted,
			"todos", res.Todos,
		)
	}

	if s.onResult != nil {
		s.onResult(res)
	}
	return res, true
}

// loop drives the ticker and the manual trigger channel.
func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunNow(context.Background())

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.RunNow(context.Background())
		case <-s.triggerCh:
			s.RunNow(context.Background())
		}
	}
}
