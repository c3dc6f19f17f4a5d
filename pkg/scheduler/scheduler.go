// Package scheduler runs named background tasks on an interval with explicit
// cancellation handles. A task is best-effort: a failed run is logged and the
// next tick still fires.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task runs fn every interval until stopped. Poke triggers an immediate run
// (the visibility-regained analog) without disturbing the schedule.
type Task struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
	log      *zap.Logger

	poke   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a task; call Start to begin ticking.
func New(name string, interval time.Duration, fn func(ctx context.Context) error, log *zap.Logger) *Task {
	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		log:      log,
		poke:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the task loop. Runs are sequential: a poke arriving during a
// run coalesces into a single follow-up run.
func (t *Task) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-t.poke:
			}
			t.run(ctx)
		}
	}()
}

// Poke requests an immediate run. Non-blocking; extra pokes while one is
// pending are dropped.
func (t *Task) Poke() {
	select {
	case t.poke <- struct{}{}:
	default:
	}
}

// Stop cancels the task and waits for the in-flight run to finish.
func (t *Task) Stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
}

func (t *Task) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, t.interval)
	defer cancel()

	if err := t.fn(runCtx); err != nil && ctx.Err() == nil {
		t.log.Warn("scheduled task failed", zap.String("task", t.name), zap.Error(err))
	}
}
