// Package supervisor maintains one worker per live keyboard: it enumerates
// devices at startup, spawns workers for hot-plugged keyboards and reaps
// workers whose devices vanished.
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/Teliang/lanmai/internal/keyboard"
	"github.com/Teliang/lanmai/internal/mapper"
)

// settleDelay lets the kernel expose final device state before we probe a
// freshly announced device.
const settleDelay = 500 * time.Millisecond

// worker is what the supervisor drives: keyboard.Worker in production,
// fakes in tests.
type worker interface {
	Run()
	Done() bool
}

// Supervisor owns the worker registry. The registry is touched only from
// Run's goroutine; workers report termination through their done flag.
type Supervisor struct {
	rules   mapper.Rules
	device  string
	logger  *slog.Logger
	workers map[string]worker

	settle    time.Duration
	enumerate func() ([]string, error)
	spawn     func(path string) worker
}

// New creates a supervisor. device optionally names a path to grab even if
// enumeration does not surface it.
func New(rules mapper.Rules, device string, logger *slog.Logger) *Supervisor {
	s := &Supervisor{
		rules:   rules,
		device:  device,
		logger:  logger,
		workers: make(map[string]worker),
		settle:  settleDelay,
	}
	s.enumerate = func() ([]string, error) {
		return keyboard.FindKeyboardPaths(logger)
	}
	s.spawn = func(path string) worker {
		return keyboard.NewWorker(path, rules, logger)
	}
	return s
}

// Run spawns workers for all current keyboards and keeps the set in step
// with hotplug notifications until ctx is cancelled. It fails fast when the
// initial enumeration finds nothing to grab.
func (s *Supervisor) Run(ctx context.Context, notifications <-chan struct{}) error {
	if err := s.sync(); err != nil {
		return err
	}
	if len(s.workers) == 0 {
		return errors.New("no keyboards found")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-notifications:
			s.logger.Info("input topology changed")
			time.Sleep(s.settle)
			s.reap()
			if err := s.sync(); err != nil {
				s.logger.Warn("re-enumerating devices", "error", err)
			}
		}
	}
}

// reap drops registry entries whose worker has terminated. A worker is only
// dropped after its done flag is observed, so every live entry corresponds
// to a running worker.
func (s *Supervisor) reap() {
	for path, w := range s.workers {
		if w.Done() {
			s.logger.Info("reaping finished worker", "device", path)
			delete(s.workers, path)
		}
	}
}

// sync enumerates keyboards and spawns a worker for every untracked path.
func (s *Supervisor) sync() error {
	paths, err := s.enumerate()
	if err != nil {
		return err
	}
	if s.device != "" && !slices.Contains(paths, s.device) {
		paths = append(paths, s.device)
	}

	for _, path := range paths {
		if _, ok := s.workers[path]; ok {
			continue
		}
		w := s.spawn(path)
		s.workers[path] = w
		go w.Run()
	}
	return nil
}
