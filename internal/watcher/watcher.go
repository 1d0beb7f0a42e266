// Package watcher observes /dev/input for hot-plugged devices and signals
// the supervisor once a creation burst has gone quiet.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Teliang/lanmai/internal/keyboard"
)

const (
	inputDir = "/dev/input"

	// debounce absorbs the burst of nodes a session manager creates when it
	// reopens devices. Only a quiet period after the last accepted creation
	// counts as a new device.
	debounce = 500 * time.Millisecond
)

// Watcher raises a notification when a real input device node appears under
// /dev/input. Notifications coalesce: the channel has capacity one and a
// pending signal absorbs later ones.
type Watcher struct {
	dir      string
	debounce time.Duration
	probe    func(path string) bool
	logger   *slog.Logger
	notify   chan struct{}
}

func New(logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:      inputDir,
		debounce: debounce,
		probe:    keyboard.IsRealDevice,
		logger:   logger,
		notify:   make(chan struct{}, 1),
	}
}

// Notifications returns the channel new-device signals arrive on.
func (w *Watcher) Notifications() <-chan struct{} {
	return w.notify
}

// Run watches until ctx is cancelled. Creation events for nodes without a
// physical descriptor are ignored; those are transient nodes from userspace
// device managers, not hardware.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	// lastCreate is the debounce state: the time of the most recent accepted
	// creation, zero when nothing is pending.
	var lastCreate time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("node created", "path", ev.Name)
			if !w.probe(ev.Name) {
				continue
			}
			w.logger.Info("new input device", "path", ev.Name)
			lastCreate = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-tick.C:
			if lastCreate.IsZero() || time.Since(lastCreate) <= w.debounce {
				continue
			}
			lastCreate = time.Time{}
			select {
			case w.notify <- struct{}{}:
			default:
			}
		}
	}
}
