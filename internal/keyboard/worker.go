package keyboard

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/Teliang/lanmai/internal/mapper"
)

// settleDelay gives the session manager time to finish its own device
// enumeration before we grab the node out from under it.
const settleDelay = time.Second

// eventSource is the read side of a grabbed device.
type eventSource interface {
	ReadOne() (*evdev.InputEvent, error)
}

// Worker owns one physical keyboard, its synthetic mirror and its mapping
// state. It runs until the source read fails, typically because the device
// vanished, and marks itself done on every exit path.
type Worker struct {
	path   string
	rules  mapper.Rules
	logger *slog.Logger
	settle time.Duration
	done   atomic.Bool
}

func NewWorker(path string, rules mapper.Rules, logger *slog.Logger) *Worker {
	return &Worker{
		path:   path,
		rules:  rules,
		logger: logger.With("device", path),
		settle: settleDelay,
	}
}

// Path returns the source device path the worker was created for.
func (w *Worker) Path() string {
	return w.path
}

// Done reports whether the worker has terminated. The supervisor only
// removes a registry entry after observing this.
func (w *Worker) Done() bool {
	return w.done.Load()
}

// Run acquires the device, drives the event loop and tears everything down
// in reverse order of acquisition. Failures stay inside the worker: the
// device is ungrabbed, the synthetic mirror destroyed and the done flag set
// no matter how the loop ends.
func (w *Worker) Run() {
	defer w.done.Store(true)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker panicked", "panic", r)
		}
	}()

	w.logger.Info("worker starting")
	defer w.logger.Info("worker stopped")

	dev, err := evdev.Open(w.path)
	if err != nil {
		w.logger.Error("opening source device", "error", err)
		return
	}
	defer dev.Close()

	name, err := dev.Name()
	if err != nil {
		name = w.path
	}

	time.Sleep(w.settle)

	if err := dev.Grab(); err != nil {
		w.logger.Error("grabbing device", "error", err)
		return
	}
	defer dev.Ungrab()

	out, err := NewEventWriter(dev, name+synthSuffix, w.logger)
	if err != nil {
		w.logger.Error("creating synthetic device", "error", err)
		return
	}
	defer out.Close()

	w.logger.Info("device grabbed", "name", name)
	w.loop(dev, out, mapper.NewPipeline(w.rules))
}

// loop reads events until the source fails, piping key events through the
// mappers and forwarding everything else verbatim.
func (w *Worker) loop(src eventSource, out EventWriter, pipe *mapper.Pipeline) {
	for {
		ev, err := src.ReadOne()
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			w.logger.Info("source read ended", "error", err)
			return
		}

		if ev.Type == evdev.EV_SYN && ev.Code == evdev.SYN_DROPPED {
			if err := drainSync(src); err != nil {
				w.logger.Info("source read ended during resync", "error", err)
				return
			}
			continue
		}

		if ev.Type != evdev.EV_KEY {
			if err := out.WriteEvent(*ev); err != nil {
				w.logger.Error("writing to synthetic device", "error", err)
				return
			}
			continue
		}

		for _, mapped := range pipe.Map(*ev) {
			if err := out.WriteEvent(mapped); err != nil {
				w.logger.Error("writing to synthetic device", "error", err)
				return
			}
		}
	}
}

// drainSync discards the state the kernel replays after dropping events, up
// to the closing SYN_REPORT. Piping the replay through the mappers would
// feed them stale key state.
func drainSync(src eventSource) error {
	for {
		ev, err := src.ReadOne()
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			return err
		}
		if ev.Type == evdev.EV_SYN && ev.Code == evdev.SYN_REPORT {
			return nil
		}
	}
}
