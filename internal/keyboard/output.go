package keyboard

import (
	"fmt"
	"log/slog"

	"github.com/bendahl/uinput"
	evdev "github.com/holoplot/go-evdev"
)

// EventWriter writes events to a synthetic device. Implementations append
// the EV_SYN/SYN_REPORT frame separator after every event so consumers
// always see complete frames.
type EventWriter interface {
	WriteEvent(ev evdev.InputEvent) error
	Close() error
}

// NewEventWriter creates the synthetic mirror for src. The preferred path
// clones the source's capability bits over uinput, which lets every event
// type the source produces pass through. When cloning is not permitted the
// writer degrades to a plain virtual keyboard that mirrors key traffic only.
func NewEventWriter(src *evdev.InputDevice, name string, logger *slog.Logger) (EventWriter, error) {
	synth, err := evdev.CloneDevice(name, src)
	if err == nil {
		return &clonedWriter{dev: synth}, nil
	}
	logger.Warn("cloning source device failed, falling back to plain virtual keyboard", "error", err)

	kb, kerr := uinput.CreateKeyboard("/dev/uinput", []byte(name))
	if kerr != nil {
		return nil, fmt.Errorf("creating virtual keyboard: %w", kerr)
	}
	return &fallbackWriter{kb: kb}, nil
}

// clonedWriter mirrors the source device through a uinput clone of its
// capabilities.
type clonedWriter struct {
	dev *evdev.InputDevice
}

func (w *clonedWriter) WriteEvent(ev evdev.InputEvent) error {
	if err := w.dev.WriteOne(&ev); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	report := evdev.InputEvent{Time: ev.Time, Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
	if err := w.dev.WriteOne(&report); err != nil {
		return fmt.Errorf("writing syn report: %w", err)
	}
	return nil
}

func (w *clonedWriter) Close() error {
	return w.dev.Close()
}

// fallbackWriter drives a generic virtual keyboard. It can only express key
// traffic; anything else is dropped. The uinput library frames each call
// with its own SYN_REPORT.
type fallbackWriter struct {
	kb uinput.Keyboard
}

func (w *fallbackWriter) WriteEvent(ev evdev.InputEvent) error {
	if ev.Type != evdev.EV_KEY {
		return nil
	}
	switch ev.Value {
	case 0:
		return w.kb.KeyUp(int(ev.Code))
	default:
		// Press and repeat: the key is down either way, and a repeated
		// KeyDown is how repeat is expressed through this interface.
		return w.kb.KeyDown(int(ev.Code))
	}
}

func (w *fallbackWriter) Close() error {
	return w.kb.Close()
}
