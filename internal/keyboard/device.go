// Package keyboard handles evdev input devices: discovery, the synthetic
// uinput mirror and the per-device worker that pipes events between them.
package keyboard

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// synthSuffix marks devices we created ourselves so discovery skips them.
const synthSuffix = " (lanmai)"

// FindKeyboardPaths discovers input nodes whose capability bits include the
// keyboard key range.
func FindKeyboardPaths(logger *slog.Logger) ([]string, error) {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("globbing input devices: %w", err)
	}

	var paths []string
	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			logger.Debug("cannot open device", "path", path, "error", err)
			continue
		}

		name, err := dev.Name()
		if err != nil {
			name = ""
		}

		ok := isKeyboard(dev) && !strings.Contains(name, synthSuffix)
		dev.Close()
		if !ok {
			continue
		}

		logger.Info("found keyboard", "name", name, "path", path)
		paths = append(paths, path)
	}

	return paths, nil
}

// isKeyboard checks for EV_KEY capability over the letter row.
func isKeyboard(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t != evdev.EV_KEY {
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			if code >= evdev.KEY_A && code <= evdev.KEY_DOT {
				return true
			}
		}
	}
	return false
}

// IsRealDevice reports whether path is an input node published by the
// kernel rather than a transient node from a userspace device manager.
// Kernel devices carry a physical topology descriptor; transient ones
// do not.
func IsRealDevice(path string) bool {
	dev, err := evdev.Open(path)
	if err != nil {
		return false
	}
	defer dev.Close()

	phys, err := dev.PhysicalLocation()
	return err == nil && phys != ""
}
