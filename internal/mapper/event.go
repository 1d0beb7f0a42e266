// Package mapper implements the three-stage key transformation pipeline:
// a stateless 1:1 rewrite, a two-key chord detector and a held-key macro
// expander. Mappers carry per-device state and must not be shared across
// devices; the rule tables they are built from are immutable and may be.
package mapper

import (
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// Event values used by EV_KEY events.
const (
	ValueRelease int32 = 0
	ValuePress   int32 = 1
	ValueRepeat  int32 = 2
)

// Rules is the immutable mapping configuration shared by all workers.
type Rules struct {
	Single map[evdev.EvCode]evdev.EvCode
	Double []DoubleRule
	Meta   MetaRule
}

// DoubleRule replaces a chord of two keys, pressed within Window of each
// other in either order, with the Emit sequence.
type DoubleRule struct {
	Keys   [2]evdev.EvCode
	Emit   []evdev.EvCode
	Window time.Duration
}

// Matches reports whether the unordered pair {a, b} triggers this rule.
func (r DoubleRule) Matches(a, b evdev.EvCode) bool {
	return (r.Keys[0] == a && r.Keys[1] == b) || (r.Keys[0] == b && r.Keys[1] == a)
}

// MetaRule describes the macro layer: while MetaKey is held, a key found in
// Table is replaced by its expansion, framed by Modifier press/release.
type MetaRule struct {
	MetaKey  evdev.EvCode
	Modifier evdev.EvCode
	Table    map[evdev.EvCode][]evdev.EvCode
}

func (r MetaRule) enabled() bool {
	return len(r.Table) > 0
}

// eventTime converts the kernel timestamp of ev to a time.Time. The chord
// window is measured on event time, not wall clock, so replayed streams
// behave identically.
func eventTime(ev evdev.InputEvent) time.Time {
	return time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)
}

// synth builds a key event derived from src, keeping its timestamp so the
// synthetic stream stays monotonic with the source stream.
func synth(src evdev.InputEvent, code evdev.EvCode, value int32) evdev.InputEvent {
	return evdev.InputEvent{
		Time:  src.Time,
		Type:  evdev.EV_KEY,
		Code:  code,
		Value: value,
	}
}
