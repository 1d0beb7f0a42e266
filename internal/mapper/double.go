package mapper

import (
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// DoubleMapper detects chords: two trigger keys pressed within a rule's
// window become the rule's emit sequence. At most one press is ever held
// back ("pending"); its fate is decided by the next event, never by a timer.
type DoubleMapper struct {
	rules []DoubleRule

	// pending is the one consumed-but-not-forwarded trigger press.
	pending *pendingPress

	// consumed holds trigger keys whose press became half of a completed
	// chord; their release and repeats must be swallowed.
	consumed map[evdev.EvCode]bool
}

type pendingPress struct {
	code evdev.EvCode
	at   time.Time
}

func NewDoubleMapper(rules []DoubleRule) *DoubleMapper {
	return &DoubleMapper{
		rules:    rules,
		consumed: make(map[evdev.EvCode]bool),
	}
}

// Map feeds one event through the chord state machine and returns the
// events to forward, possibly none.
func (m *DoubleMapper) Map(ev evdev.InputEvent) []evdev.InputEvent {
	if ev.Type != evdev.EV_KEY || len(m.rules) == 0 {
		return []evdev.InputEvent{ev}
	}
	switch ev.Value {
	case ValuePress:
		return m.press(ev)
	case ValueRelease:
		return m.release(ev)
	default:
		return m.repeat(ev)
	}
}

func (m *DoubleMapper) press(ev evdev.InputEvent) []evdev.InputEvent {
	if m.pending == nil {
		if m.isTrigger(ev.Code) {
			m.pending = &pendingPress{code: ev.Code, at: eventTime(ev)}
			return nil
		}
		return []evdev.InputEvent{ev}
	}

	held := *m.pending
	m.pending = nil

	if rule, ok := m.findRule(held.code, ev.Code); ok {
		if eventTime(ev).Sub(held.at) <= rule.Window {
			m.consumed[held.code] = true
			m.consumed[ev.Code] = true
			return expand(ev, rule.Emit)
		}
	}

	// No chord: the held press goes out as a normal key, followed by the
	// incoming press. The incoming key is not held back even if it is a
	// trigger; two overlapping chord attempts are resolved as plain typing.
	return []evdev.InputEvent{synth(ev, held.code, ValuePress), ev}
}

func (m *DoubleMapper) release(ev evdev.InputEvent) []evdev.InputEvent {
	if m.pending != nil && m.pending.code == ev.Code {
		// The partner never arrived: replay the held press as a tap.
		m.pending = nil
		return []evdev.InputEvent{
			synth(ev, ev.Code, ValuePress),
			synth(ev, ev.Code, ValueRelease),
		}
	}
	if m.consumed[ev.Code] {
		delete(m.consumed, ev.Code)
		return nil
	}
	return []evdev.InputEvent{ev}
}

func (m *DoubleMapper) repeat(ev evdev.InputEvent) []evdev.InputEvent {
	if m.pending != nil && m.pending.code == ev.Code {
		return nil
	}
	if m.consumed[ev.Code] {
		return nil
	}
	return []evdev.InputEvent{ev}
}

func (m *DoubleMapper) isTrigger(code evdev.EvCode) bool {
	for _, r := range m.rules {
		if r.Keys[0] == code || r.Keys[1] == code {
			return true
		}
	}
	return false
}

func (m *DoubleMapper) findRule(a, b evdev.EvCode) (DoubleRule, bool) {
	for _, r := range m.rules {
		if r.Matches(a, b) {
			return r, true
		}
	}
	return DoubleRule{}, false
}

// expand emits presses for the sequence in order, then releases in reverse.
func expand(src evdev.InputEvent, seq []evdev.EvCode) []evdev.InputEvent {
	out := make([]evdev.InputEvent, 0, 2*len(seq))
	for _, code := range seq {
		out = append(out, synth(src, code, ValuePress))
	}
	for i := len(seq) - 1; i >= 0; i-- {
		out = append(out, synth(src, seq[i], ValueRelease))
	}
	return out
}
