package mapper

import (
	evdev "github.com/holoplot/go-evdev"
)

// MetaMapper expands keys into modifier-framed macro sequences while a
// designated meta key is held. A bare tap of the meta key still types the
// meta key itself, so it stays usable as a normal key.
type MetaMapper struct {
	rule MetaRule

	metaDown bool
	// emitted remembers whether any expansion fired during the current
	// hold; a hold that expanded nothing is replayed as a tap on release.
	emitted bool
	// expanded holds keys whose press was swallowed by an expansion; their
	// releases are swallowed too, the expansion already released its keys.
	expanded map[evdev.EvCode]bool
}

func NewMetaMapper(rule MetaRule) *MetaMapper {
	return &MetaMapper{
		rule:     rule,
		expanded: make(map[evdev.EvCode]bool),
	}
}

// Map feeds one event through the macro layer and returns the events to
// forward, possibly none.
func (m *MetaMapper) Map(ev evdev.InputEvent) []evdev.InputEvent {
	if ev.Type != evdev.EV_KEY || !m.rule.enabled() {
		return []evdev.InputEvent{ev}
	}

	if ev.Code == m.rule.MetaKey {
		return m.metaKey(ev)
	}

	// A release of an expanded key is swallowed wherever it arrives, even
	// after the meta key itself went up; its press was never forwarded.
	if ev.Value == ValueRelease && m.expanded[ev.Code] {
		delete(m.expanded, ev.Code)
		return nil
	}

	if !m.metaDown {
		return []evdev.InputEvent{ev}
	}

	seq, ok := m.rule.Table[ev.Code]
	if !ok || ev.Value == ValueRelease {
		return []evdev.InputEvent{ev}
	}

	// Press or repeat of a mapped key: emit the full expansion. Repeats
	// re-emit it so holding a mapped key keeps producing the macro.
	m.emitted = true
	m.expanded[ev.Code] = true
	out := make([]evdev.InputEvent, 0, 2*len(seq)+2)
	out = append(out, synth(ev, m.rule.Modifier, ValuePress))
	for _, code := range seq {
		out = append(out,
			synth(ev, code, ValuePress),
			synth(ev, code, ValueRelease),
		)
	}
	return append(out, synth(ev, m.rule.Modifier, ValueRelease))
}

func (m *MetaMapper) metaKey(ev evdev.InputEvent) []evdev.InputEvent {
	switch ev.Value {
	case ValuePress:
		m.metaDown = true
		m.emitted = false
		return nil
	case ValueRelease:
		wasDown := m.metaDown
		m.metaDown = false
		if wasDown && !m.emitted {
			return []evdev.InputEvent{
				synth(ev, m.rule.MetaKey, ValuePress),
				synth(ev, m.rule.MetaKey, ValueRelease),
			}
		}
		return nil
	default:
		// Autorepeat of the held meta key means nothing.
		return nil
	}
}
