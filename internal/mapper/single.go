package mapper

import (
	evdev "github.com/holoplot/go-evdev"
)

// SingleMapper rewrites individual key codes 1:1. It is stateless: the
// output event differs from the input only in its code.
type SingleMapper struct {
	table map[evdev.EvCode]evdev.EvCode
}

func NewSingleMapper(table map[evdev.EvCode]evdev.EvCode) *SingleMapper {
	return &SingleMapper{table: table}
}

// Map rewrites the code of a key event found in the table. Value and
// timestamp are preserved; other events pass through unchanged.
func (m *SingleMapper) Map(ev evdev.InputEvent) evdev.InputEvent {
	if ev.Type != evdev.EV_KEY {
		return ev
	}
	if to, ok := m.table[ev.Code]; ok {
		ev.Code = to
	}
	return ev
}
