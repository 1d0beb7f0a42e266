package mapper

import (
	evdev "github.com/holoplot/go-evdev"
)

// Pipeline chains the three mappers. Single rewrites run first, so a
// rewritten code is what the chord and macro stages match against.
type Pipeline struct {
	single *SingleMapper
	double *DoubleMapper
	meta   *MetaMapper
}

// NewPipeline builds a pipeline with fresh mutable state. Each device
// worker gets its own; rules may be shared.
func NewPipeline(rules Rules) *Pipeline {
	return &Pipeline{
		single: NewSingleMapper(rules.Single),
		double: NewDoubleMapper(rules.Double),
		meta:   NewMetaMapper(rules.Meta),
	}
}

// Map transforms one key event into the events to write to the synthetic
// device, in order. Non-key events come back unchanged.
func (p *Pipeline) Map(ev evdev.InputEvent) []evdev.InputEvent {
	if ev.Type != evdev.EV_KEY {
		return []evdev.InputEvent{ev}
	}
	var out []evdev.InputEvent
	for _, de := range p.double.Map(p.single.Map(ev)) {
		out = append(out, p.meta.Map(de)...)
	}
	return out
}
