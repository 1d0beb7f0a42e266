package mapper

import (
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func fullRules() Rules {
	return Rules{
		Single: map[evdev.EvCode]evdev.EvCode{
			evdev.KEY_CAPSLOCK: evdev.KEY_ESC,
		},
		Double: []DoubleRule{{
			Keys:   [2]evdev.EvCode{evdev.KEY_J, evdev.KEY_K},
			Emit:   []evdev.EvCode{evdev.KEY_ESC},
			Window: 200 * time.Millisecond,
		}},
		Meta: MetaRule{
			MetaKey:  evdev.KEY_SPACE,
			Modifier: evdev.KEY_LEFTCTRL,
			Table: map[evdev.EvCode][]evdev.EvCode{
				evdev.KEY_H: {evdev.KEY_LEFT},
			},
		},
	}
}

func run(p *Pipeline, events ...evdev.InputEvent) []evdev.InputEvent {
	var out []evdev.InputEvent
	for _, ev := range events {
		out = append(out, p.Map(ev)...)
	}
	return out
}

func TestPipelineSingleRewrite(t *testing.T) {
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_CAPSLOCK, ValuePress, 0),
		key(evdev.KEY_CAPSLOCK, ValueRelease, 50),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_ESC, ValuePress},
		{evdev.KEY_ESC, ValueRelease},
	}, pairs(got))
}

func TestPipelineChordWithinWindow(t *testing.T) {
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_J, ValuePress, 0),
		key(evdev.KEY_K, ValuePress, 50),
		key(evdev.KEY_J, ValueRelease, 80),
		key(evdev.KEY_K, ValueRelease, 120),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_ESC, ValuePress},
		{evdev.KEY_ESC, ValueRelease},
	}, pairs(got))
}

func TestPipelineChordTooSlow(t *testing.T) {
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_J, ValuePress, 0),
		key(evdev.KEY_K, ValuePress, 300),
		key(evdev.KEY_J, ValueRelease, 350),
		key(evdev.KEY_K, ValueRelease, 400),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_J, ValuePress},
		{evdev.KEY_K, ValuePress},
		{evdev.KEY_J, ValueRelease},
		{evdev.KEY_K, ValueRelease},
	}, pairs(got))
}

func TestPipelineMetaExpansion(t *testing.T) {
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_SPACE, ValuePress, 0),
		key(evdev.KEY_H, ValuePress, 50),
		key(evdev.KEY_H, ValueRelease, 80),
		key(evdev.KEY_SPACE, ValueRelease, 120),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_LEFTCTRL, ValuePress},
		{evdev.KEY_LEFT, ValuePress},
		{evdev.KEY_LEFT, ValueRelease},
		{evdev.KEY_LEFTCTRL, ValueRelease},
	}, pairs(got))
}

func TestPipelineMetaTap(t *testing.T) {
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_SPACE, ValuePress, 0),
		key(evdev.KEY_SPACE, ValueRelease, 50),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_SPACE, ValuePress},
		{evdev.KEY_SPACE, ValueRelease},
	}, pairs(got))
}

func TestPipelineEmptyRulesIsIdentity(t *testing.T) {
	p := NewPipeline(Rules{})

	events := []evdev.InputEvent{
		key(evdev.KEY_A, ValuePress, 0),
		key(evdev.KEY_A, ValueRepeat, 250),
		key(evdev.KEY_A, ValueRelease, 300),
		key(evdev.KEY_SPACE, ValuePress, 350),
		key(evdev.KEY_SPACE, ValueRelease, 400),
	}

	assert.Equal(t, events, run(p, events...))
}

func TestPipelineNonKeyPassThrough(t *testing.T) {
	p := NewPipeline(fullRules())

	in := evdev.InputEvent{Type: evdev.EV_MSC, Code: evdev.MSC_SCAN, Value: 458756}
	assert.Equal(t, []evdev.InputEvent{in}, p.Map(in))
}

func TestPipelineSingleFeedsDouble(t *testing.T) {
	// A single rewrite onto a trigger key participates in chords: capslock
	// is rewritten to J's partner before the chord stage sees it.
	rules := fullRules()
	rules.Single = map[evdev.EvCode]evdev.EvCode{
		evdev.KEY_CAPSLOCK: evdev.KEY_K,
	}
	p := NewPipeline(rules)

	got := run(p,
		key(evdev.KEY_J, ValuePress, 0),
		key(evdev.KEY_CAPSLOCK, ValuePress, 50),
	)

	assert.Equal(t, []cv{
		{evdev.KEY_ESC, ValuePress},
		{evdev.KEY_ESC, ValueRelease},
	}, pairs(got))
}

func TestPipelineNoPhantomPress(t *testing.T) {
	// Every press the pipeline emits must be traceable to an input press or
	// a rule's emit/table entry.
	p := NewPipeline(fullRules())

	allowed := map[evdev.EvCode]bool{
		evdev.KEY_A:        true, // pressed below
		evdev.KEY_ESC:      true, // single target and chord emit
		evdev.KEY_LEFT:     true, // meta table
		evdev.KEY_LEFTCTRL: true, // meta modifier
		evdev.KEY_SPACE:    true, // meta key tap replay
		evdev.KEY_J:        true, // pressed below
	}

	got := run(p,
		key(evdev.KEY_CAPSLOCK, ValuePress, 0),
		key(evdev.KEY_CAPSLOCK, ValueRelease, 20),
		key(evdev.KEY_J, ValuePress, 40),
		key(evdev.KEY_A, ValuePress, 60),
		key(evdev.KEY_A, ValueRelease, 80),
		key(evdev.KEY_J, ValueRelease, 100),
		key(evdev.KEY_SPACE, ValuePress, 120),
		key(evdev.KEY_H, ValuePress, 140),
		key(evdev.KEY_H, ValueRelease, 160),
		key(evdev.KEY_SPACE, ValueRelease, 180),
	)

	for _, ev := range got {
		if ev.Value == ValuePress {
			assert.True(t, allowed[ev.Code], "unexpected press of %v", ev.Code)
		}
	}
}

func TestPipelineReleasePairing(t *testing.T) {
	// Every emitted press is eventually matched by a release.
	p := NewPipeline(fullRules())

	got := run(p,
		key(evdev.KEY_J, ValuePress, 0),
		key(evdev.KEY_K, ValuePress, 50),
		key(evdev.KEY_J, ValueRelease, 80),
		key(evdev.KEY_K, ValueRelease, 100),
		key(evdev.KEY_SPACE, ValuePress, 150),
		key(evdev.KEY_H, ValuePress, 170),
		key(evdev.KEY_H, ValueRelease, 190),
		key(evdev.KEY_SPACE, ValueRelease, 210),
	)

	down := map[evdev.EvCode]int{}
	for _, ev := range got {
		switch ev.Value {
		case ValuePress:
			down[ev.Code]++
		case ValueRelease:
			down[ev.Code]--
			assert.GreaterOrEqual(t, down[ev.Code], 0, "release without press for %v", ev.Code)
		}
	}
	for code, n := range down {
		assert.Zero(t, n, "unreleased press of %v", code)
	}
}
