package mappings

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		in   string
		want evdev.EvCode
		ok   bool
	}{
		{"esc", evdev.KEY_ESC, true},
		{"ESC", evdev.KEY_ESC, true},
		{"KEY_ESC", evdev.KEY_ESC, true},
		{" capslock ", evdev.KEY_CAPSLOCK, true},
		{"left", evdev.KEY_LEFT, true},
		{"f11", evdev.KEY_F11, true},
		{"notakey", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		code, ok := Code(tt.in)
		assert.Equal(t, tt.ok, ok, "Code(%q)", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, code, "Code(%q)", tt.in)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	for name, code := range nameToCode {
		assert.Equal(t, name, Name(code), "round trip for %q", name)
	}
	assert.Empty(t, Name(evdev.KEY_KP0))
}
