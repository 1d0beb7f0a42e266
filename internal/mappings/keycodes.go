// Package mappings resolves symbolic key names to evdev key codes.
package mappings

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// nameToCode covers the keys a remapping config can plausibly name: the main
// block, modifiers, function keys and the nav cluster. Names follow the
// kernel's input-event-code names, lowercased and without the KEY_ prefix.
var nameToCode = map[string]evdev.EvCode{
	"esc":        evdev.KEY_ESC,
	"1":          evdev.KEY_1,
	"2":          evdev.KEY_2,
	"3":          evdev.KEY_3,
	"4":          evdev.KEY_4,
	"5":          evdev.KEY_5,
	"6":          evdev.KEY_6,
	"7":          evdev.KEY_7,
	"8":          evdev.KEY_8,
	"9":          evdev.KEY_9,
	"0":          evdev.KEY_0,
	"minus":      evdev.KEY_MINUS,
	"equal":      evdev.KEY_EQUAL,
	"backspace":  evdev.KEY_BACKSPACE,
	"tab":        evdev.KEY_TAB,
	"q":          evdev.KEY_Q,
	"w":          evdev.KEY_W,
	"e":          evdev.KEY_E,
	"r":          evdev.KEY_R,
	"t":          evdev.KEY_T,
	"y":          evdev.KEY_Y,
	"u":          evdev.KEY_U,
	"i":          evdev.KEY_I,
	"o":          evdev.KEY_O,
	"p":          evdev.KEY_P,
	"leftbrace":  evdev.KEY_LEFTBRACE,
	"rightbrace": evdev.KEY_RIGHTBRACE,
	"enter":      evdev.KEY_ENTER,
	"leftctrl":   evdev.KEY_LEFTCTRL,
	"a":          evdev.KEY_A,
	"s":          evdev.KEY_S,
	"d":          evdev.KEY_D,
	"f":          evdev.KEY_F,
	"g":          evdev.KEY_G,
	"h":          evdev.KEY_H,
	"j":          evdev.KEY_J,
	"k":          evdev.KEY_K,
	"l":          evdev.KEY_L,
	"semicolon":  evdev.KEY_SEMICOLON,
	"apostrophe": evdev.KEY_APOSTROPHE,
	"grave":      evdev.KEY_GRAVE,
	"leftshift":  evdev.KEY_LEFTSHIFT,
	"backslash":  evdev.KEY_BACKSLASH,
	"z":          evdev.KEY_Z,
	"x":          evdev.KEY_X,
	"c":          evdev.KEY_C,
	"v":          evdev.KEY_V,
	"b":          evdev.KEY_B,
	"n":          evdev.KEY_N,
	"m":          evdev.KEY_M,
	"comma":      evdev.KEY_COMMA,
	"dot":        evdev.KEY_DOT,
	"slash":      evdev.KEY_SLASH,
	"rightshift": evdev.KEY_RIGHTSHIFT,
	"kpasterisk": evdev.KEY_KPASTERISK,
	"leftalt":    evdev.KEY_LEFTALT,
	"space":      evdev.KEY_SPACE,
	"capslock":   evdev.KEY_CAPSLOCK,
	"f1":         evdev.KEY_F1,
	"f2":         evdev.KEY_F2,
	"f3":         evdev.KEY_F3,
	"f4":         evdev.KEY_F4,
	"f5":         evdev.KEY_F5,
	"f6":         evdev.KEY_F6,
	"f7":         evdev.KEY_F7,
	"f8":         evdev.KEY_F8,
	"f9":         evdev.KEY_F9,
	"f10":        evdev.KEY_F10,
	"f11":        evdev.KEY_F11,
	"f12":        evdev.KEY_F12,
	"numlock":    evdev.KEY_NUMLOCK,
	"scrolllock": evdev.KEY_SCROLLLOCK,
	"102nd":      evdev.KEY_102ND,
	"kpenter":    evdev.KEY_KPENTER,
	"rightctrl":  evdev.KEY_RIGHTCTRL,
	"kpslash":    evdev.KEY_KPSLASH,
	"sysrq":      evdev.KEY_SYSRQ,
	"rightalt":   evdev.KEY_RIGHTALT,
	"home":       evdev.KEY_HOME,
	"up":         evdev.KEY_UP,
	"pageup":     evdev.KEY_PAGEUP,
	"left":       evdev.KEY_LEFT,
	"right":      evdev.KEY_RIGHT,
	"end":        evdev.KEY_END,
	"down":       evdev.KEY_DOWN,
	"pagedown":   evdev.KEY_PAGEDOWN,
	"insert":     evdev.KEY_INSERT,
	"delete":     evdev.KEY_DELETE,
	"pause":      evdev.KEY_PAUSE,
	"leftmeta":   evdev.KEY_LEFTMETA,
	"rightmeta":  evdev.KEY_RIGHTMETA,
	"compose":    evdev.KEY_COMPOSE,
}

// codeToName is the reverse mapping.
var codeToName map[evdev.EvCode]string

func init() {
	codeToName = make(map[evdev.EvCode]string, len(nameToCode))
	for name, code := range nameToCode {
		codeToName[code] = name
	}
}

// Code resolves a symbolic key name. Lookup is case-insensitive and accepts
// an optional KEY_ prefix, so "esc", "ESC" and "KEY_ESC" all resolve.
func Code(name string) (evdev.EvCode, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "key_")
	code, ok := nameToCode[n]
	return code, ok
}

// Name returns the symbolic name for code, or "" if it is not in the table.
func Name(code evdev.EvCode) string {
	return codeToName[code]
}
