// Package config handles mapping configuration loading and resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"

	"github.com/Teliang/lanmai/internal/mapper"
	"github.com/Teliang/lanmai/internal/mappings"
)

// defaultWindowMS applies to double rules that leave window_ms unset.
const defaultWindowMS = 200

// Config is the on-disk mapping configuration. Files may be YAML or JSON;
// JSON parses as a subset of YAML.
type Config struct {
	Single map[string]string `yaml:"single"`
	Double []DoubleRule      `yaml:"double"`
	Meta   *Meta             `yaml:"meta"`
}

// DoubleRule declares a chord: both trigger keys pressed within window_ms
// of each other, in either order, become the emit sequence.
type DoubleRule struct {
	Trigger  []string `yaml:"trigger"`
	Emit     []string `yaml:"emit"`
	WindowMS int      `yaml:"window_ms"`
}

// Meta declares the macro layer entered while meta_key is held.
type Meta struct {
	MetaKey  string              `yaml:"meta_key"`
	Modifier string              `yaml:"modifier"`
	Table    map[string][]string `yaml:"table"`
}

// Load reads configuration from the specified path or default locations.
func Load(configPath string) (*Config, error) {
	var searchPaths []string

	if configPath != "" {
		searchPaths = append(searchPaths, configPath)
	} else {
		// User config directory (use SUDO_USER if running as root via sudo)
		if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
			searchPaths = append(searchPaths,
				filepath.Join("/home", sudoUser, ".config", "lanmai", "config.yaml"),
				filepath.Join("/home", sudoUser, ".config", "lanmai", "config.json"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			searchPaths = append(searchPaths,
				filepath.Join(home, ".config", "lanmai", "config.yaml"),
				filepath.Join(home, ".config", "lanmai", "config.json"))
		}
		searchPaths = append(searchPaths,
			"/etc/lanmai/config.yaml",
			"/etc/lanmai/config.json")
	}

	for _, path := range searchPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		return &cfg, nil
	}

	return nil, fmt.Errorf("no config file found (searched %d locations)", len(searchPaths))
}

// Rules resolves the symbolic key names into evdev codes and validates the
// result. The returned rules are immutable and safe to share across
// workers.
func (c *Config) Rules() (mapper.Rules, error) {
	var rules mapper.Rules

	rules.Single = make(map[evdev.EvCode]evdev.EvCode, len(c.Single))
	for from, to := range c.Single {
		fc, err := resolve(from)
		if err != nil {
			return mapper.Rules{}, fmt.Errorf("single: %w", err)
		}
		tc, err := resolve(to)
		if err != nil {
			return mapper.Rules{}, fmt.Errorf("single %q: %w", from, err)
		}
		rules.Single[fc] = tc
	}

	for i, d := range c.Double {
		r, err := d.resolve()
		if err != nil {
			return mapper.Rules{}, fmt.Errorf("double rule %d: %w", i, err)
		}
		rules.Double = append(rules.Double, r)
	}

	if c.Meta != nil {
		m, err := c.Meta.resolve()
		if err != nil {
			return mapper.Rules{}, fmt.Errorf("meta: %w", err)
		}
		rules.Meta = m
	}

	return rules, nil
}

func (d DoubleRule) resolve() (mapper.DoubleRule, error) {
	if len(d.Trigger) != 2 {
		return mapper.DoubleRule{}, fmt.Errorf("trigger needs exactly two keys, got %d", len(d.Trigger))
	}
	if len(d.Emit) == 0 {
		return mapper.DoubleRule{}, fmt.Errorf("emit must not be empty")
	}
	if d.WindowMS < 0 {
		return mapper.DoubleRule{}, fmt.Errorf("window_ms must not be negative, got %d", d.WindowMS)
	}

	var r mapper.DoubleRule
	for i, name := range d.Trigger {
		code, err := resolve(name)
		if err != nil {
			return mapper.DoubleRule{}, err
		}
		r.Keys[i] = code
	}
	if r.Keys[0] == r.Keys[1] {
		return mapper.DoubleRule{}, fmt.Errorf("trigger keys must be distinct, got %q twice", d.Trigger[0])
	}

	for _, name := range d.Emit {
		code, err := resolve(name)
		if err != nil {
			return mapper.DoubleRule{}, err
		}
		r.Emit = append(r.Emit, code)
	}

	window := d.WindowMS
	if window == 0 {
		window = defaultWindowMS
	}
	r.Window = time.Duration(window) * time.Millisecond

	return r, nil
}

func (m Meta) resolve() (mapper.MetaRule, error) {
	if m.MetaKey == "" || m.Modifier == "" {
		return mapper.MetaRule{}, fmt.Errorf("meta_key and modifier are required")
	}

	var r mapper.MetaRule
	var err error
	if r.MetaKey, err = resolve(m.MetaKey); err != nil {
		return mapper.MetaRule{}, err
	}
	if r.Modifier, err = resolve(m.Modifier); err != nil {
		return mapper.MetaRule{}, err
	}

	r.Table = make(map[evdev.EvCode][]evdev.EvCode, len(m.Table))
	for from, seq := range m.Table {
		fc, err := resolve(from)
		if err != nil {
			return mapper.MetaRule{}, err
		}
		if len(seq) == 0 {
			return mapper.MetaRule{}, fmt.Errorf("table %q: expansion must not be empty", from)
		}
		var codes []evdev.EvCode
		for _, name := range seq {
			code, err := resolve(name)
			if err != nil {
				return mapper.MetaRule{}, fmt.Errorf("table %q: %w", from, err)
			}
			if code == r.MetaKey {
				return mapper.MetaRule{}, fmt.Errorf("table %q: expansion must not contain the meta key %q", from, m.MetaKey)
			}
			codes = append(codes, code)
		}
		r.Table[fc] = codes
	}

	return r, nil
}

func resolve(name string) (evdev.EvCode, error) {
	code, ok := mappings.Code(name)
	if !ok {
		return 0, fmt.Errorf("unknown key name %q", name)
	}
	return code, nil
}
