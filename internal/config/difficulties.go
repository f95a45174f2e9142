package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/colormatch/assets"
	"github.com/robalobadob/colormatch/internal/game"
)

// Difficulties is the set of playable modes, in file order.
type Difficulties struct {
	order []string
	modes map[string]game.Difficulty
}

type difficultiesFile struct {
	Modes []game.Difficulty `yaml:"modes"`
}

// LoadDifficulties reads presets from path, or the embedded defaults when
// path is empty.
func LoadDifficulties(path string) (*Difficulties, error) {
	if path == "" {
		return ParseDifficulties(assets.Difficulties())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read difficulties: %w", err)
	}
	return ParseDifficulties(data)
}

// ParseDifficulties decodes and validates presets. Every mode must be valid
// and unique; a bad preset fails here, before any board is built.
func ParseDifficulties(data []byte) (*Difficulties, error) {
	var f difficultiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode difficulties: %w", err)
	}
	if len(f.Modes) == 0 {
		return nil, fmt.Errorf("decode difficulties: no modes")
	}

	d := &Difficulties{modes: make(map[string]game.Difficulty, len(f.Modes))}
	for _, m := range f.Modes {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := d.modes[m.Mode]; dup {
			return nil, fmt.Errorf("%w: duplicate mode %q", game.ErrInvalidDifficulty, m.Mode)
		}
		d.modes[m.Mode] = m
		d.order = append(d.order, m.Mode)
	}
	return d, nil
}

// Get returns the preset for mode.
func (d *Difficulties) Get(mode string) (game.Difficulty, bool) {
	m, ok := d.modes[mode]
	return m, ok
}

// All returns the presets in file order.
func (d *Difficulties) All() []game.Difficulty {
	out := make([]game.Difficulty, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.modes[name])
	}
	return out
}

// Default is the first preset.
func (d *Difficulties) Default() game.Difficulty {
	return d.modes[d.order[0]]
}
