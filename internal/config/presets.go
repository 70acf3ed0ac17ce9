package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"demo": DefaultConfig(),
	"pond": preset(func(c *Config) {
		c.Grid.Rows, c.Grid.Cols = 80, 80
		c.Run.Splash = 1
		c.Run.Duration = 20
		c.Rain.Pattern = "none"
	}),
	"storm": preset(func(c *Config) {
		c.Physics.Damping = 0.6
		c.Run.Duration = 30
		c.Rain.Pattern = "noise"
		c.Rain.Interval = 0.05
		c.Rain.MinMagnitude = 0.5
		c.Rain.MaxMagnitude = 2
	}),
	"calm": preset(func(c *Config) {
		c.Physics.Speed = 2
		c.Physics.Damping = 1.5
		c.Rain.Interval = 1
		c.Rain.MaxMagnitude = 0.3
	}),
	"undamped": preset(func(c *Config) {
		c.Grid.Rows, c.Grid.Cols = 64, 64
		c.Physics.Damping = 0
		c.Run.Splash = 1
		c.Rain.Pattern = "none"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
