package app

import "flag"

// Config represents the command-line parameters for the application.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	ConfigPath string
	HUDWidth   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "sandbox", Scale: 4, TPS: 60, Seed: 1337, HUDWidth: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML world configuration")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the side panel in pixels (0 hides it)")
}

// SimConfig returns the key/value map handed to the simulation factory.
func (c *Config) SimConfig() map[string]string {
	m := map[string]string{}
	if c.ConfigPath != "" {
		m["config"] = c.ConfigPath
	}
	return m
}
