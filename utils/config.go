package utils

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// Interval clamp bounds, shared with the interactive speed controls
const (
	MinInterval = 50 * time.Millisecond
	MaxInterval = 2 * time.Second
)

// Config holds the configuration for the simulation and its shell
type Config struct {
	Width               int           `json:"width"`
	Height              int           `json:"height"`
	Boundary            string        `json:"boundary"`
	UpdateInterval      time.Duration `json:"update_interval"`
	FrameRate           time.Duration `json:"frame_rate"`
	TickTimeout         time.Duration `json:"tick_timeout"`
	MaxWidth            int           `json:"max_width"`
	MaxHeight           int           `json:"max_height"`
	Workers             int           `json:"workers"`
	RandomDensity       float64       `json:"random_density"`
	Seed                int64         `json:"seed"`
	AutoRestart         bool          `json:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	MaxGenerations      int           `json:"max_generations"`
	Headless            bool          `json:"headless"`
	PatternDir          string        `json:"pattern_dir"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               60,
		Height:              30,
		Boundary:            "finite",
		UpdateInterval:      150 * time.Millisecond,
		FrameRate:           33 * time.Millisecond,
		TickTimeout:         2 * time.Second,
		MaxWidth:            512,
		MaxHeight:           512,
		Workers:             0, // 0 resolves to runtime.NumCPU
		RandomDensity:       0.15,
		Seed:                0,
		AutoRestart:         true,
		StagnationThreshold: 5,
		MaxGenerations:      1000,
		Headless:            false,
		PatternDir:          "",
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Bind registers command line overrides for the fields worth touching
// per run
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "board width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "board height in cells")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "boundary mode: finite, toroidal or infinite")
	fs.DurationVar(&c.UpdateInterval, "interval", c.UpdateInterval, "delay between generations")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "initial random fill density")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one")
	fs.IntVar(&c.Workers, "workers", c.Workers, "actor pool size, 0 uses all CPUs")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "run without the terminal UI")
	fs.IntVar(&c.MaxGenerations, "generations", c.MaxGenerations, "generation budget for headless runs")
	fs.StringVar(&c.PatternDir, "patterns", c.PatternDir, "directory for saved RLE patterns")
}

// Normalize clamps out-of-range values and resolves derived defaults in
// place
func (c *Config) Normalize() {
	if c.Width < 1 {
		c.Width = 1
	}
	if c.Height < 1 {
		c.Height = 1
	}
	if c.MaxWidth > 0 && c.Width > c.MaxWidth {
		c.Width = c.MaxWidth
	}
	if c.MaxHeight > 0 && c.Height > c.MaxHeight {
		c.Height = c.MaxHeight
	}
	if c.RandomDensity < 0 {
		c.RandomDensity = 0
	}
	if c.RandomDensity > 1 {
		c.RandomDensity = 1
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.UpdateInterval < MinInterval {
		c.UpdateInterval = MinInterval
	}
	if c.UpdateInterval > MaxInterval {
		c.UpdateInterval = MaxInterval
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 33 * time.Millisecond
	}
	if c.TickTimeout <= 0 {
		c.TickTimeout = 2 * time.Second
	}
	if c.StagnationThreshold < 1 {
		c.StagnationThreshold = 1
	}
	if c.MaxGenerations < 1 {
		c.MaxGenerations = 1
	}
}
