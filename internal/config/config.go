package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath    string `yaml:"input"`
	FramesDir    string `yaml:"frames_dir"`
	OutputPath   string `yaml:"output"`
	ReportPath   string `yaml:"report"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Threshold    int    `yaml:"threshold"`
	DPI          int    `yaml:"dpi"`
	Workers      int    `yaml:"workers"`
	Strategy     string `yaml:"strategy"`
	QR           bool   `yaml:"qr"`
	Compress     bool   `yaml:"compress"`
	Preview      bool   `yaml:"preview"`
	Verify       bool   `yaml:"verify"`
	ShowStats    bool   `yaml:"stats"`
	BenchmarkLog string `yaml:"benchmark_log"`
	BuildVersion string `yaml:"-"`
}

// Default returns the frame pipeline defaults: 120x90
// rasters, pixels darker than 10 are foreground.
func Default() *Config {
	return &Config{
		Width:        120,
		Height:       90,
		Threshold:    10,
		DPI:          72,
		Workers:      runtime.NumCPU(),
		Strategy:     "auto",
		BenchmarkLog: "benchmark.log",
	}
}

// Load reads a YAML config file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid raster size %dx%d", c.Width, c.Height)
	}
	if c.Threshold < 0 || c.Threshold > 256 {
		return fmt.Errorf("threshold %d out of range 0..256", c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
