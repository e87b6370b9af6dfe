package report

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/rect2query/internal/decompose"
)

// Report describes how every frame of a batch was decomposed
type Report struct {
	Version string  `yaml:"version"`
	Input   string  `yaml:"input"`
	Frames  []Frame `yaml:"frames"`
}

// Frame is the decomposition chosen for one raster
type Frame struct {
	Index    int              `yaml:"index"`
	Name     string           `yaml:"name"`
	Width    int              `yaml:"width"`
	Height   int              `yaml:"height"`
	Cells    int              `yaml:"cells"`             // Foreground cells in the raster
	Strategy string           `yaml:"strategy"`
	Length   int              `yaml:"length"`            // Encoded query length in bytes
	Lengths  map[string]int   `yaml:"lengths,omitempty"` // Per-strategy encoded lengths
	Rects    []decompose.Rect `yaml:"rects,flow"`
}

// Write writes a report to a YAML file
func Write(r *Report, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a report from a YAML file
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}
