package sapling

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunConfig configures the window and frame loop used by Run. It can be
// loaded from YAML:
//
//	title: Rig viewer
//	width: 1280
//	height: 720
//	tps: 60
//	pixels_per_unit: 96
//	debug: false
//	show_stats: true
type RunConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TPS           int     `yaml:"tps"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	Debug         bool    `yaml:"debug"`
	ShowStats     bool    `yaml:"show_stats"`
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "sapling",
		Width:         1280,
		Height:        720,
		TPS:           60,
		PixelsPerUnit: defaultPixelsPerUnit,
	}
}

// ParseRunConfig decodes YAML on top of DefaultRunConfig and validates the
// result. Unknown keys are rejected.
func ParseRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, errors.Wrap(err, "parse run config")
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// LoadRunConfig reads and parses a YAML run configuration file.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "read run config %q", path)
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "load run config %q", path)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c RunConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return errors.Errorf("invalid tps %d", c.TPS)
	}
	if c.PixelsPerUnit <= 0 {
		return errors.Errorf("invalid pixels_per_unit %v", c.PixelsPerUnit)
	}
	return nil
}
