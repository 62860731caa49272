package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smasonuk/gosubdiv"
)

// Config holds everything a refinement run needs. It can come from a YAML
// file, positional arguments and flags, in increasing priority.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Target int    `yaml:"target"`
	Format string `yaml:"format"`
	Debug  bool   `yaml:"debug"`
}

func loadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return cfg, nil
}

// outputFormat is the explicit format if one was given, otherwise OBJ, which
// keeps the exact coordinates of every round whatever the input was.
func (c Config) outputFormat() (gosubdiv.Format, error) {
	if c.Format != "" {
		return gosubdiv.ParseFormat(c.Format)
	}
	return gosubdiv.FormatOBJ, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input mesh is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output prefix is required"))
	}
	if c.Target <= 0 {
		errs = append(errs, fmt.Errorf("target must be positive, got %d", c.Target))
	}
	if _, err := c.outputFormat(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
