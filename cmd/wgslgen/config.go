package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/gogpu/wgslgen"
	"github.com/gogpu/wgslgen/wgsl"
)

// defaultConfigFile is read when -config is not given. It may be missing.
const defaultConfigFile = "wgslgen.toml"

// config is the wgslgen.toml file.
type config struct {
	EntryPoint   string `toml:"entry-point"`
	PointerWidth int    `toml:"pointer-width" default:"8"`
	Validate     bool   `toml:"validate" default:"true"`
	Check        bool   `toml:"check" default:"true"`
	Parallelism  int    `toml:"parallelism"`
	OutputDir    string `toml:"output-dir"`
}

// loadConfig reads path. A missing default file yields the defaults.
func loadConfig(path string, explicit bool) (*config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		data, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *config) validate() error {
	switch c.PointerWidth {
	case 4, 8:
	default:
		return fmt.Errorf("pointer-width must be 4 or 8, got %d", c.PointerWidth)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	return nil
}

func (c *config) wgslOptions() *wgsl.Options {
	return &wgsl.Options{EntryPoint: c.EntryPoint, PointerWidth: uint8(c.PointerWidth)} //nolint:gosec // validated to be 4 or 8
}

func (c *config) compileOptions() wgslgen.CompileOptions {
	return wgslgen.CompileOptions{
		Validate:    c.Validate,
		Check:       c.Check,
		Parallelism: c.Parallelism,
	}
}
