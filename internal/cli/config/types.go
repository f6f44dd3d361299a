// Package config provides configuration management for the leapcode CLI.
//
// It layers defaults, leapcode.yaml, LEAPCODE_* environment variables and
// command-line flags on top of the shared project types in internal/config.
package config

import (
	intconfig "github.com/leapstack-labs/leapcode/internal/config"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// CodeConfig is an alias for the shared code-detection configuration.
type CodeConfig = core.CodeConfig

// ViewConfig is an alias for the shared view configuration.
type ViewConfig = core.ViewConfig

// RenderConfig is an alias for the shared render configuration.
type RenderConfig = intconfig.RenderConfig

// UIConfig is an alias for the shared UI configuration.
type UIConfig = intconfig.UIConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string                `koanf:"-"`
	Environment  string                `koanf:"environment"`
	Verbose      bool                  `koanf:"verbose"`
	Format       string                `koanf:"format"`
	Target       *TargetConfig         `koanf:"target"`
	Code         CodeConfig            `koanf:"code"`
	Render       RenderConfig          `koanf:"render"`
	UI           UIConfig              `koanf:"ui"`
	Views        map[string]ViewConfig `koanf:"views"`
	Environments map[string]EnvConfig  `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Default configuration values.
const (
	DefaultEnv    = "dev"
	DefaultFormat = FormatText
)

// Project returns the shared project view of c.
func (c *Config) Project() *intconfig.ProjectConfig {
	return &intconfig.ProjectConfig{
		Target: c.Target,
		Code:   c.Code,
		Render: c.Render,
		UI:     c.UI,
		Views:  c.Views,
	}
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	cfg := &Config{
		Environment: DefaultEnv,
		Format:      DefaultFormat,
		Target:      &TargetConfig{Type: intconfig.DefaultTargetType},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	p := c.Project()
	intconfig.ApplyDefaults(p)
	c.Code, c.Render, c.UI = p.Code, p.Render, p.UI
}
