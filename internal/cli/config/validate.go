package config

import (
	"fmt"

	intconfig "github.com/leapstack-labs/leapcode/internal/config"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (expected text, html or json)", c.Format)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("render.width must not be negative")
	}
	return c.Project().ValidateViews()
}

// View returns the view configured under id, with a hint listing the
// configured views when it is missing.
func (c *Config) View(id string) (ViewConfig, error) {
	p := c.Project()
	v, ok := p.View(id)
	if !ok {
		return ViewConfig{}, fmt.Errorf("unknown view %q\nAvailable views: %v\nHint: Define it under views in %s",
			id, p.ViewIDs(), intconfig.ConfigFileName)
	}
	return v, nil
}
