// Package config provides the shared project configuration types for leapcode.
// It is decoupled from CLI concerns so the web UI and TUI can load a project
// without going through cobra.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapcode/pkg/adapter"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// RenderConfig controls terminal and HTML rendering of code.
type RenderConfig struct {
	// Style is a chroma style name, e.g. "monokai" or "github".
	Style string `koanf:"style"`

	// Width is the wrap width in columns. Zero means the terminal width.
	Width int `koanf:"width"`
}

// UIConfig holds configuration for the web UI server.
type UIConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// ProjectConfig holds everything needed to load and display views.
type ProjectConfig struct {
	Target *TargetConfig              `koanf:"target"`
	Code   core.CodeConfig            `koanf:"code"`
	Render RenderConfig               `koanf:"render"`
	UI     UIConfig                   `koanf:"ui"`
	Views  map[string]core.ViewConfig `koanf:"views"`
}

// ValidateTarget checks that t names a registered adapter.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// View returns the view configured under id.
func (c *ProjectConfig) View(id string) (core.ViewConfig, bool) {
	v, ok := c.Views[id]
	return v, ok
}

// ViewIDs returns the configured view ids in sorted order.
func (c *ProjectConfig) ViewIDs() []string {
	ids := make([]string, 0, len(c.Views))
	for id := range c.Views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CodeOptions builds the pipeline options from the code section.
func (c *ProjectConfig) CodeOptions(logger *slog.Logger) codeview.Options {
	return codeview.Options{
		CodeKey:         c.Code.FlagKey,
		LanguageKey:     c.Code.LanguageKey,
		DefaultLanguage: c.Code.DefaultLanguage,
		Logger:          logger,
	}
}

// ValidateViews checks that every view has at least one source and that
// every query carries SQL.
func (c *ProjectConfig) ValidateViews() error {
	for _, id := range c.ViewIDs() {
		v := c.Views[id]
		if v.File == "" && len(v.Queries) == 0 {
			return fmt.Errorf("view %q has no file or queries", id)
		}
		for i, q := range v.Queries {
			if strings.TrimSpace(q.SQL) == "" {
				return fmt.Errorf("view %q query %d (%s) has no sql", id, i, q.Name)
			}
		}
	}
	return nil
}
