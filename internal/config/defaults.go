package config

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapcode/pkg/codeview"
)

// Default configuration values.
const (
	DefaultTargetType = "duckdb"
	DefaultStyle      = "monokai"
	DefaultUIPort     = 8766
)

var defaultSchemas = map[string]string{
	"duckdb":   "main",
	"postgres": "public",
	"sqlite":   "main",
}

// DefaultSchemaForType returns the default schema for a database type,
// falling back to "main".
func DefaultSchemaForType(dbType string) string {
	if s, ok := defaultSchemas[strings.ToLower(dbType)]; ok {
		return s
	}
	return "main"
}

// ApplyDefaults fills unset fields of c, including its target.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Code.FlagKey == "" {
		c.Code.FlagKey = codeview.DefaultCodeKey
	}
	if c.Code.LanguageKey == "" {
		c.Code.LanguageKey = codeview.DefaultLanguageKey
	}
	if c.Code.DefaultLanguage == "" {
		c.Code.DefaultLanguage = codeview.DefaultLanguage
	}
	if c.Render.Style == "" {
		c.Render.Style = DefaultStyle
	}
	if c.UI.Port == 0 {
		c.UI.Port = DefaultUIPort
	}
	ApplyTargetDefaults(c.Target)
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	if strings.EqualFold(t.Type, "postgres") && t.Port == 0 {
		t.Port = 5432
	}
}

// ResolveViewPaths makes relative view file paths relative to root.
func ResolveViewPaths(c *ProjectConfig, root string) {
	for id, v := range c.Views {
		if v.File != "" && !filepath.IsAbs(v.File) {
			v.File = filepath.Join(root, v.File)
			c.Views[id] = v
		}
	}
}
