package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific target options, decoded from the target's
// params block.
type Params struct {
	// Extensions to install and load, e.g. "httpfs" or "json".
	Extensions []string `mapstructure:"extensions"`

	Secrets []SecretConfig `mapstructure:"secrets"`

	// Settings are applied with SET after connecting, in key order.
	Settings map[string]string `mapstructure:"settings"`
}

// SecretConfig describes a DuckDB secret for remote file access.
type SecretConfig struct {
	Type     string `mapstructure:"type"`
	Provider string `mapstructure:"provider"`
	Region   string `mapstructure:"region"`
	// Scope is a single path or a list of paths.
	Scope    any    `mapstructure:"scope"`
	KeyID    string `mapstructure:"key_id"`
	Secret   string `mapstructure:"secret"`
	Endpoint string `mapstructure:"endpoint"`
	URLStyle string `mapstructure:"url_style"`
	UseSSL   *bool  `mapstructure:"use_ssl"`
}

// parseParams decodes raw target params. Nil or empty input yields an
// empty Params.
func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}

	for i, s := range p.Secrets {
		if s.Type == "" {
			return nil, fmt.Errorf("invalid duckdb params: secret %d has no type", i)
		}
	}
	return p, nil
}
