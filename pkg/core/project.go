package core

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, sqlite

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the connection settings adapters consume.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Schema:   t.Schema,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// CodeConfig controls how code-bearing tables are recognised.
type CodeConfig struct {
	// FlagKey is the metadata key whose true value marks a table as code.
	FlagKey string `koanf:"flag_key"`

	// LanguageKey is the metadata key holding the highlighting language hint.
	LanguageKey string `koanf:"language_key"`

	// DefaultLanguage is used when a table carries no language hint.
	DefaultLanguage string `koanf:"default_language"`
}

// QueryConfig describes one SQL statement whose result becomes a ResultTable.
type QueryConfig struct {
	Name     string         `koanf:"name"`
	SQL      string         `koanf:"sql"`
	Metadata map[string]any `koanf:"metadata"`
}

// ViewConfig describes where the result tables of one view come from.
// File-sourced tables precede query results.
type ViewConfig struct {
	File    string        `koanf:"file"`
	Queries []QueryConfig `koanf:"queries"`
}
