package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcode/pkg/core"

	_ "github.com/leapstack-labs/leapcode/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapcode/pkg/adapters/sqlite"
)

const projectYAML = `
target:
  type: sqlite
  database: app.db
code:
  flag_key: code
render:
  style: github
views:
  snippet:
    file: fixtures/snippet.yaml
  report:
    queries:
      - name: body
        sql: SELECT body FROM reports
        metadata:
          isCode: true
          language: sql
`

func writeProject(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, projectYAML)

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, "code", cfg.Code.FlagKey)
	assert.Equal(t, "language", cfg.Code.LanguageKey)
	assert.Equal(t, "plaintext", cfg.Code.DefaultLanguage)
	assert.Equal(t, "github", cfg.Render.Style)
	assert.Equal(t, DefaultUIPort, cfg.UI.Port)

	assert.Equal(t, []string{"report", "snippet"}, cfg.ViewIDs())

	snippet, ok := cfg.View("snippet")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "fixtures", "snippet.yaml"), snippet.File)

	report, _ := cfg.View("report")
	require.Len(t, report.Queries, 1)
	assert.Equal(t, "sql", report.Queries[0].Metadata["language"])
	assert.Equal(t, true, report.Queries[0].Metadata["isCode"])
}

func TestLoadFromDir_NoFile(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDir_DefaultTarget(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "views: {}\n")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetType, cfg.Target.Type)
	assert.Equal(t, DefaultStyle, cfg.Render.Style)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, projectYAML)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Empty(t, FindProjectRoot(t.TempDir()))
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  *TargetConfig
		wantErr string
	}{
		{"nil", nil, "target type is required"},
		{"empty type", &TargetConfig{}, "target type is required"},
		{"duckdb", &TargetConfig{Type: "duckdb"}, ""},
		{"case insensitive", &TargetConfig{Type: "SQLite"}, ""},
		{"unknown", &TargetConfig{Type: "oracle"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateViews(t *testing.T) {
	tests := []struct {
		name    string
		views   map[string]core.ViewConfig
		wantErr string
	}{
		{"none", nil, ""},
		{"file only", map[string]core.ViewConfig{"a": {File: "a.yaml"}}, ""},
		{"no source", map[string]core.ViewConfig{"a": {}}, `view "a" has no file or queries`},
		{
			name:    "blank sql",
			views:   map[string]core.ViewConfig{"a": {Queries: []core.QueryConfig{{Name: "q", SQL: "  "}}}},
			wantErr: `view "a" query 0 (q) has no sql`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ProjectConfig{Views: tt.views}
			err := cfg.ValidateViews()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestDefaultSchemaForType(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{"duckdb", "main"},
		{"Postgres", "public"},
		{"sqlite", "main"},
		{"unknown", "main"},
		{"", "main"},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSchemaForType(tt.dbType))
		})
	}
}

func TestCodeOptions(t *testing.T) {
	cfg := &ProjectConfig{}
	ApplyDefaults(cfg)

	opts := cfg.CodeOptions(nil)
	assert.Equal(t, "isCode", opts.CodeKey)
	assert.Equal(t, "language", opts.LanguageKey)
	assert.Equal(t, "plaintext", opts.DefaultLanguage)
}
