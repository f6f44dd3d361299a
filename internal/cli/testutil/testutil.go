// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
)

const projectConfig = `target:
  type: sqlite
views:
  snippet:
    file: results/snippet.yaml
  greeting:
    queries:
      - name: greeting
        sql: SELECT 'print("hi")' AS code
        metadata:
          isCode: true
          language: python
  plain:
    file: results/plain.yaml
`

const snippetTables = `tables:
  - columns:
      - name: n
        values: [1, 2]
  - metadata:
      isCode: true
      language: go
    columns:
      - name: body
        values: ["package main\n\nfunc main() {}\n"]
`

const plainTables = `tables:
  - columns:
      - name: n
        values: [1]
`

// SetupTestProject creates a temporary project with a leapcode.yaml and
// three views: snippet (file, Go code), greeting (SQLite query, Python
// code) and plain (file, no code table).
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	resultsDir := filepath.Join(tmpDir, "results")
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", resultsDir, err)
	}

	files := map[string]string{
		filepath.Join(tmpDir, "leapcode.yaml"):    projectConfig,
		filepath.Join(resultsDir, "snippet.yaml"): snippetTables,
		filepath.Join(resultsDir, "plain.yaml"):   plainTables,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	return tmpDir
}

// ExecuteCommand runs cmd with args and returns what it wrote to stdout
// and stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// GetTestdataDir returns the path to the testdata directory.
func GetTestdataDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Try different relative paths based on where tests are run from
	candidates := []string{
		filepath.Join(wd, "testdata"),
		filepath.Join(wd, "..", "testdata"),
		filepath.Join(wd, "..", "..", "testdata"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	t.Fatalf("testdata directory not found, tried: %v", candidates)
	return ""
}
