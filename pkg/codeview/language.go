package codeview

import "github.com/leapstack-labs/leapcode/pkg/core"

// ResolveLanguage returns the language hint stored in table's metadata, or
// the configured default when the hint is missing, empty or not a string.
// The hint is returned verbatim; case-insensitive matching is the renderer's job.
func ResolveLanguage(table core.ResultTable, opts Options) string {
	opts = opts.withDefaults()
	if v, ok := table.Meta(opts.LanguageKey); ok {
		if lang, ok := v.(string); ok && lang != "" {
			return lang
		}
	}
	return opts.DefaultLanguage
}
