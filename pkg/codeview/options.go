package codeview

import "log/slog"

// Default metadata keys and language.
const (
	DefaultCodeKey     = "isCode"
	DefaultLanguageKey = "language"
	DefaultLanguage    = "plaintext"
)

// Options configures the pipeline. The zero value uses the defaults above
// and discards anomaly logs.
type Options struct {
	// CodeKey is the metadata key marking a table as code.
	CodeKey string

	// LanguageKey is the metadata key holding the language hint.
	LanguageKey string

	// DefaultLanguage is returned when a table has no language hint.
	DefaultLanguage string

	// Logger receives anomaly reports. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.CodeKey == "" {
		o.CodeKey = DefaultCodeKey
	}
	if o.LanguageKey == "" {
		o.LanguageKey = DefaultLanguageKey
	}
	if o.DefaultLanguage == "" {
		o.DefaultLanguage = DefaultLanguage
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
