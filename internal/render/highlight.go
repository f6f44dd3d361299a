package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Lexer returns the chroma lexer for a language hint, falling back to
// plain text for unknown or empty hints.
func Lexer(lang string) chroma.Lexer {
	l := lexers.Get(strings.TrimSpace(lang))
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Style returns the named chroma style or the fallback style.
func Style(name string) *chroma.Style {
	if name == "" {
		name = DefaultStyle
	}
	return styles.Get(name)
}

// KnownLanguage reports whether chroma has a lexer for lang.
func KnownLanguage(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang != "" && lexers.Get(lang) != nil
}

var titleCaser = cases.Title(language.English)

// LanguageLabel returns a display label for a language hint, e.g.
// "python" -> "Python". Lexer names are preferred over the raw hint.
func LanguageLabel(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	if l := lexers.Get(lang); l != nil {
		if cfg := l.Config(); cfg != nil && cfg.Name != "" {
			return cfg.Name
		}
	}
	return titleCaser.String(lang)
}

// tokenLines tokenises text and splits the tokens into lines.
// A single trailing newline does not produce an empty last line.
func tokenLines(text, lang string) ([][]chroma.Token, error) {
	it, err := Lexer(lang).Tokenise(nil, strings.TrimSuffix(text, "\n"))
	if err != nil {
		return nil, err
	}
	return chroma.SplitTokensIntoLines(it.Tokens()), nil
}
