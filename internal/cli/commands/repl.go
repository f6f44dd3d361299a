package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/pkg/adapter"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

const (
	replPrompt     = "leapcode> "
	replContPrompt = "     ...> "
	historyFile    = ".leapcode_history"
)

// ReplOptions holds options for the repl command.
type ReplOptions struct {
	Language string
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	opts := &ReplOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Run queries and show their result as code",
		Long: `Start an interactive session against the target database.

Every statement's result is flagged as code, so its first value is shown
highlighted with line numbers. Use it to inspect generated SQL, stored
procedures, or any text column.`,
		Example: `  # Show a view definition from DuckDB
  leapcode repl --language sql
  leapcode> SELECT sql FROM duckdb_views() WHERE view_name = 'orders';`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Language, "language", "l", "", "Language hint attached to every result")

	return cmd
}

func runREPL(cmd *cobra.Command, opts *ReplOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(cmdCtx.Cfg.ProjectRoot, historyFile),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	session := &replSession{
		adapter:  cmdCtx.Adapter,
		opts:     codeOptions(cmdCtx.Cfg, cmdCtx.Logger),
		language: opts.Language,
		renderer: render.NewTerminal(out, cmdCtx.Cfg.Render.Style, cmdCtx.Cfg.Render.Width),
		out:      out,
		errOut:   cmd.ErrOrStderr(),
	}

	_, _ = fmt.Fprintf(out, "LeapCode REPL (%s)\n", cmdCtx.Cfg.Target.Type)
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	ctx := cmd.Context()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		quit := session.handleLine(ctx, line)
		if quit {
			return nil
		}
		if session.pending() {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// replSession executes REPL input and keeps the results of the session.
type replSession struct {
	adapter  core.Adapter
	opts     codeview.Options
	language string
	renderer *render.Terminal
	out      io.Writer
	errOut   io.Writer

	buf     strings.Builder
	results []core.ResultTable
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) reset() { s.buf.Reset() }

// handleLine processes one input line and reports whether to quit.
// SQL accumulates until a line ends with a semicolon.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !s.pending() && strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return false
	}

	query := strings.TrimSuffix(s.buf.String(), ";")
	s.buf.Reset()

	if err := s.execute(ctx, query); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false
}

// execute runs query and shows its result through the code pipeline.
func (s *replSession) execute(ctx context.Context, query string) error {
	opts := s.opts
	if opts.CodeKey == "" {
		opts.CodeKey = codeview.DefaultCodeKey
	}
	if opts.LanguageKey == "" {
		opts.LanguageKey = codeview.DefaultLanguageKey
	}

	meta := core.Metadata{opts.CodeKey: true}
	if s.language != "" {
		meta[opts.LanguageKey] = s.language
	}

	table, err := adapter.QueryTable(ctx, s.adapter, query, meta)
	if err != nil {
		return err
	}
	s.results = append(s.results, table)

	state := codeview.Prepare([]core.ResultTable{table}, s.opts)
	return s.renderer.Render(s.out, state)
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".language":
		if len(parts) < 2 {
			current := s.language
			if current == "" {
				current = "(from results)"
			}
			_, _ = fmt.Fprintf(s.out, "language: %s\n", current)
			return false
		}
		s.language = parts[1]
		if strings.EqualFold(s.language, "none") {
			s.language = ""
		}

	case ".results":
		render.Tables(s.out, s.results, s.opts, s.renderer.Color)

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .language [name]  Show or set the language hint (none to clear)
  .results          List the results of this session
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - The first column of the first row is shown as code
`
	_, _ = fmt.Fprintln(w, help)
}

// newDotCompleter creates a readline completer for dot-commands.
func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".language"),
		readline.PcItem(".results"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
