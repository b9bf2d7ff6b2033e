// Package repl implements the interactive prompt for evaluating call
// specs against a loaded CSV table.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/log"
	"github.com/ardnew/tally/table"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this cruft
  list         List registry functions
  columns      List loaded table columns
  use [col..]  Select columns to summarize (no args: all)
  load <file>  Load a CSV table
  args [kw..]  Show or set keyword arguments (e.g. args trim: 0.1)
  clear        Clear screen
  quit         Exit

Usage:
  Type a call spec to evaluate it over the selected columns
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the eval echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Options configures the prompt session.
type Options struct {
	Table    *table.Table // initial table, may be nil
	Columns  []string     // selected columns, empty for all
	Args     call.Args    // keyword arguments merged into every spec
	CacheDir string       // directory holding the history file
	Logger   log.Logger
	ReadOpts []table.Option // options for tables loaded with ':load'
}

// model is the Bubble Tea model for the prompt.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	tab        *table.Table
	columns    []string
	args       call.Args
	readOpts   []table.Option
	registry   []string
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	candidates []string      // backing candidate list
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTabText string        // input text before tab-cycling began
	preTabCur  int           // cursor position before tab-cycling began
	width      int           // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts the prompt session.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", opts.CacheDir),
		slog.Bool("has_table", opts.Table != nil),
	)

	history := NewHistory(filepath.Join(opts.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	opts.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, opts, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, opts Options, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		tab:        opts.Table,
		columns:    opts.Columns,
		args:       opts.Args,
		readOpts:   opts.ReadOpts,
		registry:   call.Builtin().Names(),
		logger:     opts.Logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

// columnNames returns the loaded table's column names, or nil without a
// table.
func (m model) columnNames() []string {
	if m.tab == nil {
		return nil
	}

	return m.tab.Columns()
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		// Show history position indicator
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		var hint string
		if m.mode == modeEval {
			hint = "Type a call spec or press Esc for commands"
		} else {
			hint = "Type: help, columns, use, load, args, quit (Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		bar := renderCandidateBar(
			m.matches, m.registry, m.suggIdx, m.tabActive, m.width,
		)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCur)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// handleTab cycles through completion candidates in the given direction.
func (m model) handleTab(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx += step
		if m.suggIdx >= len(m.matches) {
			m.suggIdx = 0
		} else if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCur = m.input.Position()

		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	if m.mode == modeCtrl {
		_ = m.history.Write(input, modeCtrl)
		m.historyIdx = m.history.Len()
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	_ = m.history.Write(input, modeEval)
	m.historyIdx = m.history.Len()
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	// Echo the spec
	echoCmd := tea.Println(formatCommand(input))

	output, err := m.evaluate(input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(output)),
	)
}

// evaluate normalizes a single call spec and summarizes the selected
// columns with it.
func (m model) evaluate(input string) (string, error) {
	if m.tab == nil {
		return "", ErrNoTable
	}

	d, err := call.Defer(input,
		call.WithArgs(m.args),
		call.WithLogger(m.logger),
	)
	if err != nil {
		return "", err
	}

	result, err := table.Summarize(
		m.ctxFunc(), m.tab, m.columns, call.ListOf(d),
	)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for i, row := range result.Rows() {
		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "%s.%s: %v", row.Column, row.Name, row.Value)
	}

	return b.String(), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listRegistry()))

	case "cols", "columns":
		return m, tea.Sequence(echoCmd, tea.Println(m.listColumns()))

	case "u", "use":
		return m.selectColumns(echoCmd, args)

	case "load":
		return m.loadTable(echoCmd, args)

	case "a", "args":
		return m.updateArgs(echoCmd, input)

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) listRegistry() string {
	var b strings.Builder

	for _, name := range m.registry {
		fmt.Fprintf(&b, "  %s%s\n", name, hintStyle.Render("()"))
	}

	return b.String()
}

func (m model) listColumns() string {
	if m.tab == nil {
		return hintStyle.Render("  " + ErrNoTable.Error())
	}

	var b strings.Builder

	for _, name := range m.tab.Columns() {
		kind := "text"
		if m.tab.IsNumeric(name) {
			kind = "numeric"
		}

		note := fmt.Sprintf("%s, %d rows", kind, m.tab.Len())
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(note))
	}

	return b.String()
}

// selectColumns handles the 'use' command. With no arguments it resets the
// selection to all columns.
func (m model) selectColumns(echoCmd tea.Cmd, args []string) (model, tea.Cmd) {
	if m.tab == nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+ErrNoTable.Error())),
		)
	}

	if len(args) == 0 {
		m.columns = nil

		return m, tea.Sequence(
			echoCmd,
			tea.Println(resultStyle.Render("using all columns")),
		)
	}

	for _, name := range args {
		if _, err := m.tab.Column(name); err != nil {
			return m, tea.Sequence(
				echoCmd,
				tea.Println(errorStyle.Render("error: "+err.Error())),
			)
		}
	}

	m.columns = args

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(
			"using: "+strings.Join(args, ", "),
		)),
	)
}

// loadTable handles the 'load' command, replacing the current table.
func (m model) loadTable(echoCmd tea.Cmd, args []string) (model, tea.Cmd) {
	if len(args) != 1 {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("usage: load <file>")),
		)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}
	defer file.Close()

	tab, err := table.ReadCSV(m.ctxFunc(), file, m.readOpts...)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	m.tab = tab
	m.columns = nil

	note := fmt.Sprintf("loaded %s (%d columns, %d rows)",
		args[0], len(tab.Columns()), tab.Len())

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(note)))
}

// updateArgs handles the 'args' command. With no arguments it shows the
// current keyword arguments; otherwise the remainder of the line is parsed
// as a keyword argument list.
func (m model) updateArgs(echoCmd tea.Cmd, input string) (model, tea.Cmd) {
	_, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	if rest == "" {
		if len(m.args) == 0 {
			return m, tea.Sequence(
				echoCmd,
				tea.Println(hintStyle.Render("no keyword arguments set")),
			)
		}

		var b strings.Builder

		for i, arg := range m.args {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(&b, "%s: %v", arg.Name, arg.Value)
		}

		return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(b.String())))
	}

	args, err := call.ParseArgs(rest)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	m.args = args

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render("keyword arguments updated")),
	)
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.Get(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.Get(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
