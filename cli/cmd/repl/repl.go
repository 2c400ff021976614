package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/lang/lexer"
	"github.com/ardnew/lispfront/lang/token"
	"github.com/ardnew/lispfront/log"
	"github.com/ardnew/lispfront/session"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  tree          Print the processed lines
  progress      Print the next line number and session state
  invalidate N  Drop line N and everything after it
  reset         Drop every processed line
  clear         Clear screen
  quit          Exit REPL

Usage:
  Each source line you enter is processed as the next line of the program
  Completions for known symbols appear as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between source and command modes
  Use Up/Down arrows for history navigation
  Use Shift+Up/Shift+Down for history navigation within the current mode
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
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	session      *session.Session
	history      *History
	logger       log.Logger
	input        textinput.Model
	symbols      []string      // completion candidates in source mode
	matches      fuzzy.Matches // current fuzzy match results
	evalText     string
	ctrlText     string
	preTabText   string // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	evalCursor   int
	ctrlCursor   int
	width        int
	mode         inputMode
	tabActive    bool
	quitting     bool
}

// Run starts an interactive session over s. Entered source lines are
// processed as consecutive lines of one program; history is kept in the
// file at historyPath unless it is empty.
func Run(
	ctx context.Context,
	s *session.Session,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	frontier, _ := s.Progress()

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_len", history.Len()),
		slog.Int("frontier", frontier),
	)

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		session:    s,
		history:    history,
		logger:     logger,
		input:      ti,
		symbols:    symbols(s.Tree()),
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
	m.refreshPrompt()

	return m
}

// refreshPrompt shows the number of the next line in source mode.
func (m *model) refreshPrompt() {
	if m.mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)

		return
	}

	line, _ := m.session.Progress()
	m.input.Prompt = promptStyle.Render(strconv.Itoa(line) + " " + evalPrompt)
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
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 2

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

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a line of source or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
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
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1, false), nil

	case tea.KeyDown:
		return m.historyMove(1, false), nil

	case tea.KeyShiftUp:
		return m.historyMove(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyMove(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil
	}

	// Any other key ends tab-cycling and keeps the chosen candidate.
	var cmd tea.Cmd

	m.tabActive = false

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the selected completion candidate by step, wrapping around,
// and writes it into the input. A single candidate is accepted outright.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	case step > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor to its end.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. While
// tab-cycling the candidate list is left alone.
func (m *model) refreshMatches() {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	input := strings.TrimSpace(raw)

	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0
		m.addHistory(input, modeCtrl)

		return m.executeCommand(input)
	}

	m.evalText, m.evalCursor = "", 0
	m.addHistory(input, modeEval)

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, err := m.processLine(raw)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
}

// processLine hands raw to the session as the next line of the program and
// describes the result.
func (m *model) processLine(raw string) (string, error) {
	ctx := m.ctxFunc()
	line, _ := m.session.Progress()
	tokens := lexer.Tokenize(raw, lexer.WithLine(line))

	if !token.Content(tokens) {
		return "(nothing to process)", nil
	}

	if err := m.session.Process(ctx, tokens, line); err != nil {
		m.logger.TraceContext(ctx, "repl line failed",
			slog.Int("line", line),
			slog.Any("error", err),
		)

		return "", err
	}

	m.session.SetTotalLines(line + 1)

	tree := m.session.Tree()
	m.symbols = symbols(tree)
	m.refreshPrompt()

	u, ok := tree.Line(line)
	if !ok {
		// Already evicted: the cache holds fewer units than the program.
		return fmt.Sprintf("%d ok", line), nil
	}

	return describe(u), nil
}

func describe(u *lang.Unit) string {
	v, ok := u.Value()
	if !ok {
		return fmt.Sprintf("%d %s", u.Line(), u.Text())
	}

	return fmt.Sprintf("%d %s => %s", u.Line(), v.Type, v)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	var (
		out string
		err error
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "h", "help":
		out = helpMessage()

	case "t", "tree":
		out, err = m.treeView()

	case "p", "progress":
		out = m.progressView()

	case "i", "invalidate":
		out, err = m.invalidate(args)

	case "r", "reset":
		m.session.Reset()
		m.session.SetTotalLines(0)
		m.symbols = symbols(m.session.Tree())
		out = "session reset"

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try 'help')"),
		))
	}

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

func (m model) treeView() (string, error) {
	tree := m.session.Tree()
	if tree.IsEmpty() {
		return hintStyle.Render("(empty)"), nil
	}

	var b strings.Builder

	if err := tree.Format(m.ctxFunc(), &b); err != nil {
		return "", err
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (m model) progressView() string {
	frontier, total := m.session.Progress()

	return fmt.Sprintf("next line %d of %d (%s, %d cached)",
		frontier, total, m.session.State(), m.session.Cache().Len())
}

func (m *model) invalidate(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: invalidate N", ErrBadArgument)
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q is not a line number", ErrBadArgument, args[0])
	}

	m.session.InvalidateFrom(n)

	frontier, _ := m.session.Progress()
	m.session.SetTotalLines(frontier)
	m.symbols = symbols(m.session.Tree())

	return fmt.Sprintf("invalidated from line %d", n), nil
}

// historyMove steps through history. With sameMode set, entries entered in
// the other mode are skipped; otherwise the mode follows the entry.
func (m model) historyMove(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches()

		return m
	}

	// Past the newest entry: back to an empty line.
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches()
	}

	return m
}

// switchToMode switches to mode, saving the current input and restoring the
// input last typed in mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.refreshPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.tabActive = false
	m.refreshMatches()

	return m
}
