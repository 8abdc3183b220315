// Package tui is the interactive terminal front end: a tab router over the
// chat, document Q&A, and calculator views.
package tui

import (
	"context"
	"os"
	"strings"

	"voltdesk/cmd/voltdesk/ui"
	"voltdesk/internal/calc"
	"voltdesk/internal/config"
	"voltdesk/internal/logging"
	"voltdesk/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is everything the views call. *api.Client implements it.
type Backend interface {
	session.ChatBackend
	session.DocBackend
	calc.Backend
}

// tabLabels are shown in the tab bar, indexed like config.ValidTabs.
var tabLabels = map[string]string{
	config.TabChat:       "💬 전기 챗봇",
	config.TabDocQA:      "📄 문서 기반 Q&A",
	config.TabCalculator: "🧮 공학 계산기",
}

// alertMsg opens the blocking notice overlay.
type alertMsg string

func showAlert(text string) tea.Cmd {
	return func() tea.Msg { return alertMsg(text) }
}

// Options configures a Model.
type Options struct {
	Backend Backend
	Config  *config.Config
	// Tab is the initial tab; empty or unknown falls back to doc-qa.
	Tab string
	// Document preselects a file for upload.
	Document string
	// StartDir is where the file picker opens; defaults to the working directory.
	StartDir string
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	styles ui.Styles
	layout ui.LayoutConfig

	active string
	alert  string

	chat chatView
	doc  docView
	calc calcView

	spinner spinner.Model
	ready   bool
	width   int
	height  int
}

// New builds the root model.
func New(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := ui.NewStyles(ui.ResolveTheme(cfg.UI.DarkMode))

	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		ctx:     ctx,
		styles:  styles,
		layout:  ui.NewLayoutConfig(80, 24),
		chat:    newChatView(session.NewConversation(opts.Backend, cfg.UI.Greeting), styles, cfg.UI.Markdown),
		doc:     newDocView(session.NewDocSession(opts.Backend), styles, cfg.UI.Markdown, startDir, opts.Document),
		calc:    newCalcView(calc.New(opts.Backend), cfg.Calculator.RLC, styles),
		spinner: sp,
	}

	tab := opts.Tab
	if tab == "" {
		tab = cfg.UI.DefaultTab
	}
	m, _ = m.SetTab(tab)
	return m
}

// Active returns the visible tab.
func (m Model) Active() string {
	return m.active
}

// SetTab switches the visible view. Unrecognized names select doc-qa.
func (m Model) SetTab(name string) (Model, tea.Cmd) {
	if !config.IsValidTab(name) {
		if name != "" {
			logging.UIDebug("unknown tab %q, showing %s", name, config.TabDocQA)
		}
		name = config.TabDocQA
	}
	m.active = name

	m.chat.blur()
	m.doc.blur()
	m.calc.blur()

	switch name {
	case config.TabChat:
		return m, m.chat.focus()
	case config.TabCalculator:
		return m, m.calc.focusCmd()
	default:
		return m, m.doc.focus()
	}
}

func (m Model) cycleTab(delta int) (Model, tea.Cmd) {
	idx := 0
	for i, t := range config.ValidTabs {
		if t == m.active {
			idx = i
		}
	}
	n := len(config.ValidTabs)
	return m.SetTab(config.ValidTabs[(idx+delta+n)%n])
}

func (m Model) anyPending() bool {
	return m.chat.conv.Pending() || m.doc.doc.Pending() || m.calc.calc.Pending()
}

// Init starts the cursor blink and the first directory listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.doc.init(), tea.SetWindowTitle("voltdesk"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout = ui.NewLayoutConfig(msg.Width, msg.Height)
		m.chat.setSize(m.layout)
		m.doc.setSize(m.layout)
		m.calc.setSize(m.layout)
		m.ready = true
		return m, nil

	case alertMsg:
		m.alert = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.anyPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chatReplyMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(m.ctx, msg)
		return m, cmd

	case docUploadMsg, docReplyMsg:
		var cmd tea.Cmd
		m.doc, cmd = m.doc.update(m.ctx, msg)
		return m, cmd

	case calcResultMsg:
		var cmd tea.Cmd
		m.calc, cmd = m.calc.update(m.ctx, msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Component-internal messages (blink, directory reads) go to every view;
	// bubbles components ignore ids that are not theirs.
	var chatCmd, docCmd, calcCmd tea.Cmd
	m.chat, chatCmd = m.chat.update(m.ctx, msg)
	m.doc, docCmd = m.doc.update(m.ctx, msg)
	m.calc, calcCmd = m.calc.update(m.ctx, msg)
	return m, tea.Batch(chatCmd, docCmd, calcCmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// The notice blocks everything until any key dismisses it.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m.cycleTab(1)
	case "shift+tab":
		return m.cycleTab(-1)
	case "alt+1", "alt+2", "alt+3":
		idx := int(msg.Runes[0] - '1')
		return m.SetTab(config.ValidTabs[idx])
	}

	wasPending := m.anyPending()

	var cmd tea.Cmd
	switch m.active {
	case config.TabChat:
		m.chat, cmd = m.chat.update(m.ctx, msg)
	case config.TabCalculator:
		m.calc, cmd = m.calc.update(m.ctx, msg)
	default:
		m.doc, cmd = m.doc.update(m.ctx, msg)
	}

	if !wasPending && m.anyPending() {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(config.ValidTabs))
	for i, t := range config.ValidTabs {
		label := tabLabels[t]
		if m.layout.IsCompact {
			label = strings.Fields(label)[0] + " " + string(rune('1'+i))
		}
		if t == m.active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderHeader() string {
	return ui.Logo(m.styles)
}

func (m Model) renderFooter() string {
	help := "Tab/Shift+Tab 탭 전환 · Alt+1..3 바로가기 · Ctrl+R 대화 초기화 · Ctrl+C 종료"
	if m.layout.IsCompact {
		help = "Tab 전환 · Ctrl+C 종료"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	spin := m.spinner.View()
	var body string
	switch m.active {
	case config.TabChat:
		body = m.chat.view(spin)
	case config.TabCalculator:
		body = m.calc.view(spin)
	default:
		body = m.doc.view(spin)
	}

	if m.alert != "" {
		box := m.styles.Alert.
			Width(ui.AlertWidth(m.layout.TerminalWidth)).
			Render(m.alert + "\n\n" + m.styles.Muted.Render("아무 키나 누르세요"))
		return lipgloss.Place(m.layout.TerminalWidth, m.layout.TerminalHeight, lipgloss.Center, lipgloss.Center, box)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.styles.RenderDivider(m.layout.ContentWidth()),
		m.styles.Content.Render(body),
		m.renderFooter(),
	)
}

// joinRow lays components out side by side, vertically centered.
func joinRow(parts ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// inputWidth leaves room for the box border and the button beside it.
func inputWidth(contentWidth int) int {
	w := contentWidth - 20
	if w < 10 {
		return 10
	}
	return w
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
