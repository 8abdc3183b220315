package tui

import (
	"context"
	"strings"

	"voltdesk/cmd/voltdesk/ui"
	"voltdesk/internal/logging"
	"voltdesk/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	chatTitle       = "💬 전기 챗봇"
	chatPlaceholder = "전기/전자에 대해 질문하세요..."
	thinkingText    = "생각 중..."
	sendLabel       = "전송"
)

// chatReplyMsg resolves one chat request.
type chatReplyMsg struct {
	ticket session.Ticket
	answer string
	err    error
}

// chatView is the general chat tab.
type chatView struct {
	conv     *session.Conversation
	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	cache    *ui.RenderCache
	styles   ui.Styles
	markdown bool
	width    int
}

func newChatView(conv *session.Conversation, styles ui.Styles, markdown bool) chatView {
	ti := textinput.New()
	ti.Placeholder = chatPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	v := chatView{
		conv:     conv,
		input:    ti,
		viewport: viewport.New(80, 20),
		cache:    ui.NewRenderCache(renderCacheSize),
		styles:   styles,
		markdown: markdown,
		width:    80,
	}
	if markdown {
		v.renderer = newRenderer(styles.Theme, 76)
	}
	v.refresh()
	return v
}

func (v *chatView) setSize(l ui.LayoutConfig) {
	v.width = l.ContentWidth()
	v.viewport.Width = v.width
	v.viewport.Height = l.TranscriptHeight(1)
	v.input.Width = inputWidth(v.width)
	if v.markdown {
		v.renderer = newRenderer(v.styles.Theme, v.width-4)
	}
	v.refresh()
}

func (v *chatView) focus() tea.Cmd {
	return v.input.Focus()
}

func (v *chatView) blur() {
	v.input.Blur()
}

// refresh redraws the transcript and scrolls to the newest turn.
func (v *chatView) refresh() {
	content := renderTranscript(v.conv.Turns(), transcriptStyle{
		userLabel:      "나",
		assistantLabel: "⚡ 어시스턴트",
		markdown:       v.markdown,
		width:          v.width,
	}, v.styles, v.renderer, v.cache)
	if v.conv.Pending() {
		content += v.styles.Subtitle.Render(thinkingText) + "\n"
	}
	v.viewport.SetContent(content)
	v.viewport.GotoBottom()
}

// send accepts the input line and returns the command that performs the request.
// Empty input or a pending request make it a no-op.
func (v *chatView) send(ctx context.Context) tea.Cmd {
	ticket, err := v.conv.Begin(v.input.Value())
	if err != nil {
		logging.UIDebug("chat send ignored: %v", err)
		return nil
	}
	v.input.Reset()
	v.refresh()

	conv := v.conv
	return func() tea.Msg {
		answer, err := conv.Call(ctx, ticket)
		return chatReplyMsg{ticket: ticket, answer: answer, err: err}
	}
}

func (v chatView) update(ctx context.Context, msg tea.Msg) (chatView, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		v.conv.Complete(msg.ticket, msg.answer, msg.err)
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return v, v.send(ctx)
		case "ctrl+r":
			v.conv.Reset()
			v.input.Reset()
			v.refresh()
			return v, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return v, cmd
		}
		if v.conv.Pending() {
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v chatView) view(spin string) string {
	title := v.styles.Bold.Foreground(v.styles.Theme.Primary).Render(chatTitle)

	button := v.styles.Button.Render(sendLabel)
	if v.conv.Pending() {
		button = v.styles.ButtonBusy.Render(spin + " " + thinkingText)
	}
	box := v.styles.FocusedBox.Render(v.input.View())

	return strings.Join([]string{
		title,
		v.viewport.View(),
		joinRow(box, " ", button),
	}, "\n")
}
