package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"voltdesk/cmd/voltdesk/ui"
	"voltdesk/internal/api"
	"voltdesk/internal/logging"
	"voltdesk/internal/session"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	docTitle        = "📄 문서 기반 Q&A"
	docPlaceholder  = "문서 내용에 대해 질문하세요..."
	uploadLabel     = "문서 처리 시작"
	uploadBusyLabel = "처리 중..."
	noFileLabel     = "선택된 파일 없음"
	sessionBadge    = "문서 연결됨"
)

// docUploadMsg resolves one upload request.
type docUploadMsg struct {
	ticket session.UploadTicket
	resp   *api.UploadResponse
	err    error
}

// docReplyMsg resolves one document query.
type docReplyMsg struct {
	ticket session.DocTicket
	answer string
	err    error
}

// docView is the document Q&A tab: a .pdf picker, an upload status line and,
// once a session exists, the question transcript.
type docView struct {
	doc      *session.DocSession
	picker   filepicker.Model
	browsing bool
	selected string

	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	cache    *ui.RenderCache
	styles   ui.Styles
	markdown bool
	width    int
}

func newDocView(doc *session.DocSession, styles ui.Styles, markdown bool, startDir, preselected string) docView {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = startDir
	fp.Height = 10
	fp.AutoHeight = false

	ti := textinput.New()
	ti.Placeholder = docPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	v := docView{
		doc:      doc,
		picker:   fp,
		selected: preselected,
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

func (v docView) init() tea.Cmd {
	if v.picker.CurrentDirectory == "" {
		return nil
	}
	return v.picker.Init()
}

func (v *docView) setSize(l ui.LayoutConfig) {
	v.width = l.ContentWidth()
	v.viewport.Width = v.width
	v.viewport.Height = l.TranscriptHeight(3)
	v.picker.Height = l.TranscriptHeight(2)
	v.input.Width = inputWidth(v.width)
	if v.markdown {
		v.renderer = newRenderer(v.styles.Theme, v.width-4)
	}
	v.refresh()
}

func (v *docView) focus() tea.Cmd {
	return v.input.Focus()
}

// blur also closes the file browser.
func (v *docView) blur() {
	v.input.Blur()
	v.browsing = false
}

func (v *docView) refresh() {
	content := renderTranscript(v.doc.Turns(), transcriptStyle{
		userLabel:      "user",
		assistantLabel: "assistant",
		markdown:       v.markdown,
		width:          v.width,
	}, v.styles, v.renderer, v.cache)
	if v.doc.Pending() && !v.doc.Uploading() {
		content += v.styles.Subtitle.Render(thinkingText) + "\n"
	}
	v.viewport.SetContent(content)
	v.viewport.GotoBottom()
}

// upload starts processing the selected file. Without a selection the status
// asks for one and no request is made.
func (v *docView) upload(ctx context.Context) tea.Cmd {
	ticket, err := v.doc.BeginUpload(v.selected)
	if err != nil {
		logging.UIDebug("upload ignored: %v", err)
		return nil
	}

	doc := v.doc
	return func() tea.Msg {
		resp, err := doc.CallUpload(ctx, ticket)
		return docUploadMsg{ticket: ticket, resp: resp, err: err}
	}
}

// ask sends the input line as a question. Missing session or empty input
// raise the notice alert.
func (v *docView) ask(ctx context.Context) tea.Cmd {
	ticket, err := v.doc.Begin(v.input.Value())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrEmptyInput) {
			return showAlert(session.NoticeNeedQuestion)
		}
		logging.UIDebug("question ignored: %v", err)
		return nil
	}
	v.input.Reset()
	v.refresh()

	doc := v.doc
	return func() tea.Msg {
		answer, err := doc.Call(ctx, ticket)
		return docReplyMsg{ticket: ticket, answer: answer, err: err}
	}
}

func (v docView) update(ctx context.Context, msg tea.Msg) (docView, tea.Cmd) {
	switch msg := msg.(type) {
	case docUploadMsg:
		v.doc.CompleteUpload(msg.ticket, msg.resp, msg.err)
		v.refresh()
		return v, nil

	case docReplyMsg:
		v.doc.Complete(msg.ticket, msg.answer, msg.err)
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.browsing {
			return v.updatePicker(msg)
		}
		switch msg.String() {
		case "ctrl+o":
			if v.doc.Pending() {
				return v, nil
			}
			v.browsing = true
			return v, nil
		case "ctrl+u":
			return v, v.upload(ctx)
		case "enter":
			return v, v.ask(ctx)
		case "ctrl+r":
			v.doc.Reset()
			v.input.Reset()
			v.refresh()
			return v, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return v, cmd
		}
		if v.doc.Pending() {
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Directory listings and cursor blinks are routed by component id.
	var pickerCmd, inputCmd tea.Cmd
	v.picker, pickerCmd = v.picker.Update(msg)
	v.input, inputCmd = v.input.Update(msg)
	return v, tea.Batch(pickerCmd, inputCmd)
}

func (v docView) updatePicker(msg tea.KeyMsg) (docView, tea.Cmd) {
	if msg.String() == "esc" {
		v.browsing = false
		return v, nil
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)
	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.selected = path
		v.browsing = false
		logging.UI("document selected: %s", filepath.Base(path))
	}
	return v, cmd
}

func (v docView) fileLine() string {
	name := noFileLabel
	if v.selected != "" {
		name = filepath.Base(v.selected)
	}

	button := v.styles.Button.Render(uploadLabel)
	switch {
	case v.doc.Uploading():
		button = v.styles.ButtonBusy.Render(uploadBusyLabel)
	case v.doc.Pending() || v.selected == "":
		button = v.styles.ButtonBusy.Render(uploadLabel)
	}

	return joinRow(v.styles.Muted.Render("파일: "), v.styles.Body.Render(name), "  ", button)
}

func (v docView) statusLine() string {
	status := v.doc.Status()
	switch {
	case status == "":
		return v.styles.Info.Render("Ctrl+O 파일 선택 · Ctrl+U 업로드")
	case strings.HasPrefix(status, session.ErrorPrefix):
		return v.styles.Error.Render(status)
	case v.doc.Uploading():
		return v.styles.Warning.Render(status)
	default:
		return v.styles.Success.Render(status)
	}
}

func (v docView) view(spin string) string {
	title := v.styles.Bold.Foreground(v.styles.Theme.Primary).Render(docTitle)
	if v.doc.HasSession() {
		title = joinRow(title, " ", v.styles.Badge.Render(sessionBadge))
	}

	if v.browsing {
		return strings.Join([]string{
			title,
			v.styles.Muted.Render("PDF 파일을 선택하세요 (Enter 선택 · Esc 취소)"),
			v.picker.View(),
		}, "\n")
	}

	parts := []string{title, v.fileLine(), v.statusLine()}
	if !v.doc.HasSession() {
		return strings.Join(parts, "\n")
	}

	button := v.styles.Button.Render(sendLabel)
	if v.doc.Pending() && !v.doc.Uploading() {
		button = v.styles.ButtonBusy.Render(spin + " " + thinkingText)
	}
	box := v.styles.FocusedBox.Render(v.input.View())

	parts = append(parts, v.viewport.View(), joinRow(box, " ", button))
	return strings.Join(parts, "\n")
}
