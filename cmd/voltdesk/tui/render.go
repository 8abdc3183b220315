package tui

import (
	"strings"

	"voltdesk/cmd/voltdesk/ui"
	"voltdesk/internal/session"
	"voltdesk/internal/types"

	"github.com/charmbracelet/glamour"
)

// renderCacheSize bounds the per-view cache of rendered assistant turns.
const renderCacheSize = 256

// newRenderer builds the markdown renderer for assistant turns. A nil renderer
// means plain text.
func newRenderer(theme ui.Theme, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// safeRenderMarkdown renders markdown with panic recovery
func safeRenderMarkdown(r *glamour.TermRenderer, content string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = content
		}
	}()

	if r != nil && content != "" {
		rendered, err := r.Render(content)
		if err == nil {
			return strings.Trim(rendered, "\n")
		}
	}
	return content
}

// transcriptStyle controls how a transcript is drawn.
type transcriptStyle struct {
	userLabel      string
	assistantLabel string
	markdown       bool
	// width keys the render cache; the renderer wraps at roughly this width.
	width int
}

func renderTranscript(turns []types.Turn, st transcriptStyle, styles ui.Styles, r *glamour.TermRenderer, cache *ui.RenderCache) string {
	var sb strings.Builder

	for _, turn := range turns {
		switch turn.Role {
		case types.RoleUser:
			sb.WriteString(styles.Bold.Foreground(styles.Theme.Primary).Render(st.userLabel) + "\n")
			sb.WriteString(styles.UserInput.Render(turn.Content))
			sb.WriteString("\n\n")

		default:
			sb.WriteString(styles.Bold.Foreground(styles.Theme.Accent).Render(st.assistantLabel) + "\n")
			content := turn.Content
			switch {
			case strings.HasPrefix(content, session.ErrorPrefix):
				content = styles.Error.Render(content)
			case st.markdown:
				raw := content
				content = cache.GetOrCompute(ui.ComputeKey(raw, st.width, styles.Theme.IsDark), func() string {
					return safeRenderMarkdown(r, raw)
				})
			}
			sb.WriteString(styles.AgentResponse.Render(content))
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}
