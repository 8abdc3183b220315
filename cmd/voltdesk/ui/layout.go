// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for viewport and panel sizing
const (
	// Chrome around the active view
	HeaderHeight = 1
	TabBarHeight = 2
	FooterHeight = 1

	// Chat input area: border (2) + one line of text
	InputHeight = 3

	// Horizontal padding of the content area
	ViewportHorizontalPadding = 4

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Responsive breakpoints
	MinimumTerminalWidth  = 40
	MinimumTerminalHeight = 12
	CompactModeWidth      = 80

	// Alert overlay width cap
	AlertMaxWidth = 60
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// Sizes below the minimum are clamped so views never compute negative dimensions.
func NewLayoutConfig(width, height int) LayoutConfig {
	if width < MinimumTerminalWidth {
		width = MinimumTerminalWidth
	}
	if height < MinimumTerminalHeight {
		height = MinimumTerminalHeight
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width for a view
func (l LayoutConfig) ContentWidth() int {
	return l.TerminalWidth - ViewportHorizontalPadding
}

// ContentHeight returns the height left for the active view below the chrome
func (l LayoutConfig) ContentHeight() int {
	return l.TerminalHeight - HeaderHeight - TabBarHeight - FooterHeight
}

// TranscriptHeight returns the transcript viewport height for a view that
// reserves extra lines (status rows) above the input.
func (l LayoutConfig) TranscriptHeight(reserved int) int {
	h := l.ContentHeight() - InputHeight - reserved
	if h < 1 {
		return 1
	}
	return h
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	w := panelWidth - (PanelBorderWidth * 2) - (PanelPaddingH * 2)
	if w < 1 {
		return 1
	}
	return w
}

// AlertWidth returns the overlay width for a container
func AlertWidth(containerWidth int) int {
	if containerWidth-8 < AlertMaxWidth {
		return containerWidth - 8
	}
	return AlertMaxWidth
}
