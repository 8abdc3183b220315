package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"voltdesk/cmd/voltdesk/ui"
	"voltdesk/internal/calc"
	"voltdesk/internal/config"
	"voltdesk/internal/logging"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	calcTitle      = "🧮 공학 계산기"
	ohmsHeading    = "1) 옴의 법칙 (V=IR, P=VI)"
	ohmsHint       = "V, I, R 중 2개의 값을 입력하세요."
	rlcHeading     = "2) 임피던스 계산 (RLC)"
	ohmsButton     = "계산"
	rlcButton      = "임피던스 계산"
	calcBusyButton = "계산 중..."
)

// Focus slots, top to bottom: three Ohm fields, four RLC fields, the mode toggle.
const (
	focusOhmsV = iota
	focusOhmsI
	focusOhmsR
	focusRLCR
	focusRLCL
	focusRLCC
	focusRLCF
	focusRLCMode
	focusCount
)

// calcResultMsg resolves one calculation.
type calcResultMsg struct {
	job calc.Job
	raw json.RawMessage
	err error
}

// calcView holds both calculator forms. They share one pending gate.
type calcView struct {
	calc   *calc.Calculator
	fields [focusRLCMode]textinput.Model
	mode   string
	focus  int

	ohmsResult *calc.Result
	rlcResult  *calc.Result
	// Inline validation messages, cleared on the next submit.
	ohmsInvalid string
	rlcInvalid  string

	styles ui.Styles
	width  int
}

func newCalcView(c *calc.Calculator, defaults config.RLCDefaults, styles ui.Styles) calcView {
	form := calc.NewRLCForm(defaults)
	labels := [focusRLCMode]string{
		calc.LabelVoltage, calc.LabelCurrent, calc.LabelResistance,
		calc.LabelRLCR, calc.LabelRLCL, calc.LabelRLCC, calc.LabelRLCF,
	}
	values := [focusRLCMode]string{"", "", "", form.R, form.L, form.C, form.F}

	v := calcView{calc: c, mode: form.Mode, styles: styles, width: 80}
	for i := range v.fields {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 14
		ti.TextStyle = styles.UserInput
		ti.SetValue(values[i])
		v.fields[i] = ti
	}
	return v
}

func (v *calcView) setSize(l ui.LayoutConfig) {
	v.width = l.ContentWidth()
}

func (v *calcView) focusCmd() tea.Cmd {
	for i := range v.fields {
		v.fields[i].Blur()
	}
	if v.focus < focusRLCMode {
		return v.fields[v.focus].Focus()
	}
	return nil
}

func (v *calcView) blur() {
	for i := range v.fields {
		v.fields[i].Blur()
	}
}

func (v *calcView) move(delta int) tea.Cmd {
	v.focus = (v.focus + delta + focusCount) % focusCount
	return v.focusCmd()
}

func (v calcView) ohmsForm() calc.OhmsForm {
	return calc.OhmsForm{
		V: v.fields[focusOhmsV].Value(),
		I: v.fields[focusOhmsI].Value(),
		R: v.fields[focusOhmsR].Value(),
	}
}

func (v calcView) rlcForm() calc.RLCForm {
	return calc.RLCForm{
		R:    v.fields[focusRLCR].Value(),
		L:    v.fields[focusRLCL].Value(),
		C:    v.fields[focusRLCC].Value(),
		F:    v.fields[focusRLCF].Value(),
		Mode: v.mode,
	}
}

// submit runs the form owning the focused slot.
func (v *calcView) submit(ctx context.Context) tea.Cmd {
	var (
		job calc.Job
		err error
	)
	if v.focus <= focusOhmsR {
		v.ohmsInvalid = ""
		job, err = v.calc.BeginOhms(v.ohmsForm())
		if errors.Is(err, calc.ErrInvalidNumber) {
			v.ohmsInvalid = err.Error()
		}
	} else {
		v.rlcInvalid = ""
		job, err = v.calc.BeginRLC(v.rlcForm())
		if errors.Is(err, calc.ErrInvalidNumber) {
			v.rlcInvalid = err.Error()
		}
	}
	if err != nil {
		logging.UIDebug("calculation not started: %v", err)
		return nil
	}

	if job.Kind == calc.KindOhms {
		v.ohmsResult = nil
	} else {
		v.rlcResult = nil
	}

	c := v.calc
	return func() tea.Msg {
		raw, err := c.Call(ctx, job)
		return calcResultMsg{job: job, raw: raw, err: err}
	}
}

func (v calcView) update(ctx context.Context, msg tea.Msg) (calcView, tea.Cmd) {
	switch msg := msg.(type) {
	case calcResultMsg:
		res := v.calc.Complete(msg.job, msg.raw, msg.err)
		if msg.job.Kind == calc.KindOhms {
			v.ohmsResult = &res
		} else {
			v.rlcResult = &res
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			return v, v.move(-1)
		case "down", "ctrl+n":
			return v, v.move(1)
		case "enter":
			return v, v.submit(ctx)
		case " ", "left", "right":
			if v.focus == focusRLCMode {
				v.mode = calc.ToggleMode(v.mode)
				return v, nil
			}
		}
		if v.focus == focusRLCMode {
			return v, nil
		}
	}

	if v.focus >= focusRLCMode {
		return v, nil
	}
	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v calcView) field(i int) string {
	box := v.styles.InputBox
	if v.focus == i {
		box = v.styles.FocusedBox
	}
	return box.Render(v.fields[i].View())
}

func (v calcView) modeToggle() string {
	radio := func(mode string) string {
		mark := "( )"
		if v.mode == mode {
			mark = "(•)"
		}
		return mark + " " + mode
	}
	text := radio(config.ModeSeries) + "   " + radio(config.ModeParallel)
	if v.focus == focusRLCMode {
		return v.styles.FocusedBox.Render(text)
	}
	return v.styles.InputBox.Render(text)
}

func (v calcView) button(label string) string {
	if v.calc.Pending() {
		return v.styles.ButtonBusy.Render(calcBusyButton)
	}
	return v.styles.Button.Render(label)
}

func (v calcView) renderResult(res *calc.Result, invalid string) string {
	width := ui.PanelContentWidth(v.width)
	switch {
	case invalid != "":
		return v.styles.ErrorBox.Width(width).Render(invalid)
	case res == nil:
		return ""
	case !res.OK:
		return v.styles.ErrorBox.Width(width).Render(res.Text)
	}

	body := res.Text
	if len(res.Rows) > 0 {
		table := ui.NewSimpleTable("", []string{"항목", "값"})
		table.MaxCellWidth = width / 2
		for _, row := range res.Rows {
			table.AddRow(row.Key, row.Value)
		}
		body = strings.TrimRight(table.View(v.styles), "\n") + "\n\n" + res.Text
	}
	return v.styles.ResultBox.Width(width).Render(body)
}

func (v calcView) view(spin string) string {
	heading := v.styles.Bold.Foreground(v.styles.Theme.Accent)

	ohms := []string{
		heading.Render(ohmsHeading),
		v.styles.Muted.Render(ohmsHint),
		joinRow(v.field(focusOhmsV), v.field(focusOhmsI), v.field(focusOhmsR), " ", v.button(ohmsButton)),
	}
	if r := v.renderResult(v.ohmsResult, v.ohmsInvalid); r != "" {
		ohms = append(ohms, r)
	}

	rlc := []string{
		heading.Render(rlcHeading),
		joinRow(v.field(focusRLCR), v.field(focusRLCL), v.field(focusRLCC), v.field(focusRLCF)),
		joinRow(v.modeToggle(), " ", v.button(rlcButton)),
	}
	if r := v.renderResult(v.rlcResult, v.rlcInvalid); r != "" {
		rlc = append(rlc, r)
	}

	footer := v.styles.Muted.Render("↑/↓ 이동 · Enter 계산 · Space 직렬/병렬")
	if v.calc.Pending() {
		footer = v.styles.Spinner.Render(spin) + " " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Bold.Foreground(v.styles.Theme.Primary).Render(calcTitle),
		strings.Join(ohms, "\n"),
		"",
		strings.Join(rlc, "\n"),
		"",
		footer,
	)
}
