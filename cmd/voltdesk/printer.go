package main

import (
	"fmt"
	"io"

	"voltdesk/internal/calc"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// printer writes one-shot command output. Colors switch off automatically when
// the output is not a terminal.
type printer struct {
	out    io.Writer
	errOut io.Writer
}

func newPrinter(w, errW io.Writer) printer {
	return printer{out: w, errOut: errW}
}

func (p printer) title(format string, args ...interface{}) {
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, format+"\n", args...)
}

func (p printer) success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(p.out, format+"\n", args...)
}

func (p printer) info(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(p.out, format+"\n", args...)
}

func (p printer) failure(format string, args ...interface{}) {
	color.New(color.FgRed, color.Bold).Fprintf(p.errOut, format+"\n", args...)
}

func (p printer) plain(s string) {
	fmt.Fprintln(p.out, s)
}

// answer prints an assistant reply, rendered as markdown unless raw is set.
func (p printer) answer(text string, raw bool) {
	if raw {
		p.plain(text)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		p.plain(text)
		return
	}
	out, err := r.Render(text)
	if err != nil {
		p.plain(text)
		return
	}
	fmt.Fprint(p.out, out)
}

// result prints a calculator result: the key/value rows, then the JSON body.
func (p printer) result(res calc.Result) {
	if !res.OK {
		p.failure("%s", res.Text)
		return
	}
	for _, row := range res.Rows {
		fmt.Fprintf(p.out, "%s %s\n", color.New(color.Bold).Sprintf("%-12s", row.Key), row.Value)
	}
	if len(res.Rows) > 0 {
		fmt.Fprintln(p.out)
	}
	p.plain(res.Text)
}
