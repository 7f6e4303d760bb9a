package generator

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// printer writes the user-facing progress lines.
type printer struct {
	w io.Writer
}

func (p printer) step(format string, args ...any) {
	fmt.Fprintln(p.w, stepStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) warn(format string, args ...any) {
	fmt.Fprintln(p.w, warnStyle.Render("warning: "+fmt.Sprintf(format, args...)))
}

func (p printer) done(format string, args ...any) {
	fmt.Fprintln(p.w, doneStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) raw(s string) {
	fmt.Fprintln(p.w, s)
}

// RenderMarkdown renders model output for the terminal.
func RenderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
