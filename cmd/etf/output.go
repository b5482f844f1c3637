package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/wippyai/etf/config"
	"github.com/wippyai/etf/format"
	"github.com/wippyai/etf/term"
)

var (
	termStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(int(f.Fd()))
}

func useColor(mode config.Color, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isTerminal(w)
}

// renderer returns a lipgloss renderer for w that honors the color decision
// rather than lipgloss's own detection.
func (e *env) renderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(e.out)
	if e.color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// writeBytes prints an encoding in the requested format.
func (e *env) writeBytes(data []byte, f config.Format) error {
	if f == config.FormatRaw && isTerminal(e.out) {
		e.log.Warn("refusing to write raw bytes to a terminal, printing hex")
		f = config.FormatHex
	}

	r := e.renderer()
	var err error
	switch f {
	case config.FormatRaw:
		_, err = e.out.Write(data)
	case config.FormatHex:
		_, err = fmt.Fprintln(e.out, hex.EncodeToString(data))
	case config.FormatBytes:
		_, err = fmt.Fprintln(e.out, format.Term(term.Binary(data)))
	default:
		_, err = fmt.Fprintf(e.out, "%s\n%s\n",
			noteStyle.Renderer(r).Render(fmt.Sprintf("%% %d bytes", len(data))),
			bytesStyle.Renderer(r).Render(format.Term(term.Binary(data))))
	}
	return err
}

// writeTerm prints a decoded term.
func (e *env) writeTerm(t term.Term, compact bool) error {
	s := format.Term(t, format.Options{Compact: compact})
	_, err := fmt.Fprintln(e.out, termStyle.Renderer(e.renderer()).Render(s))
	return err
}
