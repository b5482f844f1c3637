package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/format"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type InspectCmd struct {
	Initial string `arg:"" optional:"" help:"Initial input."`
}

func (c *InspectCmd) Run(e *env) error {
	m := newInspectModel(e.cfg.EncodeOptions(), e.cfg.DecodeOptions())
	m.input.SetValue(c.Initial)
	m.res = evaluate(c.Initial, m.enc, m.dec)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(e.in), tea.WithOutput(e.out))
	_, err := p.Run()
	return err
}

// evaluation is what the inspector shows for one input.
type evaluation struct {
	err  error
	mode string // "encode" or "decode"
	hex  string
	term string
	size int
}

type inspectModel struct {
	input textinput.Model
	res   evaluation
	enc   codec.EncodeOptions
	dec   codec.DecodeOptions
}

func newInspectModel(enc codec.EncodeOptions, dec codec.DecodeOptions) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = `{ok, #{"k" => [1, 2.5]}}  or  8361 01`
	ti.Prompt = "> "
	ti.Width = 72
	ti.Focus()
	return &inspectModel{input: ti, enc: enc, dec: dec}
}

// evaluate encodes a literal, or decodes s when it is hex starting with
// the version byte. Encoded input is decoded again so the canonical form
// is visible.
func evaluate(s string, enc codec.EncodeOptions, dec codec.DecodeOptions) evaluation {
	s = strings.TrimSpace(s)
	if s == "" {
		return evaluation{}
	}

	if looksLikeHex(s) {
		data, _ := hex.DecodeString(strings.Join(strings.Fields(s), ""))
		t, err := codec.DecodeWithOptions(data, dec)
		if err != nil {
			return evaluation{mode: "decode", err: err}
		}
		return evaluation{mode: "decode", hex: hex.EncodeToString(data), term: format.Term(t), size: len(data)}
	}

	t, err := format.Parse(s)
	if err != nil {
		return evaluation{mode: "encode", err: err}
	}
	data, err := codec.EncodeWithOptions(t, enc)
	if err != nil {
		return evaluation{mode: "encode", err: err}
	}
	back, err := codec.DecodeWithOptions(data, dec)
	if err != nil {
		return evaluation{mode: "encode", hex: hex.EncodeToString(data), size: len(data), err: err}
	}
	return evaluation{mode: "encode", hex: hex.EncodeToString(data), term: format.Term(back), size: len(data)}
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+u":
			m.input.SetValue("")
			m.res = evaluation{}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.res = evaluate(v, m.enc, m.dec)
	}
	return m, cmd
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ETF Inspector"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	r := m.res
	if r.hex != "" {
		b.WriteString(labelStyle.Render("bytes "))
		b.WriteString(r.hex)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("size  "))
		b.WriteString(fmt.Sprintf("%d", r.size))
		b.WriteString("\n")
	}
	if r.term != "" {
		b.WriteString(labelStyle.Render("term  "))
		b.WriteString(r.term)
		b.WriteString("\n")
	}
	if r.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", r.mode, r.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type a term literal or hex • ctrl+u clear • esc quit"))
	return b.String()
}
