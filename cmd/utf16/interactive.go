package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-utf16/codec"
	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectorModel struct {
	parseErr error
	input    textinput.Model
	units    []uint16
	last     string
	capacity int
	strategy transcoder.DecoderStrategy
}

func newInspectorModel(strategy transcoder.DecoderStrategy) *inspectorModel {
	ti := textinput.New()
	ti.Placeholder = `text, \uXXXX for raw code units`
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &inspectorModel{input: ti, strategy: strategy}
}

func (m *inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			m.capacity++
			return m, nil
		case "down":
			if m.capacity > 0 {
				m.capacity--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.last {
		m.last = v
		m.units, m.parseErr = parseUnits(v)
		m.capacity = codec.ByteLength(m.units)
	}
	return m, cmd
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UTF-16 Inspector"))
	b.WriteString(" decoder: ")
	b.WriteString(m.strategy.String())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.parseErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.parseErr)))
	} else {
		m.writeAnalysis(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type to edit • ↑/↓ output capacity • esc quit"))
	return b.String()
}

func (m *inspectorModel) writeAnalysis(b *strings.Builder) {
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("code units", valueStyle.Render(formatUnits(m.units)))
	row("byte length", valueStyle.Render(strconv.Itoa(codec.ByteLength(m.units))))

	encoded, err := codec.Encode(m.units)
	if err != nil {
		row("utf-8", errorStyle.Render(err.Error()))
	} else {
		row("utf-8", valueStyle.Render(formatBytes(encoded)))
		row("manual", roundTrip(codec.Decode, encoded, m.units))
		row("dfa", roundTrip(codec.DecodeDFA, encoded, m.units))
	}

	res, written := simulate(m.units, m.capacity)
	b.WriteString("\n")
	row("capacity", valueStyle.Render(strconv.Itoa(m.capacity)))
	row("result", resultStyle.Render(fmt.Sprintf("chars=%d bytes=%d err=%s", res.Chars, res.Bytes, res.Err)))
	row("written", valueStyle.Render(formatBytes(written)))
}

// simulate encodes units into a buffer of capacity bytes and returns the
// result with the bytes produced.
func simulate(units []uint16, capacity int) (codec.EncodeResult, []byte) {
	out := make([]byte, capacity)
	res := codec.EncodeInto(units, out)
	return res, out[:res.Bytes]
}

func roundTrip(decode func([]byte) ([]uint16, error), encoded []byte, units []uint16) string {
	back, err := decode(encoded)
	switch {
	case err != nil:
		return errorStyle.Render(err.Error())
	case !slices.Equal(back, units):
		return errorStyle.Render("round trip mismatch")
	default:
		return resultStyle.Render("round trip ok")
	}
}

func formatBytes(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

// parseUnits converts s to code units. A \uXXXX escape inserts that unit
// as is, so unpaired surrogates can be entered; the text between escapes
// must be valid UTF-8.
func parseUnits(s string) ([]uint16, error) {
	units := make([]uint16, 0, len(s))
	for len(s) > 0 {
		if strings.HasPrefix(s, `\u`) {
			if len(s) < 6 {
				return nil, errors.InvalidInput(errors.PhaseValidate, []string{"input"}, `incomplete \u escape`)
			}
			v, err := strconv.ParseUint(s[2:6], 16, 16)
			if err != nil {
				return nil, errors.InvalidInput(errors.PhaseValidate, []string{"input"}, "bad escape "+s[:6])
			}
			units = append(units, uint16(v))
			s = s[6:]
			continue
		}

		end := strings.Index(s[1:], `\u`) + 1
		if end == 0 {
			end = len(s)
		}
		u, err := codec.FromString(s[:end])
		if err != nil {
			return nil, err
		}
		units = append(units, u...)
		s = s[end:]
	}
	return units, nil
}

func runInteractive(strategy transcoder.DecoderStrategy) error {
	p := tea.NewProgram(newInspectorModel(strategy), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
