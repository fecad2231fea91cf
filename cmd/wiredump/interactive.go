package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/errors"
	"github.com/wippyai/wasm-wire/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	kindStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// customEntry is the list item that lets the user type an expression.
const customEntry = "type expression..."

type interactiveModel struct {
	err      error
	reg      *schema.Registry
	filename string
	result   string
	items    []string
	inputs   []textinput.Model
	selected int
	focusIdx int
	width    buffer.Width
	state    modelState
	loaded   bool
}

type modelState int

const (
	stateSelectType modelState = iota
	stateInputPayload
	stateShowResult
)

func newInteractiveModel(opts options) *interactiveModel {
	width := buffer.Width(opts.width)
	if !width.Valid() {
		width = buffer.Native
	}
	return &interactiveModel{
		filename: opts.schemaFile,
		width:    width,
		state:    stateSelectType,
	}
}

type loadedMsg struct {
	err error
	reg *schema.Registry
}

type decodeResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchema
}

func (m *interactiveModel) loadSchema() tea.Msg {
	reg, err := loadRegistry(m.filename)
	return loadedMsg{reg: reg, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputPayload {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.items)-1 {
				m.selected++
			}

		case "w":
			if m.state == stateSelectType {
				if m.width == buffer.Width32 {
					m.width = buffer.Width64
				} else {
					m.width = buffer.Width32
				}
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.items) == 0 {
					return m, nil
				}
				m.prepareInputs()
				m.state = stateInputPayload
				return m, nil

			case stateInputPayload:
				return m, m.decode

			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputPayload && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputPayload:
				m.state = stateSelectType
				m.inputs = nil
			case stateShowResult:
				m.state = stateInputPayload
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reg = msg.reg
		m.items = append(msg.reg.Names(), customEntry)

	case decodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputPayload {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	var inputs []textinput.Model
	if m.items[m.selected] == customEntry {
		ti := textinput.New()
		ti.Placeholder = "Vec<Option<String>>"
		ti.Prompt = "type: "
		ti.Width = 60
		inputs = append(inputs, ti)
	}
	ti := textinput.New()
	ti.Placeholder = "02 00 00 00 68 69"
	ti.Prompt = "hex: "
	ti.Width = 60
	inputs = append(inputs, ti)

	inputs[0].Focus()
	m.inputs = inputs
	m.focusIdx = 0
}

func (m *interactiveModel) currentType() (*schema.Type, error) {
	if m.items[m.selected] == customEntry {
		return m.reg.Parse(m.inputs[0].Value())
	}
	t, ok := m.reg.Lookup(m.items[m.selected])
	if !ok {
		return nil, fmt.Errorf("type %s not found", m.items[m.selected])
	}
	return t, nil
}

func (m *interactiveModel) decode() tea.Msg {
	typ, err := m.currentType()
	if err != nil {
		return decodeResultMsg{err: err}
	}
	data, err := decodeHex([]byte(m.inputs[len(m.inputs)-1].Value()))
	if err != nil {
		return decodeResultMsg{err: err}
	}
	v, n, err := decodeWire(typ, data, m.width)
	if err != nil {
		return decodeResultMsg{err: err}
	}
	out := render(typ, v) + "\n\n" + hexDump(data, n)
	if n < len(data) {
		out += fmt.Sprintf("\n\n(%d of %d bytes decoded, %d trailing ignored)", n, len(data), len(data)-n)
	} else {
		out += fmt.Sprintf("\n\n(%d bytes decoded)", n)
	}
	return decodeResultMsg{result: out}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading schema..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Wire Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render("width " + m.width.String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a type to decode:\n\n")
		for i, item := range m.items {
			line := m.formatItem(item)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter decode • w toggle width • q quit"))

	case stateInputPayload:
		fmt.Fprintf(&b, "Decoding %s\n\n", nameStyle.Render(m.items[m.selected]))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter decode • esc back"))

	case stateShowResult:
		fmt.Fprintf(&b, "Result for %s:\n\n", nameStyle.Render(m.items[m.selected]))
		if m.err != nil {
			if kind, ok := errors.KindOf(m.err); ok {
				b.WriteString(kindStyle.Render(string(kind)))
				b.WriteString(" ")
			}
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc edit • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatItem(item string) string {
	if item == customEntry {
		return helpStyle.Render(item)
	}
	t, ok := m.reg.Lookup(item)
	if !ok {
		return item
	}
	return typeStyle.Render(t.Describe())
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
