// Package tui is an interactive circuit-loading comparator: it accepts a
// gate stream, a qubit count, and a basis-state pair (x,y), then runs all
// three kernels side by side and displays their resulting amplitudes.
package tui

import (
	"fmt"
	"math/cmplx"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qampsim/internal/orchestrator"
)

type focus int

const (
	focusGates focus = iota
	focusN
	focusX
	focusY
	focusRun
)

var kernelOrder = []orchestrator.Kernel{
	orchestrator.StateVector,
	orchestrator.PathIntegral,
	orchestrator.Savitch,
}

// kernelResult is one kernel's outcome from the most recent comparison,
// indexed alongside kernelOrder.
type kernelResult struct {
	done    bool
	value   complex128
	err     error
	elapsed time.Duration
}

// Model is the bubbletea model for the comparator screen.
type Model struct {
	gates  textarea.Model
	nInput textinput.Model
	xInput textinput.Model
	yInput textinput.Model

	focus   focus
	width   int
	height  int
	running bool
	spin    spinner.Model
	results [3]kernelResult
	errMsg  string
}

// NewModel builds the initial comparator screen.
func NewModel() Model {
	ta := textarea.New()
	ta.Placeholder = "0 h 0\n0 t 0 1 2\n1 U 2 0 1\n..."
	ta.ShowLineNumbers = true
	ta.SetWidth(40)
	ta.SetHeight(10)
	ta.Focus()

	n := textinput.New()
	n.Placeholder = "n"
	n.CharLimit = 3
	n.Width = 6

	x := textinput.New()
	x.Placeholder = "x"
	x.CharLimit = 10
	x.Width = 8

	y := textinput.New()
	y.Placeholder = "y"
	y.CharLimit = 10
	y.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		gates:  ta,
		nInput: n,
		xInput: x,
		yInput: y,
		focus:  focusGates,
		spin:   sp,
	}
}

// LoadCircuit preloads a gate stream and qubit count, as when qampsim tui
// is launched with --circuit/--qubits.
func (m *Model) LoadCircuit(src string, n int) {
	m.gates.SetValue(src)
	m.nInput.SetValue(strconv.Itoa(n))
}

func (m Model) Init() tea.Cmd {
	return nil
}

// compareMsg carries every kernel's outcome from one submission, indexed
// alongside kernelOrder.
type compareMsg struct {
	results [3]kernelResult
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gates.SetWidth(max(msg.Width/2-6, 20))
		m.gates.SetHeight(max(msg.Height-12, 6))

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case compareMsg:
		m.running = false
		m.results = msg.results

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.running {
			break
		}
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "tab":
			m.advanceFocus(1)
		case "shift+tab":
			m.advanceFocus(-1)
		case "enter":
			if m.focus == focusRun {
				cmd := m.startRun()
				if cmd != nil {
					cmds = append(cmds, cmd, m.spin.Tick)
				}
			}
		}
		var cmd tea.Cmd
		m, cmd = m.updateFocused(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) advanceFocus(dir int) {
	n := int(focusRun) + 1
	m.blur()
	m.focus = focus((int(m.focus) + dir + n) % n)
	m.focusCurrent()
}

func (m *Model) blur() {
	m.gates.Blur()
	m.nInput.Blur()
	m.xInput.Blur()
	m.yInput.Blur()
}

func (m *Model) focusCurrent() {
	switch m.focus {
	case focusGates:
		m.gates.Focus()
	case focusN:
		m.nInput.Focus()
	case focusX:
		m.xInput.Focus()
	case focusY:
		m.yInput.Focus()
	}
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusGates:
		m.gates, cmd = m.gates.Update(msg)
	case focusN:
		m.nInput, cmd = m.nInput.Update(msg)
	case focusX:
		m.xInput, cmd = m.xInput.Update(msg)
	case focusY:
		m.yInput, cmd = m.yInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) startRun() tea.Cmd {
	n, nErr := strconv.Atoi(strings.TrimSpace(m.nInput.Value()))
	x, xErr := strconv.Atoi(strings.TrimSpace(m.xInput.Value()))
	y, yErr := strconv.Atoi(strings.TrimSpace(m.yInput.Value()))
	src := m.gates.Value()

	if nErr != nil || xErr != nil || yErr != nil {
		m.errMsg = "n, x and y must be integers"
		return nil
	}

	m.errMsg = ""
	m.running = true
	m.results = [3]kernelResult{}
	return compareKernels(src, n, x, y)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("qampsim"))
	b.WriteString("\n\n")

	left := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("gate stream"),
		m.gates.View(),
	))

	right := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("n")+"  "+m.nInput.View(),
		labelStyle.Render("x")+"  "+m.xInput.View(),
		labelStyle.Render("y")+"  "+m.yInput.View(),
		"",
		m.renderRunRow(),
	))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderResults())
	}

	b.WriteString(dimStyle.Render("tab: next field  enter: compare all three kernels  esc: quit"))
	return b.String()
}

func (m Model) renderRunRow() string {
	style := kernelNormalStyle
	if m.focus == focusRun {
		style = kernelSelectedStyle
	}
	return style.Render("[ compare all three kernels ]")
}

// renderResults lays out one row per kernel: pending (spinner), error, or
// amplitude/magnitude/phase/duration, all computed from the same
// submission so the three kernels appear side by side.
func (m Model) renderResults() string {
	var rows []string
	for i, k := range kernelOrder {
		r := m.results[i]
		label := labelStyle.Render(fmt.Sprintf("%-13s", k.String()))

		switch {
		case m.running && !r.done:
			rows = append(rows, label+m.spin.View()+" running")
		case !m.running && !r.done:
			rows = append(rows, label+dimStyle.Render("—"))
		case r.err != nil:
			rows = append(rows, label+errorStyle.Render(r.err.Error()))
		default:
			line := fmt.Sprintf("%.10f%+.10fi  |amp|=%.10f  phase=%.10f  (%s)",
				real(r.value), imag(r.value), cmplx.Abs(r.value), cmplx.Phase(r.value), r.elapsed)
			rows = append(rows, label+resultStyle.Render(line))
		}
	}
	return strings.Join(rows, "\n") + "\n"
}
