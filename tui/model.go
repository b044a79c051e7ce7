// Package tui steps through a Deutsch–Jozsa run gate by gate.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/qasm"
	"github.com/hershlalwani/djsim/quantum"
	"github.com/hershlalwani/djsim/render"
)

const (
	probBarW  = 16
	histBarW  = 24
	sidePanel = 3 // side panel takes 1/sidePanel of the width
)

// runMsg carries the result of a resample.
type runMsg struct {
	result *dj.Result
	err    error
}

// Model is the stepper state. applied is the number of gates already run on
// state, from 0 (fresh register) to len(Steps).
type Model struct {
	runner   *dj.Runner
	result   *dj.Result
	applied  int
	state    *quantum.StateVector
	err      error
	savePath string

	width     int
	height    int
	qasmView  viewport.Model
	probBar   progress.Model
	keys      keyMap
	help      help.Model
	statusMsg string
}

// New returns a stepper over a finished run, positioned before the first
// gate. runner is used to resample and savePath is where ^S writes QASM.
func New(runner *dj.Runner, res *dj.Result, savePath string) Model {
	vp := viewport.New(40, 12)
	vp.SetContent(qasm.Format(res.Circuit))

	m := Model{
		runner:   runner,
		result:   res,
		savePath: savePath,
		qasmView: vp,
		probBar: progress.New(
			progress.WithSolidFill(render.BarColor),
			progress.WithWidth(probBarW),
			progress.WithoutPercentage(),
		),
		keys: defaultKeyMap(),
		help: help.New(),
	}
	m.seek(0)
	return m
}

// Run starts the stepper in the alternate screen and blocks until it quits.
func Run(runner *dj.Runner, res *dj.Result, savePath string) error {
	p := tea.NewProgram(New(runner, res, savePath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// seek re-evolves a fresh register through the first n gates.
func (m *Model) seek(n int) {
	n = max(0, min(n, len(m.result.Circuit.Steps)))
	m.applied = n
	m.state, m.err = dj.Evolve(m.result.Circuit, n)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) resample() tea.Cmd {
	runner, o, shots := m.runner, m.result.Circuit.Oracle, m.result.Shots
	return func() tea.Msg {
		res, err := runner.RunOracle(o, shots, nil)
		return runMsg{result: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmView.Width = max(msg.Width/sidePanel-6, 20)
		m.qasmView.Height = max(msg.Height/2-8, 4)
		m.help.Width = msg.Width

	case runMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Resample error: %v", msg.err)
			break
		}
		m.result = msg.result
		m.statusMsg = fmt.Sprintf("Resampled run %s", msg.result.ID)

	case tea.KeyMsg:
		m.statusMsg = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.seek(m.applied + 1)
		case key.Matches(msg, m.keys.Prev):
			m.seek(m.applied - 1)
		case key.Matches(msg, m.keys.First):
			m.seek(0)
		case key.Matches(msg, m.keys.Last):
			m.seek(len(m.result.Circuit.Steps))
		case key.Matches(msg, m.keys.Resample):
			if m.runner != nil {
				return m, m.resample()
			}
		case key.Matches(msg, m.keys.Save):
			if err := os.WriteFile(m.savePath, []byte(qasm.Format(m.result.Circuit)), 0644); err != nil {
				m.statusMsg = fmt.Sprintf("Save error: %v", err)
			} else {
				m.statusMsg = "Saved " + m.savePath
			}
		case key.Matches(msg, m.keys.ScrollUp):
			m.qasmView.ScrollUp(1)
		case key.Matches(msg, m.keys.ScrollDn):
			m.qasmView.ScrollDown(1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / sidePanel
	circuitWidth := m.width - sideWidth - 4
	controlsHeight := 4
	if m.help.ShowAll {
		controlsHeight = 6
	}
	topHeight := max(m.height-controlsHeight-2, 8)

	circuitPanel := circuitStyle.Width(circuitWidth).Height(topHeight).Render(m.renderCircuit())
	sidePanelView := sideStyle.Width(sideWidth).Height(topHeight).Render(m.renderSide())
	controls := controlsStyle.Width(m.width - 4).Render(m.renderControls())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sidePanelView)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, controls)
}

// stepLabel describes the last applied gate.
func (m Model) stepLabel() string {
	steps := m.result.Circuit.Steps
	if m.applied == 0 {
		return fmt.Sprintf("Step 0/%d  fresh register |0…0⟩", len(steps))
	}
	st := steps[m.applied-1]
	return fmt.Sprintf("Step %d/%d  %s  %s", m.applied, len(steps), st.Stage, st.Gate)
}

func (m Model) renderCircuit() string {
	var sb strings.Builder
	res := m.result

	sb.WriteString(render.Title(fmt.Sprintf("Deutsch–Jozsa (n=%d, %s)", res.NumInputs, res.Oracle)))
	sb.WriteString("\n\n")
	sb.WriteString(render.Diagram(res.Circuit, m.applied-1))
	sb.WriteString("\n")
	sb.WriteString(m.stepLabel())
	sb.WriteString("\n\n")

	if m.applied == len(res.Circuit.Steps) {
		sb.WriteString(render.Histogram(res.Counts, res.Shots, histBarW))
		fmt.Fprintf(&sb, "\nVerdict:  %s\n", render.Verdict(res.Verdict))
		fmt.Fprintf(&sb, "Expected: %s\n", render.Expectation(res.Circuit.Oracle))
	} else {
		sb.WriteString(render.Dim("Step to the end to see the measurement."))
	}
	return sb.String()
}

func (m Model) renderSide() string {
	var sb strings.Builder

	sb.WriteString(render.Title("Qubit probabilities"))
	sb.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&sb, "Simulation error: %v\n", m.err)
	} else {
		ancilla := m.result.Circuit.Oracle.Ancilla()
		for q, p := range m.state.QubitProbabilities() {
			label := fmt.Sprintf("q[%d]", q)
			if q == ancilla {
				label = "anc"
			}
			fmt.Fprintf(&sb, "%-5s P(1) %s %.3f\n", label, m.probBar.ViewAs(p.Prob1), p.Prob1)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(render.Title("QASM"))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())
	return sb.String()
}

func (m Model) renderControls() string {
	var sb strings.Builder
	sb.WriteString(m.help.View(m.keys))
	if m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(m.statusMsg))
	}
	return sb.String()
}
