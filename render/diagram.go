// Package render draws circuits, histograms and run summaries for the
// terminal. Nothing in here feeds back into the simulation.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/quantum"
)

// AllApplied draws every gate as executed.
const AllApplied = math.MaxInt

// column is one time slice of the diagram: gates on disjoint qubits, or a
// single measurement.
type column struct {
	steps   []int // indices into Circuit.Steps
	measure int   // measured qubit, -1 if a gate column
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *quantum.Gate
	step         int
	isControl    bool
	isTarget     bool
	isMeasure    bool
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// span returns the lowest and highest qubit a gate's wire covers.
func span(g quantum.Gate) (lo, hi int) {
	if g.Kind == quantum.ControlledNot {
		return min(g.Control, g.Target), max(g.Control, g.Target)
	}
	return g.Target, g.Target
}

// layout packs steps into columns as early as their qubits allow, without
// letting a stage start before the previous one has finished.
func layout(c dj.Circuit) []column {
	var cols []column
	busy := make([]int, c.NumQubits)
	floor := 0
	var stage dj.Stage

	for i, st := range c.Steps {
		if st.Stage != stage {
			floor = len(cols)
			stage = st.Stage
		}
		lo, hi := span(st.Gate)
		col := floor
		for q := lo; q <= hi; q++ {
			col = max(col, busy[q])
		}
		for len(cols) <= col {
			cols = append(cols, column{measure: -1})
		}
		cols[col].steps = append(cols[col].steps, i)
		for q := lo; q <= hi; q++ {
			busy[q] = col + 1
		}
	}

	for _, q := range c.Measured {
		cols = append(cols, column{measure: q})
	}
	return cols
}

// getCellInfo returns rendering information for the cell at (col, qubit).
func getCellInfo(c dj.Circuit, col column, qubit int) cellInfo {
	info := cellInfo{step: -1}

	if col.measure >= 0 {
		info.isMeasure = qubit == col.measure
		info.measureBelow = qubit > col.measure
		return info
	}

	for _, i := range col.steps {
		gate := c.Steps[i].Gate
		if gate.References(qubit) {
			info.gate = &gate
			info.step = i
			info.isControl = gate.Kind == quantum.ControlledNot && gate.Control == qubit
			info.isTarget = gate.Kind == quantum.ControlledNot && gate.Target == qubit
		}

		if gate.Kind != quantum.ControlledNot {
			continue
		}
		lo, hi := span(gate)
		if qubit >= lo && qubit <= hi {
			if qubit > lo {
				info.vertAbove = true
			}
			if qubit < hi {
				info.vertBelow = true
			}
			if qubit > lo && qubit < hi && !gate.References(qubit) {
				info.passThrough = true
			}
		}
	}
	return info
}

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each cellW
// visible characters wide.
func renderCell(info cellInfo, style lipgloss.Style) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW

	box := func(name string) {
		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+padCenter(name, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	}

	switch {
	case info.isMeasure:
		box("M")
		bot = dblVertRow

	case info.measureBelow:
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow

	case info.isControl || info.isTarget:
		sym := "●"
		if info.isTarget {
			sym = "⊕"
		}
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + style.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.gate != nil:
		box(info.gate.Kind.String())

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}

	return
}

// styleFor picks the gate style for a step relative to the last applied
// step: executed, just executed, or pending.
func styleFor(step, current int) lipgloss.Style {
	switch {
	case current == AllApplied || step < current:
		return gateStyle
	case step == current:
		return activeGateStyle
	default:
		return dimStyle
	}
}

// Diagram draws the circuit with one three-line row per qubit and a
// classical wire for the measurements. current is the index of the last
// applied step: later gates are dimmed and the current one highlighted. Pass
// AllApplied to draw everything as executed, or -1 for nothing applied.
func Diagram(c dj.Circuit, current int) string {
	cols := layout(c)
	var sb strings.Builder

	// Column number header
	header := strings.Repeat(" ", labelVisualW)
	for i := range cols {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", i), cellW))
	}
	sb.WriteString(header + "\n")

	measured := current == AllApplied || current >= len(c.Steps)-1
	ancilla := c.NumQubits - 1

	for qubit := range c.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		var midLine string
		if qubit == ancilla {
			midLine = ancillaLabelStyle.Render(fmt.Sprintf("%-5s", "anc")) + "──"
		} else {
			midLine = qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		}
		botLine := strings.Repeat(" ", labelVisualW)

		for _, col := range cols {
			info := getCellInfo(c, col, qubit)

			style := gateStyle
			switch {
			case info.step >= 0:
				style = styleFor(info.step, current)
			case info.isMeasure && !measured:
				style = dimStyle
			}

			top, mid, bot := renderCell(info, style)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Classical wire
	if len(c.Measured) > 0 {
		label := fmt.Sprintf("c%d", len(c.Measured))
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")
		for _, col := range cols {
			if col.measure < 0 {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
				continue
			}
			bitLabel := fmt.Sprintf("%d", col.measure)
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
				cbitConnectorStyle.Render("╩"+bitLabel) +
				cbitWireStyle.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(cbitLine + "\n")
	}

	return sb.String()
}
