package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qfourier/render"
)

// labelW is the widest default wire label, "q[9]", plus the lead-in wire.
const labelW = 6

// numColumns returns the number of diagram columns of the boxed circuit.
func (m Model) numColumns() int {
	return render.Columns(m.circ, false)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	maxCols := max((width-labelW-4)/11, 1)
	start := 0
	if m.cursorCol >= maxCols {
		start = m.cursorCol - maxCols + 1
	}
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", start, start+maxCols-1)
	}

	styles := render.NewStyles(lipgloss.DefaultRenderer())
	var cursor *render.Cursor
	if m.focus == focusCircuit || m.focus == focusMenu {
		cursor = &render.Cursor{Qubit: m.cursorQubit, Column: m.cursorCol}
	}
	sb.WriteString(render.Draw(m.circ, render.Options{
		Start:      start,
		MaxColumns: maxCols,
		Header:     true,
		Cursor:     cursor,
		Styles:     &styles,
	}))

	fmt.Fprintf(&sb, "\n  Position: Column %d, Qubit %d", m.cursorCol, m.cursorQubit)
	if m.statusMsg != "" {
		style := activeGateStyle
		if m.statusErr {
			style = errorStyle
		}
		fmt.Fprintf(&sb, "  │  %s", style.Render(m.statusMsg))
	}
	if res := m.renderResults(); res != "" {
		sb.WriteString("\n\n")
		sb.WriteString(res)
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderResults lists the most frequent outcomes of the last simulation.
func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Outcomes"))
	for _, o := range m.results {
		fmt.Fprintf(&sb, "\n  %s  %s", gateStyle.Render(o.bits), dimStyle.Render(fmt.Sprintf("%d/%d", o.count, m.shots)))
	}
	if phase, ok := m.phaseEstimate(); ok {
		fmt.Fprintf(&sb, "\n  θ ≈ %s", activeGateStyle.Render(fmt.Sprintf("%g", phase)))
	}
	return sb.String()
}

// renderQASMPanel shows the read-only OpenQASM export.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("OpenQASM"))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())
	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move column  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("s Simulate  Bksp Undo  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
