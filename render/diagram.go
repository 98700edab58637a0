// Package render draws circuits as text diagrams.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qfourier/circuit"
)

// Cursor marks one cell to highlight.
type Cursor struct {
	Qubit  int
	Column int
}

// Options controls what Draw renders.
type Options struct {
	// Expand inlines sub-circuit blocks instead of drawing them as boxes.
	Expand bool
	// Start is the first column drawn; MaxColumns limits how many (0 = all).
	Start      int
	MaxColumns int
	// Header prints column numbers above the wires.
	Header bool
	Cursor *Cursor
	Styles *Styles
}

// cell describes what one (column, qubit) position shows.
type cell struct {
	label        string // boxed text
	symbol       string // bare wire symbol such as ● or ⊕
	vertAbove    bool
	vertBelow    bool
	cross        bool // a connector passes over an untouched wire
	barrier      bool
	measured     bool // classical connector leaves this cell downward
	measureCross bool // classical connector passes through
}

func (c cell) empty() bool {
	return c.label == "" && c.symbol == "" && !c.cross && !c.barrier
}

// layout is the per-column cell grid of a circuit.
type layout struct {
	cells    [][]cell      // [column][qubit]
	measures map[int][]int // column -> clbits written
}

// Columns returns the number of drawing columns of c.
func Columns(c *circuit.Circuit, expand bool) int {
	if expand {
		c = c.Flatten()
	}
	return len(circuit.NewCircuitDAG(c).Columns())
}

func buildLayout(c *circuit.Circuit) *layout {
	cols := circuit.NewCircuitDAG(c).Columns()
	l := &layout{
		cells:    make([][]cell, len(cols)),
		measures: make(map[int][]int),
	}
	for col, nodes := range cols {
		l.cells[col] = make([]cell, c.NumQubits)
		for _, node := range nodes {
			l.place(col, node.Instruction)
		}
		for _, node := range nodes {
			in := node.Instruction
			if in.Block == nil && in.Gate.Name == circuit.OpMeasure {
				l.measures[col] = append(l.measures[col], in.Gate.Clbits[0])
				l.dropConnector(col, in.Gate.Qubits[0])
			}
		}
	}
	return l
}

// place fills the cells touched by one instruction.
func (l *layout) place(col int, in circuit.Instruction) {
	row := l.cells[col]
	touched := in.AllQubits()
	if len(touched) == 0 {
		return
	}

	if in.Block != nil {
		for _, q := range touched {
			row[q].label = in.Block.Name
		}
	} else {
		g := in.Gate
		for i, q := range g.Controls {
			if g.CtrlState&(1<<i) != 0 {
				row[q].symbol = "●"
			} else {
				row[q].symbol = "○"
			}
		}
		for _, q := range g.Qubits {
			switch {
			case g.Name == circuit.OpBarrier:
				row[q].barrier = true
			case g.Name == circuit.OpSwap:
				row[q].symbol = "×"
			case g.Name == circuit.OpX && len(g.Controls) > 0:
				row[q].symbol = "⊕"
			case g.Name == circuit.OpZ && len(g.Controls) > 0:
				row[q].symbol = "●"
			default:
				row[q].label = gateText(g)
			}
		}
		if g.Name == circuit.OpBarrier {
			return
		}
	}

	lo, hi := touched[0], touched[0]
	for _, q := range touched {
		lo, hi = min(lo, q), max(hi, q)
	}
	isTouched := make(map[int]bool, len(touched))
	for _, q := range touched {
		isTouched[q] = true
	}
	for q := lo; q <= hi; q++ {
		if !isTouched[q] {
			row[q].cross = true
			continue
		}
		row[q].vertAbove = q > lo
		row[q].vertBelow = q < hi
	}
}

// dropConnector runs the classical connector from q down to the bottom wire.
func (l *layout) dropConnector(col, q int) {
	row := l.cells[col]
	row[q].measured = true
	for below := q + 1; below < len(row); below++ {
		if row[below].empty() {
			row[below].measureCross = true
		}
	}
}

// gateText returns the boxed label of a gate.
func gateText(g circuit.Gate) string {
	var name string
	switch g.Name {
	case circuit.OpSdg:
		name = "S†"
	case circuit.OpTdg:
		name = "T†"
	case circuit.OpMeasure:
		return "M"
	case circuit.OpUnitary:
		name = "U"
	case circuit.OpInitialize:
		return "init"
	default:
		name = strings.ToUpper(g.Name)
	}
	if len(g.Params) == 1 {
		withParam := name + "(" + circuit.FormatAngle(g.Params[0]) + ")"
		if lipgloss.Width(withParam) <= gateNameW {
			return withParam
		}
	}
	return name
}

// padCenter centres a string within the given width, truncating if needed.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		if len(r) > width {
			r = r[:width]
		}
		return string(r)
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each cellW
// visual characters wide.
func renderCell(info cell, st *Styles, highlight bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + st.Connector.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	if highlight {
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1
		bdr := st.Cursor

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch {
		case info.label != "":
			mid = bdr.Render("║") + st.Gate.Render("┤"+padCenter(info.label, gateNameW)+"├") + bdr.Render("║")
		case info.symbol != "":
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + st.Gate.Render(info.symbol) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.cross:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.barrier:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.barrier:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.label != "":
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		top = strings.Repeat(" ", margin) + st.Gate.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + st.Gate.Render("┤"+padCenter(info.label, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + st.Gate.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
		if info.vertAbove {
			top = strings.Repeat(" ", margin) + st.Gate.Render("┌"+strings.Repeat("─", gateNameW/2)+"┴"+strings.Repeat("─", gateNameW-gateNameW/2-1)+"┐") + strings.Repeat(" ", rightMargin)
		}
		if info.vertBelow {
			bot = strings.Repeat(" ", margin) + st.Gate.Render("└"+strings.Repeat("─", gateNameW/2)+"┬"+strings.Repeat("─", gateNameW-gateNameW/2-1)+"┘") + strings.Repeat(" ", rightMargin)
		}
		if info.measured {
			bot = dblVertRow
		}

	case info.symbol != "":
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + st.Gate.Render(info.symbol) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.cross:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.measureCross:
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + st.Connector.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow

	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// wireLabel names qubit q after the register holding it.
func wireLabel(c *circuit.Circuit, q int) string {
	for _, r := range c.Registers {
		for i, rq := range r.Qubits {
			if rq == q {
				return fmt.Sprintf("%s[%d]", r.Name, i)
			}
		}
	}
	return fmt.Sprintf("q[%d]", q)
}

// Draw renders c as a multi-line diagram.
func Draw(c *circuit.Circuit, opts Options) string {
	st := opts.Styles
	if st == nil {
		def := NewStyles(lipgloss.DefaultRenderer())
		st = &def
	}
	if opts.Expand {
		c = c.Flatten()
	}
	l := buildLayout(c)

	start := max(opts.Start, 0)
	end := len(l.cells)
	if opts.MaxColumns > 0 {
		end = min(end, start+opts.MaxColumns)
	}
	start = min(start, end)

	labels := make([]string, c.NumQubits)
	labelW := 0
	for q := range labels {
		labels[q] = wireLabel(c, q)
		labelW = max(labelW, lipgloss.Width(labels[q]))
	}
	clbitLabel := ""
	if c.NumClbits > 0 {
		clbitLabel = "c" + strconv.Itoa(c.NumClbits)
		labelW = max(labelW, len(clbitLabel))
	}
	pad := strings.Repeat(" ", labelW+2)

	var sb strings.Builder
	if opts.Header {
		sb.WriteString(pad)
		for col := start; col < end; col++ {
			sb.WriteString(st.Dim.Render(padCenter(strconv.Itoa(col), cellW)))
		}
		sb.WriteString("\n")
	}

	for q := 0; q < c.NumQubits; q++ {
		topLine := pad
		midLine := st.Label.Render(fmt.Sprintf("%-*s", labelW, labels[q])) + "──"
		botLine := pad
		for col := start; col < end; col++ {
			hl := opts.Cursor != nil && opts.Cursor.Qubit == q && opts.Cursor.Column == col
			top, mid, bot := renderCell(l.cells[col][q], st, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(strings.TrimRight(topLine, " ") + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(strings.TrimRight(botLine, " ") + "\n")
	}

	if c.NumClbits > 0 {
		halfW := cellW / 2
		sepLine := pad
		cbitLine := st.ClbitLabel.Render(fmt.Sprintf("%-*s", labelW, clbitLabel)) + st.ClbitWire.Render("══")
		for col := start; col < end; col++ {
			clbits, ok := l.measures[col]
			if !ok {
				sepLine += strings.Repeat(" ", cellW)
				cbitLine += st.ClbitWire.Render(strings.Repeat("═", cellW))
				continue
			}
			sepLine += strings.Repeat(" ", halfW) + st.Connector.Render("║") + strings.Repeat(" ", cellW-halfW-1)

			idx := make([]string, len(clbits))
			for i, cb := range clbits {
				idx[i] = strconv.Itoa(cb)
			}
			bitLabel := strings.Join(idx, ",")
			dashL := (cellW - 1) / 2
			if len(bitLabel) > cellW-dashL-1 {
				bitLabel = bitLabel[:cellW-dashL-1]
			}
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += st.ClbitWire.Render(strings.Repeat("═", dashL)) +
				st.Connector.Render("╩"+bitLabel) +
				st.ClbitWire.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(strings.TrimRight(sepLine, " ") + "\n")
		sb.WriteString(cbitLine + "\n")
	}
	return sb.String()
}
