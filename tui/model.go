// Package tui is an interactive terminal workbench for building and
// simulating Fourier-transform circuits.
package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qfourier/algo"
	"qfourier/circuit"
	"qfourier/sim"
)

const (
	maxQubits   = 10
	topOutcomes = 4
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusInputParam
)

// Options configures a workbench session.
type Options struct {
	NumQubits int
	Shots     int
	Seed      uint64
	SavePath  string
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.NumQubits <= 0 {
		o.NumQubits = 3
	}
	o.NumQubits = min(o.NumQubits, maxQubits)
	if o.Shots <= 0 {
		o.Shots = 1024
	}
	if o.SavePath == "" {
		o.SavePath = "circuit.qasm"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// outcome is one simulated bitstring and its frequency.
type outcome struct {
	bits  string
	count int
}

// Model represents the workbench state.
type Model struct {
	opts        Options
	circ        *circuit.Circuit
	cursorQubit int
	cursorCol   int
	width       int
	height      int
	qasmView    textarea.Model
	focus       focus
	statusMsg   string
	statusErr   bool

	// Menu state
	menuCat    int
	menuItem   int
	paramInput string

	// Simulation state
	results      []outcome
	shots        int
	qpePrecision int // precision bits of the last QPE demo, 0 if none
}

// New returns the initial model.
func New(opts Options) Model {
	opts = opts.withDefaults()

	ta := textarea.New()
	ta.Placeholder = "OpenQASM 2.0"
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Blur()

	m := Model{
		opts:     opts,
		circ:     circuit.New("workbench", opts.NumQubits),
		qasmView: ta,
		focus:    focusCircuit,
	}
	m.sync()
	return m
}

// Circuit returns the circuit being edited.
func (m Model) Circuit() *circuit.Circuit {
	return m.circ
}

// Run starts the workbench and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// sync refreshes the QASM view and clamps the cursor after a circuit change.
func (m *Model) sync() {
	qasm, err := m.circ.ToQASM()
	if err != nil {
		qasm = "// " + err.Error() + "\n"
		for _, in := range m.circ.Instructions {
			qasm += "// " + in.Name() + "\n"
		}
	}
	m.qasmView.SetValue(qasm)
	m.cursorQubit = min(m.cursorQubit, m.circ.NumQubits-1)
	m.results = nil
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
	m.opts.Logger.Debug("workbench action failed", zap.Error(err))
}

// rebuild replays instrs onto a fresh n-qubit circuit and reports how many
// no longer fit.
func rebuild(name string, n int, instrs []circuit.Instruction) (*circuit.Circuit, int) {
	next := circuit.New(name, n)
	dropped := 0
	for _, in := range instrs {
		var err error
		if in.Block != nil {
			err = next.Append(in.Block, circuit.Register{Qubits: in.Qubits})
		} else {
			err = next.AddGate(in.Gate)
		}
		if err != nil {
			dropped++
		}
	}
	return next, dropped
}

func (m *Model) resize(n int) {
	next, dropped := rebuild(m.circ.Name, n, m.circ.Instructions)
	m.circ = next
	m.qpePrecision = 0
	m.sync()
	m.setStatus(fmt.Sprintf("%d qubits", n))
	if dropped > 0 {
		m.setStatus(fmt.Sprintf("%d qubits, dropped %d instructions", n, dropped))
	}
}

// apply runs one menu action against the circuit.
func (m *Model) apply(act action, theta float64) error {
	c := m.circ
	q := m.cursorQubit
	n := c.NumQubits

	switch act {
	case actH:
		return c.H(q)
	case actX:
		return c.X(q)
	case actZ:
		return c.Z(q)
	case actS:
		return c.S(q)
	case actT:
		return c.T(q)
	case actMeasure:
		return c.Measure(q, q)
	case actBarrier:
		return c.Barrier()
	case actQFT:
		return algo.QFT(c, circuit.Qubits(n).Slice(q, n))
	case actIQFT:
		return algo.InverseQFT(c, circuit.Qubits(n).Slice(q, n))
	case actQPE:
		if n < 2 {
			return errors.New("QPE needs at least 2 qubits")
		}
		prec := circuit.Qubits(n).Slice(0, n-1)
		anc := circuit.Qubits(n).Slice(n-1, n)
		if err := algo.QPE(c, algo.PhaseUnitary(theta), prec, anc, []complex128{0, 1}); err != nil {
			return err
		}
		m.qpePrecision = n - 1
		return nil
	case actMeasureAll:
		return c.MeasureRegister(circuit.Qubits(n), 0)
	}
	return errors.Errorf("unknown action %d", act)
}

func (m *Model) applyAndSync(item menuItem, theta float64) {
	if err := m.apply(item.act, theta); err != nil {
		m.setError(err)
		return
	}
	m.sync()
	m.cursorCol = m.numColumns() - 1
	m.setStatus("Added " + item.name)
}

// simulate samples the current circuit and keeps the most frequent outcomes.
func (m *Model) simulate() {
	res, err := sim.Simulate(m.circ, m.opts.Shots, m.opts.Seed)
	if err != nil {
		m.setError(err)
		return
	}
	m.results = m.results[:0]
	for _, k := range res.Counts.Keys() {
		m.results = append(m.results, outcome{bits: k, count: res.Counts[k]})
	}
	sort.SliceStable(m.results, func(i, j int) bool {
		return m.results[i].count > m.results[j].count
	})
	if len(m.results) > topOutcomes {
		m.results = m.results[:topOutcomes]
	}
	m.shots = res.Shots
	m.setStatus(fmt.Sprintf("Simulated %d shots", res.Shots))
	m.opts.Logger.Debug("simulated workbench circuit",
		zap.Int("qubits", m.circ.NumQubits),
		zap.Int("shots", res.Shots),
		zap.Int("outcomes", len(res.Counts)),
	)
}

// phaseEstimate decodes the precision bits of the best outcome after a QPE
// demo. Precision qubit k lands in clbit k, the right end of the key.
func (m Model) phaseEstimate() (float64, bool) {
	if m.qpePrecision == 0 || len(m.results) == 0 {
		return 0, false
	}
	bits := m.results[0].bits
	if len(bits) < m.qpePrecision {
		return 0, false
	}
	phase, err := algo.DecodePhase(bits[len(bits)-m.qpePrecision:])
	if err != nil {
		return 0, false
	}
	return phase, true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmView.SetWidth(max(msg.Width/3-6, 20))
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasmView.SetHeight(max(circH-8, 4))

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		m.statusMsg = ""

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "ctrl+r":
				m.circ = circuit.New(m.circ.Name, m.circ.NumQubits)
				m.cursorCol = 0
				m.qpePrecision = 0
				m.sync()
			case "ctrl+s":
				qasm, err := m.circ.ToQASM()
				if err != nil {
					m.setError(err)
					break
				}
				if err := os.WriteFile(m.opts.SavePath, []byte(qasm), 0o644); err != nil {
					m.setError(errors.Wrap(err, "save"))
				} else {
					m.setStatus("Saved " + m.opts.SavePath)
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circ.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorCol > 0 {
					m.cursorCol--
				}
			case "right", "l":
				if m.cursorCol < m.numColumns()-1 {
					m.cursorCol++
				}
			case "+", "=":
				if m.circ.NumQubits < maxQubits {
					m.resize(m.circ.NumQubits + 1)
				}
			case "-":
				if m.circ.NumQubits > 1 {
					m.resize(m.circ.NumQubits - 1)
				}
			case "backspace", "delete":
				if n := len(m.circ.Instructions); n > 0 {
					m.circ, _ = rebuild(m.circ.Name, m.circ.NumQubits, m.circ.Instructions[:n-1])
					m.sync()
					m.cursorCol = min(m.cursorCol, max(m.numColumns()-1, 0))
				}
			case "s":
				m.simulate()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(blockMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l", "tab":
				if m.menuCat < len(blockMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := blockMenu[m.menuCat].items[m.menuItem]
				if item.needsParams {
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}
				m.applyAndSync(item, 0)
				m.focus = focusCircuit
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.paramInput = ""
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				item := blockMenu[m.menuCat].items[m.menuItem]
				input := m.paramInput
				if input == "" {
					input = item.paramHint
				}
				theta, err := strconv.ParseFloat(input, 64)
				if err != nil {
					m.setError(errors.Errorf("invalid phase %q", m.paramInput))
					break
				}
				m.applyAndSync(item, theta)
				m.paramInput = ""
				m.focus = focusCircuit
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' {
						m.paramInput += key
					}
				}
			}
		}
	}

	return m, nil
}
