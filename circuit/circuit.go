package circuit

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// Instruction is either a gate or a named sub-circuit mapped onto qubits of
// the enclosing circuit.
type Instruction struct {
	Gate   Gate
	Block  *Circuit // nil for plain gates
	Qubits []int    // Block qubit i lands on Qubits[i]
}

// IsBlock reports whether the instruction embeds a sub-circuit.
func (in Instruction) IsBlock() bool {
	return in.Block != nil
}

// Name returns the gate label or the block name.
func (in Instruction) Name() string {
	if in.Block != nil {
		return in.Block.Name
	}
	return in.Gate.Label()
}

// AllQubits returns every qubit the instruction touches.
func (in Instruction) AllQubits() []int {
	if in.Block != nil {
		return append([]int(nil), in.Qubits...)
	}
	return in.Gate.AllQubits()
}

// Circuit holds an ordered list of instructions over a fixed set of qubits.
type Circuit struct {
	Name         string
	NumQubits    int
	NumClbits    int
	Registers    []Register
	Instructions []Instruction
}

// New creates an empty circuit with n qubits grouped in register "q".
func New(name string, n int) *Circuit {
	c := &Circuit{Name: name}
	if n > 0 {
		c.AddRegister("q", n)
	}
	return c
}

// NewWithRegisters creates a circuit laid out as the given register sizes,
// in order.
func NewWithRegisters(name string, regs ...Register) *Circuit {
	c := &Circuit{Name: name}
	for _, r := range regs {
		c.AddRegister(r.Name, r.Len())
	}
	return c
}

// AddRegister grows the circuit by size qubits and returns the register
// addressing them.
func (c *Circuit) AddRegister(name string, size int) Register {
	reg := Range(name, c.NumQubits, size)
	c.NumQubits += size
	c.Registers = append(c.Registers, reg)
	return reg
}

// Register returns the register with the given name.
func (c *Circuit) Register(name string) (Register, bool) {
	for _, r := range c.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// Len returns the number of top-level instructions.
func (c *Circuit) Len() int {
	return len(c.Instructions)
}

func (c *Circuit) checkQubits(qs []int) error {
	seen := make(map[int]bool, len(qs))
	for _, q := range qs {
		if q < 0 || q >= c.NumQubits {
			return errors.Wrapf(ErrQubitRange, "qubit %d, circuit %q has %d", q, c.Name, c.NumQubits)
		}
		if seen[q] {
			return errors.Wrapf(ErrDuplicateQubit, "qubit %d", q)
		}
		seen[q] = true
	}
	return nil
}

// AddGate validates g and appends it.
func (c *Circuit) AddGate(g Gate) error {
	if err := c.checkQubits(g.AllQubits()); err != nil {
		return errors.Wrapf(err, "add %s", g.Label())
	}
	if g.Name == OpUnitary {
		n, err := g.Matrix.NumQubits()
		if err != nil {
			return errors.Wrap(err, "add unitary")
		}
		if n != len(g.Qubits) {
			return errors.Wrapf(ErrMatrixArity, "%d-qubit matrix on %d qubits", n, len(g.Qubits))
		}
	}
	if g.Name == OpMeasure {
		for _, cb := range g.Clbits {
			c.NumClbits = max(c.NumClbits, cb+1)
		}
	}
	c.Instructions = append(c.Instructions, Instruction{Gate: g.clone()})
	return nil
}

func (c *Circuit) single(name string, q int, params ...float64) error {
	return c.AddGate(Gate{Name: name, Qubits: []int{q}, Params: params})
}

func (c *Circuit) H(q int) error   { return c.single(OpH, q) }
func (c *Circuit) X(q int) error   { return c.single(OpX, q) }
func (c *Circuit) Y(q int) error   { return c.single(OpY, q) }
func (c *Circuit) Z(q int) error   { return c.single(OpZ, q) }
func (c *Circuit) S(q int) error   { return c.single(OpS, q) }
func (c *Circuit) Sdg(q int) error { return c.single(OpSdg, q) }
func (c *Circuit) T(q int) error   { return c.single(OpT, q) }
func (c *Circuit) Tdg(q int) error { return c.single(OpTdg, q) }

func (c *Circuit) RX(theta float64, q int) error { return c.single(OpRX, q, theta) }
func (c *Circuit) RY(theta float64, q int) error { return c.single(OpRY, q, theta) }
func (c *Circuit) RZ(theta float64, q int) error { return c.single(OpRZ, q, theta) }

// P applies diag(1, e^{i·theta}).
func (c *Circuit) P(theta float64, q int) error { return c.single(OpP, q, theta) }

// CP applies a controlled phase rotation of theta from control onto target.
func (c *Circuit) CP(theta float64, control, target int) error {
	return c.AddGate(Gate{Name: OpP, Qubits: []int{target}, Controls: []int{control}, CtrlState: 1, Params: []float64{theta}})
}

// CX applies a controlled NOT.
func (c *Circuit) CX(control, target int) error {
	return c.AddGate(Gate{Name: OpX, Qubits: []int{target}, Controls: []int{control}, CtrlState: 1})
}

// CZ applies a controlled Z.
func (c *Circuit) CZ(control, target int) error {
	return c.AddGate(Gate{Name: OpZ, Qubits: []int{target}, Controls: []int{control}, CtrlState: 1})
}

// Swap exchanges two qubits.
func (c *Circuit) Swap(a, b int) error {
	return c.AddGate(Gate{Name: OpSwap, Qubits: []int{a, b}})
}

// Unitary applies an arbitrary unitary matrix to qubits (qubits[0] is the
// least significant bit of the matrix index).
func (c *Circuit) Unitary(m Matrix, qubits ...int) error {
	return c.AddGate(Gate{Name: OpUnitary, Qubits: qubits, Matrix: m})
}

// ControlledUnitary applies m to targets when control is |1⟩.
func (c *Circuit) ControlledUnitary(m Matrix, control int, targets ...int) error {
	g, err := Controlled(Gate{Name: OpUnitary, Qubits: targets, Matrix: m}, []int{control}, 1)
	if err != nil {
		return err
	}
	return c.AddGate(g)
}

// Initialize prepares reg in the given state. The register qubits are
// expected to be in |0⟩.
func (c *Circuit) Initialize(state []complex128, reg Register) error {
	if len(state) != 1<<reg.Len() {
		return errors.Wrapf(ErrStateSize, "len %d for %d qubits", len(state), reg.Len())
	}
	var norm float64
	for _, a := range state {
		norm += real(a * cmplx.Conj(a))
	}
	if math.Abs(norm-1) > 1e-8 {
		return errors.Wrapf(ErrStateNorm, "norm %g", math.Sqrt(norm))
	}
	return c.AddGate(Gate{Name: OpInitialize, Qubits: reg.Qubits, State: state})
}

// Measure records a computational-basis measurement of qubit into clbit.
func (c *Circuit) Measure(qubit, clbit int) error {
	if clbit < 0 {
		return errors.Errorf("negative classical bit %d", clbit)
	}
	return c.AddGate(Gate{Name: OpMeasure, Qubits: []int{qubit}, Clbits: []int{clbit}})
}

// MeasureRegister measures reg[i] into classical bit offset+i.
func (c *Circuit) MeasureRegister(reg Register, offset int) error {
	for i, q := range reg.Qubits {
		if err := c.Measure(q, offset+i); err != nil {
			return err
		}
	}
	return nil
}

// Barrier spans the given qubits, or every qubit when none are given.
func (c *Circuit) Barrier(qubits ...int) error {
	if len(qubits) == 0 {
		qubits = Qubits(c.NumQubits).Qubits
	}
	return c.AddGate(Gate{Name: OpBarrier, Qubits: qubits})
}

// Append embeds sub as a named block acting on qubits.
func (c *Circuit) Append(sub *Circuit, qubits Register) error {
	if sub.NumQubits != qubits.Len() {
		return errors.Wrapf(ErrBlockShape, "%q needs %d qubits, got %d", sub.Name, sub.NumQubits, qubits.Len())
	}
	if sub.NumClbits > 0 {
		return errors.Wrapf(ErrBlockShape, "%q writes classical bits", sub.Name)
	}
	if err := c.checkQubits(qubits.Qubits); err != nil {
		return errors.Wrapf(err, "append %q", sub.Name)
	}
	c.Instructions = append(c.Instructions, Instruction{
		Block:  sub.Copy(),
		Qubits: append([]int(nil), qubits.Qubits...),
	})
	return nil
}

// Copy returns a deep copy.
func (c *Circuit) Copy() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Registers: make([]Register, len(c.Registers)),
	}
	for i, r := range c.Registers {
		out.Registers[i] = r.Slice(0, r.Len())
	}
	out.Instructions = make([]Instruction, len(c.Instructions))
	for i, in := range c.Instructions {
		out.Instructions[i] = copyInstruction(in)
	}
	return out
}

func copyInstruction(in Instruction) Instruction {
	if in.Block != nil {
		return Instruction{Block: in.Block.Copy(), Qubits: append([]int(nil), in.Qubits...)}
	}
	return Instruction{Gate: in.Gate.clone()}
}

// Inverse returns the exact inverse circuit, named Name+"_dg".
func (c *Circuit) Inverse() (*Circuit, error) {
	out := &Circuit{
		Name:      c.Name + "_dg",
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Registers: append([]Register(nil), c.Registers...),
	}
	for i := len(c.Instructions) - 1; i >= 0; i-- {
		in := c.Instructions[i]
		if in.Block != nil {
			inv, err := in.Block.Inverse()
			if err != nil {
				return nil, errors.Wrapf(err, "invert %q", c.Name)
			}
			out.Instructions = append(out.Instructions, Instruction{Block: inv, Qubits: append([]int(nil), in.Qubits...)})
			continue
		}
		adj, err := in.Gate.Adjoint()
		if err != nil {
			return nil, errors.Wrapf(err, "invert %q", c.Name)
		}
		out.Instructions = append(out.Instructions, Instruction{Gate: adj})
	}
	return out, nil
}

// Decompose returns a copy with one level of blocks inlined.
func (c *Circuit) Decompose() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Registers: append([]Register(nil), c.Registers...),
	}
	for _, in := range c.Instructions {
		if in.Block == nil {
			out.Instructions = append(out.Instructions, copyInstruction(in))
			continue
		}
		for _, sub := range in.Block.Instructions {
			if sub.Block != nil {
				mapped := make([]int, len(sub.Qubits))
				for i, q := range sub.Qubits {
					mapped[i] = in.Qubits[q]
				}
				out.Instructions = append(out.Instructions, Instruction{Block: sub.Block.Copy(), Qubits: mapped})
				continue
			}
			out.Instructions = append(out.Instructions, Instruction{Gate: sub.Gate.remap(in.Qubits)})
		}
	}
	return out
}

// HasBlocks reports whether any top-level instruction is a sub-circuit.
func (c *Circuit) HasBlocks() bool {
	for _, in := range c.Instructions {
		if in.Block != nil {
			return true
		}
	}
	return false
}

// Flatten inlines blocks recursively until only gates remain.
func (c *Circuit) Flatten() *Circuit {
	out := c
	for out.HasBlocks() {
		out = out.Decompose()
	}
	if out == c {
		out = c.Copy()
	}
	return out
}

// Gates returns the flattened gate sequence.
func (c *Circuit) Gates() []Gate {
	flat := c.Flatten()
	gates := make([]Gate, len(flat.Instructions))
	for i, in := range flat.Instructions {
		gates[i] = in.Gate
	}
	return gates
}

// Counts returns gate label -> occurrences over the flattened circuit.
func (c *Circuit) Counts() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Gates() {
		counts[g.Label()]++
	}
	return counts
}

// Size returns the number of gates in the flattened circuit, barriers excluded.
func (c *Circuit) Size() int {
	n := 0
	for _, g := range c.Gates() {
		if g.Name != OpBarrier {
			n++
		}
	}
	return n
}
