package circuit

import (
	"strings"

	"github.com/pkg/errors"
)

// Base operation names. A controlled gate keeps its base name and lists its
// control qubits separately, so cp is Gate{Name: OpP, Controls: [c]}.
const (
	OpH          = "h"
	OpX          = "x"
	OpY          = "y"
	OpZ          = "z"
	OpS          = "s"
	OpSdg        = "sdg"
	OpT          = "t"
	OpTdg        = "tdg"
	OpRX         = "rx"
	OpRY         = "ry"
	OpRZ         = "rz"
	OpP          = "p"
	OpSwap       = "swap"
	OpUnitary    = "unitary"
	OpInitialize = "initialize"
	OpMeasure    = "measure"
	OpBarrier    = "barrier"
)

// Gate represents a single instruction placed on the circuit.
type Gate struct {
	Name      string
	Qubits    []int        // target qubits
	Controls  []int        // control qubits, empty for uncontrolled gates
	CtrlState int          // bit i set: Controls[i] is active on |1⟩
	Params    []float64    // rotation angles
	Matrix    Matrix       // OpUnitary only
	State     []complex128 // OpInitialize only
	Clbits    []int        // OpMeasure only
}

// Label returns the gate name with one "c" prefix per control, e.g. "cp".
func (g Gate) Label() string {
	return strings.Repeat("c", len(g.Controls)) + g.Name
}

// AllQubits returns controls followed by targets.
func (g Gate) AllQubits() []int {
	out := make([]int, 0, len(g.Controls)+len(g.Qubits))
	out = append(out, g.Controls...)
	return append(out, g.Qubits...)
}

// IsUnitary reports whether the gate is a reversible operation.
func (g Gate) IsUnitary() bool {
	return g.Name != OpInitialize && g.Name != OpMeasure
}

// clone returns a deep copy so circuits never share slices.
func (g Gate) clone() Gate {
	out := g
	out.Qubits = append([]int(nil), g.Qubits...)
	out.Controls = append([]int(nil), g.Controls...)
	out.Params = append([]float64(nil), g.Params...)
	out.Clbits = append([]int(nil), g.Clbits...)
	out.State = append([]complex128(nil), g.State...)
	if g.Matrix != nil {
		out.Matrix = g.Matrix.Clone()
	}
	return out
}

// remap returns the gate with every qubit q replaced by mapping[q].
func (g Gate) remap(mapping []int) Gate {
	out := g.clone()
	for i, q := range out.Qubits {
		out.Qubits[i] = mapping[q]
	}
	for i, q := range out.Controls {
		out.Controls[i] = mapping[q]
	}
	return out
}

// Adjoint returns the inverse gate.
func (g Gate) Adjoint() (Gate, error) {
	out := g.clone()
	switch g.Name {
	case OpH, OpX, OpY, OpZ, OpSwap, OpBarrier:
	case OpS:
		out.Name = OpSdg
	case OpSdg:
		out.Name = OpS
	case OpT:
		out.Name = OpTdg
	case OpTdg:
		out.Name = OpT
	case OpRX, OpRY, OpRZ, OpP:
		for i := range out.Params {
			out.Params[i] = -out.Params[i]
		}
	case OpUnitary:
		out.Matrix = g.Matrix.Dagger()
	default:
		return Gate{}, errors.Wrapf(ErrNotInvertible, "gate %s", g.Label())
	}
	return out, nil
}

// Controlled lifts g into a gate with additional control qubits. ctrlState
// bit i selects the active value of ctrls[i]; pass (1<<len(ctrls))-1 for
// the usual "active on |1⟩" controls.
func Controlled(g Gate, ctrls []int, ctrlState int) (Gate, error) {
	if !g.IsUnitary() || g.Name == OpBarrier {
		return Gate{}, errors.Errorf("cannot control %s", g.Name)
	}
	out := g.clone()
	out.Controls = append(append([]int(nil), ctrls...), g.Controls...)
	out.CtrlState = ctrlState | g.CtrlState<<len(ctrls)
	return out, nil
}

func allOnes(n int) int {
	return 1<<n - 1
}
