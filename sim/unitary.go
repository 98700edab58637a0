package sim

import (
	"github.com/pkg/errors"

	"qfourier/circuit"
)

// MaxUnitaryQubits bounds Unitary, which builds a dense 4^n matrix.
const MaxUnitaryQubits = 10

// Unitary returns the matrix of c by evolving every basis state. Column j
// is the image of |j⟩.
func Unitary(c *circuit.Circuit) (circuit.Matrix, error) {
	if c.NumQubits > MaxUnitaryQubits {
		return nil, errors.Wrapf(ErrTooManyQubits, "unitary of %d qubits", c.NumQubits)
	}
	gates := c.Gates()
	for _, g := range gates {
		if g.Name == circuit.OpMeasure || g.Name == circuit.OpInitialize {
			return nil, errors.Wrapf(circuit.ErrNotInvertible, "%q contains %s", c.Name, g.Name)
		}
	}

	dim := 1 << c.NumQubits
	u := make(circuit.Matrix, dim)
	for i := range u {
		u[i] = make([]complex128, dim)
	}
	for j := range dim {
		state := NewBasisState(c.NumQubits, j)
		for _, g := range gates {
			if err := state.ApplyGate(g); err != nil {
				return nil, err
			}
		}
		for i, a := range state.Amplitudes {
			u[i][j] = a
		}
	}
	return u, nil
}

// Equivalent reports whether a and b implement the same unitary up to a
// global phase.
func Equivalent(a, b *circuit.Circuit, tol float64) (bool, error) {
	if a.NumQubits != b.NumQubits {
		return false, nil
	}
	ua, err := Unitary(a)
	if err != nil {
		return false, err
	}
	ub, err := Unitary(b)
	if err != nil {
		return false, err
	}
	return ua.EqualUpToPhase(ub, tol), nil
}
