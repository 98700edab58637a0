package algo

import (
	"math"

	"github.com/pkg/errors"

	"qfourier/circuit"
)

var (
	// ErrUnitarySize is returned when the unitary does not act on exactly
	// the ancilla register.
	ErrUnitarySize = errors.New("unitary dimension does not match ancilla register")

	// ErrInitialStateSize is returned when the initial ancilla state is not
	// 2^len(ancilla) long.
	ErrInitialStateSize = errors.New("initial state length does not match ancilla register")

	// ErrNotUnitary is returned for matrices that are not unitary.
	ErrNotUnitary = errors.New("matrix is not unitary")
)

const (
	qpeName = "QPE"

	unitaryTol = 1e-8
)

// checkQPE validates the QPE inputs before anything touches a circuit.
func checkQPE(u circuit.Matrix, ancilla circuit.Register, initial []complex128) error {
	n, err := u.NumQubits()
	if err != nil {
		return errors.Wrap(ErrUnitarySize, err.Error())
	}
	if n != ancilla.Len() {
		return errors.Wrapf(ErrUnitarySize, "%dx%d unitary for %d ancilla qubits", u.Dim(), u.Dim(), ancilla.Len())
	}
	if !u.IsUnitary(unitaryTol) {
		return ErrNotUnitary
	}
	if initial != nil && len(initial) != 1<<ancilla.Len() {
		return errors.Wrapf(ErrInitialStateSize, "len %d for %d ancilla qubits", len(initial), ancilla.Len())
	}
	return nil
}

// buildQPE returns QPE on local qubits: precision 0..p-1, ancilla p..p+a-1.
func buildQPE(u circuit.Matrix, numPrecision, numAncilla int, initial []complex128) (*circuit.Circuit, error) {
	prec := circuit.Range("precision", 0, numPrecision)
	anc := circuit.Range("ancilla", numPrecision, numAncilla)
	qc := circuit.NewWithRegisters(qpeName, prec, anc)

	if initial != nil {
		if err := qc.Initialize(initial, anc); err != nil {
			return nil, err
		}
	}
	for _, q := range prec.Qubits {
		if err := qc.H(q); err != nil {
			return nil, err
		}
	}
	for k, q := range prec.Qubits {
		for range 1 << k {
			if err := qc.ControlledUnitary(u, q, anc.Qubits...); err != nil {
				return nil, err
			}
		}
	}
	if err := InverseQFT(qc, prec); err != nil {
		return nil, err
	}
	return qc, nil
}

func qpeQubits(precision, ancilla circuit.Register) circuit.Register {
	qs := make([]int, 0, precision.Len()+ancilla.Len())
	qs = append(qs, precision.Qubits...)
	qs = append(qs, ancilla.Qubits...)
	return circuit.Register{Name: qpeName, Qubits: qs}
}

// QPE appends Quantum Phase Estimation of u to c as a block named "QPE".
//
// When initial is non-nil the ancilla register is first initialized to it.
// Every precision qubit gets a Hadamard, then precision[k] controls u
// applied 2^k times to the ancilla register, and the inverse QFT over the
// precision register reads the phase out as a binary fraction. Inputs are
// validated before c is modified; on error c is unchanged.
func QPE(c *circuit.Circuit, u circuit.Matrix, precision, ancilla circuit.Register, initial []complex128) error {
	if err := checkQPE(u, ancilla, initial); err != nil {
		return err
	}
	qpe, err := buildQPE(u, precision.Len(), ancilla.Len(), initial)
	if err != nil {
		return errors.Wrap(err, "build qpe")
	}
	return errors.Wrap(c.Append(qpe, qpeQubits(precision, ancilla)), "append qpe")
}

// InverseQPE appends the exact inverse of QPE as a block named "QPE_dg".
// Initialization is not reversible, so a non-nil initial state fails with
// circuit.ErrNotInvertible.
func InverseQPE(c *circuit.Circuit, u circuit.Matrix, precision, ancilla circuit.Register, initial []complex128) error {
	if err := checkQPE(u, ancilla, initial); err != nil {
		return err
	}
	qpe, err := buildQPE(u, precision.Len(), ancilla.Len(), initial)
	if err != nil {
		return errors.Wrap(err, "build qpe")
	}
	inv, err := qpe.Inverse()
	if err != nil {
		return errors.Wrap(err, "invert qpe")
	}
	return errors.Wrap(c.Append(inv, qpeQubits(precision, ancilla)), "append inverse qpe")
}

// PhaseUnitary returns diag(1, e^{2πi·theta}), whose |1⟩ eigenphase is theta.
func PhaseUnitary(theta float64) circuit.Matrix {
	return circuit.PhaseMatrix(2 * math.Pi * theta)
}

// PhaseEstimationCircuit returns a ready-to-run circuit estimating theta
// with numPrecision bits: QPE of PhaseUnitary(theta) with the ancilla
// prepared in |1⟩, and precision[k] measured into clbit k.
func PhaseEstimationCircuit(theta float64, numPrecision int) (*circuit.Circuit, error) {
	prec := circuit.Range("precision", 0, numPrecision)
	anc := circuit.Range("ancilla", numPrecision, 1)
	qc := circuit.NewWithRegisters("phase_estimation", prec, anc)

	if err := QPE(qc, PhaseUnitary(theta), prec, anc, []complex128{0, 1}); err != nil {
		return nil, err
	}
	if err := qc.MeasureRegister(prec, 0); err != nil {
		return nil, err
	}
	return qc, nil
}
