package circuit

import "github.com/pkg/errors"

var (
	// ErrQubitRange is returned when an instruction addresses a qubit the
	// circuit does not own.
	ErrQubitRange = errors.New("qubit index out of range")

	// ErrDuplicateQubit is returned when one instruction names the same qubit twice.
	ErrDuplicateQubit = errors.New("duplicate qubit in instruction")

	// ErrNotInvertible is returned by Inverse for circuits holding
	// non-unitary instructions (initialize, measure).
	ErrNotInvertible = errors.New("circuit is not invertible")

	// ErrMatrixShape is returned for matrices that are not square with a
	// power-of-two dimension.
	ErrMatrixShape = errors.New("matrix must be square with power-of-two dimension")

	// ErrMatrixArity is returned when a matrix size does not match the number
	// of qubits it is applied to.
	ErrMatrixArity = errors.New("matrix dimension does not match qubit count")

	// ErrStateSize is returned when an initial state vector length is not
	// 2^len(register).
	ErrStateSize = errors.New("state vector length does not match register")

	// ErrStateNorm is returned when an initial state vector is not normalized.
	ErrStateNorm = errors.New("state vector is not normalized")

	// ErrBlockShape is returned by Append when the sub-circuit does not fit
	// the qubits it is mapped onto.
	ErrBlockShape = errors.New("sub-circuit does not fit target qubits")

	// ErrNotExpressible is returned by ToQASM for instructions OpenQASM 2.0
	// cannot represent.
	ErrNotExpressible = errors.New("instruction not expressible in OpenQASM 2.0")
)
