package circuit

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/pkg/errors"
)

// Matrix is a dense square complex matrix, row-major.
//
// When a matrix acts on qubits (t0, t1, ...), t0 is the least significant
// bit of the row and column index.
type Matrix [][]complex128

// Identity returns the dim x dim identity matrix.
func Identity(dim int) Matrix {
	m := zeros(dim)
	for i := range dim {
		m[i][i] = 1
	}
	return m
}

// Diagonal returns the matrix with vals on its diagonal.
func Diagonal(vals ...complex128) Matrix {
	m := zeros(len(vals))
	for i, v := range vals {
		m[i][i] = v
	}
	return m
}

// PhaseMatrix returns diag(1, e^{i·theta}).
func PhaseMatrix(theta float64) Matrix {
	return Diagonal(1, cmplx.Exp(complex(0, theta)))
}

func zeros(dim int) Matrix {
	m := make(Matrix, dim)
	for i := range m {
		m[i] = make([]complex128, dim)
	}
	return m
}

// Dim returns the number of rows.
func (m Matrix) Dim() int {
	return len(m)
}

// IsSquare reports whether every row has Dim entries.
func (m Matrix) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

// NumQubits returns log2(Dim) for square matrices of power-of-two size.
func (m Matrix) NumQubits() (int, error) {
	d := m.Dim()
	if d == 0 || !m.IsSquare() || d&(d-1) != 0 {
		return 0, errors.Wrapf(ErrMatrixShape, "got %dx%d", d, rowLen(m))
	}
	return bits.TrailingZeros(uint(d)), nil
}

func rowLen(m Matrix) int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]complex128(nil), row...)
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	out := zeros(len(m))
	for i := range m {
		for j := range m[i] {
			out[j][i] = cmplx.Conj(m[i][j])
		}
	}
	return out
}

// Mul returns m·o. Both matrices must share the same dimension.
func (m Matrix) Mul(o Matrix) Matrix {
	n := len(m)
	out := zeros(n)
	for i := range n {
		for k := range n {
			a := m[i][k]
			if a == 0 {
				continue
			}
			for j := range n {
				out[i][j] += a * o[k][j]
			}
		}
	}
	return out
}

// Apply returns m·v.
func (m Matrix) Apply(v []complex128) []complex128 {
	out := make([]complex128, len(m))
	for i, row := range m {
		var acc complex128
		for j, a := range row {
			acc += a * v[j]
		}
		out[i] = acc
	}
	return out
}

// IsUnitary reports whether m·m† is the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	p := m.Mul(m.Dagger())
	return p.EqualApprox(Identity(len(m)), tol)
}

// EqualApprox reports element-wise equality within tol.
func (m Matrix) EqualApprox(o Matrix, tol float64) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(o[i]) {
			return false
		}
		for j := range m[i] {
			if cmplx.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// EqualUpToPhase reports whether m = e^{iφ}·o for some global phase φ.
func (m Matrix) EqualUpToPhase(o Matrix, tol float64) bool {
	if len(m) != len(o) {
		return false
	}
	var phase complex128
	for i := range m {
		for j := range m[i] {
			if cmplx.Abs(o[i][j]) > tol {
				phase = m[i][j] / o[i][j]
				break
			}
		}
		if phase != 0 {
			break
		}
	}
	if phase == 0 || math.Abs(cmplx.Abs(phase)-1) > tol {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if cmplx.Abs(m[i][j]-phase*o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
