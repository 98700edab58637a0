package circuit

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRegisterAllocatesSequentially(t *testing.T) {
	c := New("regs", 0)
	a := c.AddRegister("a", 2)
	b := c.AddRegister("b", 3)

	assert.Equal(t, []int{0, 1}, a.Qubits)
	assert.Equal(t, []int{2, 3, 4}, b.Qubits)
	assert.Equal(t, 5, c.NumQubits)

	got, ok := c.Register("b")
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestAddGateRejectsBadQubits(t *testing.T) {
	c := New("bad", 2)

	err := c.H(2)
	assert.True(t, errors.Is(err, ErrQubitRange), "got %v", err)

	err = c.CP(math.Pi, 1, 1)
	assert.True(t, errors.Is(err, ErrDuplicateQubit), "got %v", err)

	assert.Equal(t, 0, c.Len())
}

func TestUnitaryArity(t *testing.T) {
	c := New("u", 2)
	err := c.Unitary(Identity(4), 0)
	assert.True(t, errors.Is(err, ErrMatrixArity), "got %v", err)

	err = c.Unitary(Identity(3), 0)
	assert.True(t, errors.Is(err, ErrMatrixShape), "got %v", err)

	require.NoError(t, c.Unitary(Identity(4), 0, 1))
}

func TestInitializeChecksState(t *testing.T) {
	c := New("init", 2)
	reg := Qubits(2)

	err := c.Initialize([]complex128{1, 0}, reg)
	assert.True(t, errors.Is(err, ErrStateSize), "got %v", err)

	err = c.Initialize([]complex128{1, 1, 0, 0}, reg)
	assert.True(t, errors.Is(err, ErrStateNorm), "got %v", err)

	require.NoError(t, c.Initialize([]complex128{0, 1, 0, 0}, reg))
}

func TestInverseReversesAndNegates(t *testing.T) {
	c := New("fwd", 2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.S(1))
	require.NoError(t, c.CP(math.Pi/4, 0, 1))
	require.NoError(t, c.Unitary(Diagonal(1, 1i), 0))

	inv, err := c.Inverse()
	require.NoError(t, err)
	assert.Equal(t, "fwd_dg", inv.Name)

	gates := inv.Gates()
	require.Len(t, gates, 4)
	assert.Equal(t, OpUnitary, gates[0].Name)
	assert.Equal(t, complex128(-1i), gates[0].Matrix[1][1])
	assert.Equal(t, "cp", gates[1].Label())
	assert.InDelta(t, -math.Pi/4, gates[1].Params[0], 1e-12)
	assert.Equal(t, OpSdg, gates[2].Name)
	assert.Equal(t, OpH, gates[3].Name)

	// the source circuit is untouched
	assert.InDelta(t, math.Pi/4, c.Instructions[2].Gate.Params[0], 1e-12)
}

func TestInverseRejectsMeasurement(t *testing.T) {
	c := New("m", 1)
	require.NoError(t, c.H(0))
	require.NoError(t, c.Measure(0, 0))

	_, err := c.Inverse()
	assert.True(t, errors.Is(err, ErrNotInvertible), "got %v", err)
}

func TestAppendAndDecompose(t *testing.T) {
	sub := New("bell", 2)
	require.NoError(t, sub.H(0))
	require.NoError(t, sub.CX(0, 1))

	c := New("outer", 4)
	require.NoError(t, c.Append(sub, Register{Qubits: []int{3, 1}}))
	require.Equal(t, 1, c.Len())
	assert.True(t, c.HasBlocks())
	assert.Equal(t, "bell", c.Instructions[0].Name())

	flat := c.Decompose()
	require.Equal(t, 2, flat.Len())
	assert.Equal(t, []int{3}, flat.Instructions[0].Gate.Qubits)
	assert.Equal(t, []int{3}, flat.Instructions[1].Gate.Controls)
	assert.Equal(t, []int{1}, flat.Instructions[1].Gate.Qubits)

	// appending copies; later edits to sub do not leak in
	require.NoError(t, sub.X(0))
	assert.Equal(t, 2, c.Instructions[0].Block.Len())
}

func TestAppendShapeMismatch(t *testing.T) {
	sub := New("three", 3)
	c := New("outer", 4)
	err := c.Append(sub, Qubits(2))
	assert.True(t, errors.Is(err, ErrBlockShape), "got %v", err)
}

func TestFlattenNested(t *testing.T) {
	inner := New("inner", 1)
	require.NoError(t, inner.X(0))
	mid := New("mid", 2)
	require.NoError(t, mid.Append(inner, Register{Qubits: []int{1}}))
	require.NoError(t, mid.H(0))
	outer := New("outer", 3)
	require.NoError(t, outer.Append(mid, Register{Qubits: []int{2, 0}}))

	one := outer.Decompose()
	assert.True(t, one.HasBlocks())

	flat := outer.Flatten()
	assert.False(t, flat.HasBlocks())
	gates := flat.Gates()
	require.Len(t, gates, 2)
	assert.Equal(t, []int{0}, gates[0].Qubits)
	assert.Equal(t, []int{2}, gates[1].Qubits)
	assert.Equal(t, map[string]int{"x": 1, "h": 1}, outer.Counts())
}

func TestControlledLift(t *testing.T) {
	u := Gate{Name: OpUnitary, Qubits: []int{2}, Matrix: PhaseMatrix(math.Pi)}
	cu, err := Controlled(u, []int{0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "cunitary", cu.Label())
	assert.Equal(t, 1, cu.CtrlState)

	ccu, err := Controlled(cu, []int{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ccu.Controls)
	assert.Equal(t, 0b10, ccu.CtrlState)

	_, err = Controlled(Gate{Name: OpMeasure, Qubits: []int{0}}, []int{1}, 1)
	assert.Error(t, err)
}

func TestMatrixHelpers(t *testing.T) {
	h := Matrix{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	assert.True(t, h.IsUnitary(1e-12))
	assert.True(t, h.Mul(h).EqualApprox(Identity(2), 1e-12))

	n, err := Identity(8).NumQubits()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.False(t, Matrix{{1, 2}, {3, 4}}.IsUnitary(1e-9))
	assert.True(t, Diagonal(1i, 1i).EqualUpToPhase(Identity(2), 1e-12))
	assert.False(t, Diagonal(1, -1).EqualUpToPhase(Identity(2), 1e-12))
}
