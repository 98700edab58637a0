package algo

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfourier/circuit"
	"qfourier/sim"
)

const tol = 1e-9

func TestQFTGateCounts(t *testing.T) {
	for n := 1; n <= 6; n++ {
		c := circuit.New("c", n)
		require.NoError(t, QFT(c, circuit.Qubits(n)))
		require.Equal(t, 1, c.Len())
		assert.Equal(t, "QFT", c.Instructions[0].Name())

		counts := c.Counts()
		assert.Equal(t, n, counts["h"], "n=%d", n)
		assert.Equal(t, n*(n-1)/2, counts["cp"], "n=%d", n)
		assert.Equal(t, n/2, counts["swap"], "n=%d", n)
	}
}

func TestQFTGateOrder(t *testing.T) {
	qft, err := QFTCircuit(3)
	require.NoError(t, err)
	gates := qft.Gates()
	require.Len(t, gates, 7)

	assert.Equal(t, "h", gates[0].Label())
	assert.Equal(t, []int{2}, gates[0].Qubits)
	assert.Equal(t, "cp", gates[1].Label())
	assert.Equal(t, []int{0}, gates[1].Controls)
	assert.Equal(t, []int{2}, gates[1].Qubits)
	assert.InDelta(t, math.Pi/4, gates[1].Params[0], tol)
	assert.InDelta(t, math.Pi/2, gates[2].Params[0], tol)
	assert.Equal(t, "swap", gates[6].Label())
	assert.Equal(t, []int{0, 2}, gates[6].Qubits)
}

func TestQFTMatchesDFT(t *testing.T) {
	for n := 1; n <= 4; n++ {
		qft, err := QFTCircuit(n)
		require.NoError(t, err)
		u, err := sim.Unitary(qft)
		require.NoError(t, err)

		dim := 1 << n
		norm := 1 / math.Sqrt(float64(dim))
		for k := range dim {
			for j := range dim {
				want := cmplx.Exp(complex(0, 2*math.Pi*float64(j*k)/float64(dim))) * complex(norm, 0)
				assert.InDelta(t, 0, cmplx.Abs(u[k][j]-want), tol, "n=%d [%d][%d]", n, k, j)
			}
		}
	}
}

func TestQFTThenInverseIsIdentity(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c := circuit.New("roundtrip", n)
		reg := circuit.Qubits(n)
		require.NoError(t, QFT(c, reg))
		require.NoError(t, InverseQFT(c, reg))
		assert.Equal(t, "IQFT", c.Instructions[1].Name())

		ok, err := sim.Equivalent(c, circuit.New("id", n), tol)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d", n)

		rev := circuit.New("reverse", n)
		require.NoError(t, InverseQFT(rev, reg))
		require.NoError(t, QFT(rev, reg))
		ok, err = sim.Equivalent(rev, circuit.New("id", n), tol)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d", n)
	}
}

func TestQFTOnSubRegister(t *testing.T) {
	c := circuit.New("sub", 4)
	reg := circuit.Register{Qubits: []int{3, 1}}
	require.NoError(t, QFT(c, reg))

	gates := c.Gates()
	for _, g := range gates {
		for _, q := range g.AllQubits() {
			assert.Contains(t, []int{1, 3}, q)
		}
	}
	assert.Error(t, QFT(c, circuit.Register{Qubits: []int{4}}))
}

func TestQPERejectsUnitarySize(t *testing.T) {
	c := circuit.New("qpe", 3)
	prec := circuit.Register{Qubits: []int{0, 1}}
	anc := circuit.Register{Qubits: []int{2}}

	err := QPE(c, circuit.Identity(4), prec, anc, nil)
	assert.True(t, errors.Is(err, ErrUnitarySize), "got %v", err)

	err = QPE(c, circuit.Identity(3), prec, anc, nil)
	assert.True(t, errors.Is(err, ErrUnitarySize), "got %v", err)

	err = QPE(c, circuit.Matrix{{1, 1}, {0, 1}}, prec, anc, nil)
	assert.True(t, errors.Is(err, ErrNotUnitary), "got %v", err)

	assert.Equal(t, 0, c.Len())
}

func TestQPERejectsInitialStateSize(t *testing.T) {
	c := circuit.New("qpe", 3)
	prec := circuit.Register{Qubits: []int{0, 1}}
	anc := circuit.Register{Qubits: []int{2}}

	err := QPE(c, PhaseUnitary(0.25), prec, anc, []complex128{0, 0, 1})
	assert.True(t, errors.Is(err, ErrInitialStateSize), "got %v", err)
	assert.Equal(t, 0, c.Len())

	err = InverseQPE(c, PhaseUnitary(0.25), prec, anc, []complex128{1})
	assert.True(t, errors.Is(err, ErrInitialStateSize), "got %v", err)
	assert.Equal(t, 0, c.Len())
}

func TestQPERepetitionCounts(t *testing.T) {
	c := circuit.New("reps", 4)
	prec := circuit.Register{Qubits: []int{3, 1, 2}}
	anc := circuit.Register{Qubits: []int{0}}
	require.NoError(t, QPE(c, PhaseUnitary(0.125), prec, anc, nil))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "QPE", c.Instructions[0].Name())

	perControl := make(map[int]int)
	for _, g := range c.Gates() {
		if g.Label() != "cunitary" {
			continue
		}
		require.Len(t, g.Controls, 1)
		assert.Equal(t, 1, g.CtrlState)
		assert.Equal(t, []int{0}, g.Qubits)
		perControl[g.Controls[0]]++
	}
	assert.Equal(t, map[int]int{3: 1, 1: 2, 2: 4}, perControl)
	assert.Equal(t, 6, c.Counts()["h"])
}

func TestQPEEndToEnd(t *testing.T) {
	qc, err := PhaseEstimationCircuit(0.25, 2)
	require.NoError(t, err)

	res, err := sim.Simulate(qc, 1024, 1)
	require.NoError(t, err)
	phase, best, err := EstimatePhase(res.Counts)
	require.NoError(t, err)
	assert.Equal(t, "01", best)
	assert.InDelta(t, 0.25, phase, tol)
	assert.Equal(t, 1024, res.Counts[best])
}

func TestQPEExactPhases(t *testing.T) {
	tests := []struct {
		theta float64
		want  string
	}{
		{0, "000"},
		{0.125, "001"},
		{0.5, "100"},
		{0.625, "101"},
		{0.875, "111"},
	}
	for _, tt := range tests {
		qc, err := PhaseEstimationCircuit(tt.theta, 3)
		require.NoError(t, err)
		res, err := sim.Simulate(qc, 64, 3)
		require.NoError(t, err)
		phase, best, err := EstimatePhase(res.Counts)
		require.NoError(t, err)
		assert.Equal(t, tt.want, best, "theta=%g", tt.theta)
		assert.InDelta(t, tt.theta, phase, tol)
	}
}

func TestInverseQPE(t *testing.T) {
	prec := circuit.Register{Qubits: []int{0, 1}}
	anc := circuit.Register{Qubits: []int{2}}
	u := PhaseUnitary(0.375)

	c := circuit.New("undo", 3)
	require.NoError(t, QPE(c, u, prec, anc, nil))
	require.NoError(t, InverseQPE(c, u, prec, anc, nil))
	assert.Equal(t, "QPE_dg", c.Instructions[1].Name())

	ok, err := sim.Equivalent(c, circuit.New("id", 3), tol)
	require.NoError(t, err)
	assert.True(t, ok)

	fresh := circuit.New("init", 3)
	err = InverseQPE(fresh, u, prec, anc, []complex128{0, 1})
	assert.True(t, errors.Is(err, circuit.ErrNotInvertible), "got %v", err)
	assert.Equal(t, 0, fresh.Len())
}

func TestDecodePhase(t *testing.T) {
	tests := []struct {
		bits string
		want float64
		ok   bool
	}{
		{"01", 0.25, true},
		{"1", 0.5, true},
		{"110", 0.75, true},
		{"0000", 0, true},
		{"", 0, false},
		{"012", 0, false},
	}
	for _, tt := range tests {
		got, err := DecodePhase(tt.bits)
		if !tt.ok {
			assert.True(t, errors.Is(err, ErrBitstring), "%q: got %v", tt.bits, err)
			continue
		}
		require.NoError(t, err, tt.bits)
		assert.InDelta(t, tt.want, got, tol, tt.bits)
	}

	_, _, err := EstimatePhase(sim.Counts{})
	assert.Error(t, err)
}

func TestQPETwoAncillaQubits(t *testing.T) {
	prec := circuit.Range("precision", 0, 3)
	anc := circuit.Range("ancilla", 3, 2)
	qc := circuit.NewWithRegisters("qpe2", prec, anc)

	u := circuit.Diagonal(1, 1, 1, cmplx.Exp(complex(0, 2*math.Pi*0.375)))
	require.NoError(t, QPE(qc, u, prec, anc, []complex128{0, 0, 0, 1}))
	require.NoError(t, qc.MeasureRegister(prec, 0))

	res, err := sim.Simulate(qc, 128, 5)
	require.NoError(t, err)
	assert.Equal(t, sim.Counts{"011": 128}, res.Counts)

	phase, _, err := EstimatePhase(res.Counts)
	require.NoError(t, err)
	assert.InDelta(t, 0.375, phase, tol)
}

func TestQPEUnitarySizeFollowsAncillaWidth(t *testing.T) {
	tests := []struct {
		name       string
		dim        int
		numAncilla int
	}{
		{name: "4x4 on 3 ancilla", dim: 4, numAncilla: 3},
		{name: "8x8 on 4 ancilla", dim: 8, numAncilla: 4},
		{name: "2x2 on 2 ancilla", dim: 2, numAncilla: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := circuit.New("qpe", 2+tt.numAncilla)
			prec := circuit.Range("precision", 0, 2)
			anc := circuit.Range("ancilla", 2, tt.numAncilla)

			err := QPE(c, circuit.Identity(tt.dim), prec, anc, nil)
			assert.True(t, errors.Is(err, ErrUnitarySize), "got %v", err)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestQPEOverwritesOccupiedAncilla(t *testing.T) {
	prec := circuit.Range("precision", 0, 2)
	anc := circuit.Range("ancilla", 2, 1)
	qc := circuit.NewWithRegisters("qpe", prec, anc)
	require.NoError(t, qc.X(2))
	require.NoError(t, QPE(qc, PhaseUnitary(0.25), prec, anc, []complex128{0, 1}))
	require.NoError(t, qc.MeasureRegister(prec, 0))

	res, err := sim.Simulate(qc, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, sim.Counts{"01": 100}, res.Counts)
}

func TestQPEAppliedTwiceStaysNormalized(t *testing.T) {
	prec := circuit.Range("precision", 0, 2)
	anc := circuit.Range("ancilla", 2, 1)
	qc := circuit.NewWithRegisters("qpe", prec, anc)
	for range 2 {
		require.NoError(t, QPE(qc, PhaseUnitary(0.25), prec, anc, []complex128{0, 1}))
	}

	state, err := sim.Run(qc)
	require.NoError(t, err)
	total := 0.0
	for _, p := range state.Probabilities() {
		total += p
	}
	assert.InDelta(t, 1, total, tol)
	// the ancilla is reloaded with |1⟩ by the second block
	assert.InDelta(t, 1, state.Marginal([]int{2})[1], tol)

	_, err = sim.Simulate(qc, 16, 1)
	assert.NoError(t, err)
}
