package circuit

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamedRegisters(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg a[2];
qreg b[1];
creg c0[1];
creg c1[1];

h a[1];
cx a[1], b[0];
cu1(pi/2) a[0], a[1];
measure a[0] -> c0[0];
measure b[0] -> c1[0];`

	c, err := ParseQASM("named", qasm)
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumQubits)
	assert.Equal(t, 2, c.NumClbits)

	gates := c.Gates()
	require.Len(t, gates, 5)
	assert.Equal(t, "h", gates[0].Label())
	assert.Equal(t, []int{1}, gates[0].Qubits)
	assert.Equal(t, "cx", gates[1].Label())
	assert.Equal(t, []int{1}, gates[1].Controls)
	assert.Equal(t, []int{2}, gates[1].Qubits)
	assert.Equal(t, "cp", gates[2].Label())
	assert.InDelta(t, math.Pi/2, gates[2].Params[0], 1e-12)
	assert.Equal(t, []int{1}, gates[4].Clbits)
}

func TestParseRejectsUnknownGate(t *testing.T) {
	_, err := ParseQASM("bad", "qreg q[1];\nfoo q[0];")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ParseQASM("range", "qreg q[1];\nh q[3];")
	assert.True(t, errors.Is(err, ErrQubitRange), "got %v", err)
}

func TestRoundTripQASM(t *testing.T) {
	c := New("rt", 3)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CP(math.Pi/8, 0, 2))
	require.NoError(t, c.Swap(0, 2))
	require.NoError(t, c.Barrier())
	require.NoError(t, c.Measure(2, 0))

	qasm, err := c.ToQASM()
	require.NoError(t, err)
	assert.Contains(t, qasm, "cu1(pi/8) q[0], q[2];")
	assert.Contains(t, qasm, "swap q[0], q[2];")
	assert.Contains(t, qasm, "barrier q[0], q[1], q[2];")

	c2, err := ParseQASM("rt", qasm)
	require.NoError(t, err)
	assert.Equal(t, c.Counts(), c2.Counts())
	assert.Equal(t, c.NumQubits, c2.NumQubits)
}

func TestToQASMZeroControlState(t *testing.T) {
	g, err := Controlled(Gate{Name: OpX, Qubits: []int{1}}, []int{0}, 0)
	require.NoError(t, err)
	c := New("open", 2)
	require.NoError(t, c.AddGate(g))

	qasm, err := c.ToQASM()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(qasm, "x q[0];"))
	assert.Contains(t, qasm, "cx q[0], q[1];")
}

func TestToQASMRejectsUnitary(t *testing.T) {
	c := New("u", 1)
	require.NoError(t, c.Unitary(Identity(2), 0))
	_, err := c.ToQASM()
	assert.True(t, errors.Is(err, ErrNotExpressible), "got %v", err)
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		// Plain numbers
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"42", 42, true},

		// Pi constant
		{"pi", math.Pi, true},
		{"PI", math.Pi, true},

		// Pi fractions
		{"pi/2", math.Pi / 2, true},
		{"pi/16", math.Pi / 16, true},

		// Coefficients
		{"2pi", 2 * math.Pi, true},
		{"3*pi/4", 3 * math.Pi / 4, true},

		// Negative
		{"-pi/2", -math.Pi / 2, true},
		{"-3*pi/4", -3 * math.Pi / 4, true},

		// Whitespace
		{" pi / 2 ", math.Pi / 2, true},

		// Invalid
		{"", 0, false},
		{"abc", 0, false},
		{"pi/0", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseAngle(tt.input)
		if !tt.ok {
			assert.True(t, errors.Is(err, ErrAngle), "ParseAngle(%q): got %v", tt.input, err)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.InDelta(t, tt.want, got, 1e-10, tt.input)
	}
}

func TestFormatAngle(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{3 * math.Pi / 4, "3*pi/4"},
		{-math.Pi / 2, "-pi/2"},
		{math.Pi / 16, "pi/16"},
		{2 * math.Pi, "2*pi"},
		{-2 * math.Pi / 3, "-2*pi/3"},
		{-math.Pi / 64, "-pi/64"},
		{1.5, "1.5"},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAngle(tt.input), "%g", tt.input)
	}
}
