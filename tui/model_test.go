package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newModel(t *testing.T, n int) Model {
	return New(Options{NumQubits: n, Shots: 256, Seed: 7, Logger: zaptest.NewLogger(t)})
}

func TestAddGateFromMenu(t *testing.T) {
	m := newModel(t, 2)
	m = press(t, m, runes("a"))
	assert.Equal(t, focusMenu, m.focus)

	// Hadamard is the first item of the first category.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, focusCircuit, m.focus)
	require.Len(t, m.circ.Instructions, 1)
	assert.Equal(t, "h", m.circ.Instructions[0].Gate.Name)
	assert.Contains(t, m.qasmView.Value(), "h q[0];")
}

func TestMenuEscape(t *testing.T) {
	m := newModel(t, 2)
	m = press(t, m, runes("a"), runes("j"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusCircuit, m.focus)
	assert.Empty(t, m.circ.Instructions)
}

func TestQFTBlockFromCursor(t *testing.T) {
	m := newModel(t, 3)
	m = press(t, m, runes("j"), runes("a"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, m.circ.Instructions, 1)
	in := m.circ.Instructions[0]
	require.True(t, in.IsBlock())
	assert.Equal(t, "QFT", in.Block.Name)
	assert.Equal(t, []int{1, 2}, in.Qubits)
}

func TestQPEDemoEstimatesPhase(t *testing.T) {
	m := newModel(t, 3)
	m = press(t, m, runes("a"), runes("l"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusInputParam, m.focus)

	m = press(t, m, runes("0"), runes("."), runes("2"), runes("5"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusCircuit, m.focus)
	require.Len(t, m.circ.Instructions, 1)
	assert.Equal(t, "QPE", m.circ.Instructions[0].Name())
	assert.Equal(t, 2, m.qpePrecision)

	m = press(t, m, runes("s"))
	require.NotEmpty(t, m.results)
	assert.Equal(t, "101", m.results[0].bits)
	assert.Equal(t, 256, m.results[0].count)

	phase, ok := m.phaseEstimate()
	require.True(t, ok)
	assert.InDelta(t, 0.25, phase, 1e-12)
}

func TestInvalidPhaseKeepsInputOpen(t *testing.T) {
	m := newModel(t, 3)
	m = press(t, m, runes("a"), runes("l"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("-"), runes("-"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, focusInputParam, m.focus)
	assert.True(t, m.statusErr)
	assert.Empty(t, m.circ.Instructions)
}

func TestResizeDropsInstructions(t *testing.T) {
	m := newModel(t, 3)
	m = press(t, m, runes("j"), runes("j"), runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.circ.Instructions, 1)

	m = press(t, m, runes("-"))
	assert.Equal(t, 2, m.circ.NumQubits)
	assert.Empty(t, m.circ.Instructions)
	assert.Equal(t, 1, m.cursorQubit)

	m = press(t, m, runes("+"))
	assert.Equal(t, 3, m.circ.NumQubits)
}

func TestUndoAndReset(t *testing.T) {
	m := newModel(t, 2)
	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("a"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.circ.Instructions, 2)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Len(t, m.circ.Instructions, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Empty(t, m.circ.Instructions)
	assert.Equal(t, 0, m.cursorCol)
}

func TestSaveWritesQASM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.qasm")
	m := New(Options{NumQubits: 1, SavePath: path})
	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyCtrlS})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "OPENQASM 2.0;")
	assert.Contains(t, string(data), "h q[0];")
	assert.False(t, m.statusErr)
}

func TestViewRendersPanels(t *testing.T) {
	m := newModel(t, 2)
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	m = press(t, m, runes("a"))

	out := m.View()
	assert.Contains(t, out, "Quantum Circuit")
	assert.Contains(t, out, "OpenQASM")
	assert.Contains(t, out, "Hadamard")
}

func TestQuit(t *testing.T) {
	m := newModel(t, 1)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQPEDemoTwiceSimulates(t *testing.T) {
	m := newModel(t, 3)
	for range 2 {
		m = press(t, m, runes("a"), runes("l"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	}
	require.Len(t, m.circ.Instructions, 2)

	m = press(t, m, runes("s"))
	assert.False(t, m.statusErr, m.statusMsg)
	require.NotEmpty(t, m.results)
	// ancilla is reloaded with |1⟩, the leftmost key bit
	for _, o := range m.results {
		assert.Equal(t, byte('1'), o.bits[0])
	}
}
