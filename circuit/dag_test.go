package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDAGParallelGates(t *testing.T) {
	c := New("par", 3)
	require.NoError(t, c.H(0))
	require.NoError(t, c.H(1))
	require.NoError(t, c.H(2))
	require.NoError(t, c.CX(0, 1))
	require.NoError(t, c.X(2))

	dag := NewCircuitDAG(c)
	assert.Equal(t, 2, dag.Depth())
	assert.Equal(t, 2, c.Depth())

	layers := dag.Layers()
	require.Len(t, layers, 2)
	assert.Len(t, layers[0], 3)
	assert.Len(t, layers[1], 2)

	onZero := dag.GetNodesOnQubit(0)
	require.Len(t, onZero, 2)
	assert.Equal(t, 0, onZero[0].Index)
	assert.Equal(t, 3, onZero[1].Index)
}

func TestDAGTopologicalOrder(t *testing.T) {
	c := New("topo", 2)
	require.NoError(t, c.H(1))
	require.NoError(t, c.CX(1, 0))
	require.NoError(t, c.H(0))

	order := NewCircuitDAG(c).TopologicalSort()
	require.Len(t, order, 3)
	for i, node := range order {
		assert.Equal(t, i, node.Index)
	}
}

func TestDAGColumnsAvoidCrossing(t *testing.T) {
	c := New("cols", 3)
	// cp spans q0..q2; the h on q1 is independent but sits under the connector
	require.NoError(t, c.CP(1, 0, 2))
	require.NoError(t, c.H(1))

	dag := NewCircuitDAG(c)
	assert.Equal(t, 1, dag.Depth())

	cols := dag.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, 0, cols[0][0].Index)
	assert.Equal(t, 1, cols[1][0].Index)
}
