package circuit

import (
	"fmt"
	"slices"
)

// DAGNode represents an instruction in the circuit as a node in a DAG.
// Dependencies represent ordering constraints - an instruction cannot
// execute before the instructions that touched the same qubits earlier.
type DAGNode struct {
	ID           string      // Unique identifier for this node
	Index        int         // Position in Circuit.Instructions
	Instruction  Instruction // The instruction itself
	Layer        int         // ASAP layer, 0-based
	Dependencies []string    // IDs of nodes that must execute before this one
}

// CircuitDAG is the dependency graph of a circuit's top-level instructions.
type CircuitDAG struct {
	Nodes     map[string]*DAGNode // All nodes by ID
	NumQubits int                 // Number of qubits in the circuit
	order     []string            // Node IDs in insertion order
}

// generateNodeID creates a unique ID for a node based on its properties.
func generateNodeID(name string, index int) string {
	return fmt.Sprintf("%s_i%d", name, index)
}

// NewCircuitDAG builds the dependency graph of c.
func NewCircuitDAG(c *Circuit) *CircuitDAG {
	dag := &CircuitDAG{
		Nodes:     make(map[string]*DAGNode, len(c.Instructions)),
		NumQubits: c.NumQubits,
	}

	// Track the last node on each qubit to establish dependencies
	lastOnQubit := make(map[int]string)

	for i, in := range c.Instructions {
		node := &DAGNode{
			ID:          generateNodeID(in.Name(), i),
			Index:       i,
			Instruction: in,
		}

		depSet := make(map[string]bool)
		for _, q := range in.AllQubits() {
			if lastID, ok := lastOnQubit[q]; ok && !depSet[lastID] {
				depSet[lastID] = true
				node.Dependencies = append(node.Dependencies, lastID)
				node.Layer = max(node.Layer, dag.Nodes[lastID].Layer+1)
			}
		}

		dag.Nodes[node.ID] = node
		dag.order = append(dag.order, node.ID)

		for _, q := range in.AllQubits() {
			lastOnQubit[q] = node.ID
		}
	}

	return dag
}

// TopologicalSort returns nodes in an order respecting dependencies, ties
// broken by instruction index.
func (dag *CircuitDAG) TopologicalSort() []*DAGNode {
	visited := make(map[string]bool)
	result := make([]*DAGNode, 0, len(dag.Nodes))

	var visit func(nodeID string)
	visit = func(nodeID string) {
		if visited[nodeID] {
			return
		}
		visited[nodeID] = true

		node := dag.Nodes[nodeID]
		for _, depID := range node.Dependencies {
			visit(depID)
		}
		result = append(result, node)
	}

	for _, id := range dag.order {
		visit(id)
	}
	return result
}

// Layers groups nodes by ASAP layer. Nodes within a layer act on disjoint qubits.
func (dag *CircuitDAG) Layers() [][]*DAGNode {
	layers := make([][]*DAGNode, dag.Depth())
	for _, id := range dag.order {
		node := dag.Nodes[id]
		layers[node.Layer] = append(layers[node.Layer], node)
	}
	return layers
}

// Depth returns the number of layers.
func (dag *CircuitDAG) Depth() int {
	depth := 0
	for _, node := range dag.Nodes {
		depth = max(depth, node.Layer+1)
	}
	return depth
}

// GetNodesOnQubit returns all nodes that reference a specific qubit, in
// circuit order.
func (dag *CircuitDAG) GetNodesOnQubit(qubit int) []*DAGNode {
	var result []*DAGNode
	for _, id := range dag.order {
		node := dag.Nodes[id]
		if slices.Contains(node.Instruction.AllQubits(), qubit) {
			result = append(result, node)
		}
	}
	return result
}

// Columns packs nodes into drawing columns: like Layers, but two nodes share
// a column only if their qubit spans (min..max) do not overlap, so vertical
// connectors never cross another gate.
func (dag *CircuitDAG) Columns() [][]*DAGNode {
	var cols [][]*DAGNode
	// occupied[col] marks qubit rows already covered in that column
	var occupied [][]bool
	lastCol := make(map[string]int)

	for _, id := range dag.order {
		node := dag.Nodes[id]
		lo, hi := span(node.Instruction.AllQubits())

		start := 0
		for _, dep := range node.Dependencies {
			start = max(start, lastCol[dep]+1)
		}

		col := start
		for ; col < len(cols); col++ {
			free := true
			for q := lo; q <= hi; q++ {
				if occupied[col][q] {
					free = false
					break
				}
			}
			if free {
				break
			}
		}
		if col == len(cols) {
			cols = append(cols, nil)
			occupied = append(occupied, make([]bool, dag.NumQubits))
		}
		for q := lo; q <= hi; q++ {
			occupied[col][q] = true
		}
		cols[col] = append(cols[col], node)
		lastCol[id] = col
	}
	return cols
}

func span(qs []int) (lo, hi int) {
	if len(qs) == 0 {
		return 0, -1
	}
	return slices.Min(qs), slices.Max(qs)
}

// Depth returns the length of the critical path over top-level instructions.
func (c *Circuit) Depth() int {
	return NewCircuitDAG(c).Depth()
}
