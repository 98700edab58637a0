package circuit

import (
	"fmt"
	"strings"
)

// Register is a named, ordered sequence of qubit indices.
type Register struct {
	Name   string
	Qubits []int
}

// Qubits returns an anonymous register over qubits 0..n-1.
func Qubits(n int) Register {
	return Range("q", 0, n)
}

// Range returns a register over qubits offset..offset+size-1.
func Range(name string, offset, size int) Register {
	qs := make([]int, size)
	for i := range size {
		qs[i] = offset + i
	}
	return Register{Name: name, Qubits: qs}
}

// Len returns the number of qubits in the register.
func (r Register) Len() int {
	return len(r.Qubits)
}

// At returns the circuit qubit index of the i-th register element.
func (r Register) At(i int) int {
	return r.Qubits[i]
}

// Slice returns the sub-register [lo, hi).
func (r Register) Slice(lo, hi int) Register {
	qs := make([]int, hi-lo)
	copy(qs, r.Qubits[lo:hi])
	return Register{Name: r.Name, Qubits: qs}
}

func (r Register) String() string {
	parts := make([]string, len(r.Qubits))
	for i, q := range r.Qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return fmt.Sprintf("%s{%s}", r.Name, strings.Join(parts, ", "))
}
