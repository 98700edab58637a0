package sim

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qfourier/circuit"
)

// Run executes the flattened circuit on |0…0⟩ and returns the final state.
// Measurements do not collapse the state; they only select what Sample reads.
func Run(c *circuit.Circuit) (*StateVector, error) {
	if c.NumQubits > MaxQubits {
		return nil, errors.Wrapf(ErrTooManyQubits, "%d > %d", c.NumQubits, MaxQubits)
	}
	state := NewStateVector(c.NumQubits)
	if err := state.ApplyCircuit(c); err != nil {
		return nil, err
	}
	return state, nil
}

// ApplyCircuit applies every gate of c in order.
func (s *StateVector) ApplyCircuit(c *circuit.Circuit) error {
	if c.NumQubits != s.NumQubits {
		return errors.Errorf("circuit %q has %d qubits, state has %d", c.Name, c.NumQubits, s.NumQubits)
	}
	for i, g := range c.Gates() {
		if err := s.ApplyGate(g); err != nil {
			return errors.Wrapf(err, "%q instruction %d", c.Name, i)
		}
	}
	return nil
}

// Counts maps a classical bitstring (highest clbit first) to its frequency.
type Counts map[string]int

// MostFrequent returns the most common outcome. Ties go to the smaller
// bitstring so the result is deterministic.
func (c Counts) MostFrequent() (string, int) {
	best, bestN := "", -1
	for k, n := range c {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best, bestN
}

// Keys returns the outcomes in lexicographic order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of shots.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// measurementMap returns clbit -> qubit for the circuit's measurements, the
// last write to a clbit winning. Without measurements every qubit q is read
// into clbit q.
func measurementMap(c *circuit.Circuit) (map[int]int, int) {
	m := make(map[int]int)
	for _, g := range c.Gates() {
		if g.Name == circuit.OpMeasure {
			m[g.Clbits[0]] = g.Qubits[0]
		}
	}
	if len(m) == 0 {
		for q := 0; q < c.NumQubits; q++ {
			m[q] = q
		}
		return m, c.NumQubits
	}
	return m, c.NumClbits
}

// NewRand returns a seeded generator for Sample.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample draws shots outcomes from state and reads them through the
// measurements of c.
func Sample(c *circuit.Circuit, state *StateVector, shots int, rng *rand.Rand) (Counts, error) {
	if shots <= 0 {
		return nil, errors.Errorf("shots must be positive, got %d", shots)
	}
	probs := state.Probabilities()
	cdf := make([]float64, len(probs))
	acc := 0.0
	for i, p := range probs {
		acc += p
		cdf[i] = acc
	}

	if acc < normTol {
		return nil, errors.Wrapf(ErrZeroNorm, "total probability %g", acc)
	}

	meas, width := measurementMap(c)
	counts := make(Counts)
	bits := make([]byte, width)
	for range shots {
		r := rng.Float64() * acc
		idx := sort.SearchFloat64s(cdf, r)
		if idx >= len(cdf) {
			idx = len(cdf) - 1
		}
		for i := range bits {
			bits[i] = '0'
		}
		for cb, q := range meas {
			if idx&(1<<q) != 0 {
				bits[width-1-cb] = '1'
			}
		}
		counts[string(bits)]++
	}
	return counts, nil
}

// Result bundles the final state and the sampled counts.
type Result struct {
	State  *StateVector
	Counts Counts
	Shots  int
}

// Simulate runs c and samples shots outcomes with a seeded generator.
func Simulate(c *circuit.Circuit, shots int, seed uint64) (*Result, error) {
	state, err := Run(c)
	if err != nil {
		return nil, err
	}
	counts, err := Sample(c, state, shots, NewRand(seed))
	if err != nil {
		return nil, err
	}
	return &Result{State: state, Counts: counts, Shots: shots}, nil
}

// FormatCounts renders counts one outcome per line in key order.
func FormatCounts(c Counts) string {
	var sb strings.Builder
	for _, k := range c.Keys() {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(c[k]))
		sb.WriteByte('\n')
	}
	return sb.String()
}
