package sim

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"qfourier/circuit"
)

// MaxQubits bounds the dense state vector size.
const MaxQubits = 24

var (
	// ErrTooManyQubits is returned for circuits wider than MaxQubits.
	ErrTooManyQubits = errors.New("too many qubits for state-vector simulation")

	// ErrUnsupportedGate is returned for instructions the simulator does not know.
	ErrUnsupportedGate = errors.New("unsupported gate")

	// ErrZeroNorm is returned when sampling a state with no probability mass.
	ErrZeroNorm = errors.New("state vector has zero norm")
)

const normTol = 1e-12

type Complex = complex128

// StateVector holds 2^NumQubits amplitudes; qubit q is bit q of the index.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0…0⟩.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// NewBasisState returns the computational basis state |index⟩.
func NewBasisState(numQubits, index int) *StateVector {
	s := NewStateVector(numQubits)
	s.Amplitudes[0] = 0
	s.Amplitudes[index] = 1
	return s
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ctl selects the basis indices on which a controlled kernel acts.
type ctl struct {
	mask  int
	value int
}

func (k ctl) on(i int) bool {
	return i&k.mask == k.value
}

func controlsOf(g circuit.Gate) ctl {
	var k ctl
	for i, q := range g.Controls {
		k.mask |= 1 << q
		if g.CtrlState&(1<<i) != 0 {
			k.value |= 1 << q
		}
	}
	return k
}

func param(g circuit.Gate) float64 {
	if len(g.Params) > 0 {
		return g.Params[0]
	}
	return 0
}

// ApplyGate applies one flattened gate in place.
func (s *StateVector) ApplyGate(g circuit.Gate) error {
	if g.Name == circuit.OpMeasure || g.Name == circuit.OpBarrier {
		// measurement is deferred to sampling
		return nil
	}
	k := controlsOf(g)
	if len(g.Qubits) == 0 {
		return errors.Wrapf(ErrUnsupportedGate, "%s without targets", g.Label())
	}
	target := g.Qubits[0]

	switch g.Name {
	case circuit.OpH:
		s.applyH(target, k)
	case circuit.OpX:
		s.applyX(target, k)
	case circuit.OpY:
		s.applyY(target, k)
	case circuit.OpZ:
		s.applyPhase(target, math.Pi, k)
	case circuit.OpS:
		s.applyPhase(target, math.Pi/2, k)
	case circuit.OpSdg:
		s.applyPhase(target, -math.Pi/2, k)
	case circuit.OpT:
		s.applyPhase(target, math.Pi/4, k)
	case circuit.OpTdg:
		s.applyPhase(target, -math.Pi/4, k)
	case circuit.OpP:
		s.applyPhase(target, param(g), k)
	case circuit.OpRX:
		s.applyRX(target, param(g), k)
	case circuit.OpRY:
		s.applyRY(target, param(g), k)
	case circuit.OpRZ:
		s.applyRZ(target, param(g), k)
	case circuit.OpSwap:
		if len(g.Qubits) != 2 {
			return errors.Wrapf(ErrUnsupportedGate, "swap on %d qubits", len(g.Qubits))
		}
		s.applySWAP(g.Qubits[0], g.Qubits[1], k)
	case circuit.OpUnitary:
		s.applyMatrix(g.Matrix, g.Qubits, k)
	case circuit.OpInitialize:
		if len(g.Controls) > 0 {
			return errors.Wrap(ErrUnsupportedGate, "controlled initialize")
		}
		s.applyInitialize(g.State, g.Qubits)
	default:
		return errors.Wrapf(ErrUnsupportedGate, "%s", g.Label())
	}
	return nil
}

func (s *StateVector) applyH(q int, k ctl) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 && k.on(i) {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int, k ctl) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 && k.on(i) {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int, k ctl) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 && k.on(i) {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

// applyPhase multiplies the |1⟩ component of q by e^{i·theta}.
func (s *StateVector) applyPhase(q int, theta float64, k ctl) {
	bit := 1 << q
	factor := cmplx.Exp(complex(0, theta))
	for i := range s.Amplitudes {
		if i&bit != 0 && k.on(i) {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64, k ctl) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := range s.Amplitudes {
		if i&bit == 0 && k.on(i) {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a + js*b
			s.Amplitudes[j] = js*a + c*b
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64, k ctl) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := range s.Amplitudes {
		if i&bit == 0 && k.on(i) {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) applyRZ(q int, theta float64, k ctl) {
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := range s.Amplitudes {
		if !k.on(i) {
			continue
		}
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int, k ctl) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 && k.on(i) {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// spread maps bit b of j onto bit targets[b] of a state index.
func spread(j int, targets []int) int {
	idx := 0
	for b, q := range targets {
		if j&(1<<b) != 0 {
			idx |= 1 << q
		}
	}
	return idx
}

// applyMatrix applies m to targets (targets[0] is the matrix LSB) on the
// indices selected by k.
func (s *StateVector) applyMatrix(m circuit.Matrix, targets []int, k ctl) {
	dim := 1 << len(targets)
	tmask := spread(dim-1, targets)
	offsets := make([]int, dim)
	for j := range dim {
		offsets[j] = spread(j, targets)
	}
	v := make([]Complex, dim)
	for i := range s.Amplitudes {
		if i&tmask != 0 || !k.on(i) {
			continue
		}
		for j, off := range offsets {
			v[j] = s.Amplitudes[i|off]
		}
		out := m.Apply(v)
		for j, off := range offsets {
			s.Amplitudes[i|off] = out[j]
		}
	}
}

// applyReset returns q to |0⟩. Each |1⟩-branch amplitude is folded into
// its |0⟩ partner, so the state keeps unit norm and the distribution over
// the other qubits is unchanged. Product states are reset exactly.
func (s *StateVector) applyReset(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		a0, a1 := s.Amplitudes[i], s.Amplitudes[i|bit]
		if a1 == 0 {
			continue
		}
		phase := a1 / complex(cmplx.Abs(a1), 0)
		if a0 != 0 {
			phase = a0 / complex(cmplx.Abs(a0), 0)
		}
		s.Amplitudes[i] = phase * complex(math.Hypot(cmplx.Abs(a0), cmplx.Abs(a1)), 0)
		s.Amplitudes[i|bit] = 0
	}
}

// applyInitialize resets targets and loads state onto them.
func (s *StateVector) applyInitialize(state []Complex, targets []int) {
	for _, q := range targets {
		s.applyReset(q)
	}
	tmask := spread(len(state)-1, targets)
	for i := range s.Amplitudes {
		if i&tmask != 0 {
			continue
		}
		a := s.Amplitudes[i]
		if a == 0 {
			continue
		}
		for j, amp := range state {
			s.Amplitudes[i|spread(j, targets)] = a * amp
		}
	}
}

// Probabilities returns |amplitude|^2 per basis index.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal distribution of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)

	for i, p := range s.Probabilities() {
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}

	return probs
}

// Marginal returns the distribution over qubits (qubits[0] is the LSB of
// the returned index).
func (s *StateVector) Marginal(qubits []int) []float64 {
	out := make([]float64, 1<<len(qubits))
	for i, p := range s.Probabilities() {
		idx := 0
		for b, q := range qubits {
			if i&(1<<q) != 0 {
				idx |= 1 << b
			}
		}
		out[idx] += p
	}
	return out
}
