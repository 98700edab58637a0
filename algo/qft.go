// Package algo builds the Quantum Fourier Transform and Quantum Phase
// Estimation as reusable blocks on caller-owned circuits.
package algo

import (
	"math"

	"github.com/pkg/errors"

	"qfourier/circuit"
)

const (
	qftName  = "QFT"
	iqftName = "IQFT"
)

// buildQFT returns the QFT on n local qubits.
func buildQFT(n int) (*circuit.Circuit, error) {
	qc := circuit.New(qftName, n)
	for i := n - 1; i >= 0; i-- {
		if err := qc.H(i); err != nil {
			return nil, err
		}
		for j := 0; j < i; j++ {
			if err := qc.CP(math.Pi/float64(uint64(1)<<(i-j)), j, i); err != nil {
				return nil, err
			}
		}
	}
	for k := 0; k < n/2; k++ {
		if err := qc.Swap(k, n-1-k); err != nil {
			return nil, err
		}
	}
	return qc, nil
}

func buildInverseQFT(n int) (*circuit.Circuit, error) {
	qft, err := buildQFT(n)
	if err != nil {
		return nil, err
	}
	inv, err := qft.Inverse()
	if err != nil {
		return nil, err
	}
	inv.Name = iqftName
	return inv, nil
}

// QFT appends the Quantum Fourier Transform over reg to c as a block named
// "QFT". reg[0] is the least significant qubit.
func QFT(c *circuit.Circuit, reg circuit.Register) error {
	qft, err := buildQFT(reg.Len())
	if err != nil {
		return errors.Wrap(err, "build qft")
	}
	return errors.Wrap(c.Append(qft, reg), "append qft")
}

// InverseQFT appends the exact inverse of QFT over reg as a block named
// "IQFT".
func InverseQFT(c *circuit.Circuit, reg circuit.Register) error {
	iqft, err := buildInverseQFT(reg.Len())
	if err != nil {
		return errors.Wrap(err, "build inverse qft")
	}
	return errors.Wrap(c.Append(iqft, reg), "append inverse qft")
}

// QFTCircuit returns a fresh, flattened n-qubit QFT circuit.
func QFTCircuit(n int) (*circuit.Circuit, error) {
	qc := circuit.New(qftName, n)
	if err := QFT(qc, circuit.Qubits(n)); err != nil {
		return nil, err
	}
	return qc.Flatten(), nil
}

// InverseQFTCircuit returns a fresh, flattened n-qubit inverse QFT circuit.
func InverseQFTCircuit(n int) (*circuit.Circuit, error) {
	qc := circuit.New(iqftName, n)
	if err := InverseQFT(qc, circuit.Qubits(n)); err != nil {
		return nil, err
	}
	return qc.Flatten(), nil
}
