package algo

import (
	"strconv"

	"github.com/pkg/errors"

	"qfourier/sim"
)

// ErrBitstring is returned for readings that are not a binary string.
var ErrBitstring = errors.New("invalid bitstring")

// DecodePhase reads a precision-register outcome, most significant bit
// first, as the binary fraction 0.b_{n-1}…b_0 scaled to [0, 1).
func DecodePhase(bits string) (float64, error) {
	if bits == "" || len(bits) > 62 {
		return 0, errors.Wrapf(ErrBitstring, "%q", bits)
	}
	m, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBitstring, "%q", bits)
	}
	return float64(m) / float64(uint64(1)<<len(bits)), nil
}

// EstimatePhase decodes the most frequent outcome in counts.
func EstimatePhase(counts sim.Counts) (float64, string, error) {
	if len(counts) == 0 {
		return 0, "", errors.New("no counts")
	}
	best, _ := counts.MostFrequent()
	phase, err := DecodePhase(best)
	if err != nil {
		return 0, best, err
	}
	return phase, best, nil
}
