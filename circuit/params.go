package circuit

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const angleTol = 1e-10

// ErrAngle is returned for angle expressions that are neither a number nor
// a rational multiple of pi.
var ErrAngle = errors.New("invalid angle")

// piTerm matches [-][coeff][*]pi[/denom], e.g. "pi", "-3*pi/4", "2pi".
var piTerm = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle reads a plain number or a pi expression such as "pi/2",
// "3*pi/4" or "-2pi".
func ParseAngle(s string) (float64, error) {
	expr := strings.ToLower(strings.TrimSpace(s))
	if expr == "" {
		return 0, errors.Wrap(ErrAngle, "empty")
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return v, nil
	}

	m := piTerm.FindStringSubmatch(expr)
	if m == nil {
		return 0, errors.Wrapf(ErrAngle, "%q", s)
	}

	v := math.Pi
	if m[2] != "" {
		coeff, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, errors.Wrapf(ErrAngle, "coefficient in %q", s)
		}
		v *= coeff
	}
	if m[3] != "" {
		denom, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denom == 0 {
			return 0, errors.Wrapf(ErrAngle, "denominator in %q", s)
		}
		v /= denom
	}
	if m[1] == "-" {
		v = -v
	}
	return v, nil
}

// piDenominators are tried in order, so the first match is in lowest terms.
var piDenominators = []int{1, 2, 3, 4, 6, 8}

// FormatAngle prints val as n*pi/d when it is a small rational multiple of
// pi or ±pi/2^k (the Fourier rotation angles), and as a plain number
// otherwise.
func FormatAngle(val float64) string {
	if val == 0 {
		return "0"
	}
	for _, d := range piDenominators {
		n := math.Round(val * float64(d) / math.Pi)
		if n == 0 || math.Abs(n) > float64(2*d) {
			continue
		}
		if math.Abs(val-n*math.Pi/float64(d)) < angleTol {
			return piString(int(n), d)
		}
	}
	for k := 4; k <= 20; k++ {
		d := 1 << k
		if math.Abs(math.Abs(val)-math.Pi/float64(d)) < 1e-12 {
			return piString(int(math.Copysign(1, val)), d)
		}
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}

func piString(n, d int) string {
	var sb strings.Builder
	switch n {
	case 1:
	case -1:
		sb.WriteByte('-')
	default:
		sb.WriteString(strconv.Itoa(n))
		sb.WriteByte('*')
	}
	sb.WriteString("pi")
	if d != 1 {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(d))
	}
	return sb.String()
}

// parseParams reads a comma-separated angle list.
func parseParams(input string) ([]float64, error) {
	var params []float64
	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := ParseAngle(part)
		if err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	return params, nil
}
