package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pre-compiled regexps for QASM parsing.
var (
	gateLineRegex = regexp.MustCompile(`^(\w+)\s*(?:\(\s*(.*?)\s*\))?\s+(.+?)\s*;?$`)
	qubitArgRegex = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
	measureRegex  = regexp.MustCompile(`^measure\s+(\w+)\[(\d+)\]\s*->\s*(\w+)\[(\d+)\]\s*;?$`)
	qregRegex     = regexp.MustCompile(`^qreg\s+(\w+)\s*\[(\d+)\]\s*;?$`)
	cregRegex     = regexp.MustCompile(`^creg\s+(\w+)\s*\[(\d+)\]\s*;?$`)
)

// qelibNames maps qelib1.inc gate names to (base op, number of controls).
var qelibNames = map[string]struct {
	op    string
	ctrls int
}{
	"h": {OpH, 0}, "x": {OpX, 0}, "y": {OpY, 0}, "z": {OpZ, 0},
	"s": {OpS, 0}, "sdg": {OpSdg, 0}, "t": {OpT, 0}, "tdg": {OpTdg, 0},
	"rx": {OpRX, 0}, "ry": {OpRY, 0}, "rz": {OpRZ, 0},
	"p": {OpP, 0}, "u1": {OpP, 0},
	"cx": {OpX, 1}, "cy": {OpY, 1}, "cz": {OpZ, 1}, "ch": {OpH, 1},
	"crx": {OpRX, 1}, "cry": {OpRY, 1}, "crz": {OpRZ, 1},
	"cp": {OpP, 1}, "cu1": {OpP, 1},
	"ccx": {OpX, 2},
	"swap": {OpSwap, 0},
}

// qasmName returns the qelib1.inc spelling of a (possibly controlled) gate.
func qasmName(g Gate) (string, bool) {
	switch {
	case g.Name == OpP && len(g.Controls) == 0:
		return "u1", true
	case g.Name == OpP && len(g.Controls) == 1:
		return "cu1", true
	case g.Name == OpSwap && len(g.Controls) == 0:
		return "swap", true
	}
	label := g.Label()
	def, ok := qelibNames[label]
	if !ok || def.op != g.Name || def.ctrls != len(g.Controls) {
		return "", false
	}
	return label, true
}

// ToQASM generates OpenQASM 2.0 output from the flattened circuit.
func (c *Circuit) ToQASM() (string, error) {
	flat := c.Flatten()
	numQubits := max(flat.NumQubits, 1)
	numCbits := max(flat.NumClbits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, in := range flat.Instructions {
		if err := writeGateQASM(&sb, in.Gate); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func qubitList(qs []int) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(parts, ", ")
}

// writeGateQASM writes a single gate's QASM representation.
func writeGateQASM(sb *strings.Builder, g Gate) error {
	switch g.Name {
	case OpBarrier:
		fmt.Fprintf(sb, "barrier %s;\n", qubitList(g.Qubits))
		return nil
	case OpMeasure:
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", g.Qubits[0], g.Clbits[0])
		return nil
	case OpUnitary, OpInitialize:
		return errors.Wrapf(ErrNotExpressible, "%s on %s", g.Label(), qubitList(g.AllQubits()))
	}

	name, ok := qasmName(g)
	if !ok {
		return errors.Wrapf(ErrNotExpressible, "gate %s", g.Label())
	}

	// Controls active on |0⟩ are conjugated with x gates.
	var flipped []int
	for i, ctrl := range g.Controls {
		if g.CtrlState&(1<<i) == 0 {
			flipped = append(flipped, ctrl)
		}
	}
	for _, q := range flipped {
		fmt.Fprintf(sb, "x q[%d];\n", q)
	}

	if len(g.Params) > 0 {
		params := make([]string, len(g.Params))
		for i, p := range g.Params {
			params[i] = FormatAngle(p)
		}
		fmt.Fprintf(sb, "%s(%s) %s;\n", name, strings.Join(params, ", "), qubitList(g.AllQubits()))
	} else {
		fmt.Fprintf(sb, "%s %s;\n", name, qubitList(g.AllQubits()))
	}

	for _, q := range flipped {
		fmt.Fprintf(sb, "x q[%d];\n", q)
	}
	return nil
}

// ParseQASM parses OpenQASM 2.0 text into a new circuit. Every qreg becomes
// a register of the circuit; cregs are laid out back to back.
func ParseQASM(name, qasm string) (*Circuit, error) {
	c := New(name, 0)
	cregOffset := make(map[string]int)
	cregSize := make(map[string]int)
	numClbits := 0

	resolveQubit := func(arg string) (int, error) {
		m := qubitArgRegex.FindStringSubmatch(strings.TrimSpace(arg))
		if m == nil {
			return 0, errors.Errorf("bad qubit argument %q", arg)
		}
		reg, ok := c.Register(m[1])
		idx, _ := strconv.Atoi(m[2])
		if !ok || idx >= reg.Len() {
			return 0, errors.Wrapf(ErrQubitRange, "%s", arg)
		}
		return reg.At(idx), nil
	}

	for lineNo, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}
		fail := func(err error) (*Circuit, error) {
			return nil, errors.Wrapf(err, "line %d", lineNo+1)
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			c.AddRegister(m[1], n)
			continue
		}
		if m := cregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			cregOffset[m[1]] = numClbits
			cregSize[m[1]] = n
			numClbits += n
			continue
		}

		// Measurement: "measure q[0] -> c[0];"
		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, err := resolveQubit(m[1] + "[" + m[2] + "]")
			if err != nil {
				return fail(err)
			}
			off, ok := cregOffset[m[3]]
			idx, _ := strconv.Atoi(m[4])
			if !ok || idx >= cregSize[m[3]] {
				return fail(errors.Errorf("unknown classical bit %s[%d]", m[3], idx))
			}
			if err := c.Measure(q, off+idx); err != nil {
				return fail(err)
			}
			continue
		}

		m := gateLineRegex.FindStringSubmatch(line)
		if m == nil {
			return fail(errors.Errorf("cannot parse %q", line))
		}
		gateName, paramStr, argStr := strings.ToLower(m[1]), m[2], m[3]

		if gateName == "barrier" {
			var qs []int
			for _, arg := range strings.Split(argStr, ",") {
				arg = strings.TrimSpace(arg)
				if reg, ok := c.Register(arg); ok {
					qs = append(qs, reg.Qubits...)
					continue
				}
				q, err := resolveQubit(arg)
				if err != nil {
					return fail(err)
				}
				qs = append(qs, q)
			}
			if err := c.Barrier(qs...); err != nil {
				return fail(err)
			}
			continue
		}
		if gateName == "id" {
			continue
		}

		def, ok := qelibNames[gateName]
		if !ok {
			return fail(errors.Errorf("unsupported gate %q", gateName))
		}
		var params []float64
		if paramStr != "" {
			var err error
			if params, err = parseParams(paramStr); err != nil {
				return fail(err)
			}
		}
		var qs []int
		for _, arg := range strings.Split(argStr, ",") {
			q, err := resolveQubit(arg)
			if err != nil {
				return fail(err)
			}
			qs = append(qs, q)
		}
		if len(qs) <= def.ctrls {
			return fail(errors.Errorf("%s needs more than %d qubits", gateName, def.ctrls))
		}
		g := Gate{
			Name:      def.op,
			Controls:  qs[:def.ctrls],
			CtrlState: allOnes(def.ctrls),
			Qubits:    qs[def.ctrls:],
			Params:    params,
		}
		if err := c.AddGate(g); err != nil {
			return fail(err)
		}
	}

	c.NumClbits = max(c.NumClbits, numClbits)
	return c, nil
}
