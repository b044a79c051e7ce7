// Package qasm reads and writes the OpenQASM 2.0 subset the simulator
// understands: one qreg, one creg, x, h, cx and measure.
package qasm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/oracle"
	"github.com/hershlalwani/djsim/quantum"
)

var (
	// ErrSyntax is returned for a line that is not valid in the subset.
	ErrSyntax = errors.New("qasm syntax error")

	// ErrUnsupportedGate is returned for a well-formed gate the simulator
	// cannot apply.
	ErrUnsupportedGate = errors.New("unsupported qasm gate")
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex    = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\];?$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	cregRegex       = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\];?$`)
)

// Program is a parsed QASM listing.
type Program struct {
	NumQubits int
	Gates     []quantum.Gate
	Measured  []int
}

// Format writes the circuit as OpenQASM 2.0, one stage per commented block.
func Format(c dj.Circuit) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", max(len(c.Measured), 1))

	var stage dj.Stage
	for _, st := range c.Steps {
		if st.Stage != stage {
			fmt.Fprintf(&sb, "\n// %s\n", st.Stage)
			stage = st.Stage
		}
		writeGate(&sb, st.Gate)
	}

	if len(c.Measured) > 0 {
		sb.WriteString("\n")
	}
	for i, q := range c.Measured {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, i)
	}
	return sb.String()
}

func writeGate(sb *strings.Builder, g quantum.Gate) {
	switch g.Kind {
	case quantum.ControlledNot:
		fmt.Fprintf(sb, "cx q[%d], q[%d];\n", g.Control, g.Target)
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", strings.ToLower(g.Kind.String()), g.Target)
	}
}

// Parse reads a listing. Comments, the header, include lines and barriers
// are skipped; anything else outside the subset is an error naming the line.
func Parse(text string) (*Program, error) {
	p := &Program{}
	sawQreg := false

	for n, line := range strings.Split(text, "\n") {
		lineNo := n + 1
		line = strings.TrimSpace(line)
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			if sawQreg {
				return nil, fmt.Errorf("%w: line %d: only one qreg is supported", ErrSyntax, lineNo)
			}
			size, err := strconv.Atoi(matches[2])
			if err != nil || size < 1 {
				return nil, fmt.Errorf("%w: line %d: bad register size %q", ErrSyntax, lineNo, matches[2])
			}
			p.NumQubits = size
			sawQreg = true
			continue
		}
		if cregRegex.MatchString(line) {
			continue
		}
		if !sawQreg {
			return nil, fmt.Errorf("%w: line %d: statement before qreg", ErrSyntax, lineNo)
		}

		// Measurement: "measure q[0] -> c[0];"
		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			q, err := p.qubit(matches[1], lineNo)
			if err != nil {
				return nil, err
			}
			p.Measured = append(p.Measured, q)
			continue
		}

		// Two-qubit gates: only cx
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			if strings.ToLower(matches[1]) != "cx" {
				return nil, fmt.Errorf("%w: line %d: %s", ErrUnsupportedGate, lineNo, matches[1])
			}
			control, err := p.qubit(matches[2], lineNo)
			if err != nil {
				return nil, err
			}
			target, err := p.qubit(matches[3], lineNo)
			if err != nil {
				return nil, err
			}
			if control == target {
				return nil, fmt.Errorf("%w: line %d: cx control equals target", ErrSyntax, lineNo)
			}
			p.Gates = append(p.Gates, quantum.CX(control, target))
			continue
		}

		// Single-qubit gates: x and h
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			target, err := p.qubit(matches[2], lineNo)
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(matches[1]) {
			case "x":
				p.Gates = append(p.Gates, quantum.X(target))
			case "h":
				p.Gates = append(p.Gates, quantum.H(target))
			default:
				return nil, fmt.Errorf("%w: line %d: %s", ErrUnsupportedGate, lineNo, matches[1])
			}
			continue
		}

		return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, lineNo, line)
	}

	if !sawQreg {
		return nil, fmt.Errorf("%w: no qreg declared", ErrSyntax)
	}
	return p, nil
}

func (p *Program) qubit(s string, lineNo int) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil || q >= p.NumQubits {
		return 0, fmt.Errorf("%w: line %d: q[%s] outside qreg q[%d]",
			quantum.ErrInvalidQubitIndex, lineNo, s, p.NumQubits)
	}
	return q, nil
}

// ParseOracle reads a listing that holds only an oracle: the last qubit of
// the register is the ancilla and every other qubit an input. Measurements
// are ignored.
func ParseOracle(text string) (oracle.Oracle, error) {
	p, err := Parse(text)
	if err != nil {
		return oracle.Oracle{}, err
	}
	if p.NumQubits < 2 {
		return oracle.Oracle{}, fmt.Errorf("%w: an oracle needs at least one input and the ancilla, got q[%d]",
			quantum.ErrInvalidQubitIndex, p.NumQubits)
	}
	return oracle.Custom(p.NumQubits-1, p.Gates...)
}
