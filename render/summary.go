package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/oracle"
)

const histogramWidth = 30

// Verdict renders a property in its colour.
func Verdict(p oracle.Property) string {
	switch p {
	case oracle.Constant:
		return constantStyle.Render(p.String())
	case oracle.Balanced:
		return balancedStyle.Render(p.String())
	default:
		return dimStyle.Render(p.String())
	}
}

// Expectation describes the outcome the protocol promises for o.
func Expectation(o oracle.Oracle) string {
	zeros := strings.Repeat("0", o.NumInputs)
	switch o.Classify() {
	case oracle.Constant:
		return fmt.Sprintf("only '%s', oracle is constant", zeros)
	case oracle.Balanced:
		return fmt.Sprintf("never '%s', oracle is balanced", zeros)
	default:
		return "no promise, oracle is neither constant nor balanced"
	}
}

// Summary renders a finished run: circuit, counts and verdict.
func Summary(r *dj.Result) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Deutsch–Jozsa (n=%d, %s)", r.NumInputs, r.Oracle)))
	sb.WriteString("\n\n")
	sb.WriteString(Diagram(r.Circuit, AllApplied))
	sb.WriteString("\n")
	sb.WriteString(Histogram(r.Counts, r.Shots, histogramWidth))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Verdict:  %s\n", Verdict(r.Verdict))
	fmt.Fprintf(&sb, "Expected: %s\n", Expectation(r.Circuit.Oracle))

	meta := fmt.Sprintf("run %s · %d shots · f depends on %d of %d inputs · %s",
		r.ID, r.Shots, r.Circuit.Oracle.Dependencies(), r.NumInputs, r.Elapsed.Round(time.Microsecond))
	if r.Seed != nil {
		meta += fmt.Sprintf(" · seed %d", *r.Seed)
	}
	sb.WriteString(dimStyle.Render(meta) + "\n")
	return sb.String()
}

// SweepTable renders one line per sweep result.
func SweepTable(results []*dj.Result) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%-4s %-14s %-8s %-10s %s", "n", "oracle", "shots", "verdict", "outcomes")))
	sb.WriteString("\n")
	for _, r := range results {
		verdict := fmt.Sprintf("%-10s", r.Verdict.String())
		switch r.Verdict {
		case oracle.Constant:
			verdict = constantStyle.Render(verdict)
		case oracle.Balanced:
			verdict = balancedStyle.Render(verdict)
		}
		fmt.Fprintf(&sb, "%-4d %-14s %-8d %s %d\n", r.NumInputs, r.Oracle, r.Shots, verdict, len(r.Counts))
	}
	return sb.String()
}
