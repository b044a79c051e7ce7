package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/render"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// RunReport is the structured form of one run.
type RunReport struct {
	ID        string         `json:"id" yaml:"id"`
	Qubits    int            `json:"qubits" yaml:"qubits"`
	Oracle    string         `json:"oracle" yaml:"oracle"`
	Shots     int            `json:"shots" yaml:"shots"`
	Seed      *uint64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Gates     []string       `json:"gates" yaml:"gates"`
	Counts    map[string]int `json:"counts" yaml:"counts"`
	Verdict   string         `json:"verdict" yaml:"verdict"`
	Expected  string         `json:"expected" yaml:"expected"`
	ElapsedMs float64        `json:"elapsed_ms" yaml:"elapsed_ms"`
}

func newRunReport(r *dj.Result) RunReport {
	gates := make([]string, len(r.Circuit.Steps))
	for i, st := range r.Circuit.Steps {
		gates[i] = st.Gate.String()
	}
	return RunReport{
		ID:        r.ID,
		Qubits:    r.NumInputs,
		Oracle:    string(r.Oracle),
		Shots:     r.Shots,
		Seed:      r.Seed,
		Gates:     gates,
		Counts:    r.Counts,
		Verdict:   r.Verdict.String(),
		Expected:  r.Circuit.Oracle.Classify().String(),
		ElapsedMs: float64(r.Elapsed.Microseconds()) / 1000,
	}
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return checkFormat(format)
	}
}

func writeResult(w io.Writer, format string, r *dj.Result) error {
	if format == formatText {
		_, err := fmt.Fprint(w, render.Summary(r))
		return err
	}
	return encode(w, format, newRunReport(r))
}

func writeSweep(w io.Writer, format string, results []*dj.Result) error {
	if format == formatText {
		_, err := fmt.Fprint(w, render.SweepTable(results))
		return err
	}
	reports := make([]RunReport, len(results))
	for i, r := range results {
		reports[i] = newRunReport(r)
	}
	return encode(w, format, reports)
}
