package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hershlalwani/djsim/internal/config"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_JSON(t *testing.T) {
	out, _, err := execute(t, "run", "--qubits", "4", "--oracle", "constant-zero", "--shots", "1024", "--seed", "1", "--format", "json")
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 4, report.Qubits)
	assert.Equal(t, "constant-zero", report.Oracle)
	assert.Equal(t, map[string]int{"0000": 1024}, report.Counts)
	assert.Equal(t, "constant", report.Verdict)
	assert.Equal(t, "constant", report.Expected)
	require.NotNil(t, report.Seed)
	assert.Equal(t, uint64(1), *report.Seed)
	// X, five H, no oracle gates, four H
	assert.Len(t, report.Gates, 10)
	assert.NotEmpty(t, report.ID)
}

func TestRun_YAML_Balanced(t *testing.T) {
	out, _, err := execute(t, "run", "-n", "2", "-o", "balanced-xor", "--format", "yaml")
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, map[string]int{"11": 1024}, report.Counts)
	assert.Equal(t, "balanced", report.Verdict)
	assert.Equal(t, []string{"X(2)", "H(0)", "H(1)", "H(2)", "CX(0,2)", "CX(1,2)", "H(0)", "H(1)"}, report.Gates)
}

func TestRun_Text(t *testing.T) {
	out, _, err := execute(t, "run", "-n", "3", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Deutsch–Jozsa (n=3, constant-zero)")
	assert.Contains(t, out, "Verdict:  constant")
	assert.Contains(t, out, "seed 9")
}

func TestRun_OracleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.qasm")
	require.NoError(t, os.WriteFile(path, []byte("OPENQASM 2.0;\nqreg q[3];\nx q[2];\ncx q[0], q[2];\n"), 0o644))

	out, _, err := execute(t, "run", "--oracle-file", path, "--format", "json")
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "custom", report.Oracle)
	assert.Equal(t, 2, report.Qubits)
	assert.Equal(t, "balanced", report.Verdict)
	assert.Equal(t, "balanced", report.Expected)
	assert.NotContains(t, report.Counts, "00")
}

func TestQASM(t *testing.T) {
	out, _, err := execute(t, "qasm", "-n", "1", "-o", "balanced-xor")
	require.NoError(t, err)
	assert.Contains(t, out, "OPENQASM 2.0;")
	assert.Contains(t, out, "qreg q[2];")
	assert.Contains(t, out, "cx q[0], q[1];")
	assert.Contains(t, out, "measure q[0] -> c[0];")
}

func TestSweep_JSON(t *testing.T) {
	out, _, err := execute(t, "sweep",
		"--qubits", "1,2",
		"--oracle", "constant-zero,balanced-xor",
		"--shots", "64", "--seed", "5", "-p", "2",
		"--format", "json")
	require.NoError(t, err)

	var reports []RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 4)

	want := []struct {
		qubits  int
		oracle  string
		verdict string
	}{
		{1, "constant-zero", "constant"},
		{1, "balanced-xor", "balanced"},
		{2, "constant-zero", "constant"},
		{2, "balanced-xor", "balanced"},
	}
	for i, w := range want {
		assert.Equal(t, w.qubits, reports[i].Qubits, "run %d", i)
		assert.Equal(t, w.oracle, reports[i].Oracle, "run %d", i)
		assert.Equal(t, w.verdict, reports[i].Verdict, "run %d", i)
		require.NotNil(t, reports[i].Seed)
		assert.Equal(t, uint64(5+i), *reports[i].Seed)
	}
}

func TestSweep_Text(t *testing.T) {
	out, _, err := execute(t, "sweep", "--qubits", "1", "--shots", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "verdict")
	assert.Contains(t, out, "constant-zero")
	assert.Contains(t, out, "balanced-xor")
}

func TestLogging(t *testing.T) {
	_, errOut, err := execute(t, "run", "-n", "1", "--log-level", "debug", "--log-pretty=false")
	require.NoError(t, err)
	assert.Contains(t, errOut, `"message":"Deutsch-Jozsa run complete"`)
	assert.Contains(t, errOut, `"run_id"`)
	assert.Contains(t, errOut, `"verdict":"constant"`)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig bool
	}{
		{"unknown oracle", []string{"run", "--oracle", "balanced-and"}, true},
		{"zero shots", []string{"run", "--shots", "0"}, true},
		{"too many qubits", []string{"run", "-n", "20"}, true},
		{"bad log level", []string{"run", "--log-level", "loud"}, true},
		{"bad sweep oracle", []string{"sweep", "--oracle", "nope"}, true},
		{"bad format", []string{"run", "--format", "xml"}, false},
		{"missing oracle file", []string{"run", "--oracle-file", "/nonexistent/oracle.qasm"}, false},
		{"oracle and oracle file", []string{"run", "--oracle", "balanced-xor", "--oracle-file", "x.qasm"}, false},
		{"positional args", []string{"run", "extra"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			if tc.wantConfig {
				assert.ErrorIs(t, err, config.ErrInvalidConfig)
			}
		})
	}
}
