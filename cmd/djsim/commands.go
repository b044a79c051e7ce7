package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hershlalwani/djsim/dj"
	"github.com/hershlalwani/djsim/internal/config"
	"github.com/hershlalwani/djsim/internal/logger"
	"github.com/hershlalwani/djsim/oracle"
	"github.com/hershlalwani/djsim/qasm"
	"github.com/hershlalwani/djsim/tui"
)

// app carries flag values and the state built from them by setup.
type app struct {
	configPath string
	logLevel   string
	logPretty  bool
	format     string

	qubits      int
	oracle      string
	oracleFile  string
	shots       int
	seed        uint64
	sweepQubits []int
	sweepKinds  []string
	parallelism int
	savePath    string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "djsim",
		Short: "Simulate the Deutsch–Jozsa algorithm on a state-vector backend",
		Long: `djsim builds the Deutsch–Jozsa circuit for an oracle, evolves a
state vector through it and samples the input register. A constant oracle
always measures all zeros; a balanced one never does.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the algorithm once and report counts and verdict",
		Args:  cobra.NoArgs,
		RunE:  a.runRun,
	}
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run every combination of input sizes and oracles concurrently",
		Args:  cobra.NoArgs,
		RunE:  a.runSweep,
	}
	qasmCmd := &cobra.Command{
		Use:   "qasm",
		Short: "Print the circuit as OpenQASM 2.0",
		Args:  cobra.NoArgs,
		RunE:  a.runQASM,
	}
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Step through the circuit gate by gate in the terminal",
		Args:  cobra.NoArgs,
		RunE:  a.runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&a.logPretty, "log-pretty", true, "Human-readable log output")
	pf.StringVar(&a.format, "format", "text", "Output format (text, json, yaml)")

	for _, c := range []*cobra.Command{runCmd, qasmCmd, viewCmd} {
		c.Flags().IntVarP(&a.qubits, "qubits", "n", 0, "Number of input qubits")
		c.Flags().StringVarP(&a.oracle, "oracle", "o", "", "Oracle kind (constant-zero, balanced-xor)")
		c.Flags().StringVar(&a.oracleFile, "oracle-file", "", "QASM file holding a custom oracle; the last qubit is the ancilla")
		c.MarkFlagsMutuallyExclusive("oracle", "oracle-file")
	}
	for _, c := range []*cobra.Command{runCmd, sweepCmd, viewCmd} {
		c.Flags().IntVarP(&a.shots, "shots", "s", 0, "Number of measurement shots")
		c.Flags().Uint64Var(&a.seed, "seed", 0, "Seed for reproducible sampling")
	}
	sweepCmd.Flags().IntSliceVar(&a.sweepQubits, "qubits", nil, "Input sizes to sweep, e.g. 1,2,4")
	sweepCmd.Flags().StringSliceVar(&a.sweepKinds, "oracle", nil, "Oracles to sweep, e.g. constant-zero,balanced-xor")
	sweepCmd.Flags().IntVarP(&a.parallelism, "parallelism", "p", 0, "Concurrent runs (0 means unlimited)")
	viewCmd.Flags().StringVar(&a.savePath, "save", "djsim.qasm", "Where ^S writes the circuit")

	rootCmd.AddCommand(runCmd, sweepCmd, qasmCmd, viewCmd)
	return rootCmd
}

// setup loads configuration, applies flag overrides, validates and builds
// the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty = a.logPretty
	}
	if cmd.Name() == "sweep" {
		if flags.Changed("qubits") {
			cfg.Sweep.Qubits = a.sweepQubits
		}
		if flags.Changed("oracle") {
			cfg.Sweep.Oracles = a.sweepKinds
		}
		if flags.Changed("parallelism") {
			cfg.Sweep.Parallelism = a.parallelism
		}
	} else {
		if flags.Changed("qubits") {
			cfg.Run.Qubits = a.qubits
		}
		if flags.Changed("oracle") {
			cfg.Run.Oracle = a.oracle
		}
	}
	if flags.Changed("shots") {
		cfg.Run.Shots = a.shots
	}
	if flags.Changed("seed") {
		seed := a.seed
		cfg.Run.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkFormat(a.format); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Out:    cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(a.logger)
	a.logger.Debug().Str("command", cmd.Name()).Msg("Configuration loaded")
	return nil
}

func (a *app) runner() *dj.Runner {
	return dj.NewRunner(
		dj.WithMaxQubits(a.cfg.MaxQubits),
		dj.WithLogger(a.logger),
	)
}

// buildOracle returns the oracle named by --oracle-file, or the built-in
// one from the run section.
func (a *app) buildOracle() (oracle.Oracle, error) {
	if a.oracleFile != "" {
		data, err := os.ReadFile(a.oracleFile)
		if err != nil {
			return oracle.Oracle{}, fmt.Errorf("reading oracle: %w", err)
		}
		o, err := qasm.ParseOracle(string(data))
		if err != nil {
			return oracle.Oracle{}, fmt.Errorf("%s: %w", a.oracleFile, err)
		}
		return o, nil
	}

	kind, err := oracle.ParseKind(a.cfg.Run.Oracle)
	if err != nil {
		return oracle.Oracle{}, err
	}
	return oracle.Build(kind, a.cfg.Run.Qubits)
}

func (a *app) runOnce() (*dj.Result, error) {
	o, err := a.buildOracle()
	if err != nil {
		return nil, err
	}
	return a.runner().RunOracle(o, a.cfg.Run.Shots, a.cfg.Run.Seed)
}

func (a *app) runRun(cmd *cobra.Command, _ []string) error {
	res, err := a.runOnce()
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), a.format, res)
}

func (a *app) runSweep(cmd *cobra.Command, _ []string) error {
	kinds := make([]oracle.Kind, 0, len(a.cfg.Sweep.Oracles))
	for _, name := range a.cfg.Sweep.Oracles {
		kind, err := oracle.ParseKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	configs := dj.Grid(a.cfg.Sweep.Qubits, kinds, a.cfg.Run.Shots, a.cfg.Run.Seed)
	a.logger.Info().
		Int("runs", len(configs)).
		Int("parallelism", a.cfg.Sweep.Parallelism).
		Msg("Starting sweep")

	results, err := dj.Sweep(cmd.Context(), a.runner(), configs, a.cfg.Sweep.Parallelism)
	if err != nil {
		return err
	}
	return writeSweep(cmd.OutOrStdout(), a.format, results)
}

func (a *app) runQASM(cmd *cobra.Command, _ []string) error {
	o, err := a.buildOracle()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), qasm.Format(dj.Program(o)))
	return err
}

func (a *app) runView(_ *cobra.Command, _ []string) error {
	res, err := a.runOnce()
	if err != nil {
		return err
	}
	// The alternate screen would swallow console logs.
	runner := dj.NewRunner(dj.WithMaxQubits(a.cfg.MaxQubits))
	return tui.Run(runner, res, a.savePath)
}
