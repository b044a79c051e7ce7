package dj

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hershlalwani/djsim/oracle"
)

// Sweep runs independent configurations concurrently and returns results in
// input order. Every run owns its register and random source, so nothing is
// shared between goroutines. The first failure cancels runs not yet started.
func Sweep(ctx context.Context, r *Runner, configs []RunConfig, parallelism int) ([]*Result, error) {
	results := make([]*Result, len(configs))

	g, gCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, cfg := range configs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := r.Run(cfg)
			if err != nil {
				return fmt.Errorf("run %d (n=%d, %s): %w", i, cfg.NumInputs, cfg.Oracle, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Grid expands every combination of input counts and oracle kinds into run
// configurations. With a seed, run i samples with seed+i so runs stay
// reproducible but distinct.
func Grid(qubits []int, kinds []oracle.Kind, shots int, seed *uint64) []RunConfig {
	configs := make([]RunConfig, 0, len(qubits)*len(kinds))
	for _, n := range qubits {
		for _, kind := range kinds {
			cfg := RunConfig{NumInputs: n, Oracle: kind, Shots: shots}
			if seed != nil {
				s := *seed + uint64(len(configs))
				cfg.Seed = &s
			}
			configs = append(configs, cfg)
		}
	}
	return configs
}
