// Command wcsim simulates the World Cup many times and prints each team's chances.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/logging"
	"github.com/preston-bernstein/worldcup-sim/internal/providers"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/file"
	"github.com/preston-bernstein/worldcup-sim/internal/providers/fixture"
	"github.com/preston-bernstein/worldcup-sim/internal/report"
	"github.com/preston-bernstein/worldcup-sim/internal/sim"
	"github.com/preston-bernstein/worldcup-sim/internal/snapshots"
)

const appVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	teamsFile  string
	iterations int
	workers    int
	seed       uint64
	resultsDir string
	profile    string
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	opts := options{}
	fs := flag.NewFlagSet("wcsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wcsim [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.teamsFile, "f", cfg.TeamsFile, "teams file (.yaml, .yml, .json ratings or .txt raw results); empty uses the 2018 field")
	fs.IntVar(&opts.iterations, "n", cfg.Simulation.Iterations, "number of tournaments to simulate")
	fs.IntVar(&opts.workers, "k", cfg.Simulation.Workers, "number of workers")
	fs.Uint64Var(&opts.seed, "s", cfg.Simulation.Seed, "random seed (0 = time based)")
	fs.StringVar(&opts.resultsDir, "o", "", "write a forecast snapshot under this directory")
	fs.StringVar(&opts.profile, "profile", "", "write cpu profile to file")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.iterations <= 0 {
		return options{}, fmt.Errorf("-n must be positive, got %d", opts.iterations)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "wcsim",
		Version: appVersion,
	})

	if opts.profile != "" {
		f, err := os.Create(opts.profile)
		if err != nil {
			fmt.Fprintf(stderr, "could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	var provider providers.TeamProvider = fixture.New()
	if opts.teamsFile != "" {
		provider = file.New(opts.teamsFile)
	}
	field, err := provider.FetchTeams(ctx)
	if err != nil {
		logging.Error(logger, "load teams failed", err)
		fmt.Fprintf(stderr, "load teams: %v\n", err)
		return 1
	}

	simulator := sim.New(sim.Options{
		Iterations: opts.iterations,
		Workers:    opts.workers,
		Seed:       opts.seed,
		Logger:     logger,
	})
	f, err := simulator.Run(ctx, field)
	if err != nil {
		fmt.Fprintf(stderr, "simulate: %v\n", err)
		return 1
	}

	if err := report.Write(stdout, f); err != nil {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return 1
	}

	if opts.resultsDir != "" {
		w := snapshots.NewWriter(opts.resultsDir, cfg.Results.Retention)
		if err := w.WriteForecast(f); err != nil {
			fmt.Fprintf(stderr, "write snapshot: %v\n", err)
			return 1
		}
		logging.Info(logger, "snapshot written",
			"path", snapshots.ForecastSnapshotPath(opts.resultsDir, f.RunID),
			logging.FieldRunID, f.RunID,
		)
	}
	return 0
}
