// File: cmd/hioload-bench/app.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/momentics/hioload-compute/control"
	"github.com/momentics/hioload-compute/facade"
	"github.com/momentics/hioload-compute/kernels"
)

const (
	modeSerial   = "serial"
	modeParallel = "parallel"
	modePool     = "pool"
	modeAll      = "all"
)

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "hioload-bench",
		Usage:     "benchmark data-parallel kernels on a fixed-size thread pool",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML pool configuration file"},
			&cli.StringFlag{Name: "log-level", Usage: "logrus level (overrides config)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (overrides config)"},
			&cli.BoolFlag{Name: "metrics", Usage: "print Prometheus metrics after the run"},
		},
		Commands: []*cli.Command{
			matvecCommand(),
			integrateCommand(),
		},
	}
}

func modeFlag() cli.Flag {
	return &cli.StringFlag{Name: "mode", Value: modeAll, Usage: "serial, parallel, pool or all"}
}

func threadsFlag() cli.Flag {
	return &cli.IntFlag{Name: "threads", Aliases: []string{"t"}, Usage: "worker count (default from config)"}
}

func iterationsFlag() cli.Flag {
	return &cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Value: 1, Usage: "timed runs per variant"}
}

func matvecCommand() *cli.Command {
	return &cli.Command{
		Name:  "matvec",
		Usage: "c = a * b for an m x n matrix",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rows", Aliases: []string{"m"}, Value: 4096},
			&cli.IntFlag{Name: "cols", Value: 4096},
			threadsFlag(),
			iterationsFlag(),
			modeFlag(),
		},
		Action: func(c *cli.Context) error {
			modes, err := parseMode(c.String("mode"))
			if err != nil {
				return err
			}
			p, err := kernels.NewMatVecProblem(c.Int("rows"), c.Int("cols"))
			if err != nil {
				return err
			}
			comp, err := buildCompute(c, "matvec")
			if err != nil {
				return err
			}
			defer comp.Shutdown()
			pool := comp.Pool()
			threads := pool.NumWorkers()
			if err := p.InitPool(pool); err != nil {
				return err
			}

			out := c.App.Writer
			fmt.Fprintf(out, "matvec %dx%d, threads %d, memory %d MiB\n", p.M, p.N, threads, p.MemoryMiB())
			it := c.Int("iterations")
			var serial time.Duration
			for _, m := range modes {
				var d time.Duration
				switch m {
				case modeSerial:
					d, err = kernels.Measure(it, func() error { p.Serial(); return nil })
					serial = d
				case modeParallel:
					d, err = kernels.Measure(it, func() error { return p.Parallel(threads) })
				case modePool:
					d, err = kernels.Measure(it, func() error { return p.Pool(pool) })
				}
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				report(out, m, d, serial)
			}
			return dumpMetrics(c, comp)
		},
	}
}

func integrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "integrate",
		Usage: "midpoint rule for exp(-x^2) over [lower, upper]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "steps", Aliases: []string{"s"}, Value: 40_000_000},
			&cli.Float64Flag{Name: "lower", Value: -4},
			&cli.Float64Flag{Name: "upper", Value: 4},
			threadsFlag(),
			iterationsFlag(),
			modeFlag(),
		},
		Action: func(c *cli.Context) error {
			modes, err := parseMode(c.String("mode"))
			if err != nil {
				return err
			}
			in := kernels.Integral{
				F:     kernels.Gauss,
				A:     c.Float64("lower"),
				B:     c.Float64("upper"),
				Steps: c.Int("steps"),
			}
			comp, err := buildCompute(c, "integrate")
			if err != nil {
				return err
			}
			defer comp.Shutdown()
			pool := comp.Pool()
			threads := pool.NumWorkers()

			out := c.App.Writer
			fmt.Fprintf(out, "integrate [%g, %g], steps %d, threads %d\n", in.A, in.B, in.Steps, threads)
			it := c.Int("iterations")
			var serial time.Duration
			for _, m := range modes {
				var (
					d   time.Duration
					res float64
				)
				switch m {
				case modeSerial:
					d, err = kernels.Measure(it, func() (err error) { res, err = in.Serial(); return })
					serial = d
				case modeParallel:
					d, err = kernels.Measure(it, func() (err error) { res, err = in.Parallel(threads); return })
				case modePool:
					d, err = kernels.Measure(it, func() (err error) { res, err = in.Pool(pool); return })
				}
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				report(out, m, d, serial)
				fmt.Fprintf(out, "  result %.12f, error vs sqrt(pi) %.3e\n", res, math.Abs(res-math.Sqrt(math.Pi)))
			}
			return dumpMetrics(c, comp)
		},
	}
}

// buildCompute layers config file, HIOLOAD_* environment and flags, in that order.
func buildCompute(c *cli.Context, name string) (*facade.Compute, error) {
	cfg := control.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := control.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.Name = name
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.Bool("metrics") {
		cfg.Metrics.Enabled = true
	}
	if c.IsSet("threads") {
		cfg.Workers = c.Int("threads")
	}
	return facade.New(cfg, facade.WithLogOutput(c.App.ErrWriter))
}

func parseMode(s string) ([]string, error) {
	switch s {
	case modeSerial, modeParallel, modePool:
		return []string{s}, nil
	case modeAll:
		return []string{modeSerial, modeParallel, modePool}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", s)
	}
}

func report(out io.Writer, mode string, d, serial time.Duration) {
	if mode == modeSerial || serial == 0 {
		fmt.Fprintf(out, "%-8s %.6f s\n", mode, d.Seconds())
		return
	}
	fmt.Fprintf(out, "%-8s %.6f s  speedup %.2fx\n", mode, d.Seconds(), kernels.Speedup(serial, d))
}

func dumpMetrics(c *cli.Context, comp *facade.Compute) error {
	if comp.Gatherer() == nil {
		return nil
	}
	return comp.WriteMetrics(c.App.Writer)
}
