package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/portsim/portsim/sim"
	"github.com/portsim/portsim/sim/trace"
)

var (
	seed           int64  // Overrides the config seed when set
	delta          int64  // Minutes per Advance; 0 means the config step
	horizon        int64  // Stop once the clock reaches this; 0 means the config duration
	traceLevel     string // none or events
	traceDB        string // SQLite file for lifecycle events
	summarizeTrace bool   // Print a trace summary after the run
	resultsPath    string // File to write metrics JSON to
)

// runOptions holds the knobs of one headless run.
type runOptions struct {
	Delta      int64
	Horizon    int64
	TraceLevel trace.TraceLevel
	TraceDB    string
}

// runResult is what a headless run leaves behind.
type runResult struct {
	Port  *sim.Port
	Trace *trace.SimulationTrace // nil unless TraceLevel is events
	Steps int
}

// runSimulation configures a port from cfg and advances it until every ship
// has finished or the clock reaches the horizon.
func runSimulation(cfg sim.Config, opts runOptions) (*runResult, error) {
	if !trace.IsValidTraceLevel(string(opts.TraceLevel)) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, events", opts.TraceLevel)
	}
	if opts.Delta < 0 {
		return nil, fmt.Errorf("--delta must be positive, got %d", opts.Delta)
	}
	if opts.Delta == 0 {
		opts.Delta = cfg.Step
	}
	if opts.Horizon <= 0 {
		opts.Horizon = cfg.TotalDuration
	}

	res := &runResult{Port: sim.NewPort()}
	var writer *trace.SQLiteWriter
	if opts.TraceLevel == trace.TraceLevelEvents {
		res.Trace = trace.NewSimulationTrace(opts.TraceLevel)
	}
	if opts.TraceDB != "" {
		w, err := trace.NewSQLiteWriter(opts.TraceDB)
		if err != nil {
			return nil, err
		}
		writer = w
	}
	var recorders []trace.Recorder
	if res.Trace != nil {
		recorders = append(recorders, res.Trace)
	}
	if writer != nil {
		recorders = append(recorders, writer)
	}
	res.Port.SetRecorder(trace.Multi(recorders...))

	err := func() error {
		if err := res.Port.Configure(cfg); err != nil {
			return err
		}
		if err := res.Port.Reset(); err != nil {
			return err
		}
		for !res.Port.Done() && res.Port.Now() < opts.Horizon {
			if err := res.Port.Advance(opts.Delta); err != nil {
				return err
			}
			res.Steps++
		}
		return nil
	}()
	if writer != nil {
		err = errors.Join(err, writer.Close())
	}
	if err != nil {
		return nil, err
	}
	if !res.Port.Done() {
		logrus.Warnf("Horizon %d reached with ships still unfinished", opts.Horizon)
	}
	return res, nil
}

func printTraceSummary(w io.Writer, st *trace.SimulationTrace) {
	s := trace.Summarize(st)
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Arrivals / Berths / Departures: %d / %d / %d\n", s.TotalArrivals, s.TotalBerths, s.TotalDepartures)
	fmt.Fprintf(w, "Mean Wait: %.2f min, Max Wait: %d min\n", s.MeanWait, s.MaxWait)
	fmt.Fprintf(w, "Mean Turnaround: %.2f min\n", s.MeanTurnaround)
	for _, ct := range sim.CargoTypes() {
		fmt.Fprintf(w, "Berths %-10s: %d\n", ct.String(), s.BerthsByCargo[ct.String()])
	}
}

// writeReport prints the metrics table and, when requested and collected,
// the trace summary.
func writeReport(w io.Writer, res *runResult, summarize bool) {
	res.Port.Metrics().Print(w)
	if summarize && res.Trace != nil {
		printTraceSummary(w, res.Trace)
	}
}

// runCmd executes the simulation headless and reports the outcome
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the port simulation until every ship has unloaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSimConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			logrus.Infof("CLI --seed %d overrides config seed %d", seed, cfg.Seed)
			cfg.Seed = seed
		}
		if summarizeTrace && traceLevel != string(trace.TraceLevelEvents) {
			logrus.Warnf("--summarize-trace has no effect without --trace-level events")
		}

		logrus.Infof("Starting simulation: %d ships, cranes %d/%d/%d, seed %d",
			len(cfg.Schedule), cfg.CranesBulk, cfg.CranesLiquid, cfg.CranesContainer, cfg.Seed)
		startTime := time.Now()

		res, err := runSimulation(cfg, runOptions{
			Delta:      delta,
			Horizon:    horizon,
			TraceLevel: trace.TraceLevel(traceLevel),
			TraceDB:    traceDB,
		})
		if err != nil {
			return err
		}

		writeReport(cmd.OutOrStdout(), res, summarizeTrace)
		if resultsPath != "" {
			if err := res.Port.Metrics().SaveResults(resultsPath); err != nil {
				return err
			}
		}

		logrus.Infof("Simulation complete: %d steps in %v", res.Steps, time.Since(startTime))
		return nil
	},
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival and unload jitter (overrides the config)")
	runCmd.Flags().Int64Var(&delta, "delta", 0, "Minutes per step (0 = config step)")
	runCmd.Flags().Int64Var(&horizon, "horizon", 0, "Stop once the clock reaches this many minutes (0 = config total duration)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Trace verbosity (none, events)")
	runCmd.Flags().StringVar(&traceDB, "trace-db", "", "Write lifecycle events to this SQLite file")
	runCmd.Flags().BoolVar(&summarizeTrace, "summarize-trace", false, "Print a trace summary (requires --trace-level events)")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Write metrics JSON to this file")

	rootCmd.AddCommand(runCmd)
}
