package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"station-atmos/internal/atmos"
	"station-atmos/internal/gas"
)

var sweepOpts struct {
	ticks   int
	workers int
	top     int
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare solver settings",
	Long: `sweep runs the configured station with its interactions removed once
per combination of molar rate, molar iteration count and temperature rate,
and ranks the settings by how well they conserve gas and how far the peak
cell overshoots the starting maximum.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sweep(cmd.Context(), cmd, cfg)
	},
}

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepOpts.ticks, "ticks", 300, "ticks to simulate per setting")
	f.IntVar(&sweepOpts.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	f.IntVar(&sweepOpts.top, "top", 5, "number of results to print")
}

type solverSet struct {
	params gas.SolverParams
}

func (s solverSet) String() string {
	return fmt.Sprintf("molarRate=%.4f molarIter=%d tempRate=%.5f tempIter=%d",
		s.params.MolarRate, s.params.MolarIterations, s.params.TemperatureRate, s.params.TemperatureIterations)
}

type sweepResult struct {
	set       solverSet
	drift     float64
	overshoot float64
	meanTemp  float64
	err       error
}

// better orders results by drift, then overshoot.
func (r sweepResult) better(o sweepResult) bool {
	if r.drift != o.drift {
		return r.drift < o.drift
	}
	return r.overshoot < o.overshoot
}

func solverSets(base gas.SolverParams) []solverSet {
	molarRates := []float64{0.001, 0.005, 0.02, 0.05}
	molarIters := []int{10, 25, 50, 100}
	tempRates := []float64{0.0003, 0.0006, 0.0012}

	var sets []solverSet
	for _, mr := range molarRates {
		for _, mi := range molarIters {
			for _, tr := range tempRates {
				p := base
				p.MolarRate = mr
				p.MolarIterations = mi
				p.TemperatureRate = tr
				sets = append(sets, solverSet{params: p})
			}
		}
	}
	return sets
}

// sealed strips every interaction so only diffusion moves gas.
func sealed(c atmos.Config) atmos.Config {
	c.Breaches = nil
	c.Breathers = nil
	c.Canisters = nil
	c.Heaters = nil
	return c
}

func sweep(ctx context.Context, cmd *cobra.Command, c atmos.Config) error {
	base := sealed(c)
	sets := solverSets(base.Solver)
	workers := sweepOpts.workers
	if workers < 1 {
		workers = 1
	}
	logrus.WithFields(logrus.Fields{
		"sets":    len(sets),
		"workers": workers,
		"ticks":   sweepOpts.ticks,
	}).Info("atmosd: sweeping solver settings")

	jobs := make(chan solverSet)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for set := range jobs {
				results <- runScenario(base, set, sweepOpts.ticks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, set := range sets {
			select {
			case jobs <- set:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	var all []sweepResult
	for res := range results {
		if res.err != nil {
			logrus.WithError(res.err).WithField("set", res.set.String()).Warn("atmosd: scenario failed")
			continue
		}
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("atmosd: every scenario failed")
	}

	sort.Slice(all, func(i, j int) bool { return all[i].better(all[j]) })
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Top %d of %d settings (elapsed %s):\n", min(sweepOpts.top, len(all)), len(all), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < sweepOpts.top; i++ {
		res := all[i]
		fmt.Fprintf(out, "%2d) drift=%.3e overshoot=%.3e meanTemp=%.2f %s\n", i+1, res.drift, res.overshoot, res.meanTemp, res.set)
	}
	worst := all[len(all)-1]
	fmt.Fprintf(out, "\nWorst: drift=%.3e overshoot=%.3e %s\n", worst.drift, worst.overshoot, worst.set)
	return nil
}

func runScenario(base atmos.Config, set solverSet, ticks int) sweepResult {
	c := base
	c.Solver = set.params
	res := sweepResult{set: set}

	station, err := atmos.New(c)
	if err != nil {
		res.err = err
		return res
	}
	station.SetLogger(logrus.NewEntry(logrus.StandardLogger()).WithField("set", set.String()))

	g := station.Grid()
	moles := make([]float64, len(g.Cells()))
	initial := cellMoles(moles, g)
	before := station.Totals()
	peak := initial
	dt := 1.0 / float64(c.TPS)
	for i := 0; i < ticks; i++ {
		if _, err := station.Tick(dt); err != nil {
			res.err = err
			return res
		}
		peak = max(peak, cellMoles(moles, g))
	}
	res.drift = relativeDrift(before, station.Totals())
	res.overshoot = overshoot(peak, initial)
	res.meanTemp = g.MeanTemperature()
	return res
}
