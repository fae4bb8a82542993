package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"station-atmos/internal/atmos"
	"station-atmos/internal/core"
	"station-atmos/internal/render"
	"station-atmos/internal/store"
	"station-atmos/internal/stream"
)

var runOpts struct {
	ticks         int
	tps           int
	seed          int64
	db            string
	label         string
	resume        string
	snapshotEvery int
	listen        string
	mode          string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a station",
	Long: `run steps a station for --ticks ticks. With --tps the loop is paced in
real time; otherwise it runs as fast as possible using the configured tick
rate for its time step. --db stores snapshots in a SQLite file and --listen
serves frames to websocket clients at /ws.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runStation(ctx, cmd, cfg)
	},
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runOpts.ticks, "ticks", 600, "number of ticks to simulate (0 runs until interrupted)")
	f.IntVar(&runOpts.tps, "tps", 0, "pace the loop at this many ticks per second (0 runs unpaced)")
	f.Int64Var(&runOpts.seed, "seed", 0, "seed for the initial fill (0 uses the configured seed)")
	f.StringVar(&runOpts.db, "db", "", "SQLite file for snapshots")
	f.StringVar(&runOpts.label, "label", "", "label stored with a new run")
	f.StringVar(&runOpts.resume, "resume", "", "resume the run with this id from its latest snapshot")
	f.IntVar(&runOpts.snapshotEvery, "snapshot-every", 60, "ticks between snapshots")
	f.StringVar(&runOpts.listen, "listen", "", "address to serve the websocket frame stream on, e.g. :8080")
	f.StringVar(&runOpts.mode, "mode", "", "visualization mode (none, moles, pressure, temperature)")
}

// recorder persists snapshots for one run.
type recorder struct {
	st    *store.Store
	runID string
	every int
	log   logrus.FieldLogger
}

func (r *recorder) maybeSave(ctx context.Context, s *atmos.Station, force bool) {
	if r == nil {
		return
	}
	tick := s.TickCount()
	if !force && (r.every <= 0 || tick%uint64(r.every) != 0) {
		return
	}
	if err := r.st.Save(ctx, r.runID, tick, s.Elapsed(), s.Grid()); err != nil {
		r.log.WithError(err).WithField("tick", tick).Error("atmosd: snapshot failed")
		return
	}
	r.log.WithField("tick", tick).Debug("atmosd: snapshot saved")
}

func runStation(ctx context.Context, cmd *cobra.Command, c atmos.Config) error {
	log := logrus.StandardLogger()

	station, err := atmos.New(c)
	if err != nil {
		return err
	}
	station.SetLogger(log)
	if runOpts.seed != 0 {
		station.Reset(runOpts.seed)
	}
	if runOpts.mode != "" {
		mode, err := render.ParseMode(runOpts.mode)
		if err != nil {
			return err
		}
		station.SetMode(mode)
	}

	rec, closeStore, err := openRecorder(ctx, station, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var hub *stream.Hub
	if runOpts.listen != "" {
		hub = stream.NewHub(log)
		shutdown := serveFrames(ctx, hub, runOpts.listen, log)
		defer shutdown()
	}

	dt := 1.0 / float64(c.TPS)
	var timer *core.FixedStep
	if runOpts.tps > 0 {
		timer = core.NewFixedStep(runOpts.tps)
		dt = timer.DT()
	}

	start := station.Totals()
	began := time.Now()
	log.WithFields(logrus.Fields{
		"station": station.Name(),
		"width":   c.Width,
		"height":  c.Height,
		"dt":      dt,
		"ticks":   runOpts.ticks,
	}).Info("atmosd: simulation started")

	for n := 0; runOpts.ticks <= 0 || n < runOpts.ticks; n++ {
		if timer != nil {
			if err := waitTick(ctx, timer); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}

		report, err := station.Tick(dt)
		if err != nil {
			log.WithError(err).WithField("tick", report.Tick).Warn("atmosd: interaction skipped")
		}
		rec.maybeSave(ctx, station, false)
		if hub != nil {
			frame := stream.NewFrame(report.Tick, report.Elapsed, station.Grid(), station.Physics(), report.Events)
			if _, err := hub.PublishFrame(frame); err != nil {
				log.WithError(err).Error("atmosd: frame encoding failed")
			}
		}
	}
	// A final snapshot is stored even when interrupted.
	rec.maybeSave(context.WithoutCancel(ctx), station, true)

	end := station.Totals()
	log.WithFields(logrus.Fields{
		"ticks":   station.TickCount(),
		"elapsed": station.Elapsed(),
		"wall":    time.Since(began).Round(time.Millisecond),
		"drift":   relativeDrift(start, end),
	}).Info("atmosd: simulation finished")
	printTotals(cmd, end)
	return nil
}

// openRecorder opens the snapshot store named by --db. It returns a nil
// recorder when no store was requested.
func openRecorder(ctx context.Context, station *atmos.Station, log logrus.FieldLogger) (*recorder, func(), error) {
	if runOpts.db == "" {
		return nil, func() {}, nil
	}
	st, err := store.Open(runOpts.db)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			log.WithError(err).Warn("atmosd: closing store")
		}
	}

	var run store.Run
	if runOpts.resume != "" {
		run, err = st.GetRun(ctx, runOpts.resume)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		size := station.Size()
		if run.Width != size.W || run.Height != size.H {
			closeStore()
			return nil, nil, fmt.Errorf("atmosd: run %s is %dx%d, station is %dx%d", run.ID, run.Width, run.Height, size.W, size.H)
		}
		snap, err := st.Latest(ctx, run.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.WithField("run", run.ID).Warn("atmosd: run has no snapshots, starting fresh")
		case err != nil:
			closeStore()
			return nil, nil, err
		default:
			if err := station.Restore(snap.Tick, snap.Elapsed, snap.Cells, snap.Walls); err != nil {
				closeStore()
				return nil, nil, err
			}
			log.WithFields(logrus.Fields{"run": run.ID, "tick": snap.Tick}).Info("atmosd: resumed")
		}
	} else {
		size := station.Size()
		run, err = st.NewRun(ctx, runOpts.label, size.W, size.H, station.Config().Seed)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		log.WithField("run", run.ID).Info("atmosd: recording run")
	}
	return &recorder{st: st, runID: run.ID, every: runOpts.snapshotEvery, log: log}, closeStore, nil
}

// serveFrames starts the hub and an HTTP server for it. The returned
// function stops both.
func serveFrames(ctx context.Context, hub *stream.Hub, addr string, log logrus.FieldLogger) func() {
	hubCtx, cancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("atmosd: frame server stopped")
		}
	}()
	log.WithField("addr", addr).Info("atmosd: streaming frames on /ws")

	return func() {
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("atmosd: frame server shutdown")
		}
	}
}

// waitTick blocks until the timer is due or ctx ends.
func waitTick(ctx context.Context, timer *core.FixedStep) error {
	for !timer.ShouldStep() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(timer.Remaining()):
		}
	}
	return nil
}
