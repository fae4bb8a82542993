package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"station-atmos/internal/gas"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "atmos.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleGrid() *gas.Grid {
	g := gas.NewGrid(4, 3, 32)
	for i, c := range g.Cells() {
		c.Amount[gas.Oxygen] = float64(i) + 0.25
		c.Amount[gas.WaterVapor] = 1.0 / float64(i+3)
		c.Temperature = 250 + float64(i)
		g.Cells()[i] = c
	}
	g.Walls.Set(2, 1, true)
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	run, err := st.NewRun(ctx, "test", 4, 3, 99)
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Label != "test" || got.Seed != 99 || !got.Created.Equal(run.Created) {
		t.Fatalf("run mismatch: %+v vs %+v", got, run)
	}

	g := sampleGrid()
	if err := st.Save(ctx, run.ID, 10, 1.5, g); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snap, err := st.Load(ctx, run.ID, 10)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !slices.Equal(snap.Cells, g.Cells()) {
		t.Fatal("cells changed across the store")
	}
	if !slices.Equal(snap.Walls, g.Walls.Cells()) {
		t.Fatal("walls changed across the store")
	}
	if snap.Tick != 10 || snap.Elapsed != 1.5 {
		t.Fatalf("tick/elapsed = %d/%f", snap.Tick, snap.Elapsed)
	}
	want := g.Totals()
	for sp := range want {
		if diff := snap.Totals[sp] - want[sp]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("species %d totals %.9f vs %.9f", sp, snap.Totals[sp], want[sp])
		}
	}
}

func TestLatestAndTicks(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	run, _ := st.NewRun(ctx, "", 4, 3, 1)

	g := sampleGrid()
	for _, tick := range []uint64{5, 1, 9} {
		g.Cells()[0].Temperature = float64(tick)
		if err := st.Save(ctx, run.ID, tick, float64(tick)/60, g); err != nil {
			t.Fatalf("Save %d failed: %v", tick, err)
		}
	}
	if err := st.Save(ctx, run.ID, 9, 0.15, g); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	ticks, err := st.Ticks(ctx, run.ID)
	if err != nil {
		t.Fatalf("Ticks failed: %v", err)
	}
	if !slices.Equal(ticks, []uint64{1, 5, 9}) {
		t.Fatalf("ticks = %v", ticks)
	}
	latest, err := st.Latest(ctx, run.ID)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.Tick != 9 || latest.Cells[0].Temperature != 9 || latest.Elapsed != 0.15 {
		t.Fatalf("latest = tick %d temp %f elapsed %f", latest.Tick, latest.Cells[0].Temperature, latest.Elapsed)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	if _, err := st.GetRun(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing run, got %v", err)
	}
	if _, err := st.GetRun(ctx, "not-a-uuid"); err == nil {
		t.Fatal("expected malformed id to be rejected")
	}
	run, _ := st.NewRun(ctx, "", 2, 2, 0)
	if _, err := st.Latest(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for run without snapshots, got %v", err)
	}
	if _, err := st.Load(ctx, run.ID, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing tick, got %v", err)
	}
}

func TestDecodeRejectsShortBlobs(t *testing.T) {
	if _, err := decodeCells(make([]byte, 10), 1); err == nil {
		t.Fatal("expected short cell blob to fail")
	}
	if _, err := decodeWalls([]byte{1}, 2); err == nil {
		t.Fatal("expected short wall blob to fail")
	}
}
