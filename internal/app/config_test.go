package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"station-atmos/internal/render"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("station", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-sim", "chamber", "-scale", "4", "-mode", "temperature", "-hud", "0"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Sim != "chamber" || cfg.Scale != 4 || cfg.Mode != "temperature" || cfg.HUDWidth != 0 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TPS != 60 {
		t.Fatalf("expected default tps to survive, got %d", cfg.TPS)
	}
}

func TestStationFromRegistry(t *testing.T) {
	cfg := NewConfig()
	cfg.Mode = "moles"
	s, err := cfg.Station()
	if err != nil {
		t.Fatalf("Station failed: %v", err)
	}
	if s.Name() != "station" || s.Mode() != render.ModeMoles {
		t.Fatalf("got %s in mode %s", s.Name(), s.Mode())
	}

	cfg.Sim = "nonsense"
	if _, err := cfg.Station(); err == nil {
		t.Fatal("expected unknown sim to fail")
	}
}

func TestStationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	doc := "width: 10\nheight: 8\norigin_x: -160\norigin_y: -128\nrooms: []\nbreaches: []\nbreathers: []\ncanisters: []\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg := NewConfig()
	cfg.ConfigFile = path
	cfg.Sim = "chamber"
	s, err := cfg.Station()
	if err != nil {
		t.Fatalf("Station failed: %v", err)
	}
	if size := s.Size(); size.W != 10 || size.H != 8 {
		t.Fatalf("size = %+v", size)
	}
	if len(s.Heaters()) != 1 {
		t.Fatalf("chamber should carry its heater, got %d", len(s.Heaters()))
	}
	if s.Mode() != render.ModePressure {
		t.Fatalf("mode flag not applied: %s", s.Mode())
	}
}
