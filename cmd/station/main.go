//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"station-atmos/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	station, err := cfg.Station()
	if err != nil {
		log.Fatalf("station: %v", err)
	}

	game := app.New(station, cfg)
	size := station.Size()

	ebiten.SetWindowTitle("station-atmos: " + station.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
