package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/crazy3lf/colorconv"

	"station-atmos/internal/gas"
)

// Mode selects which quantity the gas overlay shows.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeMoles
	ModePressure
	ModeTemperature
)

const modeCount = int(ModeTemperature) + 1

var modeNames = [modeCount]string{"none", "moles", "pressure", "temperature"}

func (m Mode) String() string {
	if int(m) >= modeCount {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ParseMode resolves a mode by name, ignoring case.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == key {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("render: unknown visualization mode %q", name)
}

// Next cycles to the following mode, wrapping back to ModeNone.
func (m Mode) Next() Mode { return Mode((int(m) + 1) % modeCount) }

// overlayAlpha is the opacity of every non-wall overlay pixel.
const overlayAlpha = 0.25

// wallColor marks blocked cells in every mode.
var wallColor = color.NRGBA{R: unit(0.1), G: unit(0.1), B: unit(0.1), A: 0}

// ColorAt maps one cell to its overlay color.
func ColorAt(m gas.Mixture, wall bool, mode Mode, p gas.Physics) color.NRGBA {
	if wall {
		return wallColor
	}
	switch mode {
	case ModeMoles:
		return rgba(
			(m.Amount[gas.Oxygen]-75)/15,
			m.Amount[gas.Nitrogen]/100,
			m.Amount[gas.CarbonDioxide]/100,
			overlayAlpha,
		)
	case ModePressure:
		return rgba(
			p.Pressure(m, gas.Oxygen)/1.5,
			p.Pressure(m, gas.Nitrogen)/1.5,
			p.Pressure(m, gas.CarbonDioxide),
			overlayAlpha,
		)
	case ModeTemperature:
		return rgba((m.Temperature-250)/250, 0, 0, overlayAlpha)
	case ModeNone:
		return color.NRGBA{}
	}
	return color.NRGBA{}
}

// GaugeColor maps a vessel fill ratio onto a hue running from red when empty
// to green when full.
func GaugeColor(ratio float64) color.NRGBA {
	ratio = clamp01(ratio)
	r, g, b, err := colorconv.HSVToRGB(120*ratio, 1, 1)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func rgba(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: unit(r), G: unit(g), B: unit(b), A: unit(a)}
}

// unit converts a [0,1] channel to a byte, clamping out-of-range values.
func unit(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
