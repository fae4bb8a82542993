package render

import (
	"image/color"

	"station-atmos/internal/structure"
)

// Arm directions in counter-clockwise order. Up is y+1.
const (
	ArmRight = iota
	ArmUp
	ArmLeft
	ArmDown
	armCount
)

var baseArms = map[structure.Connection][armCount]bool{
	structure.ConnectOne:      {ArmRight: true},
	structure.ConnectCorner:   {ArmRight: true, ArmDown: true},
	structure.ConnectStraight: {ArmRight: true, ArmLeft: true},
	structure.ConnectTee:      {ArmRight: true, ArmLeft: true, ArmDown: true},
	structure.ConnectAll:      {true, true, true, true},
}

// WallArms unfolds a wall sprite choice back into the directions it
// connects to. rotation is in degrees, counter-clockwise, multiple of 90.
func WallArms(conn structure.Connection, rotation int) [armCount]bool {
	var out [armCount]bool
	base := baseArms[conn]
	steps := ((rotation/90)%armCount + armCount) % armCount
	for d, on := range base {
		if on {
			out[(d+steps)%armCount] = true
		}
	}
	return out
}

var wallTints = map[structure.Connection]color.NRGBA{
	structure.ConnectNone:     {R: 120, G: 120, B: 128, A: 255},
	structure.ConnectOne:      {R: 128, G: 128, B: 136, A: 255},
	structure.ConnectCorner:   {R: 140, G: 140, B: 150, A: 255},
	structure.ConnectStraight: {R: 150, G: 150, B: 160, A: 255},
	structure.ConnectTee:      {R: 160, G: 160, B: 172, A: 255},
	structure.ConnectAll:      {R: 172, G: 172, B: 184, A: 255},
}

// WallTint is the base colour of a wall tile; junctions read brighter.
func WallTint(conn structure.Connection) color.NRGBA {
	if c, ok := wallTints[conn]; ok {
		return c
	}
	return wallTints[structure.ConnectNone]
}
