package render

import (
	"testing"

	"station-atmos/internal/structure"
)

func TestWallArmsMatchNeighbours(t *testing.T) {
	offsets := [armCount][2]int{
		ArmRight: {1, 0},
		ArmUp:    {0, 1},
		ArmLeft:  {-1, 0},
		ArmDown:  {0, -1},
	}
	for mask := 0; mask < 16; mask++ {
		l := structure.NewLayout(3, 3)
		l.Place(1, 1)
		var want [armCount]bool
		for d, off := range offsets {
			if mask&(1<<d) != 0 {
				l.Place(1+off[0], 1+off[1])
				want[d] = true
			}
		}
		conn, rot, ok := l.Shape(1, 1)
		if !ok {
			t.Fatalf("mask %d: centre wall missing", mask)
		}
		if got := WallArms(conn, rot); got != want {
			t.Fatalf("mask %d: %s rotated %d gives arms %v, want %v", mask, conn, rot, got, want)
		}
	}
}

func TestWallTintBrightensWithLinks(t *testing.T) {
	if WallTint(structure.ConnectAll).R <= WallTint(structure.ConnectNone).R {
		t.Fatal("junctions should be brighter than lone walls")
	}
	if WallTint(structure.Connection(99)) != WallTint(structure.ConnectNone) {
		t.Fatal("unknown connections should fall back to the lone tint")
	}
}
