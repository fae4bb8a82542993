package structure

import "testing"

func TestCreateRoomOutline(t *testing.T) {
	l := NewLayout(50, 50)
	placed := l.CreateRoom(20, 20, 9, 9)
	if placed != 32 {
		t.Fatalf("placed %d walls, want 32", placed)
	}
	if l.Count() != 32 {
		t.Fatalf("count = %d, want 32", l.Count())
	}
	for _, p := range [][2]int{{20, 20}, {28, 20}, {20, 28}, {28, 28}, {24, 20}, {20, 24}} {
		if !l.HasWall(p[0], p[1]) {
			t.Fatalf("expected wall at %v", p)
		}
	}
	for _, p := range [][2]int{{21, 21}, {24, 24}, {27, 27}, {19, 20}, {29, 28}} {
		if l.HasWall(p[0], p[1]) {
			t.Fatalf("unexpected wall at %v", p)
		}
	}
	if again := l.CreateRoom(20, 20, 9, 9); again != 0 {
		t.Fatalf("recreating room placed %d walls", again)
	}
}

func TestCreateRoomClipsToLayout(t *testing.T) {
	l := NewLayout(5, 5)
	l.CreateRoom(3, 3, 4, 4)
	if !l.HasWall(3, 3) || !l.HasWall(4, 3) || !l.HasWall(3, 4) {
		t.Fatal("expected in-range walls to be placed")
	}
	if l.Count() != 3 {
		t.Fatalf("count = %d, want 3", l.Count())
	}
	if l.CreateRoom(0, 0, 0, 3) != 0 {
		t.Fatal("degenerate room must place nothing")
	}
}

func TestPlaceRemoveDirty(t *testing.T) {
	l := NewLayout(4, 4)
	if l.TakeDirty() {
		t.Fatal("fresh layout should not be dirty")
	}
	if !l.Place(1, 1) || l.Place(1, 1) {
		t.Fatal("place should only report a change once")
	}
	if !l.TakeDirty() || l.TakeDirty() {
		t.Fatal("dirty flag should be consumed")
	}
	if l.Place(-1, 0) || l.HasWall(-1, 0) {
		t.Fatal("out of range tiles cannot hold walls")
	}
	if !l.Remove(1, 1) || l.Remove(1, 1) {
		t.Fatal("remove should only report a change once")
	}
	l.Place(2, 2)
	l.TakeDirty()
	l.Clear()
	if l.Count() != 0 || !l.TakeDirty() {
		t.Fatal("clear should empty the layout and mark it dirty")
	}
	if s := l.Size(); s.W != 4 || s.H != 4 {
		t.Fatalf("size = %+v", s)
	}
}

func TestShape(t *testing.T) {
	l := NewLayout(5, 5)
	l.CreateRoom(0, 0, 3, 3)

	if _, _, ok := l.Shape(1, 1); ok {
		t.Fatal("room interior has no wall shape")
	}
	conn, rot, ok := l.Shape(0, 0)
	if !ok || conn != ConnectCorner || rot != 90 {
		t.Fatalf("corner (0,0) = %v %d", conn, rot)
	}
	conn, rot, _ = l.Shape(1, 0)
	if conn != ConnectStraight || rot != 0 {
		t.Fatalf("edge (1,0) = %v %d", conn, rot)
	}
	conn, rot, _ = l.Shape(0, 1)
	if conn != ConnectStraight || rot != 90 {
		t.Fatalf("edge (0,1) = %v %d", conn, rot)
	}

	l.Place(1, 1)
	conn, _, _ = l.Shape(1, 1)
	if conn != ConnectAll {
		t.Fatalf("center = %v, want all", conn)
	}
	lone := NewLayout(3, 3)
	lone.Place(1, 1)
	if conn, _, _ := lone.Shape(1, 1); conn != ConnectNone {
		t.Fatalf("lone wall = %v, want none", conn)
	}
}
