package structure

// Connection is the sprite family chosen for a wall from its neighbours.
type Connection uint8

const (
	ConnectNone Connection = iota
	ConnectOne
	ConnectCorner
	ConnectStraight
	ConnectTee
	ConnectAll
)

func (c Connection) String() string {
	switch c {
	case ConnectOne:
		return "one"
	case ConnectCorner:
		return "corner"
	case ConnectStraight:
		return "straight"
	case ConnectTee:
		return "tee"
	case ConnectAll:
		return "all"
	default:
		return "none"
	}
}

// neighbour bits
const (
	linkLeft uint8 = 1 << iota
	linkRight
	linkUp
	linkDown
)

// shapes is indexed by the neighbour bits. Up is y+1.
var shapes = [16]struct {
	conn     Connection
	rotation int
}{
	0:                                       {ConnectNone, 0},
	linkDown:                                {ConnectOne, -90},
	linkUp:                                  {ConnectOne, 90},
	linkUp | linkDown:                       {ConnectStraight, 90},
	linkRight:                               {ConnectOne, 0},
	linkRight | linkDown:                    {ConnectCorner, 0},
	linkRight | linkUp:                      {ConnectCorner, 90},
	linkRight | linkUp | linkDown:           {ConnectTee, 90},
	linkLeft:                                {ConnectOne, 180},
	linkLeft | linkDown:                     {ConnectCorner, -90},
	linkLeft | linkUp:                       {ConnectCorner, 180},
	linkLeft | linkUp | linkDown:            {ConnectTee, -90},
	linkLeft | linkRight:                    {ConnectStraight, 0},
	linkLeft | linkRight | linkDown:         {ConnectTee, 0},
	linkLeft | linkRight | linkUp:           {ConnectTee, 180},
	linkLeft | linkRight | linkUp | linkDown: {ConnectAll, 0},
}

// Shape picks the wall sprite and its rotation in degrees for (x, y). ok is
// false when the tile holds no wall.
func (l *Layout) Shape(x, y int) (conn Connection, rotation int, ok bool) {
	if !l.HasWall(x, y) {
		return ConnectNone, 0, false
	}
	var bits uint8
	if l.HasWall(x-1, y) {
		bits |= linkLeft
	}
	if l.HasWall(x+1, y) {
		bits |= linkRight
	}
	if l.HasWall(x, y+1) {
		bits |= linkUp
	}
	if l.HasWall(x, y-1) {
		bits |= linkDown
	}
	s := shapes[bits]
	return s.conn, s.rotation, true
}
