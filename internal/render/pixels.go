package render

import (
	"image/color"

	"station-atmos/internal/gas"
)

// FillRGBA converts the grid into premultiplied RGBA pixels in buf, one
// pixel per cell in row-major order. buf must hold 4*W*H bytes.
func FillRGBA(buf []byte, g *gas.Grid, mode Mode, p gas.Physics) {
	cells := g.Cells()
	walls := g.Walls.Cells()
	if len(buf) < 4*len(cells) {
		return
	}
	if mode == ModeNone {
		fillWallsRGBA(buf, walls)
		return
	}
	for i := range cells {
		putRGBA(buf[i*4:], ColorAt(cells[i], walls[i], mode, p))
	}
}

// fillWallsRGBA clears the buffer to transparent and paints wall cells.
func fillWallsRGBA(buf []byte, walls []bool) {
	for i, w := range walls {
		if w {
			putRGBA(buf[i*4:], wallColor)
			continue
		}
		putRGBA(buf[i*4:], color.NRGBA{})
	}
}

func putRGBA(dst []byte, c color.NRGBA) {
	r, g, b, a := c.RGBA()
	dst[0] = uint8(r >> 8)
	dst[1] = uint8(g >> 8)
	dst[2] = uint8(b >> 8)
	dst[3] = uint8(a >> 8)
}
