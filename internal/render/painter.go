//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"station-atmos/internal/structure"
)

// GridPainter uploads a per-cell RGBA buffer into an image and draws the
// wall layout underneath it.
type GridPainter struct {
	w, h  int
	img   *ebiten.Image
	pixel *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h}
	gp.img = ebiten.NewImage(w, h)
	gp.pixel = ebiten.NewImage(1, 1)
	gp.pixel.Fill(color.White)
	return gp
}

// Blit uploads pixels (premultiplied, 4 bytes per cell) and draws them
// scaled onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, pixels []byte, scale int) {
	if len(pixels) != 4*gp.w*gp.h {
		return
	}
	gp.img.WritePixels(pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// DrawWalls paints every wall tile as a core block with arms toward its
// connected neighbours.
func (gp *GridPainter) DrawWalls(dst *ebiten.Image, layout *structure.Layout, scale int) {
	if scale <= 0 {
		scale = 1
	}
	s := float64(scale)
	block := s * 0.5
	inset := (s - block) / 2
	for y := 0; y < gp.h; y++ {
		for x := 0; x < gp.w; x++ {
			conn, rot, ok := layout.Shape(x, y)
			if !ok {
				continue
			}
			px, py := float64(x)*s, float64(y)*s
			gp.rect(dst, px, py, s, s, color.NRGBA{R: 48, G: 48, B: 54, A: 255})

			tint := WallTint(conn)
			gp.rect(dst, px+inset, py+inset, block, block, tint)
			arms := WallArms(conn, rot)
			if arms[ArmLeft] {
				gp.rect(dst, px, py+inset, inset, block, tint)
			}
			if arms[ArmRight] {
				gp.rect(dst, px+inset+block, py+inset, inset, block, tint)
			}
			if arms[ArmDown] {
				gp.rect(dst, px+inset, py, block, inset, tint)
			}
			if arms[ArmUp] {
				gp.rect(dst, px+inset, py+inset+block, block, inset, tint)
			}
		}
	}
}

func (gp *GridPainter) rect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(gp.pixel, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
