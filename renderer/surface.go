package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// LineCap selects how open polyline ends are drawn.
type LineCap uint8

const (
	CapRound LineCap = iota
	CapSquare
	CapButt
)

func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	case CapButt:
		return "butt"
	}
	return "unknown"
}

// Surface is the drawing contract the painter needs from a host.
// Colours are non-premultiplied. Implementations must not retain the
// point slices passed to them.
type Surface interface {
	// Wash covers the whole surface with c, typically translucent.
	Wash(c color.RGBA)
	FillPolygon(pts []r2.Vec, c color.RGBA)
	StrokePolygon(pts []r2.Vec, width float64, c color.RGBA)
	Circle(center r2.Vec, radius float64, c color.RGBA)
	Polyline(pts []r2.Vec, width float64, cap LineCap, c color.RGBA)
}

// withAlpha returns c with its alpha replaced by a in [0,1].
func withAlpha(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}
