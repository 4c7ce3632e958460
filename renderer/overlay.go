package renderer

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/systems"
)

const ringSegments = 24

// Overlay draws debug views of the flow grid and eddies.
type Overlay struct {
	seg  [2]r2.Vec
	ring []r2.Vec
}

// NewOverlay creates an overlay renderer.
func NewOverlay() *Overlay {
	return &Overlay{ring: make([]r2.Vec, ringSegments)}
}

// FieldVectors draws one short line per grid cell along its flow vector.
func (o *Overlay) FieldVectors(s Surface, f *systems.FlowField, c color.RGBA) {
	cell := f.CellSize()
	arm := cell * 0.4
	for row := 0; row < f.Rows(); row++ {
		for col := 0; col < f.Cols(); col++ {
			center := r2.Vec{X: (float64(col) + 0.5) * cell, Y: (float64(row) + 0.5) * cell}
			v := f.At(col, row)
			o.seg[0] = r2.Sub(center, r2.Scale(arm*0.5, v))
			o.seg[1] = r2.Add(center, r2.Scale(arm, v))
			s.Polyline(o.seg[:], 1, CapButt, c)
		}
	}
}

// Eddies draws each eddy's current scale as a ring around its centre.
// Clockwise eddies use cw, counter-clockwise ones ccw.
func (o *Overlay) Eddies(s Surface, eddies []systems.Eddy, cw, ccw color.RGBA) {
	for i := range eddies {
		e := &eddies[i]
		c := ccw
		if e.Rotation > 0 {
			c = cw
		}
		o.circle(s, e.Center, e.Scale, c)
		s.Circle(e.Center, 3, c)
	}
}

// Cursor outlines the reach of the mouse swirl around center.
func (o *Overlay) Cursor(s Surface, center r2.Vec, radius float64, c color.RGBA) {
	if radius <= 0 {
		return
	}
	o.circle(s, center, radius, c)
}

func (o *Overlay) circle(s Surface, center r2.Vec, radius float64, c color.RGBA) {
	for k := range o.ring {
		a := float64(k) / ringSegments * 2 * math.Pi
		o.ring[k] = r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	s.StrokePolygon(o.ring, 1, c)
}
