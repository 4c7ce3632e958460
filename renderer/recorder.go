package renderer

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// OpKind identifies a recorded primitive.
type OpKind uint8

const (
	OpWash OpKind = iota
	OpFillPolygon
	OpStrokePolygon
	OpCircle
	OpPolyline
)

// Op is one recorded draw call.
type Op struct {
	Kind   OpKind
	Points int // Vertex count, 1 for circles, 0 for washes
	Width  float64
	Cap    LineCap
	Color  color.RGBA
}

// Recorder is a Surface that records primitives instead of drawing them.
// Headless runs use it to count work without rasterising.
type Recorder struct {
	Ops []Op

	// NonFinite counts calls that received a NaN or infinite coordinate.
	NonFinite int
}

// Reset drops the recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.NonFinite = 0
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

func (r *Recorder) check(pts []r2.Vec) {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			r.NonFinite++
			return
		}
	}
}

func (r *Recorder) Wash(c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpWash, Color: c})
}

func (r *Recorder) FillPolygon(pts []r2.Vec, c color.RGBA) {
	r.check(pts)
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: len(pts), Color: c})
}

func (r *Recorder) StrokePolygon(pts []r2.Vec, width float64, c color.RGBA) {
	r.check(pts)
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: len(pts), Width: width, Color: c})
}

func (r *Recorder) Circle(center r2.Vec, radius float64, c color.RGBA) {
	r.check([]r2.Vec{center})
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Points: 1, Width: radius, Color: c})
}

func (r *Recorder) Polyline(pts []r2.Vec, width float64, cap LineCap, c color.RGBA) {
	r.check(pts)
	r.Ops = append(r.Ops, Op{Kind: OpPolyline, Points: len(pts), Width: width, Cap: cap, Color: c})
}
