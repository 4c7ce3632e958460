package renderer

import "gonum.org/v1/gonum/spatial/r2"

// CatmullRom appends a smoothed version of pts to dst and returns it.
// The curve passes through every input point; each segment is subdivided
// into samples pieces. Endpoints are duplicated as phantom control points.
func CatmullRom(dst, pts []r2.Vec, samples int) []r2.Vec {
	n := len(pts)
	if n < 3 || samples < 2 {
		return append(dst, pts...)
	}
	dst = append(dst, pts[0])
	for i := 0; i < n-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, n-1)]
		for s := 1; s <= samples; s++ {
			dst = append(dst, catmullRomPoint(p0, p1, p2, p3, float64(s)/float64(samples)))
		}
	}
	return dst
}

func catmullRomPoint(p0, p1, p2, p3 r2.Vec, t float64) r2.Vec {
	t2 := t * t
	t3 := t2 * t
	// 0.5 * (2p1 + (-p0+p2)t + (2p0-5p1+4p2-p3)t² + (-p0+3p1-3p2+p3)t³)
	c0 := -0.5*t3 + t2 - 0.5*t
	c1 := 1.5*t3 - 2.5*t2 + 1
	c2 := -1.5*t3 + 2*t2 + 0.5*t
	c3 := 0.5*t3 - 0.5*t2
	return r2.Vec{
		X: c0*p0.X + c1*p1.X + c2*p2.X + c3*p3.X,
		Y: c0*p0.Y + c1*p1.Y + c2*p2.Y + c3*p3.Y,
	}
}
