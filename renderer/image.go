package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"
)

// ImageSurface paints into an in-memory RGBA image. It backs headless runs
// and PNG snapshots.
type ImageSurface struct {
	dc            *gg.Context
	width, height int
}

// NewImageSurface creates a width x height image cleared to bg.
func NewImageSurface(width, height int, bg color.RGBA) *ImageSurface {
	s := &ImageSurface{dc: gg.NewContext(width, height), width: width, height: height}
	s.dc.SetLineJoinRound()
	s.Clear(bg)
	return s
}

// Clear fills the image with bg at full opacity.
func (s *ImageSurface) Clear(bg color.RGBA) {
	s.dc.SetRGBA255(int(bg.R), int(bg.G), int(bg.B), 255)
	s.dc.Clear()
}

// Resize replaces the image, discarding accumulated paint.
func (s *ImageSurface) Resize(width, height int, bg color.RGBA) {
	if width == s.width && height == s.height {
		return
	}
	s.dc = gg.NewContext(width, height)
	s.dc.SetLineJoinRound()
	s.width, s.height = width, height
	s.Clear(bg)
}

// Image returns the backing image.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the current image to path.
func (s *ImageSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

func (s *ImageSurface) setColor(c color.RGBA) {
	s.dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

func (s *ImageSurface) Wash(c color.RGBA) {
	s.setColor(c)
	s.dc.DrawRectangle(0, 0, float64(s.width), float64(s.height))
	s.dc.Fill()
}

func (s *ImageSurface) path(pts []r2.Vec) {
	s.dc.NewSubPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
}

func (s *ImageSurface) FillPolygon(pts []r2.Vec, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	s.path(pts)
	s.dc.ClosePath()
	s.setColor(c)
	s.dc.Fill()
}

func (s *ImageSurface) StrokePolygon(pts []r2.Vec, width float64, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	s.path(pts)
	s.dc.ClosePath()
	s.setColor(c)
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

func (s *ImageSurface) Circle(center r2.Vec, radius float64, c color.RGBA) {
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.setColor(c)
	s.dc.Fill()
}

func (s *ImageSurface) Polyline(pts []r2.Vec, width float64, cap LineCap, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	switch cap {
	case CapRound:
		s.dc.SetLineCapRound()
	case CapSquare:
		s.dc.SetLineCapSquare()
	default:
		s.dc.SetLineCapButt()
	}
	s.path(pts)
	s.setColor(c)
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}
