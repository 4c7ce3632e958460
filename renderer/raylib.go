package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// RaylibSurface paints into an off-screen render texture so strokes
// accumulate across frames and fade only under the background wash.
// All methods must be called from the raylib thread. The primitive methods
// draw to whichever target is current, so a zero RaylibSurface draws
// straight to the window.
type RaylibSurface struct {
	target        rl.RenderTexture2D
	width, height int32
	fan           []rl.Vector2
}

// NewRaylibSurface allocates a render texture cleared to bg.
func NewRaylibSurface(width, height int32, bg color.RGBA) *RaylibSurface {
	s := &RaylibSurface{fan: make([]rl.Vector2, 0, 8)}
	s.alloc(width, height, bg)
	return s
}

func (s *RaylibSurface) alloc(width, height int32, bg color.RGBA) {
	s.width, s.height = width, height
	s.target = rl.LoadRenderTexture(width, height)
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(bg)
	rl.EndTextureMode()
}

// Resize reallocates the texture, discarding accumulated paint.
func (s *RaylibSurface) Resize(width, height int32, bg color.RGBA) {
	if width == s.width && height == s.height {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.alloc(width, height, bg)
}

// Clear fills the texture with an opaque colour.
func (s *RaylibSurface) Clear(bg color.RGBA) {
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(bg)
	rl.EndTextureMode()
}

// blendFactors are GL blend factors and equations for colour and alpha.
type blendFactors struct {
	srcRGB, dstRGB     int32
	srcAlpha, dstAlpha int32
	eqRGB, eqAlpha     int32
}

// paintBlend is source-over for colour and alpha separately. raylib's
// default alpha blend scales the destination alpha by the source alpha,
// so translucent washes would drain the texture toward transparent.
var paintBlend = blendFactors{
	srcRGB: rl.SrcAlpha, dstRGB: rl.OneMinusSrcAlpha,
	srcAlpha: rl.One, dstAlpha: rl.OneMinusSrcAlpha,
	eqRGB: rl.FuncAdd, eqAlpha: rl.FuncAdd,
}

// Begin redirects drawing into the texture.
func (s *RaylibSurface) Begin() {
	rl.BeginTextureMode(s.target)
	f := paintBlend
	rl.SetBlendFactorsSeparate(f.srcRGB, f.dstRGB, f.srcAlpha, f.dstAlpha, f.eqRGB, f.eqAlpha)
	rl.BeginBlendMode(rl.BlendCustomSeparate)
}

// End restores drawing to the window.
func (s *RaylibSurface) End() {
	rl.EndBlendMode()
	rl.EndTextureMode()
}

// Present blits the texture to the window. Render textures are stored
// upside down, hence the negative source height.
func (s *RaylibSurface) Present() {
	src := rl.Rectangle{Width: float32(s.width), Height: -float32(s.height)}
	rl.DrawTextureRec(s.target.Texture, src, rl.Vector2{}, rl.White)
}

// Unload frees the GPU texture.
func (s *RaylibSurface) Unload() {
	rl.UnloadRenderTexture(s.target)
}

func (s *RaylibSurface) Wash(c color.RGBA) {
	rl.DrawRectangle(0, 0, s.width, s.height, c)
}

// FillPolygon draws a convex polygon as a triangle fan. raylib culls
// clockwise fans, so clockwise input is reversed.
func (s *RaylibSurface) FillPolygon(pts []r2.Vec, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	s.fan = s.fan[:0]
	if shoelace(pts) > 0 {
		for i := len(pts) - 1; i >= 0; i-- {
			s.fan = append(s.fan, vec(pts[i]))
		}
	} else {
		for _, p := range pts {
			s.fan = append(s.fan, vec(p))
		}
	}
	rl.DrawTriangleFan(s.fan, c)
}

func (s *RaylibSurface) StrokePolygon(pts []r2.Vec, width float64, c color.RGBA) {
	n := len(pts)
	for i := 0; i < n; i++ {
		rl.DrawLineEx(vec(pts[i]), vec(pts[(i+1)%n]), float32(width), c)
	}
}

func (s *RaylibSurface) Circle(center r2.Vec, radius float64, c color.RGBA) {
	rl.DrawCircleV(vec(center), float32(radius), c)
}

// Polyline draws thick segments. Round caps also fill the joints.
func (s *RaylibSurface) Polyline(pts []r2.Vec, width float64, cap LineCap, c color.RGBA) {
	n := len(pts)
	if n < 2 {
		return
	}
	w := float32(width)
	start, end := pts[0], pts[n-1]
	if cap == CapSquare {
		start = extend(pts[0], pts[1], width/2)
		end = extend(pts[n-1], pts[n-2], width/2)
	}

	for i := 1; i < n; i++ {
		a, b := pts[i-1], pts[i]
		if i == 1 {
			a = start
		}
		if i == n-1 {
			b = end
		}
		rl.DrawLineEx(vec(a), vec(b), w, c)
	}

	if cap == CapRound {
		for _, p := range pts {
			rl.DrawCircleV(vec(p), w/2, c)
		}
	}
}

// extend moves p away from toward by d.
func extend(p, toward r2.Vec, d float64) r2.Vec {
	dir := r2.Sub(p, toward)
	n := r2.Norm(dir)
	if n < 1e-9 {
		return p
	}
	return r2.Add(p, r2.Scale(d/n, dir))
}

// shoelace returns twice the signed area. Positive is clockwise on a
// y-down screen.
func shoelace(pts []r2.Vec) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum
}

func vec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
