package render

import (
	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
)

// DefaultSurface is the color returned for an untextured surface.
var DefaultSurface = math3d.V4(0.87, 0.87, 0.87, 1)

// TextureLookup samples tex at normalized coordinates (s, t), with t = 0 at
// the bottom row. Coordinates are clamped to [0, 1] and filtered bilinearly.
func TextureLookup(tex *models.Texture, s, t float32) math3d.Vec4 {
	if tex.Empty() {
		return DefaultSurface
	}

	s = math3d.Saturate(s) * float32(tex.Width-1)
	t = math3d.Saturate(t) * float32(tex.Height-1)
	return Bilinear(tex, s, t)
}

// Bilinear filters tex at texel coordinates (s, t); texel centers sit on
// integer coordinates. Within half a texel of the border it degrades to a
// one-dimensional filter along the other axis, and to nearest sampling in
// the corners.
func Bilinear(tex *models.Texture, s, t float32) math3d.Vec4 {
	if s <= 0.5 || s >= tex.SMax {
		return linearV(tex, s, t)
	}
	if t <= 0.5 || t >= tex.TMax {
		return linearH(tex, s, t)
	}

	x0 := math32.Floor(s)
	y0 := math32.Floor(t)
	fx := s - x0
	fy := t - y0
	x, y := int(x0), int(y0)

	bottom := tex.Texel(x, y).Lerp(tex.Texel(x+1, y), fx)
	top := tex.Texel(x, y+1).Lerp(tex.Texel(x+1, y+1), fx)
	return bottom.Lerp(top, fy)
}

// linearH filters along s only, using the nearest row.
func linearH(tex *models.Texture, s, t float32) math3d.Vec4 {
	if s <= 0.5 || s >= tex.SMax {
		return NearestNeighbor(tex, s, t)
	}

	x0 := math32.Floor(s)
	fx := s - x0
	x := int(x0)
	y := int(math32.Round(t))
	return tex.Texel(x, y).Lerp(tex.Texel(x+1, y), fx)
}

// linearV filters along t only, using the nearest column.
func linearV(tex *models.Texture, s, t float32) math3d.Vec4 {
	if t <= 0.5 || t >= tex.TMax {
		return NearestNeighbor(tex, s, t)
	}

	y0 := math32.Floor(t)
	fy := t - y0
	x := int(math32.Round(s))
	y := int(y0)
	return tex.Texel(x, y).Lerp(tex.Texel(x, y+1), fy)
}

// NearestNeighbor returns the texel closest to texel coordinates (s, t).
func NearestNeighbor(tex *models.Texture, s, t float32) math3d.Vec4 {
	x := clampInt(int(math32.Round(s)), 0, tex.Width-1)
	y := clampInt(int(math32.Round(t)), 0, tex.Height-1)
	return tex.Data[x+y*tex.Width]
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
