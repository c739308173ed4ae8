// Package viewport maps pointer coordinates between the screen and image pixel space.
package viewport

import "github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"

const (
	MinScale = 0.2
	MaxScale = 10.0

	// WheelFactor is applied per wheel notch, ButtonFactor per toolbar click.
	WheelFactor  = 1.1
	ButtonFactor = 1.5
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform holds the affine map image = (screen - offset) / scale.
// The zero value is not usable; call New.
type Transform struct {
	scale  float64
	offset Point
}

func New() *Transform {
	return &Transform{scale: 1}
}

func (t *Transform) Scale() float64 { return t.scale }

func (t *Transform) Offset() Point { return t.offset }

func (t *Transform) ToImageSpace(screen Point) Point {
	return Point{
		X: (screen.X - t.offset.X) / t.scale,
		Y: (screen.Y - t.offset.Y) / t.scale,
	}
}

func (t *Transform) ToScreenSpace(img Point) Point {
	return Point{
		X: img.X*t.scale + t.offset.X,
		Y: img.Y*t.scale + t.offset.Y,
	}
}

// Zoom rescales by factor around a screen-space pivot p, setting
// o' = p - (p-o)*s'/s with s' already clamped, so the image point under p
// stays under p even when the scale stops at a bound. This intentionally
// differs from the browser handler's o' = o + (p - (p-o)/s)*(s - s'), which
// drifts the pivot whenever the offset is non-zero. At a bound s' == s and
// the offset is left unchanged.
func (t *Transform) Zoom(pivot Point, factor float64) {
	if factor <= 0 {
		return
	}
	next := clamp(t.scale * factor)
	if next == t.scale {
		return
	}
	ratio := next / t.scale
	t.offset = Point{
		X: pivot.X - (pivot.X-t.offset.X)*ratio,
		Y: pivot.Y - (pivot.Y-t.offset.Y)*ratio,
	}
	t.scale = next
}

// ZoomWheel applies one wheel notch: scrolling down zooms out.
func (t *Transform) ZoomWheel(pivot Point, deltaY float64) {
	if deltaY > 0 {
		t.Zoom(pivot, 1/WheelFactor)
		return
	}
	t.Zoom(pivot, WheelFactor)
}

// ZoomBy changes the scale only, leaving the offset where it is.
func (t *Transform) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	t.scale = clamp(t.scale * factor)
}

func (t *Transform) Pan(delta Point) {
	t.offset.X += delta.X
	t.offset.Y += delta.Y
}

func (t *Transform) Reset() {
	t.scale = 1
	t.offset = Point{}
}

func (t *Transform) State() entity.ViewportState {
	return entity.ViewportState{Scale: t.scale, OffsetX: t.offset.X, OffsetY: t.offset.Y}
}

func clamp(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
