package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestToImageSpaceRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		offset Point
		point  Point
	}{
		{name: "identity", scale: 1, offset: Point{}, point: Point{X: 12, Y: 34}},
		{name: "min scale", scale: MinScale, offset: Point{X: -150, Y: 42.5}, point: Point{X: 800, Y: 600}},
		{name: "max scale", scale: MaxScale, offset: Point{X: 1e4, Y: -3e3}, point: Point{X: 0.25, Y: 1919.75}},
		{name: "fractional", scale: 3.3, offset: Point{X: 17.1, Y: -0.3}, point: Point{X: -5, Y: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Transform{scale: tt.scale, offset: tt.offset}

			got := v.ToImageSpace(v.ToScreenSpace(tt.point))

			assert.InDelta(t, tt.point.X, got.X, 1e-6)
			assert.InDelta(t, tt.point.Y, got.Y, 1e-6)
		})
	}
}

func TestZoomKeepsPivotAnchored(t *testing.T) {
	v := New()
	v.Pan(Point{X: 40, Y: -20})
	pivot := Point{X: 300, Y: 200}
	before := v.ToImageSpace(pivot)

	v.Zoom(pivot, 2)

	after := v.ToImageSpace(pivot)
	assert.InDelta(t, 2.0, v.Scale(), eps)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomClampsScale(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		steps  int
		want   float64
	}{
		{name: "zoom in stops at max", factor: 1.5, steps: 50, want: MaxScale},
		{name: "zoom out stops at min", factor: 1 / 1.5, steps: 50, want: MinScale},
		{name: "non-positive factor ignored", factor: 0, steps: 3, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			for i := 0; i < tt.steps; i++ {
				v.Zoom(Point{X: 10, Y: 10}, tt.factor)
			}
			assert.InDelta(t, tt.want, v.Scale(), eps)
		})
	}
}

func TestZoomAtClampBoundsKeepsPivot(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		factor    float64
		wantScale float64
	}{
		{name: "crossing max anchors clamped scale", start: 9, factor: 2, wantScale: MaxScale},
		{name: "already at max", start: MaxScale, factor: 2, wantScale: MaxScale},
		{name: "crossing min anchors clamped scale", start: 0.3, factor: 0.5, wantScale: MinScale},
		{name: "already at min", start: MinScale, factor: 0.5, wantScale: MinScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Transform{scale: tt.start, offset: Point{X: -35, Y: 12}}
			pivot := Point{X: 250, Y: 140}
			before := v.ToImageSpace(pivot)
			offset := v.Offset()

			v.Zoom(pivot, tt.factor)

			after := v.ToImageSpace(pivot)
			assert.InDelta(t, tt.wantScale, v.Scale(), eps)
			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
			if tt.start == tt.wantScale {
				assert.Equal(t, offset, v.Offset())
			}
		})
	}
}

func TestZoomWheelDirection(t *testing.T) {
	v := New()
	v.ZoomWheel(Point{}, -120)
	assert.InDelta(t, WheelFactor, v.Scale(), eps)

	v.ZoomWheel(Point{}, 120)
	v.ZoomWheel(Point{}, 120)
	assert.InDelta(t, 1/WheelFactor, v.Scale(), eps)
}

func TestZoomByLeavesOffset(t *testing.T) {
	v := New()
	v.Pan(Point{X: 5, Y: 6})

	v.ZoomBy(ButtonFactor)

	assert.InDelta(t, ButtonFactor, v.Scale(), eps)
	assert.Equal(t, Point{X: 5, Y: 6}, v.Offset())
}

func TestPanAndReset(t *testing.T) {
	v := New()
	v.Pan(Point{X: 3, Y: 4})
	v.Pan(Point{X: -1, Y: 1})
	v.ZoomBy(2)
	assert.Equal(t, Point{X: 2, Y: 5}, v.Offset())

	v.Reset()

	assert.Equal(t, 1.0, v.Scale())
	assert.Equal(t, Point{}, v.Offset())
	assert.Equal(t, Point{X: 7, Y: 8}, v.ToImageSpace(Point{X: 7, Y: 8}))
}
