// Package mask implements the paintable region mask laid over the current image.
package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// tint is the overlay colour painted strokes are exported with.
var tint = color.NRGBA{R: 79, G: 209, B: 197, A: 128}

// Surface is a coverage raster in image pixel space. Brush strokes add
// coverage, eraser strokes punch it out.
type Surface struct {
	cov       *image.Alpha
	tool      entity.Tool
	brushSize int

	stroking bool
	last     point

	// painted counts pixels with non-zero coverage.
	painted int

	rast *vector.Rasterizer
}

type point struct{ x, y float64 }

func New() *Surface {
	return &Surface{
		cov:       image.NewAlpha(image.Rect(0, 0, 0, 0)),
		tool:      entity.ToolBrush,
		brushSize: entity.DefaultBrushSize,
		rast:      vector.NewRasterizer(0, 0),
	}
}

// Resize sizes the raster to the image and clears it.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.cov = image.NewAlpha(image.Rect(0, 0, width, height))
	s.painted = 0
	s.stroking = false
}

func (s *Surface) Bounds() image.Rectangle { return s.cov.Bounds() }

func (s *Surface) SetTool(tool entity.Tool) {
	if tool.Valid() {
		s.tool = tool
	}
}

func (s *Surface) Tool() entity.Tool { return s.tool }

// SetBrushSize clamps size into the slider range.
func (s *Surface) SetBrushSize(size int) {
	s.brushSize = entity.ClampBrushSize(size)
}

func (s *Surface) BrushSize() int { return s.brushSize }

func (s *Surface) Stroking() bool { return s.stroking }

// BeginStroke starts a path at x, y and stamps a round dot there.
func (s *Surface) BeginStroke(x, y float64) {
	s.stroking = true
	s.last = point{x, y}
	s.paint(s.last, s.last)
}

// ContinueStroke extends the active path with a round-joined segment.
// It is ignored when no stroke is active.
func (s *Surface) ContinueStroke(x, y float64) {
	if !s.stroking {
		return
	}
	next := point{x, y}
	s.paint(s.last, next)
	s.last = next
}

func (s *Surface) EndStroke() {
	s.stroking = false
}

func (s *Surface) Clear() {
	for i := range s.cov.Pix {
		s.cov.Pix[i] = 0
	}
	s.painted = 0
	s.stroking = false
}

func (s *Surface) HasContent() bool {
	return s.painted > 0
}

// Coverage returns the mask value at x, y.
func (s *Surface) Coverage(x, y int) uint8 {
	return s.cov.AlphaAt(x, y).A
}

// Export encodes the painted region as a PNG overlay. ok is false when
// nothing is painted.
func (s *Surface) Export() (raster *entity.Raster, ok bool, err error) {
	if !s.HasContent() {
		return nil, false, nil
	}

	b := s.cov.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := s.cov.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			c := tint
			c.A = uint8(uint16(a) * uint16(tint.A) / 0xff)
			if c.A == 0 {
				c.A = 1
			}
			out.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, false, err
	}
	return &entity.Raster{PixelData: buf.Bytes(), Encoding: "image/png"}, true, nil
}

// paint composites the capsule from a to b with the current tool. Only the
// part of the capsule inside the raster is rasterized.
func (s *Surface) paint(a, b point) {
	r := float64(s.brushSize) / 2
	bounds := s.cov.Bounds()

	// Far-off endpoints are cut back to the raster plus the brush radius, so
	// a segment costs no more than one lying on the image.
	margin := r + 2
	a, b, ok := clipSegment(a, b,
		float64(bounds.Min.X)-margin, float64(bounds.Min.Y)-margin,
		float64(bounds.Max.X)+margin, float64(bounds.Max.Y)+margin)
	if !ok {
		return
	}

	area := image.Rect(
		int(math.Floor(math.Min(a.x, b.x)-r))-1,
		int(math.Floor(math.Min(a.y, b.y)-r))-1,
		int(math.Ceil(math.Max(a.x, b.x)+r))+1,
		int(math.Ceil(math.Max(a.y, b.y)+r))+1,
	)
	clip := area.Intersect(bounds)
	if clip.Empty() {
		return
	}

	stroke := s.rasterize(clip, a, b, r)

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := stroke.Pix[(y-clip.Min.Y)*stroke.Stride:]
		for x := clip.Min.X; x < clip.Max.X; x++ {
			c := uint32(row[x-clip.Min.X])
			if c == 0 {
				continue
			}
			i := s.cov.PixOffset(x, y)
			before := s.cov.Pix[i]
			d := uint32(before)
			switch s.tool {
			case entity.ToolEraser:
				d = d * (0xff - c) / 0xff
			default:
				d = c + d*(0xff-c)/0xff
			}
			after := uint8(d)
			s.cov.Pix[i] = after
			switch {
			case before == 0 && after != 0:
				s.painted++
			case before != 0 && after == 0:
				s.painted--
			}
		}
	}
}

// rasterize renders the capsule into a scratch raster covering clip, with
// its origin at clip.Min. Each primitive gets its own pass so that
// overlapping outlines union.
func (s *Surface) rasterize(clip image.Rectangle, a, b point, r float64) *image.Alpha {
	w, h := clip.Dx(), clip.Dy()
	stroke := image.NewAlpha(image.Rect(0, 0, w, h))
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	a = point{a.x - ox, a.y - oy}
	b = point{b.x - ox, b.y - oy}

	s.rast.DrawOp = draw.Over

	s.rast.Reset(w, h)
	circle(s.rast, a, r)
	s.rast.Draw(stroke, stroke.Bounds(), image.Opaque, image.Point{})

	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return stroke
	}

	s.rast.Reset(w, h)
	circle(s.rast, b, r)
	s.rast.Draw(stroke, stroke.Bounds(), image.Opaque, image.Point{})

	nx, ny := -dy/length*r, dx/length*r
	s.rast.Reset(w, h)
	s.rast.MoveTo(f32(a.x+nx), f32(a.y+ny))
	s.rast.LineTo(f32(b.x+nx), f32(b.y+ny))
	s.rast.LineTo(f32(b.x-nx), f32(b.y-ny))
	s.rast.LineTo(f32(a.x-nx), f32(a.y-ny))
	s.rast.ClosePath()
	s.rast.Draw(stroke, stroke.Bounds(), image.Opaque, image.Point{})

	return stroke
}

// clipSegment cuts a-b to the rectangle (Liang-Barsky). ok is false when
// no part of the segment lies inside.
func clipSegment(a, b point, minX, minY, maxX, maxY float64) (point, point, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.x - minX},
		{dx, maxX - a.x},
		{-dy, a.y - minY},
		{dy, maxY - a.y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return point{a.x + t0*dx, a.y + t0*dy}, point{a.x + t1*dx, a.y + t1*dy}, true
}

func circle(z *vector.Rasterizer, c point, r float64) {
	k := kappa * r
	z.MoveTo(f32(c.x+r), f32(c.y))
	z.CubeTo(f32(c.x+r), f32(c.y+k), f32(c.x+k), f32(c.y+r), f32(c.x), f32(c.y+r))
	z.CubeTo(f32(c.x-k), f32(c.y+r), f32(c.x-r), f32(c.y+k), f32(c.x-r), f32(c.y))
	z.CubeTo(f32(c.x-r), f32(c.y-k), f32(c.x-k), f32(c.y-r), f32(c.x), f32(c.y-r))
	z.CubeTo(f32(c.x+k), f32(c.y-r), f32(c.x+r), f32(c.y-k), f32(c.x+r), f32(c.y))
	z.ClosePath()
}

func f32(v float64) float32 { return float32(v) }
