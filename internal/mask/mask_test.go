package mask

import (
	"bytes"
	"image/png"
	"runtime"
	"testing"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSurface(w, h int) *Surface {
	s := New()
	s.Resize(w, h)
	return s
}

func TestNewSurfaceIsEmpty(t *testing.T) {
	s := newSurface(64, 48)

	assert.False(t, s.HasContent())
	assert.Equal(t, entity.ToolBrush, s.Tool())
	assert.Equal(t, entity.DefaultBrushSize, s.BrushSize())

	raster, ok, err := s.Export()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raster)
}

func TestBrushStrokePaintsAlongSegment(t *testing.T) {
	s := newSurface(200, 100)
	s.SetBrushSize(10)

	s.BeginStroke(20, 50)
	s.ContinueStroke(180, 50)
	s.EndStroke()

	assert.True(t, s.HasContent())
	assert.Equal(t, uint8(0xff), s.Coverage(100, 50), "segment middle")
	assert.Equal(t, uint8(0xff), s.Coverage(20, 50), "start cap")
	assert.Equal(t, uint8(0xff), s.Coverage(183, 50), "round end cap")
	assert.Equal(t, uint8(0), s.Coverage(100, 70), "outside the stroke width")
	assert.Equal(t, uint8(0), s.Coverage(10, 40), "outside the round cap corner")
}

func TestBeginStrokeStampsDot(t *testing.T) {
	s := newSurface(50, 50)
	s.SetBrushSize(20)

	s.BeginStroke(25, 25)

	assert.True(t, s.Stroking())
	assert.Equal(t, uint8(0xff), s.Coverage(25, 25))
	assert.Equal(t, uint8(0), s.Coverage(2, 2))
}

func TestContinueWithoutBeginIsIgnored(t *testing.T) {
	s := newSurface(50, 50)

	s.ContinueStroke(10, 10)
	s.ContinueStroke(40, 40)

	assert.False(t, s.HasContent())
}

func TestEraserPunchesThrough(t *testing.T) {
	s := newSurface(100, 100)
	s.SetBrushSize(30)
	s.BeginStroke(10, 50)
	s.ContinueStroke(90, 50)
	s.EndStroke()
	require.Equal(t, uint8(0xff), s.Coverage(50, 50))

	s.SetTool(entity.ToolEraser)
	s.SetBrushSize(100)
	s.BeginStroke(10, 50)
	s.ContinueStroke(90, 50)
	s.EndStroke()

	assert.Equal(t, uint8(0), s.Coverage(50, 50))
	assert.False(t, s.HasContent())
}

func TestClearIsIdempotent(t *testing.T) {
	s := newSurface(40, 40)
	s.BeginStroke(20, 20)
	s.EndStroke()
	require.True(t, s.HasContent())

	s.Clear()
	once := append([]byte(nil), s.cov.Pix...)
	s.Clear()

	assert.Equal(t, once, s.cov.Pix)
	assert.False(t, s.HasContent())
}

func TestStrokeOutsideImageIsClipped(t *testing.T) {
	s := newSurface(30, 30)
	s.SetBrushSize(10)

	s.BeginStroke(-100, -100)
	s.ContinueStroke(-50, -60)

	assert.False(t, s.HasContent())

	s.ContinueStroke(15, 15)
	assert.True(t, s.HasContent())
}

func TestFarOffImageSegmentAllocatesLittle(t *testing.T) {
	s := newSurface(120, 80)
	s.SetBrushSize(entity.MaxBrushSize)
	s.BeginStroke(10, 10)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	s.ContinueStroke(20000, 20000)
	runtime.ReadMemStats(&after)

	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
	assert.Equal(t, uint8(0xff), s.Coverage(60, 60), "segment still paints the visible part")
}

func TestHasContentFollowsCoverage(t *testing.T) {
	scan := func(s *Surface) bool {
		for _, v := range s.cov.Pix {
			if v != 0 {
				return true
			}
		}
		return false
	}

	s := newSurface(80, 80)
	steps := []struct {
		name string
		tool entity.Tool
		size int
		from [2]float64
		to   [2]float64
	}{
		{name: "brush", tool: entity.ToolBrush, size: 10, from: [2]float64{10, 10}, to: [2]float64{70, 10}},
		{name: "second brush", tool: entity.ToolBrush, size: 20, from: [2]float64{40, 0}, to: [2]float64{40, 80}},
		{name: "partial erase", tool: entity.ToolEraser, size: 30, from: [2]float64{0, 10}, to: [2]float64{40, 10}},
		{name: "erase rest", tool: entity.ToolEraser, size: 100, from: [2]float64{0, 0}, to: [2]float64{80, 80}},
		{name: "erase again", tool: entity.ToolEraser, size: 100, from: [2]float64{80, 0}, to: [2]float64{0, 80}},
	}

	for _, step := range steps {
		s.SetTool(step.tool)
		s.SetBrushSize(step.size)
		s.BeginStroke(step.from[0], step.from[1])
		s.ContinueStroke(step.to[0], step.to[1])
		s.EndStroke()

		assert.Equal(t, scan(s), s.HasContent(), step.name)
	}
}

func TestBrushSizeIsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "below range", in: 1, want: entity.MinBrushSize},
		{name: "in range", in: 55, want: 55},
		{name: "above range", in: 500, want: entity.MaxBrushSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetBrushSize(tt.in)
			assert.Equal(t, tt.want, s.BrushSize())
		})
	}
}

func TestResizeClearsAndMatchesImage(t *testing.T) {
	s := newSurface(10, 10)
	s.BeginStroke(5, 5)

	s.Resize(320, 240)

	assert.Equal(t, 320, s.Bounds().Dx())
	assert.Equal(t, 240, s.Bounds().Dy())
	assert.False(t, s.HasContent())
	assert.False(t, s.Stroking())
}

func TestExportProducesPNGOfImageSize(t *testing.T) {
	s := newSurface(64, 32)
	s.BeginStroke(32, 16)
	s.EndStroke()

	raster, ok, err := s.Export()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "image/png", raster.Encoding)

	img, err := png.Decode(bytes.NewReader(raster.PixelData))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	_, _, _, painted := img.At(32, 16).RGBA()
	_, _, _, empty := img.At(0, 0).RGBA()
	assert.NotZero(t, painted)
	assert.Zero(t, empty)
}
