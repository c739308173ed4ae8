// Package imagecodec sniffs, decodes and re-encodes uploaded and edited images.
package imagecodec

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/webp"
)

const (
	PNG  = "image/png"
	JPEG = "image/jpeg"

	// DefaultMaxPixels bounds width*height when no limit is configured.
	DefaultMaxPixels = 40_000_000

	jpegQuality = 95
)

// Decode turns raw file bytes into an image state. Images larger than
// maxPixels are rejected from their header alone; a non-positive maxPixels
// means DefaultMaxPixels. JPEGs carrying an EXIF orientation are re-encoded
// upright so every consumer sees the same pixel space.
func Decode(data []byte, name string, maxPixels int) (*entity.ImageState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", entity.ErrInvalidFile)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %s", entity.ErrInvalidFile, mtype.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero-sized image", entity.ErrInvalidFile)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", entity.ErrInvalidFile, cfg.Width, cfg.Height, maxPixels)
	}

	state := &entity.ImageState{
		PixelData: data,
		Encoding:  mtype.String(),
		Name:      name,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}
	if state.Encoding == JPEG {
		if err := uprightJPEG(state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// uprightJPEG applies the EXIF orientation to the pixels. imaging only
// returns a new NRGBA image when it had to rotate or flip.
func uprightJPEG(state *entity.ImageState) error {
	img, err := imaging.Decode(bytes.NewReader(state.PixelData), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
	}
	oriented, ok := img.(*image.NRGBA)
	if !ok {
		return nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, oriented, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	state.PixelData = buf.Bytes()
	state.Width = oriented.Bounds().Dx()
	state.Height = oriented.Bounds().Dy()
	return nil
}

// ToPNG returns the state's bytes as PNG, transcoding when it was uploaded
// in another format. Stored pixels are already upright, so no orientation
// is applied here.
func ToPNG(state *entity.ImageState) ([]byte, error) {
	if state.Empty() {
		return nil, entity.ErrNothingToExport
	}
	if state.Encoding == PNG {
		return state.PixelData, nil
	}

	img, err := imaging.Decode(bytes.NewReader(state.PixelData))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", state.Encoding, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
