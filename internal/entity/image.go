package entity

import (
	"strconv"
	"strings"
)

// ImageState is one immutable version of the photo being edited.
type ImageState struct {
	PixelData []byte `json:"-"`
	Encoding  string `json:"encoding"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Empty reports whether the state carries no image.
func (s *ImageState) Empty() bool {
	return s == nil || len(s.PixelData) == 0
}

// BaseName returns the file name up to its first dot.
func (s *ImageState) BaseName() string {
	base, _, _ := strings.Cut(s.Name, ".")
	return base
}

// DownloadName is the attachment name used when the current state is downloaded.
func (s *ImageState) DownloadName() string {
	return s.BaseName() + "_edited.png"
}

// EditName names the state produced by the n-th committed edit.
func (s *ImageState) EditName(n int) string {
	return s.BaseName() + "_edit_" + strconv.Itoa(n) + ".png"
}

// Raster is an encoded image payload travelling to or from the remote editor.
type Raster struct {
	PixelData []byte
	Encoding  string
}

type ImageMeta struct {
	Name     string `json:"name"`
	Encoding string `json:"encoding"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
}

func (s *ImageState) Meta() *ImageMeta {
	if s.Empty() {
		return nil
	}
	return &ImageMeta{
		Name:     s.Name,
		Encoding: s.Encoding,
		Width:    s.Width,
		Height:   s.Height,
		Size:     len(s.PixelData),
	}
}
