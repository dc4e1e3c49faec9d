package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce     sync.Once
	fontParseErr error
	regularFont  *opentype.Font
	faceCache    sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		regularFont, fontParseErr = opentype.Parse(goregular.TTF)
	})
	if fontParseErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontParseErr)
	}
	if size <= 0 {
		size = 12
	}
	if face, ok := faceCache.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faceCache.Store(size, face)
	return face, nil
}

// MeasureText returns the pixel bounding box of text at the given point size
// and the offset from the top of that box to the baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return width, height, baseline, nil
}

// drawText renders text with its top-left corner at (x, y).
func drawText(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	baseline := y + face.Metrics().Ascent.Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
	return nil
}
