// Package render decodes card images and draws occlusion masks over them.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"CardForge/internal/model"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	hiddenFill   = color.NRGBA{R: 31, G: 41, B: 55, A: 255}
	revealedFill = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	answerFill   = color.NRGBA{R: 250, G: 204, B: 21, A: 255}
)

const (
	revealedOpacity = 0.3
	answerOpacity   = 0.5
)

// Decode reads a JPEG, PNG, GIF, BMP, TIFF or WebP image and applies its EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Dimensions returns the oriented pixel size of an encoded image.
func Dimensions(data []byte) (width, height int, err error) {
	img, err := Decode(data)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// MaskedPNG draws masks over the image the way the study screen does. Question masks hide
// their region until revealed and turn into a light blue overlay afterwards; answer masks
// are only highlighted once revealed.
func MaskedPNG(data []byte, masks []model.Mask, revealed bool) ([]byte, error) {
	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	dst := imaging.Clone(src)
	for _, m := range masks {
		switch {
		case m.IsQuestion && !revealed:
			dst = fill(dst, m.Rect, hiddenFill, 1)
		case m.IsQuestion:
			dst = fill(dst, m.Rect, revealedFill, revealedOpacity)
		case revealed:
			dst = fill(dst, m.Rect, answerFill, answerOpacity)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ClampRect fits r inside a width x height image. A rect entirely outside yields a zero size.
func ClampRect(r model.Rect, width, height int) model.Rect {
	w, h := float64(width), float64(height)
	x0 := math.Max(0, math.Min(r.X, w))
	y0 := math.Max(0, math.Min(r.Y, h))
	x1 := math.Max(x0, math.Min(r.X+r.Width, w))
	y1 := math.Max(y0, math.Min(r.Y+r.Height, h))
	return model.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func fill(dst *image.NRGBA, r model.Rect, c color.NRGBA, opacity float64) *image.NRGBA {
	b := dst.Bounds()
	cr := ClampRect(r, b.Dx(), b.Dy())
	w, h := int(math.Round(cr.Width)), int(math.Round(cr.Height))
	if w <= 0 || h <= 0 {
		return dst
	}
	patch := imaging.New(w, h, c)
	pos := image.Pt(b.Min.X+int(math.Round(cr.X)), b.Min.Y+int(math.Round(cr.Y)))
	return imaging.Overlay(dst, patch, pos, opacity)
}
