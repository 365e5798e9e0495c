// Package imaging turns raw page bitmaps into recognition-friendly ones:
// upscale, grayscale, contrast stretch, binarize, sharpen.
package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/sxdkling-ops/ocrv/internal/domain"
)

// Config controls preprocessing. Immutable per call; callers that have no
// opinion should start from DefaultConfig.
type Config struct {
	UpscaleFactor     float64 // > 0; target dims are floor(dim*factor), min 1
	ContrastPercent   float64 // 0 leaves contrast unchanged
	BinarizeThreshold int     // 1..255; channel average at or above is white. 0 disables.
	Grayscale         bool
	Sharpen           bool
	Invert            bool
}

// DefaultConfig returns preprocessing settings that work well for typical
// office scans.
func DefaultConfig() Config {
	return Config{
		UpscaleFactor:     2.0,
		ContrastPercent:   30,
		BinarizeThreshold: 170,
		Grayscale:         true,
		Sharpen:           true,
	}
}

// Preprocess resamples src to the configured scale and applies grayscale,
// contrast, binarization, inversion and sharpening in that order. Pure
// function of src and cfg; src is never modified.
func Preprocess(src image.Image, cfg Config) (*image.RGBA, error) {
	if src == nil {
		return nil, domain.ErrRenderingUnavailable
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, domain.ErrRenderingUnavailable
	}

	factor := cfg.UpscaleFactor
	if factor <= 0 {
		factor = 1
	}
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	if cfg.Grayscale {
		grayscale(dst)
	}
	applyContrast(dst, cfg.ContrastPercent)
	if cfg.BinarizeThreshold > 0 {
		binarize(dst, cfg.BinarizeThreshold, cfg.Invert)
	}
	if cfg.Sharpen {
		sharpen(dst)
	}
	return dst, nil
}

// grayscale replaces RGB with the ITU-R 601 luma; alpha is untouched.
func grayscale(img *image.RGBA) {
	p := img.Pix
	for i := 0; i+3 < len(p); i += 4 {
		l := 0.299*float64(p[i]) + 0.587*float64(p[i+1]) + 0.114*float64(p[i+2])
		v := uint8(l + 0.5)
		p[i], p[i+1], p[i+2] = v, v, v
	}
}

func applyContrast(img *image.RGBA, percent float64) {
	c := percent/100 + 1
	intercept := 128 * (1 - c)
	p := img.Pix
	for i := 0; i+3 < len(p); i += 4 {
		p[i] = clamp8(float64(p[i])*c + intercept)
		p[i+1] = clamp8(float64(p[i+1])*c + intercept)
		p[i+2] = clamp8(float64(p[i+2])*c + intercept)
	}
}

// binarize thresholds on the average of the post-contrast channels, writing
// pure white or black across RGB. invert flips the result.
func binarize(img *image.RGBA, threshold int, invert bool) {
	white, black := uint8(255), uint8(0)
	if invert {
		white, black = black, white
	}
	p := img.Pix
	for i := 0; i+3 < len(p); i += 4 {
		avg := (int(p[i]) + int(p[i+1]) + int(p[i+2])) / 3
		v := black
		if avg >= threshold {
			v = white
		}
		p[i], p[i+1], p[i+2] = v, v, v
	}
}

// sharpen applies a 3x3 kernel with center weight 5 and orthogonal neighbors
// -1. Border pixels are left unmodified; border artifacts rarely contain
// text, so no padding scheme is worth its cost there.
func sharpen(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return
	}
	src := make([]uint8, len(img.Pix))
	copy(src, img.Pix)
	stride := img.Stride
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			o := y*stride + x*4
			for c := 0; c < 3; c++ {
				i := o + c
				v := 5*int(src[i]) - int(src[i-4]) - int(src[i+4]) - int(src[i-stride]) - int(src[i+stride])
				img.Pix[i] = clamp8(float64(v))
			}
		}
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
