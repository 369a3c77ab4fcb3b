// Package dither adapts arbitrary images into the packed 1-bit raster rows
// the Job Encoder expects, the way the teacher repo's internal/bitmap
// package adapts images for Phomemo devices. It exists outside ptouch
// because the protocol engine itself never touches image.Image — callers
// supply already-packed ptouch.Matrix rows, and this package is one way to
// produce them.
package dither

import (
	"fmt"
	"image"
	"image/color"
	"math"

	ditherv2 "github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"

	"ptouchql/ptouch"
)

// gammaCorrection flattens the mid-tones before thresholding; empirically
// close to how labels look when printed, the same unscientific justification
// internal/bitmap/image_bitmap.go gives for its own 0.5 exponent.
const gammaCorrection = 0.5

// Render scales img to widthDots wide (preserving aspect ratio), converts it
// to grayscale with gamma correction, and dithers it to black/white with
// Floyd-Steinberg error diffusion, returning rows packed MSB-first at
// widthDots/8 bytes each — ready to hand to PageSource/Printer.Print.
// widthDots should be model.RowWidth()*8 for the target printer.
func Render(img image.Image, widthDots int) (ptouch.Matrix, error) {
	if widthDots <= 0 || widthDots%8 != 0 {
		return nil, fmt.Errorf("dither: widthDots must be a positive multiple of 8, got %d", widthDots)
	}

	scaled := scaleToWidth(img, widthDots)
	gray := toGammaGray(scaled)

	palette := []color.Color{color.Black, color.White}
	ditherer := ditherv2.NewDitherer(palette)
	ditherer.Matrix = ditherv2.FloydSteinberg
	ditherer.Serpentine = true
	bw := ditherer.DitherPaletted(gray)

	return packPaletted(bw, widthDots), nil
}

// RenderTwoColor is Render's two-color counterpart: it classifies each
// pixel as red, black, or unprinted using the same thresholds
// original_source/src/utils.rs's convert_rgb_to_two_color applies, rather
// than dithering — two-color labels are typically line art, not photos, so
// no error diffusion is attempted per-plane.
func RenderTwoColor(img image.Image, widthDots int) (*ptouch.TwoColorMatrix, error) {
	if widthDots <= 0 || widthDots%8 != 0 {
		return nil, fmt.Errorf("dither: widthDots must be a positive multiple of 8, got %d", widthDots)
	}

	scaled := scaleToWidth(img, widthDots)
	bounds := scaled.Bounds()
	height := bounds.Dy()
	rowBytes := widthDots / 8

	black := make(ptouch.Matrix, height)
	red := make(ptouch.Matrix, height)

	for y := 0; y < height; y++ {
		blackRow := make([]byte, rowBytes)
		redRow := make([]byte, rowBytes)

		for x := 0; x < widthDots; x++ {
			r, g, b, _ := scaled.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := byte(r>>8), byte(g>>8), byte(b>>8)

			byteIdx := x / 8
			bit := byte(1) << (7 - uint(x%8))

			switch {
			case isRedPixel(r8, g8, b8):
				redRow[byteIdx] |= bit
			case isBlackPixel(r8, g8, b8):
				blackRow[byteIdx] |= bit
			}
		}

		black[y] = blackRow
		red[y] = redRow
	}

	return ptouch.NewTwoColorMatrix(black, red)
}

// isRedPixel and isBlackPixel reproduce the color-detection rules from
// original_source/src/utils.rs's convert_rgb_to_two_color: a strong,
// saturated red wins over the brightness-based black test.
func isRedPixel(r, g, b byte) bool {
	return r > 200 && g < 100 && b < 100
}

func isBlackPixel(r, g, b byte) bool {
	brightness := (uint16(r) + uint16(g) + uint16(b)) / 3
	return brightness < 128 && !isRedPixel(r, g, b)
}

// scaleToWidth resizes img to widthDots wide using Catmull-Rom
// interpolation, the same scaler internal/bitmap/image_bitmap.go's
// RenderForDevice uses.
func scaleToWidth(img image.Image, widthDots int) *image.RGBA {
	src := img.Bounds()
	newHeight := src.Dy() * widthDots / src.Dx()
	if newHeight < 1 {
		newHeight = 1
	}

	dstRect := image.Rect(0, 0, widthDots, newHeight)
	dst := image.NewRGBA(dstRect)
	draw.CatmullRom.Scale(dst, dstRect, img, src, draw.Over, nil)
	return dst
}

// toGammaGray converts to 16-bit grayscale with a gamma curve applied, so
// the later dither pass sees perceptually balanced tones rather than raw
// luminance.
func toGammaGray(img *image.RGBA) *image.Gray16 {
	bounds := img.Bounds()
	gray := image.NewGray16(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			linear := float64(g.Y) / float64(0xFFFF)
			corrected := math.Pow(linear, gammaCorrection)
			gray.Set(x, y, color.Gray16{Y: uint16(corrected * float64(0xFFFF))})
		}
	}

	return gray
}

// packPaletted packs a 2-color *image.Paletted into MSB-first raster rows,
// treating whichever palette entry is closest to white as an unset bit.
func packPaletted(img *image.Paletted, widthDots int) ptouch.Matrix {
	bounds := img.Bounds()
	height := bounds.Dy()
	rowBytes := widthDots / 8

	blackIndex := uint8(0)
	if img.Palette.Index(color.White) == 0 {
		blackIndex = 1
	}

	rows := make(ptouch.Matrix, height)
	for y := 0; y < height; y++ {
		row := make([]byte, rowBytes)
		for x := 0; x < widthDots && x < bounds.Dx(); x++ {
			if img.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y) == blackIndex {
				row[x/8] |= 1 << (7 - uint(x%8))
			}
		}
		rows[y] = row
	}
	return rows
}
