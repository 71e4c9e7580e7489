package display

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Zoom levels are powers of ZoomStep bounded by MinZoomLevel and MaxZoomLevel.
const (
	ZoomStep     = math.Sqrt2
	MinZoomLevel = -16
	MaxZoomLevel = 16
)

// ZoomFactor returns the magnification of a zoom level.
func ZoomFactor(level int) float64 {
	level = min(max(level, MinZoomLevel), MaxZoomLevel)
	return math.Pow(ZoomStep, float64(level))
}

// FitLevel returns the largest zoom level at which a w×h image fits a
// frameW×frameH frame.
func FitLevel(frameW, frameH, w, h int) int {
	if frameW <= 0 || frameH <= 0 || w <= 0 || h <= 0 {
		return 0
	}
	lw := math.Log(float64(frameW)/float64(w)) / math.Log(ZoomStep)
	lh := math.Log(float64(frameH)/float64(h)) / math.Log(ZoomStep)
	level := int(math.Floor(min(lw, lh)))
	return min(max(level, MinZoomLevel), MaxZoomLevel)
}

// Zoom resamples img by factor with nearest-neighbour interpolation so that
// magnified pixels stay sharp.
func Zoom(img image.Image, factor float64) image.Image {
	if factor == 1 || factor <= 0 {
		return img
	}
	b := img.Bounds()
	w := max(uint(math.Round(float64(b.Dx())*factor)), 1)
	h := max(uint(math.Round(float64(b.Dy())*factor)), 1)
	return resize.Resize(w, h, img, resize.NearestNeighbor)
}
