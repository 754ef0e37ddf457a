package keyframes

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// scoreWidth bounds the working resolution for frame scoring. Scores
// compare relative change between frames, so a small grayscale copy is
// enough and keeps the pixel math cheap.
const scoreWidth = 128

const histogramBins = 64

// grayThumb converts a decoded frame to a grayscale thumbnail at most
// scoreWidth wide.
func grayThumb(src image.Image) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > scoreWidth && w > 0 {
		h = int(math.Round(float64(h) * scoreWidth / float64(w)))
		if h < 1 {
			h = 1
		}
		w = scoreWidth
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// meanAbsDiff returns the mean absolute pixel difference between two
// equally sized grayscale frames, on the 0..255 scale.
func meanAbsDiff(a, b *image.Gray) float64 {
	if len(a.Pix) == 0 || len(a.Pix) != len(b.Pix) {
		return 0
	}
	var sum int64
	for i := range a.Pix {
		d := int64(a.Pix[i]) - int64(b.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a.Pix))
}

// histogram returns the normalized 64-bin grayscale histogram.
func histogram(img *image.Gray) [histogramBins]float64 {
	var h [histogramBins]float64
	if len(img.Pix) == 0 {
		return h
	}
	for _, p := range img.Pix {
		h[int(p)*histogramBins/256]++
	}
	n := float64(len(img.Pix))
	for i := range h {
		h[i] /= n
	}
	return h
}

// bhattacharyya returns the Bhattacharyya distance between two
// normalized histograms: 0 for identical distributions, 1 for
// disjoint ones.
func bhattacharyya(a, b [histogramBins]float64) float64 {
	coef := 0.0
	for i := range a {
		coef += math.Sqrt(a[i] * b[i])
	}
	if coef > 1 {
		coef = 1
	}
	return math.Sqrt(1 - coef)
}
