package keyframes

import (
	"image"
	"math"
	"testing"
)

func uniformGray(level uint8, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

func TestMeanAbsDiff(t *testing.T) {
	a := uniformGray(10, 8, 8)
	b := uniformGray(200, 8, 8)
	if got := meanAbsDiff(a, b); got != 190 {
		t.Errorf("got %v, want 190", got)
	}
	if got := meanAbsDiff(a, a); got != 0 {
		t.Errorf("identical frames scored %v", got)
	}
}

func TestBhattacharyya(t *testing.T) {
	dark := histogram(uniformGray(10, 8, 8))
	bright := histogram(uniformGray(200, 8, 8))

	if got := bhattacharyya(dark, dark); got != 0 {
		t.Errorf("identical histograms scored %v", got)
	}
	if got := bhattacharyya(dark, bright); math.Abs(got-1) > 1e-9 {
		t.Errorf("disjoint histograms scored %v, want 1", got)
	}
}

func TestHistogramNormalized(t *testing.T) {
	h := histogram(uniformGray(130, 4, 4))
	sum := 0.0
	nonzero := 0
	for _, v := range h {
		sum += v
		if v > 0 {
			nonzero++
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("histogram sums to %v", sum)
	}
	if nonzero != 1 {
		t.Errorf("uniform image should fill exactly one bin, got %d", nonzero)
	}
}

func TestGrayThumbDownscales(t *testing.T) {
	big := uniformGray(90, 640, 360)
	thumb := grayThumb(big)
	if thumb.Bounds().Dx() != scoreWidth {
		t.Errorf("width = %d, want %d", thumb.Bounds().Dx(), scoreWidth)
	}
	if thumb.Bounds().Dy() != 72 {
		t.Errorf("height = %d, want 72", thumb.Bounds().Dy())
	}

	small := uniformGray(90, 64, 48)
	if got := grayThumb(small); got.Bounds() != small.Bounds() {
		t.Errorf("small frames must keep their size, got %v", got.Bounds())
	}
}
