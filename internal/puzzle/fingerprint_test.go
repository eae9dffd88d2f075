package puzzle

import (
	"image"
	"image/color"
	"testing"
)

func grayImage(w, h int, f func(x, y int) uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f(x, y)
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestEdgeHashesDeterministic(t *testing.T) {
	img := grayImage(8, 8, func(x, y int) uint8 { return uint8(x*20 + y*30) })
	h1 := edgeHashes(img)
	h2 := edgeHashes(img)
	if h1 != h2 {
		t.Errorf("edge hashes not deterministic: %v vs %v", h1, h2)
	}
}

func TestEdgeHashesMatchSharedBorder(t *testing.T) {
	// Right column of a and left column of b carry the same pixel content,
	// as two tiles cut along the same border do.
	border := func(y int) uint8 { return uint8(y * 40) }
	a := grayImage(6, 8, func(x, y int) uint8 {
		if x == 5 {
			return border(y)
		}
		return uint8(x * 10)
	})
	b := grayImage(6, 8, func(x, y int) uint8 {
		if x == 0 {
			return border(y)
		}
		return uint8(x * 25)
	})

	ha, hb := edgeHashes(a), edgeHashes(b)
	if ha[Right] != hb[Left] {
		t.Errorf("shared border should fingerprint equal: right=%x left=%x", ha[Right], hb[Left])
	}
	if ha[Left] == hb[Left] {
		t.Error("distinct borders should not fingerprint equal")
	}
}

func TestEdgeHashesQuantizationTolerance(t *testing.T) {
	// 21 and 29 fall into the same intensity bucket, 31 does not.
	a := grayImage(4, 4, func(x, y int) uint8 { return 21 })
	b := grayImage(4, 4, func(x, y int) uint8 { return 29 })
	c := grayImage(4, 4, func(x, y int) uint8 { return 31 })

	if edgeHashes(a) != edgeHashes(b) {
		t.Error("intensities within one quantization bucket must hash equal")
	}
	if edgeHashes(a) == edgeHashes(c) {
		t.Error("intensities across buckets must hash differently")
	}
}

func TestEdgeHashesOrientation(t *testing.T) {
	// A vertically asymmetric strip must hash differently when flipped;
	// the reading order is part of the fingerprint.
	a := grayImage(3, 6, func(x, y int) uint8 { return uint8(y * 40) })
	b := grayImage(3, 6, func(x, y int) uint8 { return uint8((5 - y) * 40) })

	if edgeHashes(a)[Left] == edgeHashes(b)[Left] {
		t.Error("flipped column should produce a different fingerprint")
	}
}

func TestEdgeHashesSubImageBounds(t *testing.T) {
	// Decoders may hand back images whose bounds do not start at (0,0).
	img := grayImage(10, 10, func(x, y int) uint8 { return uint8(x*31 + y*57) })
	sub := img.SubImage(image.Rect(2, 2, 8, 8)).(*image.NRGBA)

	direct := grayImage(6, 6, func(x, y int) uint8 { return uint8((x+2)*31 + (y+2)*57) })
	if edgeHashes(sub) != edgeHashes(direct) {
		t.Error("fingerprints must be independent of the bounds origin")
	}
}
