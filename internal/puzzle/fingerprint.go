package puzzle

import (
	"image"
	"image/color"
)

// hashSeed is folded into the rolling hash for every pixel.
const hashSeed uint64 = 0x9e379967

// quantStep buckets grayscale intensities so that minor compression or
// lighting noise on two copies of the same cut border still hashes equal.
const quantStep = 10

// edgeHashes fingerprints the four 1-pixel border strips of a tile. Columns
// are read top to bottom, rows left to right; two tiles cut along the same
// border therefore produce identical fingerprints on the facing sides.
func edgeHashes(img image.Image) [4]uint64 {
	b := img.Bounds()
	var h [4]uint64
	h[Left] = hashColumn(img, b.Min.X)
	h[Top] = hashRow(img, b.Min.Y)
	h[Right] = hashColumn(img, b.Max.X-1)
	h[Bottom] = hashRow(img, b.Max.Y-1)
	return h
}

func hashColumn(img image.Image, x int) uint64 {
	b := img.Bounds()
	var h uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		h = mix(h, luma(img.At(x, y)))
	}
	return h
}

func hashRow(img image.Image, y int) uint64 {
	b := img.Bounds()
	var h uint64
	for x := b.Min.X; x < b.Max.X; x++ {
		h = mix(h, luma(img.At(x, y)))
	}
	return h
}

// mix folds one quantized intensity into the rolling hash. The add/shift
// steps give cheap avalanche behavior; only collision resistance matters
// here, not any particular constant.
func mix(h uint64, v uint8) uint64 {
	h += uint64(v/quantStep) + hashSeed
	h += h << 6
	h += h >> 2
	return h
}

func luma(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}
