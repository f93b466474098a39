package preprocess

import (
	"image"
	"image/color"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func TestVariants_CountAndOrder(t *testing.T) {
	variants := Variants(testImage())
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	if variants[0].Tag != TagGraySharpen || variants[1].Tag != TagContrastBoost {
		t.Errorf("variant order wrong: %q, %q", variants[0].Tag, variants[1].Tag)
	}
	for _, v := range variants {
		if v.Image == nil {
			t.Errorf("variant %q has no image", v.Tag)
		}
		if v.Fallback {
			t.Errorf("variant %q unexpectedly fell back", v.Tag)
		}
	}
}

func TestVariants_InputNotMutated(t *testing.T) {
	img := testImage()
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	Variants(img)

	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatalf("input pixel %d mutated", i)
		}
	}
}

func TestVariants_PreserveDimensions(t *testing.T) {
	img := testImage()
	for _, v := range Variants(img) {
		if v.Image.Bounds() != img.Bounds() {
			t.Errorf("variant %q changed bounds: %v", v.Tag, v.Image.Bounds())
		}
	}
}
