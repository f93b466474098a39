package preprocess

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// Variant tags, in the fixed order Variants produces them. The order is
// load-bearing: the variant selector breaks confidence ties by it.
const (
	TagGraySharpen   = "gray-sharpen"
	TagContrastBoost = "contrast-boost"
)

// Variant is one differently-enhanced rendition of a page raster.
// Fallback marks a variant whose transform failed and returned the
// untouched input instead.
type Variant struct {
	Tag      string
	Image    image.Image
	Fallback bool
}

type transform struct {
	tag string
	fn  func(image.Image) image.Image
}

var transforms = []transform{
	{TagGraySharpen, graySharpen},
	{TagContrastBoost, contrastBoost},
}

// Variants derives the enhancement variants for one raster. Transforms
// never mutate their input; a transform yielding an unusable image falls
// back to the original so the page still gets a recognition attempt.
func Variants(img image.Image) []Variant {
	out := make([]Variant, 0, len(transforms))
	for _, t := range transforms {
		res := t.fn(img)
		if res == nil || res.Bounds().Empty() {
			log.Warn().Str("variant", t.tag).Msg("preprocess transform failed, using raw raster")
			out = append(out, Variant{Tag: t.tag, Image: img, Fallback: true})
			continue
		}
		out = append(out, Variant{Tag: t.tag, Image: res})
	}
	return out
}

// graySharpen targets faded low-noise scans: grayscale, slight gamma lift,
// mild blur to knock out scanner speckle, then sharpen.
func graySharpen(img image.Image) image.Image {
	g := imaging.Grayscale(img)
	g = imaging.AdjustGamma(g, 1.2)
	g = imaging.Blur(g, 0.6)
	return imaging.Sharpen(g, 1.2)
}

// contrastBoost targets washed-out or unevenly lit scans: grayscale,
// global contrast push plus a sigmoid midtone stretch, then sharpen.
func contrastBoost(img image.Image) image.Image {
	g := imaging.Grayscale(img)
	g = imaging.AdjustContrast(g, 15)
	g = imaging.AdjustSigmoid(g, 0.5, 4.0)
	return imaging.Sharpen(g, 1.0)
}
