package pdfimage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

const baseDPI = 72.0

// PageSize holds a page's dimensions in PDF user-space points.
type PageSize struct {
	Width  float64
	Height float64
}

// Raster is one rendered page bitmap plus the scale that maps raster
// pixels back to page points (pixel / Scale = point).
type Raster struct {
	Image   image.Image
	PixelW  int
	PixelH  int
	Scale   float64
	PageIdx int
}

// Document wraps an open PDF for rasterization and geometry queries.
// Close must be called when done.
type Document struct {
	doc *fitz.Document
}

// Open loads a PDF from memory.
func Open(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) Close() error { return d.doc.Close() }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.doc.NumPage() }

// Size returns the page dimensions in points for a 0-based page index.
func (d *Document) Size(pageIdx int) (PageSize, error) {
	bounds, err := d.doc.Bound(pageIdx)
	if err != nil {
		return PageSize{}, fmt.Errorf("page %d bounds: %w", pageIdx, err)
	}
	return PageSize{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}, nil
}

// RenderPage rasterizes a 0-based page at the target DPI. If the resulting
// pixel area would exceed maxPixels the scale is reduced proportionally,
// preserving aspect ratio, so that area <= maxPixels.
func (d *Document) RenderPage(pageIdx int, dpi float64, maxPixels int) (Raster, error) {
	size, err := d.Size(pageIdx)
	if err != nil {
		return Raster{}, err
	}

	scale := dpi / baseDPI
	if maxPixels > 0 && size.Width > 0 && size.Height > 0 {
		area := size.Width * scale * size.Height * scale
		if area > float64(maxPixels) {
			capped := math.Sqrt(float64(maxPixels) / (size.Width * size.Height))
			log.Debug().
				Int("page", pageIdx).
				Float64("scale", scale).
				Float64("capped_scale", capped).
				Msg("raster area over cap, rescaling")
			scale = capped
		}
	}

	img, err := d.doc.ImageDPI(pageIdx, scale*baseDPI)
	if err != nil {
		return Raster{}, fmt.Errorf("render page %d: %w", pageIdx, err)
	}

	b := img.Bounds()
	log.Debug().
		Int("page", pageIdx).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Float64("scale", scale).
		Msg("rendered page")

	return Raster{Image: img, PixelW: b.Dx(), PixelH: b.Dy(), Scale: scale, PageIdx: pageIdx}, nil
}

// EncodePNG serializes an image for engines that consume encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
