package ocr

import "context"

// Box is an axis-aligned rectangle in raster pixel coordinates,
// origin in the upper-left corner.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// Union returns the smallest box covering both.
func (b Box) Union(o Box) Box {
	if o.X0 < b.X0 {
		b.X0 = o.X0
	}
	if o.Y0 < b.Y0 {
		b.Y0 = o.Y0
	}
	if o.X1 > b.X1 {
		b.X1 = o.X1
	}
	if o.Y1 > b.Y1 {
		b.Y1 = o.Y1
	}
	return b
}

// Word is a single recognized token with engine confidence in [0,100].
type Word struct {
	Text       string
	Confidence float64
	Box        Box
}

// Line is an ordered group of words judged to share a text line.
// Confidence is the mean of member word confidences; Box is the
// coordinate-wise union over members.
type Line struct {
	Text       string
	Confidence float64
	Box        Box
	Words      []Word
}

// PageMetrics maps raster pixel coordinates back to page points.
type PageMetrics struct {
	PixelW     int
	PixelH     int
	PageWidth  float64 // points
	PageHeight float64 // points
	Scale      float64 // pixels per point
}

// Result is the output of one recognition pass over one image.
type Result struct {
	Text       string
	Confidence float64 // mean word confidence, 0 when no words
	Words      []Word
	Lines      []Line
	Variant    string
	Metrics    PageMetrics
}

// Engine is the recognition capability: one encoded image in, one result
// out. Implementations may hold loaded model state; Close releases it and
// must be called on every exit path of the job that acquired the engine.
type Engine interface {
	Recognize(ctx context.Context, png []byte) (Result, error)
	Close() error
}
