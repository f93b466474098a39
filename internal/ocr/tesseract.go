package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog/log"
)

// TesseractEngine wraps a gosseract client. The client holds loaded
// language model state, so one engine is acquired per job and closed when
// the job ends.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine acquires a tesseract client configured for the given
// languages (e.g. "jpn") and page segmentation mode.
func NewTesseractEngine(languages []string, pageSegMode int) (*TesseractEngine, error) {
	c := gosseract.NewClient()
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			c.Close()
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(pageSegMode)); err != nil {
		c.Close()
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	return &TesseractEngine{client: c}, nil
}

// Close releases the tesseract client and its model state.
func (e *TesseractEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize runs OCR on an encoded image and returns per-word geometry.
// Words come from RIL_WORD bounding boxes so the result is usable even
// when the engine's own line grouping is unreliable for the script.
func (e *TesseractEngine) Recognize(ctx context.Context, png []byte) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	if err := e.client.SetImageFromBytes(png); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{}, fmt.Errorf("word boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		words = append(words, Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			Box: Box{
				X0: float64(b.Box.Min.X),
				Y0: float64(b.Box.Min.Y),
				X1: float64(b.Box.Max.X),
				Y1: float64(b.Box.Max.Y),
			},
		})
		sum += b.Confidence
	}

	res := Result{Text: strings.TrimSpace(text), Words: words}
	if len(words) > 0 {
		res.Confidence = sum / float64(len(words))
	}

	log.Debug().
		Int("words", len(words)).
		Float64("confidence", res.Confidence).
		Msg("recognition pass complete")

	return res, nil
}
