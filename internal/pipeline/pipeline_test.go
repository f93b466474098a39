package pipeline

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/jobcache"
	"github.com/local/pdftranslator/internal/ocr"
	"github.com/local/pdftranslator/internal/overlay"
	"github.com/local/pdftranslator/internal/pdfimage"
	"github.com/local/pdftranslator/internal/translate"
)

type fakeDoc struct {
	pages      int
	renderErrs map[int]error // pageIdx -> error for the OCR-resolution render
	closed     bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) Size(int) (pdfimage.PageSize, error) {
	return pdfimage.PageSize{Width: 595, Height: 842}, nil
}

func (d *fakeDoc) RenderPage(pageIdx int, dpi float64, _ int) (pdfimage.Raster, error) {
	if err := d.renderErrs[pageIdx]; err != nil && dpi > 200 {
		return pdfimage.Raster{}, err
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	return pdfimage.Raster{Image: img, PixelW: 8, PixelH: 8, Scale: dpi / 72, PageIdx: pageIdx}, nil
}

func (d *fakeDoc) Close() error { d.closed = true; return nil }

// fakeEngine serves one canned outcome per Recognize call, in order.
type fakeEngine struct {
	outcomes []engineOutcome
	calls    int
	closed   bool
}

type engineOutcome struct {
	result ocr.Result
	err    error
}

func (e *fakeEngine) Recognize(_ context.Context, _ []byte) (ocr.Result, error) {
	if e.calls >= len(e.outcomes) {
		return ocr.Result{}, errors.New("unexpected recognize call")
	}
	out := e.outcomes[e.calls]
	e.calls++
	return out.result, out.err
}

func (e *fakeEngine) Close() error { e.closed = true; return nil }

type fakeTranslator struct {
	calls []string
	err   error
}

func (t *fakeTranslator) TranslatePage(_ context.Context, _ string, _ int, text string) (translate.Response, string, string, error) {
	t.calls = append(t.calls, text)
	if t.err != nil {
		return translate.Response{}, "", "", t.err
	}
	return translate.Response{Text: "translated: " + text}, "openai", "gpt-a", nil
}

type fakeRenderer struct {
	pages []overlay.Page
}

func (r *fakeRenderer) Render(pages []overlay.Page) ([]byte, error) {
	r.pages = pages
	return []byte("%PDF-fake"), nil
}

func wordsFor(text string) []ocr.Word {
	var words []ocr.Word
	x := 0.0
	for _, w := range strings.Fields(text) {
		words = append(words, ocr.Word{
			Text:       w,
			Confidence: 90,
			Box:        ocr.Box{X0: x, Y0: 10, X1: x + 20, Y1: 22},
		})
		x += 25
	}
	return words
}

func okResult(text string, conf float64) engineOutcome {
	return engineOutcome{result: ocr.Result{Text: text, Confidence: conf, Words: wordsFor(text)}}
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Pipeline = config.PipelineConfig{
		RenderDPI:         380,
		MaxPixels:         25_000_000,
		BackgroundDPI:     150,
		LineYTolerancePx:  5,
		TranslateMinChars: 10,
	}
	return cfg
}

func newTestPipeline(doc *fakeDoc, engine *fakeEngine, tr Translator) (*Pipeline, *jobcache.Cache, *fakeRenderer) {
	cache := jobcache.New(time.Hour, nil)
	renderer := &fakeRenderer{}
	p := New(testConfig(), Deps{
		OpenDocument: func([]byte) (Document, error) { return doc, nil },
		NewEngine:    func() (ocr.Engine, error) { return engine, nil },
		Translator:   tr,
		Renderer:     renderer,
		Cache:        cache,
	})
	return p, cache, renderer
}

func TestRun_BelowThresholdSkipsTranslation(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	// Both variants agree on a 5-char extraction, below the 10-char threshold.
	engine := &fakeEngine{outcomes: []engineOutcome{okResult("abcde", 80), okResult("abcde", 70)}}
	tr := &fakeTranslator{}

	p, _, _ := newTestPipeline(doc, engine, tr)
	job, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ExtractedTexts[0] != "abcde" {
		t.Errorf("extracted = %q", job.ExtractedTexts[0])
	}
	if job.TranslatedTexts[0] != "" {
		t.Errorf("translated = %q, want empty", job.TranslatedTexts[0])
	}
	if len(tr.calls) != 0 {
		t.Errorf("translator called for below-threshold page: %v", tr.calls)
	}
}

func TestRun_ThresholdMustBeExceeded(t *testing.T) {
	// Exactly at the threshold is still a skip; one char past it translates.
	tests := []struct {
		name      string
		text      string
		translate bool
	}{
		{"at threshold", "abcdefghij", false},
		{"above threshold", "abcdefghijk", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &fakeDoc{pages: 1}
			engine := &fakeEngine{outcomes: []engineOutcome{okResult(tt.text, 80), okResult(tt.text, 70)}}
			tr := &fakeTranslator{}

			p, _, _ := newTestPipeline(doc, engine, tr)
			if _, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(tr.calls) > 0; got != tt.translate {
				t.Errorf("translator called = %v, want %v (text %q)", got, tt.translate, tt.text)
			}
		})
	}
}

func TestRun_PageRecognitionFailureIsIsolated(t *testing.T) {
	doc := &fakeDoc{pages: 2}
	engine := &fakeEngine{outcomes: []engineOutcome{
		okResult("first page body text here", 90),
		okResult("first page body text here", 85),
		{err: errors.New("engine crashed")},
		{err: errors.New("engine crashed")},
	}}
	tr := &fakeTranslator{}

	p, _, _ := newTestPipeline(doc, engine, tr)
	job, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.PageCount != 2 || len(job.ExtractedTexts) != 2 || len(job.TranslatedTexts) != 2 {
		t.Fatalf("page accounting wrong: %+v", job)
	}
	if job.ExtractedTexts[0] != "first page body text here" {
		t.Errorf("page 1 extracted = %q", job.ExtractedTexts[0])
	}
	if job.TranslatedTexts[0] != "translated: first page body text here" {
		t.Errorf("page 1 translated = %q", job.TranslatedTexts[0])
	}
	if job.ExtractedTexts[1] != "" || job.TranslatedTexts[1] != "" {
		t.Errorf("failed page not empty: %q / %q", job.ExtractedTexts[1], job.TranslatedTexts[1])
	}
	if !engine.closed {
		t.Error("engine not released")
	}
	if !doc.closed {
		t.Error("document not closed")
	}
}

func TestRun_TranslationFailureLeavesMarkerAndArtifact(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	engine := &fakeEngine{outcomes: []engineOutcome{
		okResult("some long enough page text", 90),
		okResult("some long enough page text", 80),
	}}
	tr := &fakeTranslator{err: errors.New("connection refused")}

	p, cache, _ := newTestPipeline(doc, engine, tr)
	job, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("job aborted on translation failure: %v", err)
	}
	if !strings.Contains(job.TranslatedTexts[0], "[translation failed:") {
		t.Errorf("missing failure marker: %q", job.TranslatedTexts[0])
	}
	if !strings.Contains(job.TranslatedTexts[0], "connection refused") {
		t.Errorf("marker lacks error detail: %q", job.TranslatedTexts[0])
	}

	cached, ok := cache.Lookup(job.ID)
	if !ok {
		t.Fatal("job not downloadable after translation failure")
	}
	if len(cached.Document) == 0 {
		t.Error("cached artifact has no document bytes")
	}
}

func TestRun_RenderFailureYieldsEmptyPage(t *testing.T) {
	doc := &fakeDoc{pages: 1, renderErrs: map[int]error{0: errors.New("render blew up")}}
	engine := &fakeEngine{}
	tr := &fakeTranslator{}

	p, _, renderer := newTestPipeline(doc, engine, tr)
	job, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ExtractedTexts[0] != "" || job.TranslatedTexts[0] != "" {
		t.Errorf("render-failed page not empty: %+v", job)
	}
	if engine.calls != 0 {
		t.Errorf("recognition attempted without a raster: %d calls", engine.calls)
	}
	if len(renderer.pages) != 1 {
		t.Errorf("output page count = %d, want 1", len(renderer.pages))
	}
}

func TestRun_SelectsHighestConfidenceVariant(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	engine := &fakeEngine{outcomes: []engineOutcome{
		okResult("low confidence words on this page", 40),
		okResult("high confidence words on this page", 95),
	}}
	tr := &fakeTranslator{}

	p, _, _ := newTestPipeline(doc, engine, tr)
	job, err := p.Run(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ExtractedTexts[0] != "high confidence words on this page" {
		t.Errorf("selected wrong variant: %q", job.ExtractedTexts[0])
	}
}
