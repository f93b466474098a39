package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/jobcache"
	"github.com/local/pdftranslator/internal/metrics"
	"github.com/local/pdftranslator/internal/ocr"
	"github.com/local/pdftranslator/internal/overlay"
	"github.com/local/pdftranslator/internal/pdfimage"
	"github.com/local/pdftranslator/internal/preprocess"
	"github.com/local/pdftranslator/internal/store"
	"github.com/local/pdftranslator/internal/translate"
)

// Document is the rasterizer surface the pipeline needs.
type Document interface {
	PageCount() int
	Size(pageIdx int) (pdfimage.PageSize, error)
	RenderPage(pageIdx int, dpi float64, maxPixels int) (pdfimage.Raster, error)
	Close() error
}

// Translator translates one page of text, reporting the provider and
// model that served it.
type Translator interface {
	TranslatePage(ctx context.Context, jobID string, page int, text string) (translate.Response, string, string, error)
}

// Renderer assembles the output document.
type Renderer interface {
	Render(pages []overlay.Page) ([]byte, error)
}

// Exporter pushes the finished artifact to external storage.
type Exporter interface {
	UploadDocument(ctx context.Context, jobID, filename string, data []byte, password string) error
}

// Deps are the pipeline's collaborators. OpenDocument and NewEngine are
// factories so tests can substitute fakes.
type Deps struct {
	OpenDocument func(data []byte) (Document, error)
	NewEngine    func() (ocr.Engine, error)
	Translator   Translator
	Renderer     Renderer
	Cache        *jobcache.Cache
	Status       store.StatusStore
	Exporter     Exporter // nil disables export
}

// PageResult is the per-page outcome. Exactly one is produced per input
// page, index-aligned, regardless of per-page failures.
type PageResult struct {
	Size       pdfimage.PageSize
	Background []byte // PNG of the original page render
	Extracted  string
	Translated string
}

type Pipeline struct {
	cfg  config.Config
	deps Deps
}

func New(cfg config.Config, deps Deps) *Pipeline {
	if deps.OpenDocument == nil {
		deps.OpenDocument = func(data []byte) (Document, error) { return pdfimage.Open(data) }
	}
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run executes a whole translation job and returns the cached artifact.
// Per-page failures degrade that page only; the job fails only when the
// document cannot be opened, the OCR engine cannot be acquired, or the
// output document cannot be assembled.
func (p *Pipeline) Run(ctx context.Context, filename string, pdf []byte) (jobcache.Job, error) {
	jobID := uuid.NewString()
	start := time.Now()
	log.Info().Str("job_id", jobID).Str("file", filename).Int("size", len(pdf)).Msg("starting translation job")

	p.setStatus(ctx, jobID, "processing", 5, "opening document", &start, nil)

	doc, err := p.deps.OpenDocument(pdf)
	if err != nil {
		return p.fail(ctx, jobID, start, fmt.Errorf("open document: %w", err))
	}
	defer doc.Close()

	engine, err := p.deps.NewEngine()
	if err != nil {
		return p.fail(ctx, jobID, start, fmt.Errorf("acquire ocr engine: %w", err))
	}
	defer engine.Close()

	pageCount := doc.PageCount()
	results := make([]PageResult, pageCount)
	for i := 0; i < pageCount; i++ {
		results[i] = p.processPage(ctx, jobID, doc, engine, i)
		progress := 10 + (80*(i+1))/pageCount
		p.setStatus(ctx, jobID, "processing", progress, fmt.Sprintf("processed page %d/%d", i+1, pageCount), &start, nil)
	}

	pages := make([]overlay.Page, pageCount)
	for i, r := range results {
		pages[i] = overlay.Page{Size: r.Size, Background: r.Background, Text: r.Translated}
	}
	document, err := p.deps.Renderer.Render(pages)
	if err != nil {
		return p.fail(ctx, jobID, start, fmt.Errorf("assemble document: %w", err))
	}

	job := jobcache.Job{
		ID:              jobID,
		Filename:        filename,
		PageCount:       pageCount,
		ExtractedTexts:  make([]string, pageCount),
		TranslatedTexts: make([]string, pageCount),
		Document:        document,
	}
	for i, r := range results {
		job.ExtractedTexts[i] = r.Extracted
		job.TranslatedTexts[i] = r.Translated
	}
	p.deps.Cache.Insert(job)

	if p.deps.Exporter != nil {
		if err := p.deps.Exporter.UploadDocument(ctx, jobID, filename, document, p.cfg.Storage.Password); err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("artifact export failed")
		}
	}

	end := time.Now()
	p.setStatus(ctx, jobID, "success", 100, "translation completed", &start, &end)
	metrics.IncJob("success")
	metrics.ObserveJob(time.Since(start))
	log.Info().Str("job_id", jobID).Int("pages", pageCount).Dur("duration", time.Since(start)).Msg("translation job completed")
	return job, nil
}

// processPage runs the per-page fold: render, preprocess, recognize
// each variant, select, reconstruct lines, translate. Every failure
// short of engine loss degrades to an empty or marked result.
func (p *Pipeline) processPage(ctx context.Context, jobID string, doc Document, engine ocr.Engine, pageIdx int) PageResult {
	res := PageResult{}
	if size, err := doc.Size(pageIdx); err == nil {
		res.Size = size
	} else {
		log.Warn().Err(err).Str("job_id", jobID).Int("page", pageIdx).Msg("page size lookup failed")
	}

	if bg, err := doc.RenderPage(pageIdx, p.cfg.Pipeline.BackgroundDPI, p.cfg.Pipeline.MaxPixels); err == nil {
		if png, err := pdfimage.EncodePNG(bg.Image); err == nil {
			res.Background = png
		}
	} else {
		log.Warn().Err(err).Str("job_id", jobID).Int("page", pageIdx).Msg("background render failed")
	}

	raster, err := doc.RenderPage(pageIdx, p.cfg.Pipeline.RenderDPI, p.cfg.Pipeline.MaxPixels)
	if err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Int("page", pageIdx).Msg("page render failed, skipping extraction")
		metrics.IncPage("ocr_failed")
		return res
	}

	var candidates []ocr.Result
	for _, variant := range preprocess.Variants(raster.Image) {
		png, err := pdfimage.EncodePNG(variant.Image)
		if err != nil {
			log.Warn().Err(err).Str("job_id", jobID).Int("page", pageIdx).Str("variant", variant.Tag).Msg("variant encode failed")
			continue
		}
		result, err := engine.Recognize(ctx, png)
		if err != nil {
			log.Warn().Err(err).Str("job_id", jobID).Int("page", pageIdx).Str("variant", variant.Tag).Msg("recognition failed")
			continue
		}
		result.Variant = variant.Tag
		result.Metrics = ocr.PageMetrics{
			PixelW:     raster.PixelW,
			PixelH:     raster.PixelH,
			PageWidth:  res.Size.Width,
			PageHeight: res.Size.Height,
			Scale:      raster.Scale,
		}
		candidates = append(candidates, result)
		log.Debug().Str("job_id", jobID).Int("page", pageIdx).Str("variant", variant.Tag).
			Float64("confidence", result.Confidence).Int("words", len(result.Words)).Msg("variant recognized")
	}

	best := ocr.SelectBest(candidates)
	if best < 0 {
		log.Warn().Str("job_id", jobID).Int("page", pageIdx).Msg("all recognition variants failed")
		metrics.IncPage("ocr_failed")
		return res
	}
	selected := candidates[best]
	metrics.IncVariantSelected(selected.Variant)
	metrics.ObserveConfidence(selected.Confidence)

	lines := ocr.ReconstructLines(selected.Words, p.cfg.Pipeline.LineYTolerancePx)
	text := ocr.LinesText(lines)
	if strings.TrimSpace(text) == "" {
		text = strings.TrimSpace(selected.Text)
	}
	res.Extracted = text

	// Translate only when the extracted text exceeds the threshold.
	if len([]rune(strings.TrimSpace(text))) <= p.cfg.Pipeline.TranslateMinChars {
		log.Debug().Str("job_id", jobID).Int("page", pageIdx).Int("chars", len(text)).Msg("below translation threshold, skipping")
		metrics.IncPage("skipped")
		return res
	}

	resp, provider, model, err := p.deps.Translator.TranslatePage(ctx, jobID, pageIdx, text)
	if err != nil {
		// Per-page isolation: the marker replaces the translation and
		// the job keeps going.
		res.Translated = fmt.Sprintf("[translation failed: %v]", err)
		metrics.IncPage("translate_failed")
		return res
	}
	res.Translated = resp.Text
	metrics.IncPage("translated")
	log.Debug().Str("job_id", jobID).Int("page", pageIdx).Str("provider", provider).Str("model", model).
		Int("tokens_in", resp.TokensIn).Int("tokens_out", resp.TokensOut).Msg("page translated")
	return res
}

func (p *Pipeline) fail(ctx context.Context, jobID string, start time.Time, err error) (jobcache.Job, error) {
	end := time.Now()
	p.setStatus(ctx, jobID, "failed", 100, err.Error(), &start, &end)
	metrics.IncJob("failed")
	log.Error().Err(err).Str("job_id", jobID).Msg("translation job failed")
	return jobcache.Job{}, err
}

// setStatus writes progress best effort; a broken status store never
// fails the job.
func (p *Pipeline) setStatus(ctx context.Context, jobID, state string, progress int, message string, start, end *time.Time) {
	if p.deps.Status == nil {
		return
	}
	st := store.Status{Status: state, Progress: progress, Message: message, Start: start, End: end}
	if err := p.deps.Status.Set(ctx, jobID, st); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("status store write failed")
	}
}
