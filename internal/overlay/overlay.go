package overlay

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/pdfimage"
)

// Page is one output page: the rendered scan as background plus the
// translated text to lay over it.
type Page struct {
	Size       pdfimage.PageSize
	Background []byte // PNG, scaled to fill the page
	Text       string
}

// Renderer assembles the translated PDF.
type Renderer struct {
	cfg config.OverlayConfig
}

func NewRenderer(cfg config.OverlayConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render produces a PDF with one page per input page, each sized to the
// source page dimensions in points. Text that does not fit above the
// bottom margin is dropped.
func (r *Renderer) Render(pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pages[0].Size.Width, Ht: pages[0].Size.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(r.cfg.FontFamily, "", r.cfg.FontSize)
	pdf.SetTextColor(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, p := range pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: p.Size.Width, Ht: p.Size.Height})

		if len(p.Background) > 0 {
			name := fmt.Sprintf("bg-%d", i)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.Background))
			pdf.ImageOptions(name, 0, 0, p.Size.Width, p.Size.Height, false, opts, 0, "")
		}

		placed := layoutPage(p.Text, p.Size, r.cfg, func(s string) float64 {
			return pdf.GetStringWidth(tr(s))
		})
		for _, ln := range placed {
			pdf.Text(r.cfg.Margin, ln.Y, tr(ln.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// placedLine is a wrapped line with its baseline assigned.
type placedLine struct {
	Text string
	Y    float64
}

// layoutPage wraps text to the printable width and assigns baselines.
// The first baseline sits one line height below the top margin; a
// paragraph start adds half a line height above it. Lines whose
// baseline would fall below the bottom margin are dropped.
func layoutPage(text string, size pdfimage.PageSize, cfg config.OverlayConfig, measure func(string) float64) []placedLine {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	maxWidth := size.Width - 2*cfg.Margin
	lines := Wrap(text, maxWidth, measure)

	y := cfg.Margin + cfg.LineHeight
	bottom := size.Height - cfg.Margin
	var placed []placedLine
	for _, ln := range lines {
		if ln.ParagraphStart {
			y += cfg.LineHeight / 2
		}
		if y > bottom {
			break
		}
		placed = append(placed, placedLine{Text: ln.Text, Y: y})
		y += cfg.LineHeight
	}
	return placed
}
