package overlay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/pdfimage"
)

func testOverlayConfig() config.OverlayConfig {
	return config.OverlayConfig{
		FontFamily: "Helvetica",
		FontSize:   10,
		LineHeight: 14,
		Margin:     40,
	}
}

func TestLayoutPage_TruncatesAtBottomMargin(t *testing.T) {
	cfg := testOverlayConfig()
	size := pdfimage.PageSize{Width: 200, Height: 150}
	// Short page: only a handful of baselines fit above the bottom
	// margin. Feed far more text than that.
	text := strings.Repeat("word ", 200)

	placed := layoutPage(text, size, cfg, charWidth)
	if len(placed) == 0 {
		t.Fatal("expected at least one placed line")
	}
	bottom := size.Height - cfg.Margin
	for _, ln := range placed {
		if ln.Y > bottom {
			t.Errorf("baseline %v below bottom margin %v", ln.Y, bottom)
		}
	}
	all := Wrap(text, size.Width-2*cfg.Margin, charWidth)
	if len(placed) >= len(all) {
		t.Errorf("got %d placed lines, wanted truncation below %d wrapped", len(placed), len(all))
	}
}

func TestLayoutPage_EmptyTextPlacesNothing(t *testing.T) {
	cfg := testOverlayConfig()
	size := pdfimage.PageSize{Width: 595, Height: 842}
	for _, text := range []string{"", "   ", "\n\t\n"} {
		if placed := layoutPage(text, size, cfg, charWidth); len(placed) != 0 {
			t.Errorf("layoutPage(%q) placed %d lines, want none", text, len(placed))
		}
	}
}

func TestLayoutPage_ParagraphGap(t *testing.T) {
	cfg := testOverlayConfig()
	size := pdfimage.PageSize{Width: 595, Height: 842}

	placed := layoutPage("first paragraph\n\nsecond paragraph", size, cfg, charWidth)
	if len(placed) != 2 {
		t.Fatalf("got %d placed lines, want 2: %+v", len(placed), placed)
	}
	if placed[0].Y != cfg.Margin+cfg.LineHeight {
		t.Errorf("first baseline = %v, want %v", placed[0].Y, cfg.Margin+cfg.LineHeight)
	}
	gap := placed[1].Y - placed[0].Y
	if gap != cfg.LineHeight+cfg.LineHeight/2 {
		t.Errorf("paragraph gap = %v, want %v", gap, cfg.LineHeight+cfg.LineHeight/2)
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	r := NewRenderer(testOverlayConfig())
	pages := []Page{
		{Size: pdfimage.PageSize{Width: 595, Height: 842}, Text: "hello translated world"},
		{Size: pdfimage.PageSize{Width: 595, Height: 842}, Text: ""},
	}
	out, err := r.Render(pages)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF header")
	}
}

func TestRender_NoPages(t *testing.T) {
	r := NewRenderer(testOverlayConfig())
	if _, err := r.Render(nil); err == nil {
		t.Fatal("expected error for empty page list")
	}
}
