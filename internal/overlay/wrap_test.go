package overlay

import (
	"strings"
	"testing"
)

// charWidth measures each rune as one unit, so widths in tests are
// simply string lengths.
func charWidth(s string) float64 { return float64(len(s)) }

func TestWrap_LinesFitWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps on running"
	lines := Wrap(text, 20, charWidth)
	if len(lines) == 0 {
		t.Fatal("expected wrapped lines")
	}
	for _, ln := range lines {
		if charWidth(ln.Text) > 20 {
			t.Errorf("line %q wider than limit: %v", ln.Text, charWidth(ln.Text))
		}
	}
	// No words lost or reordered.
	var joined []string
	for _, ln := range lines {
		joined = append(joined, ln.Text)
	}
	if strings.Join(joined, " ") != text {
		t.Errorf("rejoined text = %q, want %q", strings.Join(joined, " "), text)
	}
}

func TestWrap_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n"} {
		if lines := Wrap(input, 40, charWidth); len(lines) != 0 {
			t.Errorf("Wrap(%q) = %v, want no lines", input, lines)
		}
	}
}

func TestWrap_OverlongWordGetsOwnLine(t *testing.T) {
	lines := Wrap("a pneumonoultramicroscopicsilicovolcanoconiosis b", 10, charWidth)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[1].Text != "pneumonoultramicroscopicsilicovolcanoconiosis" {
		t.Errorf("long word split or merged: %q", lines[1].Text)
	}
}

func TestWrap_ParagraphBreaks(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph follows\n\nthird one"
	lines := Wrap(text, 100, charWidth)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[0].ParagraphStart {
		t.Error("first paragraph should not carry the break marker")
	}
	if !lines[1].ParagraphStart || !lines[2].ParagraphStart {
		t.Errorf("paragraph starts not marked: %+v", lines)
	}
}

func TestWrap_SingleNewlineJoinsParagraph(t *testing.T) {
	lines := Wrap("line one\nline two", 100, charWidth)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(lines), lines)
	}
	if lines[0].Text != "line one line two" {
		t.Errorf("got %q", lines[0].Text)
	}
}
