package ocr

import (
	"strings"
	"testing"
)

func word(text string, y0 float64) Word {
	return Word{Text: text, Confidence: 80, Box: Box{X0: 0, Y0: y0, X1: 10, Y1: y0 + 12}}
}

func TestReconstructLines_ToleranceClustering(t *testing.T) {
	words := []Word{word("a", 10), word("b", 11), word("c", 40)}
	lines := ReconstructLines(words, 4)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Text != "a b" {
		t.Errorf("line 1 = %q, want %q", lines[0].Text, "a b")
	}
	if lines[1].Text != "c" {
		t.Errorf("line 2 = %q, want %q", lines[1].Text, "c")
	}
}

func TestReconstructLines_EveryWordInExactlyOneLine(t *testing.T) {
	words := []Word{
		word("one", 100), word("two", 102), word("three", 99),
		word("four", 130), word("five", 131),
		word("six", 200),
	}
	lines := ReconstructLines(words, 5)
	if len(lines) > len(words) {
		t.Fatalf("more lines than words: %d > %d", len(lines), len(words))
	}
	total := 0
	for _, ln := range lines {
		total += len(ln.Words)
	}
	if total != len(words) {
		t.Errorf("word partition broken: %d placed, %d input", total, len(words))
	}
}

func TestReconstructLines_ZeroWords(t *testing.T) {
	if lines := ReconstructLines(nil, 5); lines != nil {
		t.Errorf("expected no lines, got %+v", lines)
	}
	if text := LinesText(nil); text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestReconstructLines_ConfidenceAndBox(t *testing.T) {
	words := []Word{
		{Text: "hi", Confidence: 60, Box: Box{X0: 0, Y0: 10, X1: 20, Y1: 22}},
		{Text: "there", Confidence: 80, Box: Box{X0: 25, Y0: 11, X1: 70, Y1: 23}},
	}
	lines := ReconstructLines(words, 4)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	ln := lines[0]
	if ln.Confidence != 70 {
		t.Errorf("mean confidence = %v, want 70", ln.Confidence)
	}
	want := Box{X0: 0, Y0: 10, X1: 70, Y1: 23}
	if ln.Box != want {
		t.Errorf("union box = %+v, want %+v", ln.Box, want)
	}
}

func TestLinesText(t *testing.T) {
	words := []Word{word("top", 10), word("line", 11), word("bottom", 50)}
	lines := ReconstructLines(words, 4)
	got := LinesText(lines)
	if got != "top line\nbottom" {
		t.Errorf("LinesText = %q", got)
	}
	if strings.Count(got, "\n") != len(lines)-1 {
		t.Errorf("newline count off: %q", got)
	}
}
