package ocr

import (
	"sort"
	"strings"
)

// ReconstructLines groups a flat word list into reading-order lines.
// Words are sorted by top edge; a new line starts whenever a word's y0
// differs from the previous word's y0 by more than tolerance pixels.
// Horizontal order within a line is the encounter order after the sort,
// which tracks natural reading order closely enough for overlay purposes.
// Zero words yields zero lines.
func ReconstructLines(words []Word, tolerance float64) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Y0 < sorted[j].Box.Y0
	})

	var lines []Line
	current := []Word{sorted[0]}
	prevY := sorted[0].Box.Y0

	for _, w := range sorted[1:] {
		if w.Box.Y0-prevY > tolerance {
			lines = append(lines, buildLine(current))
			current = nil
		}
		current = append(current, w)
		prevY = w.Box.Y0
	}
	lines = append(lines, buildLine(current))

	return lines
}

func buildLine(words []Word) Line {
	texts := make([]string, len(words))
	box := words[0].Box
	var sum float64
	for i, w := range words {
		texts[i] = w.Text
		box = box.Union(w.Box)
		sum += w.Confidence
	}
	return Line{
		Text:       strings.Join(texts, " "),
		Confidence: sum / float64(len(words)),
		Box:        box,
		Words:      words,
	}
}

// LinesText joins line texts with newlines, the form submitted for
// translation.
func LinesText(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
