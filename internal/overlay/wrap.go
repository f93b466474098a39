package overlay

import "strings"

// WrappedLine is one laid-out line. ParagraphStart marks the first line
// of a new paragraph after the first, which gets extra leading.
type WrappedLine struct {
	Text           string
	ParagraphStart bool
}

// Wrap splits text into lines no wider than maxWidth using greedy
// first-fit word wrapping. Paragraphs are separated by blank lines in
// the input. measure returns the rendered width of a string in the
// same unit as maxWidth. A single word wider than maxWidth gets a line
// of its own rather than being split.
func Wrap(text string, maxWidth float64, measure func(string) float64) []WrappedLine {
	var out []WrappedLine
	firstParagraph := true
	for _, para := range splitParagraphs(text) {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		start := len(out)
		current := words[0]
		for _, w := range words[1:] {
			candidate := current + " " + w
			if measure(candidate) <= maxWidth {
				current = candidate
				continue
			}
			out = append(out, WrappedLine{Text: current})
			current = w
		}
		out = append(out, WrappedLine{Text: current})
		if !firstParagraph {
			out[start].ParagraphStart = true
		}
		firstParagraph = false
	}
	return out
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				paras = append(paras, strings.Join(cur, " "))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, " "))
	}
	return paras
}
