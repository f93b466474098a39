package ocr

// SelectBest picks the single highest-confidence result among the
// per-variant recognition passes for a page. Ties go to the earliest
// result, so with the preprocessor's fixed variant order the choice is
// deterministic. Returns -1 for an empty slice.
func SelectBest(results []Result) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Confidence > results[best].Confidence {
			best = i
		}
	}
	return best
}
