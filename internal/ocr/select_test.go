package ocr

import "testing"

func TestSelectBest_HighestConfidence(t *testing.T) {
	results := []Result{
		{Variant: "gray-sharpen", Confidence: 71.5},
		{Variant: "contrast-boost", Confidence: 88.2},
	}
	if got := SelectBest(results); got != 1 {
		t.Errorf("SelectBest = %d, want 1", got)
	}
}

func TestSelectBest_TieKeepsFirst(t *testing.T) {
	results := []Result{
		{Variant: "gray-sharpen", Confidence: 80},
		{Variant: "contrast-boost", Confidence: 80},
	}
	if got := SelectBest(results); got != 0 {
		t.Errorf("SelectBest = %d, want 0 on tie", got)
	}
}

func TestSelectBest_Deterministic(t *testing.T) {
	results := []Result{
		{Confidence: 33}, {Confidence: 90}, {Confidence: 90}, {Confidence: 12},
	}
	first := SelectBest(results)
	for i := 0; i < 100; i++ {
		if got := SelectBest(results); got != first {
			t.Fatalf("pick changed between runs: %d vs %d", got, first)
		}
	}
	if first != 1 {
		t.Errorf("SelectBest = %d, want 1", first)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	if got := SelectBest(nil); got != -1 {
		t.Errorf("SelectBest(nil) = %d, want -1", got)
	}
}
