// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"testing"
)

func scored(currency, relevance, authority, accuracy, purpose float64) CRAAPResult {
	return CRAAPResult{
		Currency:  Criterion{Score: currency},
		Relevance: Criterion{Score: relevance},
		Authority: Criterion{Score: authority},
		Accuracy:  Criterion{Score: accuracy},
		Purpose:   Criterion{Score: purpose},
	}
}

// totaling returns a result whose TotalScore equals total, for band testing.
func totaling(total float64) CRAAPResult {
	return scored(total, 0, 0, 0, 0)
}

func TestTotalScore(t *testing.T) {
	tests := []struct {
		name   string
		result CRAAPResult
		want   float64
	}{
		{"all zero", scored(0, 0, 0, 0, 0), 0},
		{"all max", scored(10, 10, 10, 10, 10), 50},
		{"mixed", scored(7.5, 8, 6.25, 9, 5.5), 36.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.TotalScore(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TotalScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{50, "Excellent"},
		{45, "Excellent"},
		{44.99, "Good"},
		{40, "Good"},
		{39.99, "Average"},
		{35, "Average"},
		{34.99, "Borderline"},
		{30, "Borderline"},
		{29.99, "Unreliable, not suitable for use"},
		{0, "Unreliable, not suitable for use"},
	}
	for _, tt := range tests {
		if got := totaling(tt.total).Category(); got != tt.want {
			t.Errorf("Category() with total %v = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestEstimatedCost(t *testing.T) {
	rates := Rates{InputPer1K: 0.03, OutputPer1K: 0.06}

	fresh := CRAAPResult{InputTokens: 2000, OutputTokens: 500}
	want := 2*rates.InputPer1K + 0.5*rates.OutputPer1K
	if got := fresh.EstimatedCost(rates); math.Abs(got-want) > 1e-9 {
		t.Errorf("EstimatedCost() = %v, want %v", got, want)
	}

	cached := CRAAPResult{InputTokens: 2000, OutputTokens: 500, Cached: true}
	if got := cached.EstimatedCost(rates); got != 0 {
		t.Errorf("EstimatedCost() for cached result = %v, want 0", got)
	}
}

func TestCriteriaOrder(t *testing.T) {
	r := scored(1, 2, 3, 4, 5)
	got := r.Criteria()
	want := []float64{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Criteria() returned %d items, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Score != want[i] {
			t.Errorf("Criteria()[%d].Score = %v, want %v", i, c.Score, want[i])
		}
	}
}
