// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Criterion holds one CRAAP criterion assessment: a score on a 0-10 scale,
// the model's explanation, and a 0-1 confidence in that assessment.
type Criterion struct {
	Score       float64 `json:"score" yaml:"score"`
	Explanation string  `json:"explanation" yaml:"explanation"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// CRAAPResult is the full assessment of one bibliography entry.
//
// Cached reports whether the result was served from the analysis cache
// instead of a fresh API call. It is never persisted; the cache store forces
// it to true on read and drops it on write.
type CRAAPResult struct {
	Currency  Criterion `json:"currency" yaml:"currency"`
	Relevance Criterion `json:"relevance" yaml:"relevance"`
	Authority Criterion `json:"authority" yaml:"authority"`
	Accuracy  Criterion `json:"accuracy" yaml:"accuracy"`
	Purpose   Criterion `json:"purpose" yaml:"purpose"`

	// EntryKey is the cite key of the assessed entry.
	EntryKey string `json:"entry_key" yaml:"entry_key"`

	// EntryCitation is the short display citation, e.g. "Smith et al. (2020)".
	EntryCitation string `json:"entry_citation" yaml:"entry_citation"`

	// Token counts reported by the API for the call that produced this result.
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`

	Cached bool `json:"-" yaml:"cached"`
}

// Criteria returns the five criterion assessments in canonical order:
// currency, relevance, authority, accuracy, purpose.
func (r CRAAPResult) Criteria() []Criterion {
	return []Criterion{r.Currency, r.Relevance, r.Authority, r.Accuracy, r.Purpose}
}

// TotalScore sums the five criterion scores. Each score is in [0,10], so the
// total is in [0,50].
func (r CRAAPResult) TotalScore() float64 {
	return r.Currency.Score + r.Relevance.Score + r.Authority.Score + r.Accuracy.Score + r.Purpose.Score
}

// Category maps the total score to an evaluation band. Bands partition
// [0,50] with inclusive lower bounds.
func (r CRAAPResult) Category() string {
	total := r.TotalScore()
	switch {
	case total >= 45:
		return "Excellent"
	case total >= 40:
		return "Good"
	case total >= 35:
		return "Average"
	case total >= 30:
		return "Borderline"
	default:
		return "Unreliable, not suitable for use"
	}
}

// Rates holds per-thousand-token USD prices for cost estimation. These are
// fixed configuration constants, not live pricing.
type Rates struct {
	// InputPer1K is the price per 1000 input tokens.
	InputPer1K float64 `json:"input_per_1k" yaml:"input_per_1k"`

	// OutputPer1K is the price per 1000 output tokens.
	OutputPer1K float64 `json:"output_per_1k" yaml:"output_per_1k"`
}

// DefaultRates match GPT-4-class pricing: $0.03/1K input, $0.06/1K output.
var DefaultRates = Rates{InputPer1K: 0.03, OutputPer1K: 0.06}

// EstimatedCost returns the USD cost of the API call that produced this
// result. Cached results cost nothing regardless of their stored token
// counts.
func (r CRAAPResult) EstimatedCost(rates Rates) float64 {
	if r.Cached {
		return 0
	}
	return float64(r.InputTokens)/1000*rates.InputPer1K + float64(r.OutputTokens)/1000*rates.OutputPer1K
}
