// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package appraisal

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rapiinel/hcad-search/internal/record"
)

// Unmatched is written in place of an account number when no listing matched.
const Unmatched = "UNMATCHED"

// Status is the outcome of one address.
type Status string

const (
	StatusMatched          Status = "matched"
	StatusUnmatched        Status = "unmatched"
	StatusExtractionFailed Status = "extraction_failed"
)

// Address is one input row: a caller key and the text to search for.
type Address struct {
	Key   string `json:"key"`
	Query string `json:"query"`
}

// Result is one output row per input address.
type Result struct {
	Key     string        `json:"key"`
	Query   string        `json:"query"`
	Account string        `json:"account"`
	Status  Status        `json:"status"`
	Score   float64       `json:"score"`
	Reason  string        `json:"reason,omitempty"`
	Fields  record.Fields `json:"fields"`
}

// Summary aggregates a batch.
type Summary struct {
	Total             int      `json:"total"`
	Matched           int      `json:"matched"`
	Unmatched         int      `json:"unmatched"`
	ExtractionFailed  int      `json:"extraction_failed"`
	SkippedCandidates int      `json:"skipped_candidates"`
	MeanScore         float64  `json:"mean_score"`
	MedianScore       float64  `json:"median_score"`
	UnmatchedQueries  []string `json:"unmatched_queries,omitempty"`
}

// Batch is the outcome of one Run.
type Batch struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// summarize computes counts and score statistics over results. Scores are
// taken from every address that reached a confident match.
func summarize(results []Result, skipped int) Summary {
	s := Summary{Total: len(results), SkippedCandidates: skipped}
	var scores []float64
	for _, r := range results {
		switch r.Status {
		case StatusMatched:
			s.Matched++
		case StatusExtractionFailed:
			s.ExtractionFailed++
		case StatusUnmatched:
			s.Unmatched++
			s.UnmatchedQueries = append(s.UnmatchedQueries, r.Query)
			continue
		}
		scores = append(scores, r.Score)
	}
	if len(scores) > 0 {
		sort.Float64s(scores)
		s.MeanScore = stat.Mean(scores, nil)
		s.MedianScore = stat.Quantile(0.5, stat.Empirical, scores, nil)
	}
	return s
}
