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

package matcher

import (
	"fmt"
	"strings"
)

// AccountDigits is the length of an appraisal account number.
const AccountDigits = 13

// Candidate is one row of a search listing.
type Candidate struct {
	ID      int    `json:"id"`
	Account string `json:"account"`
	Address string `json:"address"`
	// Err is set by the search collaborator when the row could not be read.
	Err error `json:"-"`
}

// Validator rejects candidates that are structurally unusable.
type Validator func(Candidate) error

// ValidateAccount requires a 13-digit numeric account number.
func ValidateAccount(c Candidate) error {
	account := strings.TrimSpace(c.Account)
	if len(account) != AccountDigits || !IsNumeric(account) {
		return fmt.Errorf("%w: %q", ErrInvalidAccount, c.Account)
	}
	return nil
}

// Match is the accepted candidate and its score.
type Match struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// Ranking describes one FindBestMatch evaluation.
type Ranking struct {
	// Best is nil unless the top score cleared the confidence threshold.
	Best      *Match            `json:"best,omitempty"`
	BestScore float64           `json:"best_score"`
	Evaluated int               `json:"evaluated"`
	Skipped   []*CandidateError `json:"-"`
}

// Ranker selects the most likely listing row for a query address.
type Ranker struct {
	scorer   *Scorer
	validate Validator
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithValidator replaces the default account validator. A nil validator
// accepts every candidate.
func WithValidator(v Validator) RankerOption {
	return func(r *Ranker) {
		r.validate = v
	}
}

// NewRanker creates a ranker around the given scorer.
func NewRanker(scorer *Scorer, opts ...RankerOption) *Ranker {
	r := &Ranker{scorer: scorer, validate: ValidateAccount}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scorer returns the underlying scorer.
func (r *Ranker) Scorer() *Scorer {
	return r.scorer
}

// FindBestMatch scores every valid candidate against query and returns the
// earliest highest-scoring one if it exceeds the confidence threshold.
func (r *Ranker) FindBestMatch(query string, candidates []Candidate) (Ranking, error) {
	var ranking Ranking
	if len(candidates) == 0 {
		return ranking, ErrNoCandidates
	}

	best := -1
	for i, c := range candidates {
		if c.Err != nil {
			ranking.Skipped = append(ranking.Skipped, &CandidateError{Candidate: c, Err: c.Err})
			continue
		}
		if r.validate != nil {
			if err := r.validate(c); err != nil {
				ranking.Skipped = append(ranking.Skipped, &CandidateError{Candidate: c, Err: err})
				continue
			}
		}

		ranking.Evaluated++
		score := r.scorer.Score(query, c.Address)
		if score > ranking.BestScore {
			ranking.BestScore = score
			best = i
		}
	}

	threshold := r.scorer.Config().ConfidenceThreshold
	if best < 0 || ranking.BestScore <= threshold {
		return ranking, fmt.Errorf("%w: best score %.2f for %q", ErrNoConfidentMatch, ranking.BestScore, query)
	}

	ranking.Best = &Match{Candidate: candidates[best], Score: ranking.BestScore}
	return ranking, nil
}
