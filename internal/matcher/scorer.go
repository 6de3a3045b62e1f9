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

// Config holds the thresholds used by the Scorer and Ranker.
type Config struct {
	// ConfidenceThreshold is the score a best candidate must exceed to be accepted.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidence_threshold"`
	// AbbreviationRetry is the score below which abbreviations are expanded and the
	// comparison repeated.
	AbbreviationRetry float64 `yaml:"abbreviation_retry" json:"abbreviation_retry"`
}

// DefaultConfig returns the thresholds tuned against the appraisal portal listings.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.6,
		AbbreviationRetry:   0.8,
	}
}

// Validate checks that both thresholds lie in [0,1].
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %v out of range [0,1]", c.ConfidenceThreshold)
	}
	if c.AbbreviationRetry < 0 || c.AbbreviationRetry > 1 {
		return fmt.Errorf("abbreviation retry %v out of range [0,1]", c.AbbreviationRetry)
	}
	return nil
}

// Scorer computes token-overlap similarity between a query address and a
// candidate listing address.
type Scorer struct {
	rules *RuleSet
	cfg   Config
}

// NewScorer creates a scorer. A nil rule set falls back to DefaultRules.
func NewScorer(rules *RuleSet, cfg Config) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules, cfg: cfg}
}

// Config returns the thresholds the scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score returns a value in [0,1]: the share of query tokens found in the
// candidate. Conflicting house or road numbers force the score to 0.
func (s *Scorer) Score(query, candidate string) float64 {
	query = Normalize(query)
	candidate = Normalize(candidate)

	queryNumbers := numericTokens(query)
	candidateNumbers := numericTokens(candidate)
	if len(queryNumbers) > 0 && len(candidateNumbers) > 0 && !anyPositionEqual(queryNumbers, candidateNumbers) {
		return 0
	}

	score := overlap(query, candidate)
	if score < s.cfg.AbbreviationRetry {
		expanded := overlap(s.rules.Expand(query), s.rules.Expand(candidate))
		if expanded > score {
			score = expanded
		}
	}
	return score
}

// numericTokens returns the all-digit tokens of a normalized address, skipping
// the number that belongs to a farm-to-market road name.
func numericTokens(s string) []string {
	words := strings.Fields(s)
	var numbers []string
	for i, word := range words {
		if i >= 3 && words[i-3] == "farm" && words[i-2] == "to" && words[i-1] == "market" {
			continue
		}
		if word != "" && IsNumeric(word) {
			numbers = append(numbers, word)
		}
	}
	return numbers
}

// anyPositionEqual compares two lists index by index up to the shorter length.
func anyPositionEqual(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlap is |q ∩ c| / |q|, or 0 for an empty query.
func overlap(query, candidate string) float64 {
	q := tokenSet(query)
	if len(q) == 0 {
		return 0
	}
	c := tokenSet(candidate)
	matched := 0
	for token := range q {
		if _, ok := c[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(q))
}
