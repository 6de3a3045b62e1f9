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
	"regexp"
	"strings"
	"unicode"
)

var (
	// Farm-to-market roads: the "rd" form must be rewritten before the bare form
	fmRoadLong  = regexp.MustCompile(`(?i)\bfm\s*(\d+)\s*rd?\b`)
	fmRoadShort = regexp.MustCompile(`(?i)\bfm\s*(\d+)\b`)
)

const farmToMarket = "farm to market"

// Abbreviation is a single short form to long form substitution.
type Abbreviation struct {
	Short string
	Long  string
}

// RuleSet is an ordered, read-only table of address abbreviations.
type RuleSet struct {
	rules    []Abbreviation
	patterns []*regexp.Regexp
}

// NewRuleSet compiles the given abbreviations in order.
func NewRuleSet(abbreviations ...Abbreviation) *RuleSet {
	rs := &RuleSet{
		rules:    make([]Abbreviation, 0, len(abbreviations)),
		patterns: make([]*regexp.Regexp, 0, len(abbreviations)),
	}
	for _, a := range abbreviations {
		rs.rules = append(rs.rules, a)
		rs.patterns = append(rs.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(a.Short)+`\b`))
	}
	return rs
}

var defaultRules = NewRuleSet(
	Abbreviation{Short: "rd", Long: "road"},
	Abbreviation{Short: "st", Long: "street"},
	Abbreviation{Short: "ln", Long: "lane"},
	Abbreviation{Short: "dr", Long: "drive"},
	Abbreviation{Short: "blvd", Long: "boulevard"},
	Abbreviation{Short: "hwy", Long: "highway"},
)

// DefaultRules returns the street-type table used for US appraisal listings.
func DefaultRules() *RuleSet {
	return defaultRules
}

// Rules returns a copy of the table in application order.
func (rs *RuleSet) Rules() []Abbreviation {
	out := make([]Abbreviation, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Expand replaces every whole-word short form with its long form.
func (rs *RuleSet) Expand(s string) string {
	for i, re := range rs.patterns {
		s = re.ReplaceAllLiteralString(s, rs.rules[i].Long)
	}
	return s
}

// Normalize lower-cases an address, collapses whitespace and spells out
// farm-to-market road numbers.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	s = fmRoadLong.ReplaceAllString(s, farmToMarket+" $1")
	s = fmRoadShort.ReplaceAllString(s, farmToMarket+" $1")
	return s
}

// IsNumeric checks if a string contains only numeric characters
func IsNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
