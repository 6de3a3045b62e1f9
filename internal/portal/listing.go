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

package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rapiinel/hcad-search/internal/matcher"
)

var (
	errIncompleteRow = errors.New("row is missing the address or account cell")
	errNoAddressLine = errors.New("row text has no address line")
)

// States reported by listingStateJS once a search has settled.
const (
	stateRows  = "rows"
	stateEmpty = "empty"
)

// noResultsPattern matches the notice shown when a search has no listing.
// It is evaluated in the page, so it must stay valid in both RE2 and
// JavaScript syntax.
const noResultsPattern = `no\s+(?:results|records|matches|properties)\s+(?:were\s+)?found`

// listingStateJS returns a script that yields stateRows once listing rows are
// present, stateEmpty once the no-results notice is shown, and an empty
// string while the search is still running.
func listingStateJS() string {
	pattern, _ := json.Marshal(noResultsPattern)
	return fmt.Sprintf(`(function () {
	if (document.querySelector('.searchtr')) return %q;
	var text = document.body ? document.body.innerText : '';
	if (new RegExp(%s, 'i').test(text)) return %q;
	return '';
})()`, stateRows, pattern, stateEmpty)
}

// listingEntry is one .searchtr row as read in the page.
type listingEntry struct {
	Text     string `json:"text"`
	Account  string `json:"account"`
	Complete bool   `json:"complete"`
}

// parseListing turns listing rows into candidates. The row text is the owner
// name on the first line and the site address on the second. Rows that cannot
// be read keep their position and carry the problem in Err.
func parseListing(rows []listingEntry) []matcher.Candidate {
	candidates := make([]matcher.Candidate, 0, len(rows))
	for i, row := range rows {
		c := matcher.Candidate{ID: i, Account: strings.TrimSpace(row.Account)}
		if !row.Complete {
			c.Err = fmt.Errorf("row %d: %w", i, errIncompleteRow)
			candidates = append(candidates, c)
			continue
		}

		lines := strings.Split(strings.ReplaceAll(row.Text, "\r\n", "\n"), "\n")
		if len(lines) < 2 {
			c.Err = fmt.Errorf("row %d: %w", i, errNoAddressLine)
			candidates = append(candidates, c)
			continue
		}
		c.Address = strings.TrimSpace(lines[1])
		candidates = append(candidates, c)
	}
	return candidates
}
