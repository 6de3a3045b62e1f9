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

// Package record turns an appraisal record page into a flat set of named fields.
package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// NotAvailable is written for any field the record page does not carry.
const NotAvailable = "N/A"

// Field names in output column order.
const (
	FieldName                 = "Name"
	FieldMailingAddress       = "Mailing Address"
	FieldLandValuation        = "Land Valuation"
	FieldImprovementValuation = "Improvement Valuation"
	FieldMarketValuation      = "Market Valuation"
	FieldAppraisedValuation   = "Appraised Valuation"
	FieldLegalDescription     = "Legal Description"
	FieldLand                 = "Land"
	FieldBuildingArea         = "Building Area"
	FieldStateClassCode       = "State Class Code"
	FieldYearBuilt            = "Year Built"
	FieldType                 = "Type"
	FieldImprSqFt             = "Impr Sq Ft"
)

// FieldNames lists every extracted field in output order.
var FieldNames = []string{
	FieldName,
	FieldMailingAddress,
	FieldLandValuation,
	FieldImprovementValuation,
	FieldMarketValuation,
	FieldAppraisedValuation,
	FieldLegalDescription,
	FieldLand,
	FieldBuildingArea,
	FieldStateClassCode,
	FieldYearBuilt,
	FieldType,
	FieldImprSqFt,
}

// Fields maps field name to extracted text.
type Fields map[string]string

// Placeholder returns a field set with every field marked NotAvailable.
func Placeholder() Fields {
	f := make(Fields, len(FieldNames))
	for _, name := range FieldNames {
		f[name] = NotAvailable
	}
	return f
}

// Get returns the named field or NotAvailable.
func (f Fields) Get(name string) string {
	if v, ok := f[name]; ok && v != "" {
		return v
	}
	return NotAvailable
}

// ErrEmptyDocument is returned for a blank record page.
var ErrEmptyDocument = errors.New("empty record document")

// ExtractionError wraps a failure to read a record page. Document keeps the
// raw page so it can be saved for diagnosis.
type ExtractionError struct {
	Document string
	Fields   Fields
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract record: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// The owner block renders each value one block after its label: the value
// under "Account:" is the owner name and the value under "Name:" is the
// mailing address.
var selectors = map[string]string{
	FieldName:                 `.whitebox-medium-font:contains("Account:") + div`,
	FieldMailingAddress:       `.whitebox-medium-font:contains("Name:") + div`,
	FieldLandValuation:        valuationRow(1),
	FieldImprovementValuation: valuationRow(2),
	FieldMarketValuation:      valuationRow(3),
	FieldAppraisedValuation:   valuationRow(4),
	FieldLegalDescription:     `.row.whitebox-medium-font.p-1:contains("Legal Description") .col`,
	FieldLand:                 `.row.whitebox-medium-font.p-1:contains("Land") .col`,
	FieldBuildingArea:         `.row.whitebox-medium-font.p-1:contains("Building Area") .col`,
	FieldStateClassCode:       `table:contains("State Class Code") td`,
}

var buildingSelectors = map[string]string{
	FieldYearBuilt: buildingCell(3),
	FieldType:      buildingCell(4),
	FieldImprSqFt:  buildingCell(7),
}

func valuationRow(n int) string {
	return fmt.Sprintf("#ValuationComponent div.shadow-sm table tr:nth-child(%d) > td:nth-child(2) > div", n)
}

func buildingCell(n int) string {
	return fmt.Sprintf("#BuildingView table tbody > tr:nth-child(1) > td:nth-child(%d)", n)
}

// Extract reads the record fields out of a record page. Missing values are
// NotAvailable, never omitted.
func Extract(html string) (Fields, error) {
	if strings.TrimSpace(html) == "" {
		return Placeholder(), &ExtractionError{Document: html, Fields: Placeholder(), Err: ErrEmptyDocument}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Placeholder(), &ExtractionError{Document: html, Fields: Placeholder(), Err: err}
	}

	fields := Placeholder()
	for name, sel := range selectors {
		fields[name] = selectText(doc, sel)
	}
	if doc.Find("#BuildingSummaryComponent").Length() > 0 {
		for name, sel := range buildingSelectors {
			fields[name] = selectText(doc, sel)
		}
	}
	return fields, nil
}

func selectText(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return NotAvailable
	}
	text := Clean(sel.Text())
	if text == "" {
		return NotAvailable
	}
	return text
}

// Clean folds compatibility characters (non-breaking spaces, full-width
// digits) and collapses whitespace.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
