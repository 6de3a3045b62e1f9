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

package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordPage = `<!DOCTYPE html>
<html><body>
<div class="owner">
  <div class="whitebox-medium-font">Account:</div>
  <div>SMITH JOHN &amp; MARY</div>
  <div class="whitebox-medium-font">Name:</div>
  <div>PO BOX 1234&nbsp;&nbsp;HOUSTON TX 77001</div>
</div>
<div id="ValuationComponent">
  <div>
    <div class="shadow-sm p-3 mb-0 bg-white rounded">
      <div>Valuations</div>
      <div>
        <div>
          <table>
            <tbody>
              <tr><td>Land</td><td><div>$120,000</div></td></tr>
              <tr><td>Improvement</td><td><div>$230,500</div></td></tr>
              <tr><td>Market</td><td><div>$350,500</div></td></tr>
              <tr><td>Appraised</td><td><div> $340,000 </div></td></tr>
            </tbody>
          </table>
        </div>
      </div>
    </div>
  </div>
</div>
<div class="row whitebox-medium-font p-1"><div>Legal Description</div><div class="col">LT 4 BLK 2 OAK ESTATES</div></div>
<div class="row whitebox-medium-font p-1"><div>Land Area</div><div class="col">7,500 SF</div></div>
<div class="row whitebox-medium-font p-1"><div>Building Area</div><div class="col">2,104 SF</div></div>
<table><tbody><tr><th>State Class Code</th></tr><tr><td>A1 -- Real, Residential</td></tr></tbody></table>
%s
</body></html>`

const buildingSection = `<div id="BuildingSummaryComponent">
  <div id="BuildingView"><div><table><tbody>
    <tr><td>1</td><td>Residential</td><td>1978</td><td>Single Family</td><td>Good</td><td>Average</td><td>2,104</td></tr>
  </tbody></table></div></div>
</div>`

func page(building string) string {
	return strings.Replace(recordPage, "%s", building, 1)
}

func TestExtract(t *testing.T) {
	fields, err := Extract(page(buildingSection))
	require.NoError(t, err)

	expected := Fields{
		FieldName:                 "SMITH JOHN & MARY",
		FieldMailingAddress:       "PO BOX 1234 HOUSTON TX 77001",
		FieldLandValuation:        "$120,000",
		FieldImprovementValuation: "$230,500",
		FieldMarketValuation:      "$350,500",
		FieldAppraisedValuation:   "$340,000",
		FieldLegalDescription:     "LT 4 BLK 2 OAK ESTATES",
		FieldLand:                 "7,500 SF",
		FieldBuildingArea:         "2,104 SF",
		FieldStateClassCode:       "A1 -- Real, Residential",
		FieldYearBuilt:            "1978",
		FieldType:                 "Single Family",
		FieldImprSqFt:             "2,104",
	}
	assert.Equal(t, expected, fields)
}

func TestExtractWithoutBuildingSummary(t *testing.T) {
	fields, err := Extract(page(""))
	require.NoError(t, err)

	assert.Equal(t, NotAvailable, fields[FieldYearBuilt])
	assert.Equal(t, NotAvailable, fields[FieldType])
	assert.Equal(t, NotAvailable, fields[FieldImprSqFt])
	assert.Equal(t, "$350,500", fields[FieldMarketValuation])
}

func TestExtractMissingFieldsFallBack(t *testing.T) {
	fields, err := Extract(`<html><body><p>Record not found</p></body></html>`)
	require.NoError(t, err)

	require.Len(t, fields, len(FieldNames))
	for _, name := range FieldNames {
		assert.Equal(t, NotAvailable, fields[name], name)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	fields, err := Extract("  ")

	var xerr *ExtractionError
	require.True(t, errors.As(err, &xerr))
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.Equal(t, "  ", xerr.Document)
	assert.Equal(t, Placeholder(), fields)
}

func TestFieldsGet(t *testing.T) {
	f := Fields{FieldName: "SMITH", FieldLand: ""}
	assert.Equal(t, "SMITH", f.Get(FieldName))
	assert.Equal(t, NotAvailable, f.Get(FieldLand))
	assert.Equal(t, NotAvailable, f.Get(FieldType))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "12 Main St", Clean(" 12  Main\n\tSt "))
	assert.Equal(t, "2104", Clean("２１０４"))
}
