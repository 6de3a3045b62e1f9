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

package csvio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapiinel/hcad-search/internal/appraisal"
	"github.com/rapiinel/hcad-search/internal/record"
)

func TestDecodeAddresses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []appraisal.Address
	}{
		{
			name:  "search address column",
			input: "Key,Search Address\nA1,100 Oak Rd\nA2,  \nA3,7 Willow Dr\n",
			want: []appraisal.Address{
				{Key: "A1", Query: "100 Oak Rd"},
				{Key: "A3", Query: "7 Willow Dr"},
			},
		},
		{
			name:  "component columns",
			input: "Key,AddressNumber1,AddressDirection,AddressStreet\nB1,100,N,Main St\nB2,7,,Willow Dr\nB3,,S,Elm St\nB4,12,W,\n",
			want: []appraisal.Address{
				{Key: "B1", Query: "100 N Main St"},
				{Key: "B2", Query: "7 Willow Dr"},
			},
		},
		{
			name:  "row numbers without key column",
			input: "Search Address\n100 Oak Rd\n7 Willow Dr\n",
			want: []appraisal.Address{
				{Key: "1", Query: "100 Oak Rd"},
				{Key: "2", Query: "7 Willow Dr"},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffKey,Search Address\nC1,100 Oak Rd\n",
			want:  []appraisal.Address{{Key: "C1", Query: "100 Oak Rd"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAddresses(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAddressesErrors(t *testing.T) {
	_, err := DecodeAddresses(strings.NewReader("Key,Owner\n1,SMITH\n"))
	assert.ErrorIs(t, err, ErrNoAddressColumns)

	_, err = DecodeAddresses(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadAddresses(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func sampleResults() []appraisal.Result {
	fields := record.Placeholder()
	fields[record.FieldName] = "SMITH JOHN"
	return []appraisal.Result{
		{Key: "K1", Query: "100 Oak Rd", Account: "0451230000013", Status: appraisal.StatusMatched, Score: 1, Fields: fields},
		{Key: "K/2", Query: "1 Nowhere Ln", Account: appraisal.Unmatched, Status: appraisal.StatusUnmatched, Reason: "no candidates", Fields: record.Placeholder()},
	}
}

func TestEncodeResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResults(&buf, sampleResults()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ResultHeader(), rows[0])
	assert.Equal(t, []string{"K1", "100 Oak Rd", "0451230000013", "matched", "1.0000", ""}, rows[1][:6])
	assert.Equal(t, "SMITH JOHN", rows[1][6])
	assert.Equal(t, appraisal.Unmatched, rows[2][2])
	assert.Equal(t, record.NotAvailable, rows[2][6])
}

func TestWriteResultsAndCheckpoint(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()

	out := filepath.Join(dir, "out", "results.csv")
	require.NoError(t, WriteResults(out, results))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	path, err := WriteCheckpoint(filepath.Join(dir, "temp"), results[1])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "temp", "K_2.csv"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
