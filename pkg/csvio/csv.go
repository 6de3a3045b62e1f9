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

// Package csvio reads address lists and writes result sheets.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rapiinel/hcad-search/internal/appraisal"
	"github.com/rapiinel/hcad-search/internal/record"
)

// Input columns.
const (
	ColumnKey           = "Key"
	ColumnSearchAddress = "Search Address"
	ColumnNumber        = "AddressNumber1"
	ColumnDirection     = "AddressDirection"
	ColumnStreet        = "AddressStreet"
)

// ErrNoAddressColumns is returned when the input has neither a search address
// column nor the number and street component columns.
var ErrNoAddressColumns = errors.New("input has no address columns")

// ReadAddresses loads the address list from a CSV file with a header row.
func ReadAddresses(path string) ([]appraisal.Address, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()
	return DecodeAddresses(file)
}

// DecodeAddresses reads addresses from CSV. The search text comes from the
// "Search Address" column when present, otherwise it is composed from the
// number, direction and street columns. Rows without a usable address are
// dropped. Without a "Key" column the 1-based row number is used.
func DecodeAddresses(r io.Reader) ([]appraisal.Address, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	_, hasSearch := index[ColumnSearchAddress]
	_, hasNumber := index[ColumnNumber]
	_, hasStreet := index[ColumnStreet]
	if !hasSearch && !(hasNumber && hasStreet) {
		return nil, ErrNoAddressColumns
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var addresses []appraisal.Address
	for n := 1; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", n, err)
		}

		query := get(row, ColumnSearchAddress)
		if query == "" && hasNumber && hasStreet {
			query = composeAddress(get(row, ColumnNumber), get(row, ColumnDirection), get(row, ColumnStreet))
		}
		if query == "" {
			continue
		}

		key := get(row, ColumnKey)
		if key == "" {
			key = strconv.Itoa(n)
		}
		addresses = append(addresses, appraisal.Address{Key: key, Query: query})
	}
	return addresses, nil
}

// composeAddress joins the address parts. Number and street are required.
func composeAddress(number, direction, street string) string {
	if number == "" || street == "" {
		return ""
	}
	parts := []string{number}
	if direction != "" {
		parts = append(parts, direction)
	}
	return strings.Join(append(parts, street), " ")
}

// ResultHeader is the output column order.
func ResultHeader() []string {
	return append([]string{"Key", "Search Keyword", "Account Number", "Status", "Score", "Reason"}, record.FieldNames...)
}

func resultRow(r appraisal.Result) []string {
	row := []string{r.Key, r.Query, r.Account, string(r.Status), strconv.FormatFloat(r.Score, 'f', 4, 64), r.Reason}
	for _, name := range record.FieldNames {
		row = append(row, r.Fields.Get(name))
	}
	return row
}

// WriteResults writes one row per result to path.
func WriteResults(path string, results []appraisal.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := EncodeResults(file, results); err != nil {
		return err
	}
	return file.Close()
}

// EncodeResults writes the header and result rows as CSV.
func EncodeResults(w io.Writer, results []appraisal.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ResultHeader()); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write(resultRow(r)); err != nil {
			return fmt.Errorf("error writing row %s: %w", r.Key, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

var unsafeFileName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// WriteCheckpoint saves a single result as <dir>/<key>.csv so that finished
// addresses survive an interrupted run.
func WriteCheckpoint(dir string, result appraisal.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating checkpoint directory: %w", err)
	}
	name := unsafeFileName.ReplaceAllString(result.Key, "_")
	if name == "" {
		name = "row"
	}
	path := filepath.Join(dir, name+".csv")
	return path, WriteResults(path, []appraisal.Result{result})
}
