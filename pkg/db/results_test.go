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

package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapiinel/hcad-search/internal/appraisal"
	"github.com/rapiinel/hcad-search/internal/record"
)

type fakeStore struct {
	statements []string
	args       [][]any
	table      pgx.Identifier
	columns    []string
	copied     [][]interface{}
	execErr    error
}

func (f *fakeStore) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, sql)
	f.args = append(f.args, args)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeStore) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	f.table = table
	f.columns = columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.copied = append(f.copied, values)
	}
	return int64(len(f.copied)), src.Err()
}

func TestSaveResults(t *testing.T) {
	store := &fakeStore{}
	results := []appraisal.Result{
		{Key: "K1", Query: "100 Oak Rd", Account: "0451230000013", Status: appraisal.StatusMatched, Score: 1, Fields: record.Fields{record.FieldName: "SMITH"}},
		{Key: "K2", Query: "1 Nowhere Ln", Account: appraisal.Unmatched, Status: appraisal.StatusUnmatched, Reason: "no candidates", Fields: record.Placeholder()},
	}

	n, err := SaveResults(context.Background(), store, "01RUN", results)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, pgx.Identifier{"appraisal_results"}, store.table)
	assert.Equal(t, resultColumns, store.columns)

	first := store.copied[0]
	require.Len(t, first, len(resultColumns))
	assert.Equal(t, "01RUN", first[0])
	assert.Equal(t, "K1", first[1])
	assert.Equal(t, "matched", first[4])

	var fields map[string]string
	require.NoError(t, json.Unmarshal(first[7].([]byte), &fields))
	assert.Equal(t, "SMITH", fields[record.FieldName])

	assert.Equal(t, appraisal.Unmatched, store.copied[1][3])
}

func TestSaveResultsEmpty(t *testing.T) {
	store := &fakeStore{}
	n, err := SaveResults(context.Background(), store, "01RUN", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunBookkeeping(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, EnsureSchema(context.Background(), store))
	require.NoError(t, CreateRun(context.Background(), store, "01RUN", "batch"))
	require.Len(t, store.statements, 2)
	assert.Contains(t, store.statements[0], "CREATE TABLE IF NOT EXISTS appraisal_results")
	assert.Equal(t, "01RUN", store.args[1][0])

	failing := &fakeStore{execErr: errors.New("connection refused")}
	assert.Error(t, CreateRun(context.Background(), failing, "01RUN", "batch"))
}

func TestDBCredsURL(t *testing.T) {
	creds := DBCreds{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "hcad"}
	assert.Equal(t, "postgresql://u:p@db:5432/hcad", creds.URL())
}
