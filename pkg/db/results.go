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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rapiinel/hcad-search/internal/appraisal"
)

// Store is the subset of *pgxpool.Pool used to persist runs.
type Store interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS appraisal_results (
	run_id         TEXT NOT NULL REFERENCES runs (run_id),
	input_key      TEXT NOT NULL,
	search_address TEXT NOT NULL,
	account_number TEXT NOT NULL,
	status         TEXT NOT NULL,
	score          DOUBLE PRECISION NOT NULL,
	reason         TEXT,
	fields         JSONB NOT NULL
);`

var resultColumns = []string{
	"run_id", "input_key", "search_address", "account_number", "status", "score", "reason", "fields",
}

// EnsureSchema creates the run tables if they do not exist.
func EnsureSchema(ctx context.Context, store Store) error {
	if _, err := store.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// CreateRun records a new run.
func CreateRun(ctx context.Context, store Store, runID, description string) error {
	_, err := store.Exec(ctx, "INSERT INTO runs (run_id, description, started_at) VALUES ($1, $2, $3)", runID, description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create new run: %w", err)
	}
	return nil
}

// SaveResults copies every result row of a run into appraisal_results.
func SaveResults(ctx context.Context, store Store, runID string, results []appraisal.Result) (int64, error) {
	count, err := store.CopyFrom(ctx, pgx.Identifier{"appraisal_results"}, resultColumns, &resultSource{runID: runID, rows: results, idx: -1})
	if err != nil {
		return 0, fmt.Errorf("error copying results to database: %w", err)
	}
	return count, nil
}

// resultSource implements the pgx.CopyFromSource interface
type resultSource struct {
	runID string
	rows  []appraisal.Result
	idx   int
	err   error
}

func (s *resultSource) Next() bool {
	if s.err != nil {
		return false
	}
	s.idx++
	return s.idx < len(s.rows)
}

func (s *resultSource) Values() ([]interface{}, error) {
	r := s.rows[s.idx]
	fields, err := json.Marshal(r.Fields)
	if err != nil {
		s.err = fmt.Errorf("encode fields for %s: %w", r.Key, err)
		return nil, s.err
	}
	return []interface{}{s.runID, r.Key, r.Query, r.Account, string(r.Status), r.Score, r.Reason, fields}, nil
}

func (s *resultSource) Err() error {
	return s.err
}
