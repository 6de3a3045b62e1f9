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

// Package appraisal runs address batches against the appraisal portal: search,
// rank the listing, open the best record and collect its fields.
package appraisal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/rapiinel/hcad-search/internal/matcher"
	"github.com/rapiinel/hcad-search/internal/metrics"
	"github.com/rapiinel/hcad-search/internal/record"
	"github.com/rapiinel/hcad-search/pkg/utils"
)

// SearchProvider returns the listing rows for an address search.
type SearchProvider interface {
	Search(ctx context.Context, address string) ([]matcher.Candidate, error)
}

// RecordProvider opens a listing row and extracts its record fields.
type RecordProvider interface {
	OpenAndExtract(ctx context.Context, c matcher.Candidate) (record.Fields, error)
}

// Orchestrator processes addresses one at a time.
type Orchestrator struct {
	search   SearchProvider
	records  RecordProvider
	ranker   *matcher.Ranker
	logger   *utils.Logger
	limiter  *rate.Limiter
	debugDir string
	observe  func(Result)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for per-address reporting.
func WithLogger(l *utils.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithLimiter throttles searches.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *Orchestrator) { o.limiter = l }
}

// WithDebugDir saves the raw document of failed extractions under dir.
func WithDebugDir(dir string) Option {
	return func(o *Orchestrator) { o.debugDir = dir }
}

// WithObserver is called with every result as soon as it is final.
func WithObserver(fn func(Result)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// New creates an orchestrator over the given collaborators.
func New(search SearchProvider, records RecordProvider, ranker *matcher.Ranker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		search:  search,
		records: records,
		ranker:  ranker,
		logger:  utils.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes every address in order. Failures are contained per address;
// Run only stops early on context cancellation or ErrUnreachable, and then
// returns the results gathered so far together with the error.
func (o *Orchestrator) Run(ctx context.Context, addresses []Address) (*Batch, error) {
	batch := &Batch{
		RunID:   ulid.Make().String(),
		Results: make([]Result, 0, len(addresses)),
	}
	skipped := 0

	var runErr error
	for _, addr := range addresses {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		res, n, err := o.process(ctx, addr)
		skipped += n
		if res != nil {
			metrics.IncAddressProcessed(string(res.Status))
			batch.Results = append(batch.Results, *res)
			if o.observe != nil {
				o.observe(*res)
			}
		}
		if err != nil {
			runErr = err
			break
		}
	}

	batch.Summary = summarize(batch.Results, skipped)
	return batch, runErr
}

// process handles one address. The returned error is non-nil only when the
// batch must stop; the result is nil only when the address never reached a
// match and should not be reported.
func (o *Orchestrator) process(ctx context.Context, addr Address) (*Result, int, error) {
	o.logger.Info("Processing address: %s", addr.Query)
	res := Result{
		Key:     addr.Key,
		Query:   addr.Query,
		Account: Unmatched,
		Status:  StatusUnmatched,
		Fields:  record.Placeholder(),
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	start := time.Now()
	candidates, err := o.search.Search(ctx, addr.Query)
	metrics.ObserveSearchDuration(time.Since(start))
	if err != nil {
		if fatal(ctx, err) {
			return nil, 0, fmt.Errorf("search %q: %w", addr.Query, err)
		}
		metrics.IncSearchFailure(searchFailureReason(err))
		o.logger.Error("Search failed for address %s: %v", addr.Query, err)
		res.Reason = err.Error()
		return &res, 0, nil
	}

	ranking, err := o.ranker.FindBestMatch(addr.Query, candidates)
	for _, skip := range ranking.Skipped {
		o.logger.Debug("Skipping listing row: %v", skip)
	}
	metrics.AddCandidatesSkipped(len(ranking.Skipped))
	if ranking.Evaluated > 0 {
		metrics.ObserveMatchScore(ranking.BestScore)
	}
	res.Score = ranking.BestScore
	if err != nil {
		o.logger.Warn("No suitable match found for address: %s (%v)", addr.Query, err)
		res.Reason = err.Error()
		return &res, len(ranking.Skipped), nil
	}

	best := ranking.Best.Candidate
	o.logger.Info("Found best matching account number: %s (score %.2f)", best.Account, ranking.Best.Score)
	res.Account = best.Account

	fields, err := o.records.OpenAndExtract(ctx, best)
	if err != nil {
		o.logger.Error("Error extracting information for account %s: %v", best.Account, err)
		res.Status = StatusExtractionFailed
		res.Reason = err.Error()
		res.Fields = o.fallbackFields(addr, err)
		// A matched address is kept even when the batch has to stop here.
		if fatal(ctx, err) {
			return &res, len(ranking.Skipped), fmt.Errorf("open account %s: %w", best.Account, err)
		}
		return &res, len(ranking.Skipped), nil
	}

	res.Status = StatusMatched
	res.Fields = merge(fields)
	return &res, len(ranking.Skipped), nil
}

// fallbackFields builds the field set for a failed extraction and saves the raw
// document when one is available.
func (o *Orchestrator) fallbackFields(addr Address, err error) record.Fields {
	var xerr *record.ExtractionError
	if !errors.As(err, &xerr) {
		return record.Placeholder()
	}
	if o.debugDir != "" && xerr.Document != "" {
		if path, werr := o.saveDocument(addr.Key, xerr.Document); werr != nil {
			o.logger.Error("Unable to save debug document: %v", werr)
		} else {
			o.logger.Info("Saved record page to %s", path)
		}
	}
	return merge(xerr.Fields)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (o *Orchestrator) saveDocument(key, doc string) (string, error) {
	if err := os.MkdirAll(o.debugDir, 0o755); err != nil {
		return "", err
	}
	name := unsafeName.ReplaceAllString(key, "_")
	if name == "" {
		name = "record"
	}
	path := filepath.Join(o.debugDir, name+".html")
	return path, os.WriteFile(path, []byte(doc), 0o644)
}

// merge fills every missing field with record.NotAvailable.
func merge(fields record.Fields) record.Fields {
	out := record.Placeholder()
	for name := range out {
		out[name] = fields.Get(name)
	}
	return out
}

func fatal(ctx context.Context, err error) bool {
	return errors.Is(err, ErrUnreachable) || ctx.Err() != nil
}

func searchFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrSearchTimeout):
		return "timeout"
	case errors.Is(err, ErrSearchUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
