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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/rapiinel/hcad-search/internal/appraisal"
	"github.com/rapiinel/hcad-search/internal/matcher"
	"github.com/rapiinel/hcad-search/internal/metrics"
	"github.com/rapiinel/hcad-search/internal/portal"
	"github.com/rapiinel/hcad-search/pkg/config"
	"github.com/rapiinel/hcad-search/pkg/csvio"
	"github.com/rapiinel/hcad-search/pkg/db"
)

var (
	inputPath  string
	outputPath string
	threshold  float64
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match every address in the input file and extract its record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Matching.ConfidenceThreshold = threshold
		}
		if outputPath != "" {
			cfg.Output.ResultsPath = outputPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		addresses, err := csvio.ReadAddresses(inputPath)
		if err != nil {
			return err
		}
		if len(addresses) == 0 {
			return fmt.Errorf("no addresses found in %s", inputPath)
		}
		logger.Info("Loaded %d addresses from %s", len(addresses), inputPath)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		metrics.Register()

		browser, err := portal.Open(ctx, cfg.PortalConfig(), logger)
		if err != nil {
			return err
		}
		defer browser.Close()

		batch, runErr := newOrchestrator(cfg, browser, len(addresses)).Run(ctx, addresses)
		if runErr != nil {
			logger.Error("Batch stopped after %d of %d addresses: %v", len(batch.Results), len(addresses), runErr)
		}

		if err := csvio.WriteResults(cfg.Output.ResultsPath, batch.Results); err != nil {
			return err
		}
		logger.Info("Information saved to %s", cfg.Output.ResultsPath)

		if err := persist(context.WithoutCancel(ctx), cfg, batch); err != nil {
			logger.Error("Unable to store run %s: %v", batch.RunID, err)
		}

		printSummary(cmd.OutOrStdout(), batch)
		return runErr
	},
}

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "Property_address.csv", "CSV file with the addresses to look up")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "results CSV (overrides output.results_path)")
	runCmd.Flags().Float64Var(&threshold, "threshold", matcher.DefaultConfig().ConfidenceThreshold, "minimum score a match must exceed")
}

func newOrchestrator(cfg *config.Config, browser *portal.Portal, total int) *appraisal.Orchestrator {
	ranker := matcher.NewRanker(matcher.NewScorer(matcher.DefaultRules(), cfg.Matcher()))
	bar := progressbar.Default(int64(total), "matching")

	opts := []appraisal.Option{
		appraisal.WithLogger(logger),
		appraisal.WithDebugDir(cfg.Output.DebugDir),
		appraisal.WithObserver(func(r appraisal.Result) {
			_ = bar.Add(1)
			if cfg.Output.CheckpointDir == "" {
				return
			}
			if _, err := csvio.WriteCheckpoint(cfg.Output.CheckpointDir, r); err != nil {
				logger.Error("Unable to write checkpoint for %s: %v", r.Key, err)
			}
		}),
	}
	if rpm := cfg.Portal.RequestsPerMinute; rpm > 0 {
		opts = append(opts, appraisal.WithLimiter(rate.NewLimiter(rate.Limit(rpm/60), 1)))
	}
	return appraisal.New(browser, browser, ranker, opts...)
}

// persist stores the run in Postgres when database credentials are configured.
func persist(ctx context.Context, cfg *config.Config, batch *appraisal.Batch) error {
	creds, ok := cfg.Database()
	if !ok {
		return nil
	}

	pool, err := db.NewConnection(ctx, creds)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	if err := db.CreateRun(ctx, pool, batch.RunID, fmt.Sprintf("Appraisal batch from %s", inputPath)); err != nil {
		return err
	}
	count, err := db.SaveResults(ctx, pool, batch.RunID, batch.Results)
	if err != nil {
		return err
	}
	logger.Info("Copied %d rows to appraisal_results for run %s", count, batch.RunID)
	return nil
}

func printSummary(w io.Writer, batch *appraisal.Batch) {
	s := batch.Summary
	fmt.Fprintf(w, "\nRun %s\n", batch.RunID)
	fmt.Fprintf(w, "  addresses:          %d\n", s.Total)
	fmt.Fprintf(w, "  matched:            %d\n", s.Matched)
	fmt.Fprintf(w, "  extraction failed:  %d\n", s.ExtractionFailed)
	fmt.Fprintf(w, "  unmatched:          %d\n", s.Unmatched)
	fmt.Fprintf(w, "  skipped rows:       %d\n", s.SkippedCandidates)
	fmt.Fprintf(w, "  mean / median score: %.2f / %.2f\n", s.MeanScore, s.MedianScore)
	if len(s.UnmatchedQueries) > 0 {
		fmt.Fprintln(w, "No suitable match found for:")
		for _, q := range s.UnmatchedQueries {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
}
