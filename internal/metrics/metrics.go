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

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	addressesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hcad_search",
		Name:      "addresses_processed_total",
		Help:      "Total number of addresses processed by outcome",
	}, []string{"status"})
	searchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hcad_search",
		Name:      "search_failures_total",
		Help:      "Total number of failed portal searches by reason",
	}, []string{"reason"})
	candidatesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hcad_search",
		Name:      "candidates_skipped_total",
		Help:      "Total number of listing rows skipped as malformed",
	})
	matchScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hcad_search",
		Name:      "best_match_score",
		Help:      "Histogram of the best candidate score per address",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hcad_search",
		Name:      "search_duration_seconds",
		Help:      "Histogram of portal search durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(addressesProcessed, searchFailures, candidatesSkipped, matchScore, searchDuration)
	})
}

// Address and search lifecycle helpers
func IncAddressProcessed(status string)     { addressesProcessed.WithLabelValues(status).Inc() }
func IncSearchFailure(reason string)        { searchFailures.WithLabelValues(reason).Inc() }
func AddCandidatesSkipped(n int)            { candidatesSkipped.Add(float64(n)) }
func ObserveMatchScore(score float64)       { matchScore.Observe(score) }
func ObserveSearchDuration(d time.Duration) { searchDuration.Observe(d.Seconds()) }
