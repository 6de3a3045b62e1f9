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

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rapiinel/hcad-search/internal/matcher"
	"github.com/rapiinel/hcad-search/internal/metrics"
	"github.com/rapiinel/hcad-search/pkg/utils"
)

// ScoreRequest compares one query address with one candidate address.
type ScoreRequest struct {
	Query     string `json:"query" binding:"required"`
	Candidate string `json:"candidate" binding:"required"`
}

// MatchRequest ranks a listing for a query address.
type MatchRequest struct {
	Query      string           `json:"query" binding:"required"`
	Candidates []CandidateInput `json:"candidates"`
}

// CandidateInput is one listing row. Its position is used as the row id.
type CandidateInput struct {
	Account string `json:"account"`
	Address string `json:"address"`
}

// SkippedRow reports a listing row that was not scored.
type SkippedRow struct {
	ID      int    `json:"id"`
	Account string `json:"account"`
	Reason  string `json:"reason"`
}

// MatchResponse is the ranking outcome of a MatchRequest.
type MatchResponse struct {
	Query     string         `json:"query"`
	Best      *matcher.Match `json:"best"`
	BestScore float64        `json:"best_score"`
	Evaluated int            `json:"evaluated"`
	Skipped   []SkippedRow   `json:"skipped,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

func ScoreHandler(scorer *matcher.Scorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utils.Failure(err))
			return
		}

		c.JSON(http.StatusOK, utils.Success("", gin.H{
			"query":      req.Query,
			"candidate":  req.Candidate,
			"normalized": gin.H{"query": matcher.Normalize(req.Query), "candidate": matcher.Normalize(req.Candidate)},
			"score":      scorer.Score(req.Query, req.Candidate),
		}))
	}
}

func MatchHandler(ranker *matcher.Ranker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, utils.Failure(err))
			return
		}

		candidates := make([]matcher.Candidate, len(req.Candidates))
		for i, in := range req.Candidates {
			candidates[i] = matcher.Candidate{ID: i, Account: in.Account, Address: in.Address}
		}

		ranking, err := ranker.FindBestMatch(req.Query, candidates)
		if ranking.Evaluated > 0 {
			metrics.ObserveMatchScore(ranking.BestScore)
		}
		metrics.AddCandidatesSkipped(len(ranking.Skipped))
		resp := MatchResponse{
			Query:     req.Query,
			Best:      ranking.Best,
			BestScore: ranking.BestScore,
			Evaluated: ranking.Evaluated,
		}
		for _, skip := range ranking.Skipped {
			resp.Skipped = append(resp.Skipped, SkippedRow{ID: skip.Candidate.ID, Account: skip.Candidate.Account, Reason: skip.Err.Error()})
		}

		switch {
		case err == nil:
			c.JSON(http.StatusOK, utils.Success("Match found", resp))
		case errors.Is(err, matcher.ErrNoCandidates), errors.Is(err, matcher.ErrNoConfidentMatch):
			resp.Reason = err.Error()
			c.JSON(http.StatusOK, utils.Success("No suitable match found", resp))
		default:
			_ = c.Error(err)
			c.Status(http.StatusInternalServerError)
		}
	}
}

func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		zuluTime := time.Now().UTC().Format(time.RFC3339)
		c.JSON(http.StatusOK, gin.H{
			"status":   "OK",
			"zuluTime": zuluTime,
		})
	}
}

// SetupRoutes registers the API on router.
func SetupRoutes(router *gin.Engine, ranker *matcher.Ranker, logger *utils.Logger) {
	metrics.Register()
	router.Use(RequestLogger(logger), ErrorHandler())

	router.GET("/health", HealthCheckHandler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	bodies := router.Group("/", RequestValidator())
	bodies.POST("/score", ScoreHandler(ranker.Scorer()))
	bodies.POST("/match", MatchHandler(ranker))
}
