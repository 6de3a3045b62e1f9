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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapiinel/hcad-search/internal/matcher"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <query> <candidate>",
	Short: "Print the similarity score between two addresses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		scorer := matcher.NewScorer(matcher.DefaultRules(), cfg.Matcher())
		score := scorer.Score(args[0], args[1])

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "query:     %s\n", matcher.Normalize(args[0]))
		fmt.Fprintf(out, "candidate: %s\n", matcher.Normalize(args[1]))
		fmt.Fprintf(out, "score:     %.4f\n", score)
		if score > cfg.Matcher().ConfidenceThreshold {
			fmt.Fprintln(out, "match:     yes")
		} else {
			fmt.Fprintln(out, "match:     no")
		}
		return nil
	},
}
