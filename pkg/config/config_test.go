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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
portal:
  url: https://example.test
  search_timeout: 20s
  settle_delay: 2s
  requests_per_minute: 12
  headless: false
matching:
  confidence_threshold: 0.7
  abbreviation_retry: 0.9
output:
  results_path: out.csv
db_creds:
  host: localhost
  username: hcad
  password: secret
  database: appraisal
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test", cfg.Portal.URL)
	assert.Equal(t, Duration(20*time.Second), cfg.Portal.SearchTimeout)
	assert.Equal(t, 12.0, cfg.Portal.RequestsPerMinute)
	assert.False(t, cfg.Portal.Headless)
	assert.Equal(t, 0.7, cfg.Matcher().ConfidenceThreshold)
	assert.Equal(t, 0.9, cfg.Matcher().AbbreviationRetry)
	assert.Equal(t, "out.csv", cfg.Output.ResultsPath)
	// untouched keys keep their defaults
	assert.Equal(t, "temp", cfg.Output.CheckpointDir)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	pc := cfg.PortalConfig()
	assert.Equal(t, 2*time.Second, pc.SettleDelay)

	creds, ok := cfg.Database()
	assert.True(t, ok)
	assert.Equal(t, "5432", creds.Port)
	assert.Equal(t, "appraisal", creds.Database)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "portal:\n  search_timeout: soon\n"},
		{"threshold out of range", "matching:\n  confidence_threshold: 1.5\n"},
		{"negative rate", "portal:\n  requests_per_minute: -1\n"},
		{"not yaml", "portal: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.6, cfg.Matcher().ConfidenceThreshold)
	assert.Equal(t, 50*time.Second, cfg.PortalConfig().SearchTimeout)

	_, ok := cfg.Database()
	assert.False(t, ok)
}
