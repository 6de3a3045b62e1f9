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
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/rapiinel/hcad-search/internal/matcher"
	"github.com/rapiinel/hcad-search/internal/portal"
	"github.com/rapiinel/hcad-search/pkg/db"
)

// Duration is a time.Duration read from strings such as "50s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %v", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

type Config struct {
	Portal struct {
		URL               string   `yaml:"url"`
		SearchTimeout     Duration `yaml:"search_timeout"`
		SettleDelay       Duration `yaml:"settle_delay"`
		RequestsPerMinute float64  `yaml:"requests_per_minute"`
		Headless          bool     `yaml:"headless"`
	} `yaml:"portal"`

	Matching matcher.Config `yaml:"matching"`

	Output struct {
		ResultsPath   string `yaml:"results_path"`
		CheckpointDir string `yaml:"checkpoint_dir"`
		DebugDir      string `yaml:"debug_dir"`
	} `yaml:"output"`

	DBCreds struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"db_creds"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.Portal.URL = portal.DefaultURL
	c.Portal.SearchTimeout = Duration(portal.DefaultSearchTimeout)
	c.Portal.SettleDelay = Duration(portal.DefaultSettleDelay)
	c.Portal.Headless = true
	c.Matching = matcher.DefaultConfig()
	c.Output.ResultsPath = "Property_info_results.csv"
	c.Output.CheckpointDir = "temp"
	c.Output.DebugDir = "debug"
	c.DBCreds.Port = "5432"
	c.Server.Addr = ":8080"
	return &c
}

// LoadConfig loads the configuration from a YAML file over the defaults.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if c.Portal.URL == "" {
		return errors.New("portal: url is required")
	}
	if c.Portal.SearchTimeout <= 0 {
		return errors.New("portal: search_timeout must be positive")
	}
	if c.Portal.SettleDelay < 0 {
		return errors.New("portal: settle_delay must not be negative")
	}
	if c.Portal.RequestsPerMinute < 0 {
		return errors.New("portal: requests_per_minute must not be negative")
	}
	return nil
}

// Matcher returns the scoring thresholds.
func (c *Config) Matcher() matcher.Config {
	return c.Matching
}

// PortalConfig returns the browser settings.
func (c *Config) PortalConfig() portal.Config {
	return portal.Config{
		URL:           c.Portal.URL,
		SearchTimeout: time.Duration(c.Portal.SearchTimeout),
		SettleDelay:   time.Duration(c.Portal.SettleDelay),
		Headless:      c.Portal.Headless,
	}
}

// Database reports whether results should be persisted, and with which credentials.
func (c *Config) Database() (db.DBCreds, bool) {
	creds := db.DBCreds{
		Host:     c.DBCreds.Host,
		Port:     c.DBCreds.Port,
		Username: c.DBCreds.Username,
		Password: c.DBCreds.Password,
		Database: c.DBCreds.Database,
	}
	return creds, creds.Host != ""
}
