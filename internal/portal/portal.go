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

// Package portal drives the county appraisal search site through headless
// Chrome. It implements the search and record collaborators used by the
// appraisal orchestrator.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rapiinel/hcad-search/internal/appraisal"
	"github.com/rapiinel/hcad-search/internal/matcher"
	"github.com/rapiinel/hcad-search/internal/record"
	"github.com/rapiinel/hcad-search/pkg/utils"
)

const (
	DefaultURL           = "https://search.hcad.org"
	DefaultSearchTimeout = 50 * time.Second
	DefaultSettleDelay   = 15 * time.Second

	searchInput = "input.searchTerm"
)

// Config holds browser settings.
type Config struct {
	URL           string
	SearchTimeout time.Duration
	SettleDelay   time.Duration
	Headless      bool
}

// DefaultConfig returns the settings used against the live portal.
func DefaultConfig() Config {
	return Config{
		URL:           DefaultURL,
		SearchTimeout: DefaultSearchTimeout,
		SettleDelay:   DefaultSettleDelay,
		Headless:      true,
	}
}

// Portal is one browser tab on the appraisal site. It is not safe for
// concurrent use; the orchestrator processes one address at a time.
type Portal struct {
	cfg         Config
	logger      *utils.Logger
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// Open launches the browser and loads the start page. Any failure here means
// the portal cannot be used and is reported as appraisal.ErrUnreachable.
func Open(ctx context.Context, cfg Config, logger *utils.Logger) (*Portal, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if logger == nil {
		logger = utils.Discard()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", cfg.Headless))
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Printf))

	p := &Portal{
		cfg:         cfg,
		logger:      logger,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}

	runCtx, cancel := p.bound(ctx, cfg.SearchTimeout)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(cfg.URL), chromedp.WaitVisible(searchInput, chromedp.ByQuery)); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: open %s: %v", appraisal.ErrUnreachable, cfg.URL, err)
	}
	logger.Info("Connected to %s", cfg.URL)
	return p, nil
}

// Close shuts down the tab and the browser process.
func (p *Portal) Close() {
	p.cancelTab()
	p.cancelAlloc()
}

// Search loads the start page, types the address and reads the listing.
func (p *Portal) Search(ctx context.Context, address string) ([]matcher.Candidate, error) {
	runCtx, cancel := p.bound(ctx, p.cfg.SearchTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(p.cfg.URL),
		chromedp.WaitVisible(searchInput, chromedp.ByQuery),
	); err != nil {
		return nil, p.classify(ctx, runCtx, "navigate", err)
	}

	var state string
	if err := chromedp.Run(runCtx,
		chromedp.SendKeys(searchInput, address, chromedp.ByQuery),
		chromedp.Poll(listingStateJS(), &state,
			chromedp.WithPollingInterval(250*time.Millisecond),
			chromedp.WithPollingTimeout(p.cfg.SearchTimeout),
		),
	); err != nil {
		return nil, p.classify(ctx, runCtx, "wait for listing", err)
	}
	if state == stateEmpty {
		p.logger.Debug("Portal has no listing for %q", address)
		return nil, nil
	}

	var rows []listingEntry
	if err := chromedp.Run(runCtx, chromedp.Evaluate(readListingJS, &rows)); err != nil {
		return nil, p.classify(ctx, runCtx, "read listing", err)
	}

	candidates := parseListing(rows)
	p.logger.Debug("Listing for %q has %d rows", address, len(candidates))
	return candidates, nil
}

// OpenAndExtract clicks the listing row of c and extracts the record page.
func (p *Portal) OpenAndExtract(ctx context.Context, c matcher.Candidate) (record.Fields, error) {
	runCtx, cancel := p.bound(ctx, p.cfg.SearchTimeout+p.cfg.SettleDelay)
	defer cancel()

	account, err := json.Marshal(c.Account)
	if err != nil {
		return nil, err
	}

	var clicked bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(fmt.Sprintf(clickRowJS, c.ID, account), &clicked)); err != nil {
		return nil, p.classify(ctx, runCtx, "click row", err)
	}
	if !clicked {
		return nil, fmt.Errorf("row %d account %s: %w", c.ID, c.Account, appraisal.ErrCandidateMissing)
	}

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(p.cfg.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, p.classify(ctx, runCtx, "load record", err)
	}

	return record.Extract(html)
}

// bound derives a browser context that expires after d and is also cancelled
// with the caller's ctx.
func (p *Portal) bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(p.ctx, d)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// classify maps a browser failure onto the appraisal error set.
func (p *Portal) classify(ctx, runCtx context.Context, op string, err error) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%s: %w", op, ctx.Err())
	case p.ctx.Err() != nil:
		return fmt.Errorf("%s: %w: %v", op, appraisal.ErrUnreachable, err)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded), errors.Is(err, chromedp.ErrPollingTimeout):
		return fmt.Errorf("%s: %w after %s", op, appraisal.ErrSearchTimeout, p.cfg.SearchTimeout)
	default:
		return fmt.Errorf("%s: %w: %v", op, appraisal.ErrSearchUnavailable, err)
	}
}

const readListingJS = `Array.from(document.querySelectorAll('.searchtr')).map(function (tr) {
	var div = tr.querySelector('td div');
	var b = tr.querySelector('td div b');
	return {
		text: div ? div.innerText : '',
		account: b ? b.innerText : '',
		complete: !!(div && b)
	};
})`

const clickRowJS = `(function (i, account) {
	var rows = document.querySelectorAll('.searchtr');
	if (i < 0 || i >= rows.length) return false;
	var b = rows[i].querySelector('td div b');
	if (!b || b.innerText.trim() !== account) return false;
	rows[i].click();
	return true;
})(%d, %s)`
