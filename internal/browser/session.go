// Package browser owns the shared headless browser session and the
// navigation-safety protocol used against the target site. One session with a
// single fingerprint is held for the whole process: browser startup is
// expensive and the target's bot detection is sensitive to connection churn.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/metrics"
)

// Config controls the behavior of the browser session.
type Config struct {
	UserAgent         string
	ViewportWidth     int
	ViewportHeight    int
	NavigationTimeout time.Duration
	// PaceUnit scales every randomized pause. One second in production;
	// tests shrink it.
	PaceUnit time.Duration
}

// Stealth pause ranges, in pace units.
const (
	preNavigateMin  = 2
	preNavigateMax  = 5
	postLoadMin     = 3
	postLoadMax     = 6
	challengeCdMin  = 10
	challengeCdMax  = 15
	defaultViewW    = 1366
	defaultViewH    = 768
	defaultNavLimit = 45 * time.Second
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0"

// Session is the process-wide browser resource. The underlying chromedp
// context is created lazily on the first navigation, reused afterwards, and
// released by Close. Navigate never propagates transport errors; it reports
// per-attempt success only.
type Session struct {
	cfg    Config
	logger *zap.Logger

	mu            sync.Mutex
	started       bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	rng *rand.Rand

	// load performs the actual page load and is replaced in tests.
	load func(ctx context.Context, url string) (pageState, error)
}

type pageState struct {
	title string
	html  string
}

// New creates a Session. The browser itself is not launched until the first
// Navigate call.
func New(cfg Config, logger *zap.Logger) *Session {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = defaultViewW
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = defaultViewH
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavLimit
	}
	if cfg.PaceUnit <= 0 {
		cfg.PaceUnit = time.Second
	}
	s := &Session{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.load = s.loadWithBrowser
	return s
}

// Navigate loads a page through the shared session, pacing like a human and
// checking the result for anti-automation challenges. It returns the page
// HTML and whether the attempt succeeded. A detected challenge triggers an
// extended cooldown and a failed attempt; the caller decides whether to try
// again.
func (s *Session) Navigate(ctx context.Context, url string) (string, bool) {
	s.pause(ctx, preNavigateMin, preNavigateMax)
	if ctx.Err() != nil {
		return "", false
	}

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	start := time.Now()
	page, err := s.load(navCtx, url)
	if err != nil {
		metrics.ObserveNavigation("error", time.Since(start))
		s.logger.Warn("navigation failed", zap.String("url", url), zap.Error(err))
		return "", false
	}

	s.pause(ctx, postLoadMin, postLoadMax)

	if IsChallenge(page.title, page.html) {
		metrics.ObserveNavigation("challenge", time.Since(start))
		s.logger.Warn("bot challenge detected, cooling down", zap.String("url", url), zap.String("title", page.title))
		s.pause(ctx, challengeCdMin, challengeCdMax)
		return "", false
	}

	metrics.ObserveNavigation("ok", time.Since(start))
	return page.html, true
}

// Close tears the browser session down. Safe to call before any navigation
// and more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.browserCancel()
	s.allocCancel()
	s.started = false
}

// ensureStarted lazily launches the browser with the session's fingerprint.
func (s *Session) ensureStarted() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, fingerprintActions(s.cfg)...); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	s.started = true
	return s.browserCtx, nil
}

func (s *Session) loadWithBrowser(ctx context.Context, url string) (pageState, error) {
	browserCtx, err := s.ensureStarted()
	if err != nil {
		return pageState{}, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	go func() {
		// Propagate the per-navigation deadline into the tab.
		<-ctx.Done()
		cancel()
	}()

	var page pageState
	if err := chromedp.Run(tabCtx, s.tabActions(url, &page)...); err != nil {
		return pageState{}, fmt.Errorf("chromedp run: %w", err)
	}
	return page, nil
}

// tabActions is the full task list run in each fresh tab. Emulation overrides
// are scoped to a target's CDP session, so the fingerprint must be re-applied
// before every navigation; otherwise the tab loads with the stock headless UA
// and viewport.
func (s *Session) tabActions(url string, page *pageState) []chromedp.Action {
	actions := fingerprintActions(s.cfg)
	return append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Title(&page.title),
		chromedp.OuterHTML("html", &page.html, chromedp.ByQuery),
	)
}

// fingerprintActions pins the session's UA and viewport on a target.
func fingerprintActions(cfg Config) []chromedp.Action {
	return []chromedp.Action{
		emulation.SetUserAgentOverride(cfg.UserAgent),
		emulation.SetDeviceMetricsOverride(int64(cfg.ViewportWidth), int64(cfg.ViewportHeight), 1.0, false),
	}
}

// pause blocks for a random duration drawn uniformly from [min,max] pace
// units, returning early when the context finishes.
func (s *Session) pause(ctx context.Context, min, max float64) {
	units := min + s.rng.Float64()*(max-min)
	delay := time.Duration(units * float64(s.cfg.PaceUnit))
	if delay <= 0 {
		return
	}
	metrics.ObservePause("browser", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
