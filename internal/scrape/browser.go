// Package scrape fetches division standings pages with a headless browser
// and lifts their table rows.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// Options configures a Browser.
type Options struct {
	Origin            string
	League            config.League
	Cooldown          time.Duration
	NavigationTimeout time.Duration
	Bin               string
	Headless          bool
	UserAgent         string
}

// OptionsFromConfig maps the loaded configuration onto browser options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Origin:            cfg.SiteOrigin,
		League:            cfg.League,
		Cooldown:          cfg.FetchCooldown,
		NavigationTimeout: cfg.NavigationTimeout,
		Bin:               cfg.BrowserBin,
		Headless:          cfg.BrowserHeadless,
		UserAgent:         cfg.BrowserUserAgent,
	}
}

// Browser is a standings.ScrapeSource backed by a launched Chromium.
// Fetches are serialised through a limiter so consecutive page loads are
// separated by at least the configured cool-down.
type Browser struct {
	opts     Options
	logger   *slog.Logger
	limiter  *rate.Limiter
	launcher *launcher.Launcher
	browser  *rod.Browser
}

var _ standings.ScrapeSource = (*Browser)(nil)

// Launch starts a browser process and connects to it. Close must be called
// to stop the process.
func Launch(ctx context.Context, opts Options, logger *slog.Logger) (*Browser, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.UserAgent != "" {
		l = l.Set(flags.Flag("user-agent"), opts.UserAgent)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	logger.Debug("Browser connected", "control_url", controlURL, "headless", opts.Headless)
	return &Browser{
		opts:     opts,
		logger:   logger,
		limiter:  newLimiter(opts.Cooldown),
		launcher: l,
		browser:  b,
	}, nil
}

func newLimiter(cooldown time.Duration) *rate.Limiter {
	if cooldown <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(cooldown), 1)
}

// FetchDivision loads one division's standings page and parses its rows.
func (b *Browser) FetchDivision(ctx context.Context, season int, division standings.Division) ([]standings.RawRow, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for cool-down: %w", err)
	}

	u := DivisionURL(b.opts.Origin, b.opts.League, season, division)
	b.logger.Debug("Loading standings page", "division", division, "url", u)

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: u})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u, err)
	}
	defer func() { _ = page.Close() }()

	if _, err := page.Timeout(b.opts.NavigationTimeout).Element("table"); err != nil {
		return nil, fmt.Errorf("wait for standings table (%s): %w", division, err)
	}
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}
	return ParseStandings(strings.NewReader(html), division)
}

// Close shuts the browser and removes its profile directory.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}
