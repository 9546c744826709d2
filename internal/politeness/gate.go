package politeness

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/mwalsh/crawlsite/internal/fetch"
)

// DefaultCrawlDelay is used when robots.txt advertises no crawl-delay.
const DefaultCrawlDelay = 2 * time.Second

// Gate combines the host's robots.txt directives with a rate limiter
// enforcing minimum spacing between requests.
//
// Design decision: The limiter is a burst-1 token bucket
// (golang.org/x/time/rate). Waiting on it blocks until the earliest
// permitted request time and then pushes that time forward by one crawl
// delay, which is exactly the "next request clock" the crawler needs.
type Gate struct {
	// userAgent is the agent name matched against robots.txt groups.
	userAgent string

	// obey is false when robots compliance is disabled, either by
	// configuration or because robots.txt could not be fetched.
	obey bool

	// group holds the directive group for userAgent. Nil until Load, or
	// when robots.txt was unavailable.
	group *robotstxt.Group

	// sitemaps lists sitemap URLs advertised by robots.txt.
	sitemaps []string

	// delay is the enforced spacing between requests.
	delay time.Duration

	// limiter paces all network requests.
	limiter *rate.Limiter

	logger *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithObeyRobots controls whether robots.txt directives are enforced.
// The rate limit applies either way.
func WithObeyRobots(obey bool) GateOption {
	return func(g *Gate) {
		g.obey = obey
	}
}

// WithDelay overrides the delay used before robots.txt is loaded and
// when it advertises no crawl-delay.
func WithDelay(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.delay = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = l
	}
}

// NewGate creates a gate for the given user agent. Call Load to fetch
// the host's robots.txt; until then the gate permits everything at the
// default delay.
func NewGate(userAgent string, opts ...GateOption) *Gate {
	g := &Gate{
		userAgent: userAgent,
		obey:      true,
		delay:     DefaultCrawlDelay,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.limiter = rate.NewLimiter(rate.Every(g.delay), 1)
	return g
}

// Load fetches and parses https://host/robots.txt through the given
// transport. A transport failure disables robots checking for the run
// (fail-open) and keeps the default delay; it is not an error.
func (g *Gate) Load(ctx context.Context, client *fetch.Client, host string) {
	robotsURL := "https://" + host + "/robots.txt"
	g.logger.Info("loading robots.txt", "url", robotsURL)

	if err := g.Wait(ctx); err != nil {
		return
	}

	resp, err := client.Get(ctx, robotsURL, nil)
	if err != nil {
		g.logger.Info("no robots.txt reachable, robots checking disabled", "host", host, "error", err)
		g.obey = false
		return
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, resp.Body)
	if err != nil {
		g.logger.Info("robots.txt unparseable, robots checking disabled", "host", host, "error", err)
		g.obey = false
		return
	}

	g.group = data.FindGroup(g.userAgent)
	g.sitemaps = data.Sitemaps

	if g.group != nil && g.group.CrawlDelay > 0 {
		g.delay = g.group.CrawlDelay
	}
	g.limiter = rate.NewLimiter(rate.Every(g.delay), 1)

	g.logger.Info("robots.txt loaded",
		"host", host,
		"crawlDelay", g.delay,
		"sitemaps", len(g.sitemaps),
	)
}

// CanFetch reports whether the host's directives permit fetching the
// URL's path for the configured user agent. Always true when robots
// compliance is disabled.
func (g *Gate) CanFetch(rawURL string) bool {
	if !g.obey || g.group == nil {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return g.group.Test(path)
}

// Delay returns the enforced spacing between requests: the robots.txt
// crawl-delay when advertised, else the configured default.
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Sitemaps returns the sitemap URLs advertised by robots.txt.
func (g *Gate) Sitemaps() []string {
	return g.sitemaps
}

// Obeying reports whether robots.txt directives are being enforced.
func (g *Gate) Obeying() bool {
	return g.obey
}

// Wait blocks until the rate limit permits the next request, then
// reserves the following slot. It returns early with the context's
// error when the crawl is cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
