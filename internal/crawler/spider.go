package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mwalsh/crawlsite/internal/archive"
	"github.com/mwalsh/crawlsite/internal/database"
	"github.com/mwalsh/crawlsite/internal/fetch"
	"github.com/mwalsh/crawlsite/internal/model"
	"github.com/mwalsh/crawlsite/internal/politeness"
	"github.com/mwalsh/crawlsite/internal/sitemap"
	"github.com/mwalsh/crawlsite/internal/urlnorm"
)

// Fetcher is the transport the spider fetches through. fetch.Client is
// the production implementation; tests substitute an in-memory fake.
type Fetcher interface {
	Head(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error)
	Get(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error)
}

// DefaultCacheLimit is how long a fetched page stays fresh before it is
// eligible for refetching.
const DefaultCacheLimit = 24 * time.Hour

// Spider drives the crawl: it drains the frontier sequentially, consults
// the politeness gate before every request, and grows the frontier with
// the links each page yields.
type Spider struct {
	// host is the crawl's home host, lowercased.
	host string

	// client is the HTTP transport.
	client Fetcher

	// gate enforces robots.txt and request spacing.
	gate *politeness.Gate

	// session is the persistent state this run loads from and saves to.
	session *model.Session

	// frontier is the in-memory view of session.Pages with its drain order.
	frontier *Frontier

	// cacheLimit is the freshness window in seconds. Zero disables
	// caching entirely.
	cacheLimit int64

	// headers are per-site extra request headers (cookies and the like).
	headers map[string]string

	// files archives fetched bodies when non-nil.
	files *archive.Writer

	// history records completed fetches when non-nil.
	history *database.CrawlDB

	logger *slog.Logger

	// now is stubbed in tests.
	now func() int64
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithCacheLimit sets the freshness window. Zero forces every page to be
// refetched regardless of prior visits.
func WithCacheLimit(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.cacheLimit = int64(d / time.Second)
	}
}

// WithExtraHeaders sets additional headers sent with every page request.
func WithExtraHeaders(h map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = h
	}
}

// WithArchive enables body archiving through the given writer.
func WithArchive(w *archive.Writer) SpiderOption {
	return func(s *Spider) {
		s.files = w
	}
}

// WithHistory enables fetch-history recording to the given database.
func WithHistory(db *database.CrawlDB) SpiderOption {
	return func(s *Spider) {
		s.history = db
	}
}

// WithSpiderLogger sets the logger. Defaults to slog.Default.
func WithSpiderLogger(l *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = l
	}
}

// WithClock replaces the time source. Used by cache expiry tests.
func WithClock(now func() int64) SpiderOption {
	return func(s *Spider) {
		s.now = now
	}
}

// NewSpider creates a spider for the given home host. The frontier is
// rebuilt from the session's pages so prior runs resume instead of
// starting over.
func NewSpider(host string, client Fetcher, gate *politeness.Gate, session *model.Session, opts ...SpiderOption) *Spider {
	s := &Spider{
		host:       strings.ToLower(host),
		client:     client,
		gate:       gate,
		session:    session,
		frontier:   NewFrontier(),
		cacheLimit: int64(DefaultCacheLimit / time.Second),
		logger:     slog.Default(),
		now:        func() int64 { return time.Now().Unix() },
	}

	for _, opt := range opts {
		opt(s)
	}

	s.frontier.Load(session.Pages)
	session.Pages = s.frontier.Pages()

	return s
}

// HomeURL returns the canonical URL of the crawl's home page.
func (s *Spider) HomeURL() string {
	return "https://" + s.host + "/"
}

// Frontier exposes the spider's frontier, mainly for tests and reports.
func (s *Spider) Frontier() *Frontier {
	return s.frontier
}

// Crawl drains the frontier until the iteration index reaches the end of
// the (possibly still growing) key list. Per URL it skips anything
// outside the home host, denied by robots, or still cache-fresh, and
// extracts the rest. Cancellation is checked at the top of every
// iteration; the caller is responsible for saving the session whichever
// way Crawl returns.
func (s *Spider) Crawl(ctx context.Context) error {
	if s.frontier.Len() == 0 {
		if err := s.Discover(ctx, s.HomeURL()); err != nil {
			return err
		}
	}

	s.logger.Info("crawling site",
		"host", s.host,
		"delay", s.gate.Delay(),
		"known", s.frontier.Len(),
	)

	for idx := 0; idx < s.frontier.Len(); idx++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("crawl cancelled", "visited", idx)
			return err
		}

		crawlURL := s.frontier.At(idx)

		if !s.inHost(crawlURL) {
			s.logger.Debug("skipping external URL", "url", crawlURL)
			continue
		}

		if !s.gate.CanFetch(crawlURL) {
			s.logger.Info("URL fetch prevented by robots.txt", "url", crawlURL)
			continue
		}

		if r, ok := s.frontier.Get(crawlURL); ok && r.Fetched() && !r.Expired(s.now()) {
			s.logger.Debug("skipping cache-fresh URL", "url", crawlURL)
			continue
		}

		if err := s.Extract(ctx, crawlURL); err != nil {
			return err
		}
	}

	s.logger.Info("crawling complete", "pages", s.frontier.Len())
	return nil
}

// Discover registers a canonical URL in the frontier and probes it with
// a HEAD request to learn its MIME type before any GET. Fresh,
// unexpired entries are left untouched. The only error returned is the
// context's; a failed probe just leaves the head fields unset.
func (s *Spider) Discover(ctx context.Context, canonical string) error {
	if r, ok := s.frontier.Get(canonical); ok && !r.Expired(s.now()) {
		return nil
	}

	r := model.NewPageRecord(canonical, s.cacheLimit)
	s.frontier.Put(canonical, r)

	if err := s.gate.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.client.Head(ctx, canonical, s.headers)
	if err != nil {
		s.logger.Info("HEAD probe failed", "url", canonical, "error", err)
		return nil
	}

	r.HeadStatus = resp.StatusCode
	r.MimeType = resp.MimeType()
	s.logger.Debug("discovered", "url", canonical, "mime", r.MimeType, "status", r.HeadStatus)
	return nil
}

// Extract fetches a page and folds its links into the frontier. It is a
// no-op for cache-fresh records and for records whose probed MIME type
// is known to not be HTML. A transport failure leaves the record
// unfetched and the crawl moves on; an HTTP error status is recorded but
// the body is not parsed.
func (s *Spider) Extract(ctx context.Context, pageURL string) error {
	r, ok := s.frontier.Get(pageURL)
	if !ok {
		if err := s.Discover(ctx, pageURL); err != nil {
			return err
		}
		r, _ = s.frontier.Get(pageURL)
	}

	if r.Fetched() && !r.Expired(s.now()) {
		s.logger.Debug("skipping cache-fresh URL", "url", pageURL)
		return nil
	}

	if r.MimeType != "" && !r.IsHTML() {
		s.logger.Info("skipping non-HTML MIME type", "url", pageURL, "mime", r.MimeType)
		return nil
	}

	s.logger.Info("extracting links", "url", pageURL)

	if err := s.gate.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.client.Get(ctx, pageURL, s.headers)
	if err != nil {
		s.logger.Error("GET request failed", "url", pageURL, "error", err)
		return nil
	}

	r.Stamp(resp.StatusCode, s.now(), s.cacheLimit)

	if !resp.OK() {
		s.logger.Info("non-200 response, body not parsed", "url", pageURL, "status", resp.StatusCode)
		return nil
	}

	// The HEAD probe can be missing or stale; trust the GET's view.
	if mime := resp.MimeType(); mime != "" {
		r.MimeType = mime
	}
	if !r.IsHTML() {
		s.logger.Info("skipping non-HTML MIME type", "url", pageURL, "mime", r.MimeType)
		return nil
	}

	if s.files != nil {
		loc, err := s.files.Write(resp.Body)
		if err != nil {
			s.logger.Error("failed archiving body", "url", pageURL, "error", err)
		} else {
			r.FileLoc = loc
		}
	}

	if s.history != nil {
		rec := &database.FetchRecord{
			URL:        pageURL,
			Host:       s.host,
			StatusCode: r.StatusCode,
			MimeType:   r.MimeType,
			BodyHash:   archive.ContentHash(resp.Body),
		}
		if _, err := s.history.InsertFetch(ctx, rec); err != nil {
			s.logger.Error("failed recording fetch history", "url", pageURL, "error", err)
		}
	}

	result, err := ParseHTML(bytes.NewReader(resp.Body))
	if err != nil {
		s.logger.Error("failed parsing HTML", "url", pageURL, "error", err)
		return nil
	}

	r.Images = result.Images

	for _, href := range result.Hrefs {
		canonical, err := urlnorm.Normalize(href, s.host)
		if err != nil {
			s.logger.Info("malformed href", "page", pageURL, "href", href)
			r.Malformed = append(r.Malformed, href)
			continue
		}

		r.Links[stripFragment(href)] = canonical

		if !s.inHost(canonical) {
			if s.session.AddExternalHost(hostOf(canonical)) {
				s.logger.Info("found new external host", "host", hostOf(canonical))
			}
			s.session.AddExternalLink(canonical)
		}

		// A self-link must not re-discover the page mid-extraction: with a
		// zero cache limit that would reset the record being filled in.
		if canonical == pageURL {
			continue
		}

		if err := s.Discover(ctx, canonical); err != nil {
			return err
		}
	}

	return nil
}

// LoadSitemaps merges robots.txt sitemap URLs into the session, fetches
// each sitemap, and discovers every <loc> entry that canonicalizes.
func (s *Spider) LoadSitemaps(ctx context.Context) error {
	for _, sm := range s.gate.Sitemaps() {
		if !containsString(s.session.Sitemap, sm) {
			s.session.Sitemap = append(s.session.Sitemap, sm)
		}
	}

	for _, sm := range s.session.Sitemap {
		if err := s.gate.Wait(ctx); err != nil {
			return err
		}

		resp, err := s.client.Get(ctx, sm, s.headers)
		if err != nil {
			s.logger.Info("sitemap fetch failed", "url", sm, "error", err)
			continue
		}
		if !resp.OK() {
			s.logger.Info("sitemap returned error status", "url", sm, "status", resp.StatusCode)
			continue
		}

		locs, err := sitemap.ParseLocs(bytes.NewReader(resp.Body))
		if err != nil {
			s.logger.Info("sitemap unparseable", "url", sm, "error", err)
			continue
		}

		s.logger.Info("sitemap loaded", "url", sm, "locations", len(locs))

		for _, loc := range locs {
			canonical, err := urlnorm.Normalize(loc, s.host)
			if err != nil {
				continue
			}
			if err := s.Discover(ctx, canonical); err != nil {
				return err
			}
		}
	}

	return nil
}

// inHost reports whether a canonical URL belongs to the crawl's home
// host. The original used containment rather than equality so that
// subdomains embedding the home host count as internal; that behavior
// is kept.
func (s *Spider) inHost(canonical string) bool {
	h := hostOf(canonical)
	return h != "" && strings.Contains(h, s.host)
}

// hostOf returns the lowercased host of a URL, or "" when unparseable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// stripFragment removes the fragment from a raw href, producing the key
// used in a record's links map.
func stripFragment(href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[:i]
	}
	return href
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
