package statuspage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/patrickmn/go-cache"
)

// Config holds what the client needs to reach one status page.
type Config struct {
	URL           string
	AggregateName string
	Timeout       time.Duration
	UserAgent     string
	CacheTTL      time.Duration
}

// Client fetches and parses the summary of a status page.
type Client struct {
	cfg        Config
	httpClient *http.Client
	validators *cache.Cache
	now        func() time.Time
}

// cachedResponse is what a conditional request falls back to on 304.
type cachedResponse struct {
	etag         string
	lastModified string
	snapshot     Snapshot
}

// NewClient creates a client. Zero values in cfg fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = constants.DefaultSummaryURL
	}
	if cfg.AggregateName == "" {
		cfg.AggregateName = constants.DefaultAggregateName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.DefaultUserAgent
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.DefaultCacheTTL
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		validators: cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		now:        time.Now,
	}
}

// URL returns the summary endpoint this client polls.
func (c *Client) URL() string {
	return c.cfg.URL
}

// Fetch performs one GET of the summary endpoint. Every failure wraps ErrFetch.
// A 304 reply to a conditional request yields the cached snapshot and
// notModified set to true.
func (c *Client) Fetch(ctx context.Context) (snapshot Snapshot, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderUserAgent, c.cfg.UserAgent)

	cached, hasCached := c.cached()
	if hasCached {
		if cached.etag != "" {
			req.Header.Set(constants.HeaderIfNoneMatch, cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set(constants.HeaderIfModifiedSince, cached.lastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && hasCached {
		// Keep the validators alive for another TTL.
		c.validators.Set(c.cfg.URL, cached, cache.DefaultExpiration)
		snapshot = cached.snapshot.Clone()
		snapshot.FetchedAt = c.now()
		return snapshot, true, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, false, fmt.Errorf("%w: unexpected status code %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxSummaryBytes))
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	snapshot, err = Parse(body, c.cfg.AggregateName)
	if err != nil {
		return Snapshot{}, false, err
	}
	snapshot.FetchedAt = c.now()

	etag := resp.Header.Get(constants.HeaderETag)
	lastModified := resp.Header.Get(constants.HeaderLastModified)
	if etag != "" || lastModified != "" {
		c.validators.Set(c.cfg.URL, cachedResponse{
			etag:         etag,
			lastModified: lastModified,
			snapshot:     snapshot.Clone(),
		}, cache.DefaultExpiration)
	} else {
		c.validators.Delete(c.cfg.URL)
	}

	return snapshot, false, nil
}

func (c *Client) cached() (cachedResponse, bool) {
	item, found := c.validators.Get(c.cfg.URL)
	if !found {
		return cachedResponse{}, false
	}
	return item.(cachedResponse), true
}
