package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// StatusError is a non-2xx answer from an upstream site.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

type GetterOptions struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	Pacer         Pacer
	RespectRobots bool
	// CacheTTL bounds how long a fetched page is reused. Zero means 30 minutes,
	// long enough for one run.
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// Getter performs the single GET each extractor needs: browser-like headers,
// bounded timeout and body, pacing between network calls, and reuse of pages
// already fetched in this run (board pages do not depend on the keyword).
type Getter struct {
	hc        *http.Client
	pacer     Pacer
	cache     *gocache.Cache
	robots    *Robots
	userAgent string
	maxBytes  int64
	log       zerolog.Logger
}

func NewGetter(opt GetterOptions) *Getter {
	if opt.Pacer == nil {
		opt.Pacer = NoPacing()
	}
	if opt.MaxBodyBytes <= 0 {
		opt.MaxBodyBytes = 4 << 20
	}
	if opt.CacheTTL <= 0 {
		opt.CacheTTL = 30 * time.Minute
	}

	hc := &http.Client{
		Timeout: opt.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("stopped after 5 redirects")
			}
			return nil
		},
	}

	g := &Getter{
		hc:        hc,
		pacer:     opt.Pacer,
		cache:     gocache.New(opt.CacheTTL, 2*opt.CacheTTL),
		userAgent: opt.UserAgent,
		maxBytes:  opt.MaxBodyBytes,
		log:       opt.Logger,
	}
	if opt.RespectRobots {
		g.robots = NewRobots(hc, opt.UserAgent)
	}
	return g
}

// Get returns the body of rawURL. Non-2xx answers are *StatusError.
func (g *Getter) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if v, ok := g.cache.Get(rawURL); ok {
		g.log.Debug().Str("url", rawURL).Msg("page cache hit")
		return v.([]byte), nil
	}

	if g.robots != nil && !g.robots.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}

	if err := g.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	res, err := g.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer res.Body.Close()

	g.log.Debug().
		Str("url", rawURL).
		Int("status", res.StatusCode).
		Dur("took", time.Since(start)).
		Msg("fetched")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Code: res.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, g.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	g.cache.SetDefault(rawURL, body)
	return body, nil
}

// Document is Get followed by HTML parsing.
func (g *Getter) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := g.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
