package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

var ErrDisallowed = errors.New("disallowed by robots.txt")

// Robots answers robots.txt questions, fetching each host's file once.
type Robots struct {
	mu        sync.Mutex
	cache     map[string]*robotstxt.RobotsData
	hc        *http.Client
	userAgent string
}

func NewRobots(hc *http.Client, userAgent string) *Robots {
	return &Robots{
		cache:     make(map[string]*robotstxt.RobotsData),
		hc:        hc,
		userAgent: userAgent,
	}
}

// Allowed reports whether rawURL may be fetched. When robots.txt cannot be
// read the answer is yes.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	data, err := r.data(ctx, u)
	if err != nil {
		return true
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, r.userAgent)
}

func (r *Robots) data(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.cache[u.Host]; ok {
		return d, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	res, err := r.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 512<<10))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	d, err := robotstxt.FromStatusAndBytes(res.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	r.cache[u.Host] = d
	return d, nil
}
