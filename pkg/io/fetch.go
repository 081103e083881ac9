package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/observability"
)

// DefaultFetchTimeout bounds a single download attempt.
const DefaultFetchTimeout = 60 * time.Second

// Fetcher downloads remote graphs and caches the raw bytes.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
}

// NewFetcher creates a fetcher. A nil cache disables caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: DefaultFetchTimeout},
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
	}
}

// Fetch downloads and decodes the graph at url. The format and compression
// are derived from the URL path.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*kg.Graph, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	key := f.Keyer.HTTPKey("graph", url)
	data, hit, err := f.Cache.Get(ctx, key)
	if err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "graph")
	} else {
		observability.Cache().OnCacheMiss(ctx, "graph")
		err = cache.RetryWithBackoff(ctx, func() error {
			var err error
			data, err = f.get(ctx, url)
			return err
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
		}
		if f.Cache.Set(ctx, key, data, cache.TTLGraph) == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	var r io.Reader = bytes.NewReader(data)
	path := url
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "gunzip %s", url)
		}
		defer zr.Close()
		r = zr
	}
	return ReadGraph(r, FormatFromPath(path))
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/turtle, application/n-triples;q=0.9, */*;q=0.1")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := f.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, cache.ErrNotFound
	case resp.StatusCode >= 500:
		return nil, cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
