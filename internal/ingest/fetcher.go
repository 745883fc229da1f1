package ingest

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/scirap/internal/cache"
	"github.com/ppiankov/scirap/internal/model"
)

const (
	maxFetchAttempts = 3
	fetchBaseBackoff = time.Second
)

// fetchSleepFunc is replaced in tests to skip backoff delays
var fetchSleepFunc = time.Sleep

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
}

// Fetched is a downloaded document body with its response metadata
type Fetched struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	FinalURL    string `json:"final_url"`
	StatusCode  int    `json:"status_code"`
	FromCache   bool   `json:"-"`
}

// Fetcher downloads documents over HTTP(S)
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	robots     *RobotsChecker
	logger     *zap.Logger
}

// NewFetcher creates a fetcher from the HTTP configuration. A nil cache disables caching.
func NewFetcher(cfg model.HTTPConfig, c cache.Cache, logger *zap.Logger) *Fetcher {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		cache:      c,
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(client, cfg.UserAgent)
	}
	return f
}

// FetchWithRetry serves rawURL from cache when possible, otherwise checks
// robots.txt and fetches it, retrying transient failures with backoff.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Fetched, error) {
	key := cache.Key(rawURL)
	if data, ok := f.cache.Get(key); ok {
		var cached Fetched
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.FromCache = true
			f.logger.Debug("fetch cache hit", zap.String("url", rawURL))
			return &cached, nil
		}
		_ = f.cache.Delete(key)
	}

	if f.robots != nil {
		if err := f.robots.Check(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			f.store(key, result)
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts {
			break
		}

		backoff := fetchBaseBackoff << (attempt - 1)
		f.logger.Debug("fetch retry",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		fetchSleepFunc(backoff)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
		}
	}

	return nil, lastErr
}

// Fetch performs a single GET request
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("read body: document exceeds %d bytes", f.maxBytes)
	}

	return &Fetched{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
	}, nil
}

func (f *Fetcher) store(key string, result *Fetched) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := f.cache.Set(key, data, 0); err != nil {
		f.logger.Warn("fetch cache write failed", zap.Error(err))
	}
}

// isRetryableFetchError reports whether a failed fetch is worth repeating:
// 429 and 5xx responses and transport errors, but not cancellation.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
