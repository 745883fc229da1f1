package worker

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ppiankov/scirap/internal/ingest"
)

// Limiter throttles document downloads per host. Local file refs are never throttled.
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per host with the
// given burst. A non-positive rate means unlimited.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		hosts: make(map[string]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

// Wait blocks until ref may be fetched or ctx is done
func (l *Limiter) Wait(ctx context.Context, ref string) error {
	host, ok := hostOf(ref)
	if !ok {
		return ctx.Err()
	}
	return l.forHost(host).Wait(ctx)
}

// Allow reports whether ref may be fetched now, consuming a token if so
func (l *Limiter) Allow(ref string) bool {
	host, ok := hostOf(ref)
	if !ok {
		return true
	}
	return l.forHost(host).Allow()
}

// Hosts returns the hosts seen so far, sorted
func (l *Limiter) Hosts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	hosts := make([]string, 0, len(l.hosts))
	for h := range l.hosts {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.hosts[host] = lim
	}
	return lim
}

// hostOf returns the lower-cased host name of a URL ref, ignoring the port
func hostOf(ref string) (string, bool) {
	if !ingest.IsURL(ref) {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}
