package estimate

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stacmcp/pkg/logging"
)

const (
	defaultProbeWorkers = 4
	defaultProbeTimeout = 20 * time.Second
	defaultProbeRetries = 1
	defaultBackoffBase  = 500 * time.Millisecond
)

// ProberConfig tunes the parallel HEAD prober.
type ProberConfig struct {
	// Workers bounds concurrent requests (default 4).
	Workers int
	// Timeout bounds each individual request (default 20s).
	Timeout time.Duration
	// Retries is the number of extra attempts after a transport failure
	// (default 1). A completed HTTP response is final, even without a
	// usable header.
	Retries int
	// BackoffBase is the delay before the first retry; each further retry
	// doubles it (base * 2^(attempt-1)).
	BackoffBase time.Duration
	// DisableJitter turns off the multiplicative jitter applied to retry
	// delays. Jitter is on by default to avoid synchronized retry storms.
	DisableJitter bool
	// Headers are sent with every probe (e.g. auth for private assets).
	Headers map[string]string
}

// HeadProber resolves asset sizes by issuing HTTP HEAD requests and reading
// Content-Length. The underlying HTTP client is shared across the worker
// pool for connection reuse; probes write no shared state.
type HeadProber struct {
	cfg        ProberConfig
	httpClient *http.Client
}

// NewHeadProber builds a prober, filling config defaults.
func NewHeadProber(cfg ProberConfig) *HeadProber {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultProbeWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = defaultProbeRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	return &HeadProber{
		cfg: cfg,
		// Per-request deadlines come from the context so a stalled probe
		// cannot outlive its slot; the client itself has no timeout.
		httpClient: &http.Client{},
	}
}

// Probe issues one HEAD request per href, in parallel, bounded by the
// configured worker count. The returned map has one entry per input href: a
// resolved byte count, or nil when the probe exhausted its attempts or the
// response carried no usable Content-Length. A failing probe never aborts
// the batch; Probe returns only when every probe has finished.
func (p *HeadProber) Probe(ctx context.Context, hrefs []string) map[string]*int64 {
	results := make(map[string]*int64, len(hrefs))
	if len(hrefs) == 0 {
		return results
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	seen := make(map[string]struct{}, len(hrefs))
	for _, href := range hrefs {
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}

		g.Go(func() error {
			size := p.probeOne(gctx, href)
			mu.Lock()
			results[href] = size
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait is purely a completion barrier.
	_ = g.Wait()
	return results
}

// probeOne runs the retry loop for a single href. Returns nil when the href
// is unusable, every attempt failed in transport, or the final response had
// no parseable Content-Length.
func (p *HeadProber) probeOne(ctx context.Context, href string) *int64 {
	parsed, err := url.Parse(href)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		logging.Debug("Prober", "skipping unparseable href %q", href)
		return nil
	}

	for attempt := 0; ; attempt++ {
		size, retryable := p.headContentLength(ctx, href)
		if !retryable {
			return size
		}
		if attempt >= p.cfg.Retries {
			logging.Debug("Prober", "HEAD %s failed after %d attempts", href, attempt+1)
			return nil
		}
		if err := sleepContext(ctx, p.backoffDelay(attempt+1)); err != nil {
			return nil
		}
	}
}

// headContentLength performs one HEAD attempt. The second return value
// reports whether the failure is a transport error worth retrying; completed
// responses are final regardless of status or header content.
func (p *HeadProber) headContentLength(ctx context.Context, href string) (size *int64, retryable bool) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, href, nil)
	if err != nil {
		return nil, false
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logging.Debug("Prober", "HEAD %s transport error: %v", href, err)
		return nil, true
	}
	defer resp.Body.Close()

	// A completed response is final, but only a success status describes the
	// asset itself; an error page's Content-Length is not the asset size.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Debug("Prober", "HEAD %s returned status %d", href, resp.StatusCode)
		return nil, false
	}

	cl := resp.Header.Get("Content-Length")
	if cl == "" {
		cl = resp.Header.Get("content-length")
	}
	if cl == "" {
		return nil, false
	}
	n, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || n < 0 {
		return nil, false
	}
	return &n, false
}

// backoffDelay computes base * 2^(attempt-1), with multiplicative jitter in
// [0.5, 1.5) unless disabled.
func (p *HeadProber) backoffDelay(attempt int) time.Duration {
	delay := p.cfg.BackoffBase * time.Duration(1<<uint(attempt-1))
	if !p.cfg.DisableJitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
