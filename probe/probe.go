// Package probe performs one-shot reachability checks against a URL.
package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// UserAgent is sent with every probe so site owners can tell the checks apart.
const UserAgent = "PassProbeBot/1.0 (+site-check)"

// Result is the outcome of one probe. Err is set only when no response was
// received; StatusCode and OK are meaningful only when Err is nil.
type Result struct {
	URL        string
	OK         bool
	StatusCode int
	Elapsed    time.Duration
	Err        error
}

func (r Result) ElapsedMs() int64 {
	return r.Elapsed.Milliseconds()
}

type Prober struct {
	client *http.Client
	now    func() time.Time
}

// New returns a Prober. A zero timeout leaves the request bounded only by ctx
// and the transport's own defaults.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Normalize prefixes https:// when target has no http(s) scheme.
func Normalize(target string) string {
	target = strings.TrimSpace(target)
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return target
	}
	return "https://" + target
}

// Probe issues a single GET against target. It never retries.
func (p *Prober) Probe(ctx context.Context, target string) Result {
	res := Result{URL: Normalize(target)}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		res.Err = err
		return res
	}
	req.Header.Set("User-Agent", UserAgent)

	start := p.now()
	resp, err := p.client.Do(req)
	res.Elapsed = p.now().Sub(start)
	if err != nil {
		slog.Debug("probe failed", "component", "probe", "operation", "probe", "url", res.URL, "error", err)
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.StatusCode = resp.StatusCode
	res.OK = resp.StatusCode == http.StatusOK
	slog.Debug("probe done", "component", "probe", "operation", "probe",
		"url", res.URL, "status", res.StatusCode, "elapsed_ms", res.ElapsedMs())
	return res
}
