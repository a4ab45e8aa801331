// Package github constructs the authenticated GitHub API client used by
// every sub-query, and resolves the access token it authenticates with.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

type Client struct {
	Client *github.Client
	HTTP   *http.Client
}

type options struct {
	verbose bool
	// writer controls where verbose HTTP logs are written (typically stderr)
	// so rendered artifacts and progress output stay clean.
	writer  io.Writer
	baseURL string
}

type Option func(*options)

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// WithBaseURL points the client at a non-default API endpoint (tests, GitHub
// Enterprise).
func WithBaseURL(raw string) Option {
	return func(o *options) {
		o.baseURL = raw
	}
}

// loggingRoundTripper wraps an underlying transport and emits one line per
// request and response (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if t.w != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] github api: %s %s\n", req.Method, req.URL.String())
	}
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if t.w != nil {
		if err != nil {
			_, _ = fmt.Fprintf(t.w, "[verbose] github api: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
		} else {
			_, _ = fmt.Fprintf(t.w, "[verbose] github api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur.Truncate(time.Millisecond))
		}
	}
	return resp, err
}

// NewClient builds a GitHub client whose transport stack handles GitHub's
// secondary rate limits transparently: a rate-limit waiter sleeps through
// Retry-After pauses, the oauth2 layer injects the token, and an optional
// logging layer records each call. Primary rate-limit accounting is handled
// separately by the fetcher's request budget.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.writer == nil {
		o.writer = os.Stderr
	}

	waiter, err := github_ratelimit.NewRateLimitWaiter(http.DefaultTransport,
		github_ratelimit.WithSingleSleepLimit(10*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("github client: rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, w: o.writer}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	// Always provide an http.Client so verbose logging works even without a token.
	tc := &http.Client{Transport: transport}

	gh := github.NewClient(tc)
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github client: invalid base URL %q: %w", o.baseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		Client: gh,
		HTTP:   tc,
	}, nil
}
