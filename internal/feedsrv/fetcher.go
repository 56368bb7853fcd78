package feedsrv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/rssview/internal/config"
	"github.com/pders01/rssview/internal/validation"
)

const maxRedirects = 10

// StatusError is an upstream response outside 2xx.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded %s", e.Status)
}

// Fetcher retrieves feed documents from their origin servers.
type Fetcher struct {
	client    *http.Client
	userAgent string
	validator *validation.FeedURLValidator
}

func newFeedURLValidator(cfg *config.Config) *validation.FeedURLValidator {
	if cfg.Server.AllowPrivate {
		return validation.NewPermissiveFeedURLValidator()
	}
	return validation.NewFeedURLValidator()
}

func NewFetcher(cfg *config.Config) *Fetcher {
	f := &Fetcher{
		userAgent: cfg.Server.UserAgent,
		validator: newFeedURLValidator(cfg),
	}
	f.client = &http.Client{
		Timeout:       cfg.Server.UpstreamTimeout,
		Transport:     newRateLimitedTransport(f.guardedTransport(), cfg.Server.RequestsPerSecond, cfg.Server.Burst),
		CheckRedirect: f.checkRedirect,
	}
	return f
}

// guardedTransport checks every address it connects to, so names that
// resolve to blocked ranges are refused after DNS as well as before.
func (f *Fetcher) guardedTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   f.checkDial,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// A proxy would be the dialed address, hiding the real target.
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return transport
}

func (f *Fetcher) checkDial(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("dial %s: not an IP address", address)
	}
	return f.validator.CheckIP(ip)
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if _, err := f.validator.ValidateAndNormalize(req.URL.String()); err != nil {
		return fmt.Errorf("redirect to %s: %w", req.URL.Redacted(), err)
	}
	return nil
}

// IsBlocked reports whether err came from refusing a feed target.
func IsBlocked(err error) bool {
	return errors.Is(err, validation.ErrInvalidFeedURL)
}

// Fetch returns the upstream response for a 2xx status; the caller closes the
// body. Any other status is reported as a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/rdf+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

// rateLimitedTransport holds outbound requests until the limiter admits them.
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func newRateLimitedTransport(next http.RoundTripper, perSecond float64, burst int) http.RoundTripper {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedTransport{
		transport: next,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}
