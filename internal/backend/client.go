// Package backend talks to the feed backend's HTTP contract:
// GET {base}/feed?url={feed URL}.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/rssview/internal/config"
	"github.com/pders01/rssview/internal/debuglog"
	"github.com/pders01/rssview/internal/feedreq"
)

// Response is a completed backend exchange, whatever its status.
type Response struct {
	StatusCode int
	// StatusText is the reason phrase of the status line, e.g. "Not Found".
	StatusText string
	Body       []byte
}

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.Backend.BaseURL, "/"),
		userAgent: cfg.Backend.UserAgent,
		client: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
	}
}

// WithHTTPClient swaps the underlying client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// FeedURL builds the request URL for a feed. raw is passed as typed; only the
// default query encoding is applied.
func (c *Client) FeedURL(raw string) string {
	return c.baseURL + "/feed?" + url.Values{"url": {raw}}.Encode()
}

var (
	// errBadURL marks failures to even build the request.
	errBadURL = errors.New("bad url")
	// errReadBody marks a response that arrived but could not be read in full.
	errReadBody = errors.New("reading response")
)

// Fetch performs the request. A non-nil error means no response came back.
func (c *Client) Fetch(ctx context.Context, raw string) (*Response, error) {
	target := c.FeedURL(raw)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", errBadURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errReadBody, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: reasonPhrase(resp),
		Body:       body,
	}, nil
}

// Get fetches raw and classifies the result. It never fails: every problem
// becomes a failure Outcome.
func (c *Client) Get(ctx context.Context, raw string) feedreq.Outcome {
	log := debuglog.WithFields(map[string]interface{}{"feed": raw})

	resp, err := c.Fetch(ctx, raw)
	if err != nil {
		kind := TransportKind(err)
		log.Warnf("backend request failed (%s): %v", kind, err)
		return feedreq.TransportFailure{Kind: kind}
	}

	outcome := feedreq.Classify(resp.StatusCode, resp.StatusText, resp.Body)
	if failed, ok := outcome.(feedreq.Failed); ok {
		log.Infof("backend responded %d: %s", resp.StatusCode, failed.Reason())
	} else {
		log.Debugf("backend responded %d", resp.StatusCode)
	}
	return outcome
}

// TransportKind tells apart the ways a request can fail before a response
// arrives.
func TransportKind(err error) feedreq.TransportKind {
	if err == nil {
		return feedreq.TransportUnexpected
	}
	if errors.Is(err, errBadURL) {
		return feedreq.TransportBadURL
	}
	if errors.Is(err, errReadBody) {
		return feedreq.TransportUnexpected
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return feedreq.TransportTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return feedreq.TransportTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme") ||
			strings.Contains(urlErr.Err.Error(), "no Host in request URL") {
			return feedreq.TransportBadURL
		}
		return feedreq.TransportNetwork
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return feedreq.TransportNetwork
	}

	return feedreq.TransportUnexpected
}

// reasonPhrase strips the numeric code from the status line, falling back to
// the canonical text when the server sent none.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	if text = http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
