package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrInvalidFeedURL wraps every rejection so callers can tell user input
// problems apart from other failures.
var ErrInvalidFeedURL = errors.New("invalid feed URL")

// FeedURLValidator checks feed URLs before the backend fetches them.
type FeedURLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	MaxLength       int
}

// NewFeedURLValidator blocks loopback and private targets.
func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// NewPermissiveFeedURLValidator allows local development targets.
func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFeedURL, fmt.Sprintf(format, args...))
}

// ValidateAndNormalize validates a feed URL and returns the normalized version.
// A missing scheme defaults to https.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", invalid("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", invalid("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", invalid("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", invalid("malformed URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", invalid("URL must use http or https protocol")
	}
	if parsedURL.Hostname() == "" {
		return "", invalid("URL must have a valid hostname")
	}
	if parsedURL.User != nil {
		return "", invalid("credentials in URL are not permitted")
	}

	if err := v.validateHost(parsedURL.Hostname()); err != nil {
		return "", err
	}

	return parsedURL.String(), nil
}

func (v *FeedURLValidator) validateHost(hostname string) error {
	// "localhost." is the same name as "localhost".
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return invalid("localhost URLs are not permitted")
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return v.CheckIP(ip)
	}

	return nil
}

// CheckIP applies the host rules to a resolved address. Hostnames only show
// their real target once resolved, so callers run this on every address they
// dial.
func (v *FeedURLValidator) CheckIP(ip net.IP) error {
	if ip.IsUnspecified() || ip.Equal(net.IPv4bcast) {
		return invalid("suspicious hostname detected")
	}
	if !v.AllowLocalhost && ip.IsLoopback() {
		return invalid("localhost URLs are not permitted")
	}
	if !v.AllowPrivateIPs && isPrivateIP(ip) {
		return invalid("private IP addresses are not permitted")
	}
	return nil
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

// isPrivateIP covers RFC 1918, unique local, link-local and loopback ranges.
func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast()
}
