// Package transport builds the HTTP transports shared by the search
// providers and the page fetcher, optionally routed through a SOCKS5 proxy.
package transport

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
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 handshake performed by CheckProxy.
const checkProxyTimeout = 5 * time.Second

// SOCKS5 protocol constants.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthPassword = 0x02
	socks5AuthNoAccept = 0xFF
)

// Proxy is a parsed SOCKS5 proxy address.
type Proxy struct {
	// Address is "host:port".
	Address string

	// Auth holds optional username/password credentials.
	Auth *proxy.Auth
}

// ParseProxy parses "host:port" or "socks5://[user:pass@]host:port".
// An empty string returns (nil, nil), meaning direct connections.
func ParseProxy(raw string) (*Proxy, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if !strings.Contains(raw, "://") {
		if !isValidProxyAddress(raw) {
			return nil, ErrInvalidProxyAddress
		}
		return &Proxy{Address: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxyAddress, err)
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil, ErrInvalidProxyAddress
	}
	if !isValidProxyAddress(u.Host) {
		return nil, ErrInvalidProxyAddress
	}

	p := &Proxy{Address: u.Host}
	if u.User != nil {
		password, _ := u.User.Password()
		p.Auth = &proxy.Auth{User: u.User.Username(), Password: password}
	}
	return p, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return portNum >= 1 && portNum <= 65535
}

// NewTransport returns an HTTP transport. With a nil proxy it dials directly
// and honours the environment's HTTP proxy settings.
func NewTransport(p *Proxy, timeout time.Duration) (*http.Transport, error) {
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}
	if p == nil {
		return t, nil
	}

	dialer, err := proxy.SOCKS5("tcp", p.Address, p.Auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("SOCKS5 dialer does not support contexts")
	}
	t.Proxy = nil
	t.DialContext = contextDialer.DialContext
	return t, nil
}

// NewHTTPClient wraps a transport with a request timeout and default headers.
// Headers already set on a request are left untouched.
func NewHTTPClient(base http.RoundTripper, timeout time.Duration, headers map[string]string) *http.Client {
	return &http.Client{
		Transport: &headerInjectingTransport{base: base, headers: headers},
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// headerInjectingTransport adds default headers to every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		if clone.Header.Get(key) == "" {
			clone.Header.Set(key, value)
		}
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// CheckProxy performs a SOCKS5 method negotiation with the proxy to verify
// that it is reachable and speaks SOCKS5.
func CheckProxy(ctx context.Context, p *Proxy) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	method := byte(socks5AuthNone)
	if p.Auth != nil {
		method = socks5AuthPassword
	}
	if _, err := conn.Write([]byte{socks5Version, 0x01, method}); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}

	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept || resp[1] != method {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}
