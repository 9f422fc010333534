package ios

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// StatusError is returned when the switch answers with anything but 200.
type StatusError struct {
	Code   int
	Status string
	Header http.Header
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("switch returned %s", e.Status)
}

// Client talks to the IOS HTTP server "level 15" exec and config endpoints.
type Client struct {
	baseURL    string
	username   string
	password   string
	verifyTLS  bool
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithVerifyTLS turns certificate validation on. It is off by default since
// switches normally run with self-signed certificates.
func WithVerifyTLS(verify bool) Option {
	return func(c *Client) {
		c.verifyTLS = verify
	}
}

// WithHTTPClient replaces the transport, the TLS option is then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(host, username, password string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL(host),
		username: username,
		password: password,
		logger:   logger.With(zap.String("switch", host)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !c.verifyTLS}, //nolint:gosec
			},
		}
	}
	return c
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	// command tokens may hold '#', '?' or '%', set the path unescaped so
	// they are percent-encoded on the wire
	req.URL.Path = strings.TrimRight(req.URL.Path, "/") + path
	req.URL.RawPath = ""
	req.SetBasicAuth(c.username, c.password)

	c.logger.Debug("switch request", zap.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read switch response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Header: resp.Header, Body: body}
	}
	return body, nil
}

func baseURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
