package axl

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultPort    = "8443"
	DefaultVersion = "8.5"

	axlPath = "/axl/"
)

// StatusError carries the full response of a non-200 answer.
type StatusError struct {
	Code   int
	Status string
	Header http.Header
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("axl returned %s", e.Status)
}

type Options struct {
	Host      string
	Port      string
	Username  string
	Password  string
	Version   string
	Body      BodyKind
	VerifyTLS bool
	// HTTPClient overrides the default transport, VerifyTLS is then ignored.
	HTTPClient *http.Client
}

// Client runs SQL through the CUCM AXL executeSQLQuery call.
type Client struct {
	url        string
	username   string
	password   string
	version    string
	builder    Builder
	httpClient *http.Client
	logger     *zap.Logger
}

func New(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("cucm host not configured")
	}
	if opts.Port == "" {
		opts.Port = DefaultPort
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	builder, err := NewBuilder(opts.Body, opts.Version)
	if err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !opts.VerifyTLS}, //nolint:gosec
			},
		}
	}

	return &Client{
		url:        endpoint(opts.Host, opts.Port),
		username:   opts.Username,
		password:   opts.Password,
		version:    opts.Version,
		builder:    builder,
		httpClient: hc,
		logger:     logger.With(zap.String("cucm", opts.Host)),
	}, nil
}

// ExecuteSQL posts the query and returns the raw SOAP response.
func (c *Client) ExecuteSQL(ctx context.Context, sql string) ([]byte, error) {
	msg, err := c.builder.Build(sql)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, msg)
}

func (c *Client) post(ctx context.Context, msg []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(msg))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("SOAPAction", "CUCM:DB ver="+c.version)
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read axl response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Header: resp.Header, Body: body}
	}
	return body, nil
}

func endpoint(host, port string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host + axlPath
	}
	return "https://" + net.JoinHostPort(host, port) + axlPath
}
