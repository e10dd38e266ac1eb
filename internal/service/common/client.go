//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/oshokin/app-updater/internal/domain/release"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0"

var (
	// ErrNetwork is returned on transport failures and non-200 answers.
	ErrNetwork = errors.New("network error")
	// ErrReleaseInfoMalformed is returned when the feed body is not a release object.
	ErrReleaseInfoMalformed = errors.New("release info malformed")
	// ErrWrite is returned when the download destination cannot be written.
	ErrWrite = errors.New("write error")
)

// Client wraps an *http.Client with the header and proxy treatment of the feed.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client
	// userAgent is set on every request.
	userAgent string

	// proxy routes requests when set; nil keeps the environment proxy settings.
	proxy *url.URL
	// timeout bounds each request when positive.
	timeout time.Duration
	// custom is a caller-provided client that overrides proxy and timeout.
	custom *http.Client
}

// Option configures client behaviour.
type Option func(*Client)

// WithProxy routes every request through proxy.
func WithProxy(proxy *url.URL) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithTimeout sets a deadline for each request, body included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHTTPClient uses client as is, ignoring WithProxy and WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.custom = client
	}
}

// NewClient builds a Client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.custom != nil {
		client.httpClient = client.custom
		return client
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if ok {
		transport = transport.Clone()
	} else {
		transport = new(http.Transport)
	}

	if client.proxy != nil {
		transport.Proxy = http.ProxyURL(client.proxy)
	}

	client.httpClient = &http.Client{
		Transport: transport,
		Timeout:   client.timeout,
	}

	return client
}

// FetchLatest downloads and decodes the release description at feedURL.
func (c *Client) FetchLatest(ctx context.Context, feedURL string) (*release.Info, error) {
	response, err := c.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", feedURL, ErrNetwork, err)
	}

	var info release.Info
	if err = json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", feedURL, ErrReleaseInfoMalformed, err)
	}

	if info.TagName == "" {
		return nil, fmt.Errorf("%s has no tag_name: %w", feedURL, ErrReleaseInfoMalformed)
	}

	return &info, nil
}

// Download streams the body at assetURL into destination and returns the byte count.
// The destination is closed before Download returns, on every path.
func (c *Client) Download(ctx context.Context, assetURL, destination string) (int64, error) {
	response, err := c.get(ctx, assetURL)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	outputFile, err := os.Create(filepath.Clean(destination))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w: %w", destination, ErrWrite, err)
	}

	written, err := io.Copy(outputFile, response.Body)
	if err != nil {
		_ = outputFile.Close()

		return written, classifyCopyError(destination, err)
	}

	if err = outputFile.Close(); err != nil {
		return written, fmt.Errorf("close %s: %w: %w", destination, ErrWrite, err)
	}

	return written, nil
}

// get issues a GET with the feed headers and rejects non-200 answers.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w: %w", rawURL, ErrNetwork, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/octet-stream, */*")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", rawURL, ErrNetwork, err)
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()

		return nil, fmt.Errorf("%s, %s: %w", rawURL, response.Status, ErrNetwork)
	}

	return response, nil
}

// classifyCopyError tells a failing disk from a failing connection.
func classifyCopyError(destination string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("write %s: %w: %w", destination, ErrWrite, err)
	}

	return fmt.Errorf("download into %s: %w: %w", destination, ErrNetwork, err)
}
