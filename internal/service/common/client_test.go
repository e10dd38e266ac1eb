//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const latestBody = `{
  "tag_name": "1.5.0",
  "assets": [
    {"name": "app-win.7z", "browser_download_url": "https://example.com/app-win.7z"},
    {"name": "app-mac.7z", "browser_download_url": "https://example.com/app-mac.7z"}
  ]
}`

// TestFetchLatest_DecodesRelease checks decoding and the browser-like User-Agent.
func TestFetchLatest_DecodesRelease(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(latestBody))
	}))
	defer ts.Close()

	info, err := NewClient().FetchLatest(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Equal(t, DefaultUserAgent, <-agents)
	require.Equal(t, "1.5.0", info.TagName)
	require.Len(t, info.Assets, 2)
	require.Equal(t, "https://example.com/app-mac.7z", info.Assets[1].DownloadURL)
}

// TestFetchLatest_Errors maps bad statuses, bodies and transports to error kinds.
func TestFetchLatest_Errors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	mux.HandleFunc("/untagged", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"assets": []}`))
	})
	mux.HandleFunc("/shape", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "1.0.0", "assets": "none"}`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient()
	ctx := context.Background()

	_, err := client.FetchLatest(ctx, ts.URL+"/missing")
	require.ErrorIs(t, err, ErrNetwork)

	_, err = client.FetchLatest(ctx, ts.URL+"/garbage")
	require.ErrorIs(t, err, ErrReleaseInfoMalformed)

	_, err = client.FetchLatest(ctx, ts.URL+"/untagged")
	require.ErrorIs(t, err, ErrReleaseInfoMalformed)

	_, err = client.FetchLatest(ctx, ts.URL+"/shape")
	require.ErrorIs(t, err, ErrReleaseInfoMalformed)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	_, err = client.FetchLatest(ctx, closedURL)
	require.ErrorIs(t, err, ErrNetwork)
}

// TestFetchLatest_UsesProxy routes a request for an unresolvable host through a proxy.
func TestFetchLatest_UsesProxy(t *testing.T) {
	t.Parallel()

	proxiedHosts := make(chan string, 1)

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHosts <- r.URL.Host
		_, _ = w.Write([]byte(latestBody))
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	require.NoError(t, err)

	client := NewClient(WithProxy(proxyURL), WithTimeout(5*time.Second))

	info, err := client.FetchLatest(context.Background(), "http://releases.invalid/latest")
	require.NoError(t, err)
	require.Equal(t, "1.5.0", info.TagName)
	require.Equal(t, "releases.invalid", <-proxiedHosts)
}

// TestDownload_WritesBody streams the asset into the destination file.
func TestDownload_WritesBody(t *testing.T) {
	t.Parallel()

	payload := []byte("7z-archive-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	destination := filepath.Join(t.TempDir(), "download.7z")

	written, err := NewClient().Download(context.Background(), ts.URL, destination)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), written)

	got, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

// TestDownload_Errors reports unwritable destinations and bad statuses.
func TestDownload_Errors(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte("data"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	client := NewClient(WithUserAgent("test-agent"))

	_, err := client.Download(context.Background(), ts.URL, filepath.Join(dir, "no", "such", "dir", "a.7z"))
	require.ErrorIs(t, err, ErrWrite)

	destination := filepath.Join(dir, "gone.7z")
	_, err = client.Download(context.Background(), ts.URL+"/gone", destination)
	require.ErrorIs(t, err, ErrNetwork)

	// A failed request does not create the destination.
	_, err = os.Stat(destination)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestWithHTTPClient keeps a caller-provided client.
func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{Timeout: time.Minute}
	client := NewClient(WithHTTPClient(custom), WithTimeout(time.Second))

	require.Same(t, custom, client.httpClient)
}
