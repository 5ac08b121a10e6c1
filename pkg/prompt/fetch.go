package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher retrieves raw bytes from a URL. Implementations must honor the
// context deadline and surface ErrFetchTimeout when it expires.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// DefaultFetchTimeout bounds a fetch when the caller's context carries no
// deadline of its own.
const DefaultFetchTimeout = 30 * time.Second

// maxFetchSize caps remote payloads; prompt files and catalog indexes are
// small text documents.
const maxFetchSize = 8 << 20

// HTTPFetcher is the production Fetcher backed by net/http. Non-2xx
// responses are FetchError; deadline expiry is ErrFetchTimeout.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher using client, or http.DefaultClient
// when nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Cause: err}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Cause: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrFetchTimeout, rawURL)
		}
		return nil, &FetchError{URL: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrFetchTimeout, rawURL)
		}
		return nil, &FetchError{URL: rawURL, Cause: err}
	}
	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

var _ Fetcher = (*HTTPFetcher)(nil)
