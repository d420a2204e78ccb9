package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const plainUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PlainFetcher does a straight HTTP GET without rendering. Pages that build
// their listings in script will come back without them, which is why it sits
// behind the renderer as a fallback.
type PlainFetcher struct {
	client *http.Client
}

func NewPlainFetcher(timeout time.Duration) *PlainFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &PlainFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *PlainFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", plainUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
