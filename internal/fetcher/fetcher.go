package fetcher

import (
	"context"
	"errors"
)

var (
	ErrEmptyURL    = errors.New("url is empty")
	ErrFetchFailed = errors.New("fetch failed")
)

// Fetcher retrieves the full document markup for a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
