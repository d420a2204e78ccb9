package fetcher

import (
	"context"
	"fmt"
	"log/slog"
)

// FallbackFetcher tries the primary fetcher and falls back to the secondary
// when the primary fails. The primary's error is logged, not surfaced, as
// long as the fallback delivers.
type FallbackFetcher struct {
	primary  Fetcher
	fallback Fetcher
	logger   *slog.Logger
}

func NewFallbackFetcher(primary, fallback Fetcher, logger *slog.Logger) *FallbackFetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackFetcher{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "fallback_fetcher"),
	}
}

func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, primaryErr := f.primary.Fetch(ctx, url)
	if primaryErr == nil {
		return content, nil
	}

	f.logger.Warn("primary fetch failed, trying fallback", "url", url, "error", primaryErr)

	content, fallbackErr := f.fallback.Fetch(ctx, url)
	if fallbackErr != nil {
		return "", fmt.Errorf("%w: primary: %v, fallback: %v", ErrFetchFailed, primaryErr, fallbackErr)
	}

	return content, nil
}
