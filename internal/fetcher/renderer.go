package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/selector-discovery/internal/browser"
)

// annotateScript writes each element's bounding box and the computed styles
// the analyzer cares about into data attributes, so layout survives the trip
// from the rendered page back to plain markup.
const annotateScript = `() => {
	const fmt = (n) => Math.round(n * 100) / 100;
	document.querySelectorAll('*').forEach((el) => {
		const rect = el.getBoundingClientRect();
		if (rect.width > 0 && rect.height > 0) {
			el.setAttribute('data-render-box',
				fmt(rect.top) + ' ' + fmt(rect.left) + ' ' + fmt(rect.width) + ' ' + fmt(rect.height));
		}
		const style = window.getComputedStyle(el);
		el.setAttribute('data-render-style',
			'font-size:' + style.fontSize +
			';text-decoration:' + style.textDecoration +
			';visibility:' + style.visibility +
			';display:' + style.display);
	});
}`

// RenderFetcher loads pages in a real browser so script-driven content is
// present in the captured markup, and annotates the DOM with layout data
// before capture.
type RenderFetcher struct {
	browser    *browser.Browser
	renderWait time.Duration
	navRetries int
	annotate   bool
	logger     *slog.Logger
}

type RenderOptions struct {
	// RenderWait is how long to wait for dynamic content after load.
	RenderWait time.Duration
	NavRetries int
	// Annotate controls whether layout data is written into the DOM.
	Annotate bool
}

func NewRenderFetcher(b *browser.Browser, opts RenderOptions, logger *slog.Logger) *RenderFetcher {
	if opts.RenderWait <= 0 {
		opts.RenderWait = 2 * time.Second
	}
	if opts.NavRetries <= 0 {
		opts.NavRetries = 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RenderFetcher{
		browser:    b,
		renderWait: opts.RenderWait,
		navRetries: opts.NavRetries,
		annotate:   opts.Annotate,
		logger:     logger.With("component", "render_fetcher"),
	}
}

func (f *RenderFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	page, err := f.browser.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := f.browser.NavigateWithRetry(page, url, f.navRetries); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	// Give script-driven listings a moment to populate.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(f.renderWait):
	}

	if f.annotate {
		if _, err := page.Evaluate(annotateScript); err != nil {
			f.logger.Warn("layout annotation failed, continuing without geometry", "url", url, "error", err)
		}
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to capture page content: %w", err)
	}

	return content, nil
}
