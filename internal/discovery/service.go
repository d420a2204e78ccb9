package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/maltedev/selector-discovery/internal/analyzer"
	"github.com/maltedev/selector-discovery/internal/database"
	"github.com/maltedev/selector-discovery/internal/dom"
	"github.com/maltedev/selector-discovery/internal/fetcher"
	"github.com/maltedev/selector-discovery/internal/ratelimit"
)

var ErrInvalidURL = errors.New("invalid url")

// Result is the outcome of one discovery run.
type Result struct {
	SiteID    uuid.UUID                             `json:"site_id,omitempty"`
	URL       string                                `json:"url"`
	Domain    string                                `json:"domain"`
	Selectors []analyzer.PatternResult              `json:"selectors"`
	Roles     map[analyzer.Role]analyzer.RoleStatus `json:"roles"`
	FromCache bool                                  `json:"from_cache"`
}

// Service runs selector discovery end to end: fetch the page, pick an
// analysis engine, persist what was found, and cache the report per domain.
type Service struct {
	fetcher  fetcher.Fetcher
	analyzer *analyzer.Analyzer
	store    Store
	cache    Cache
	limiter  ratelimit.RateLimiter
	logger   *slog.Logger
}

func NewService(f fetcher.Fetcher, a *analyzer.Analyzer, store Store, cache Cache, limiter ratelimit.RateLimiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		fetcher:  f,
		analyzer: a,
		store:    store,
		cache:    cache,
		limiter:  limiter,
		logger:   logger.With("component", "discovery"),
	}
}

// Discover finds listing selectors for the page at rawURL.
//
// An unreachable page is not an error: the result comes back with no
// selectors and every role skipped. Persistence failures are errors, a
// cache write failure is only logged.
func (s *Service) Discover(ctx context.Context, rawURL string) (*Result, error) {
	domain, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, domain)
		if err != nil {
			s.logger.Warn("cache lookup failed", "domain", domain, "error", err)
		} else if cached != nil {
			s.logger.Info("serving cached report", "domain", domain)
			return s.buildResult(ctx, rawURL, domain, cached, true)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, domain); err != nil {
			return nil, err
		}
	}

	markup, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if s.limiter != nil {
			s.limiter.RecordError(domain)
		}
		s.logger.Warn("page unreachable, returning empty result", "url", rawURL, "error", err)
		return &Result{
			URL:    rawURL,
			Domain: domain,
			Roles:  skippedRoles(),
		}, nil
	}
	if s.limiter != nil {
		s.limiter.RecordSuccess(domain)
	}

	report, err := s.analyze(markup)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result, err := s.buildResult(ctx, rawURL, domain, report, false)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, domain, report); err != nil {
			s.logger.Warn("cache write failed", "domain", domain, "error", err)
		}
	}

	return result, nil
}

// analyze picks the engine by markup: pages captured through the rendering
// fetcher carry layout annotations and go through the element tree engine,
// plain markup goes through the selector catalog engine.
func (s *Service) analyze(markup string) (*analyzer.Report, error) {
	if strings.Contains(markup, "data-render-box") {
		root, err := dom.Parse(markup)
		if err != nil {
			return nil, err
		}
		return s.analyzer.AnalyzeTree(root, dom.AttrResolver{})
	}
	return s.analyzer.AnalyzeMarkup(markup)
}

func (s *Service) buildResult(ctx context.Context, rawURL, domain string, report *analyzer.Report, fromCache bool) (*Result, error) {
	result := &Result{
		URL:       rawURL,
		Domain:    domain,
		Selectors: report.Results,
		Roles:     report.Roles,
		FromCache: fromCache,
	}

	if s.store == nil {
		return result, nil
	}

	site, err := s.store.UpsertSite(ctx, rawURL, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to persist site: %w", err)
	}
	result.SiteID = site.ID

	for _, pr := range report.Results {
		examples, err := json.Marshal(pr.Examples)
		if err != nil {
			return nil, fmt.Errorf("failed to encode examples: %w", err)
		}

		rec := &database.SelectorRecord{
			SiteID:        site.ID,
			SelectorType:  string(pr.Type),
			SelectorValue: pr.Value,
			Confidence:    pr.Confidence,
			Description:   pr.Description,
			Examples:      examples,
		}
		if err := s.store.UpsertSelector(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist selector: %w", err)
		}
	}

	return result, nil
}

// Sites lists all sites that have been discovered.
func (s *Service) Sites(ctx context.Context) ([]*database.Site, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListSites(ctx)
}

// SiteSelectors returns the stored selectors for one site, nil site when
// the site is unknown.
func (s *Service) SiteSelectors(ctx context.Context, siteID uuid.UUID) (*database.Site, []*database.SelectorRecord, error) {
	if s.store == nil {
		return nil, nil, nil
	}

	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, nil, err
	}
	if site == nil {
		return nil, nil, nil
	}

	selectors, err := s.store.GetSelectors(ctx, siteID)
	if err != nil {
		return nil, nil, err
	}

	return site, selectors, nil
}

func validateURL(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return parsed.Hostname(), nil
}

func skippedRoles() map[analyzer.Role]analyzer.RoleStatus {
	roles := make(map[analyzer.Role]analyzer.RoleStatus, len(analyzer.Roles))
	for _, role := range analyzer.Roles {
		roles[role] = analyzer.StatusSkipped
	}
	return roles
}
