package discovery

import (
	"context"

	"github.com/google/uuid"

	"github.com/maltedev/selector-discovery/internal/analyzer"
	"github.com/maltedev/selector-discovery/internal/database"
)

// Store is the persistence surface the discovery service needs.
type Store interface {
	UpsertSite(ctx context.Context, url, domain string) (*database.Site, error)
	UpsertSelector(ctx context.Context, rec *database.SelectorRecord) error
	GetSite(ctx context.Context, id uuid.UUID) (*database.Site, error)
	ListSites(ctx context.Context) ([]*database.Site, error)
	GetSelectors(ctx context.Context, siteID uuid.UUID) ([]*database.SelectorRecord, error)
}

// Cache is the result cache surface the discovery service needs.
type Cache interface {
	Get(ctx context.Context, domain string) (*analyzer.Report, error)
	Set(ctx context.Context, domain string, report *analyzer.Report) error
}

// DBStore backs Store with the postgres repositories.
type DBStore struct {
	sites     *database.SiteRepository
	selectors *database.SelectorRepository
}

func NewDBStore(db *database.DB) *DBStore {
	return &DBStore{
		sites:     database.NewSiteRepository(db),
		selectors: database.NewSelectorRepository(db),
	}
}

func (s *DBStore) UpsertSite(ctx context.Context, url, domain string) (*database.Site, error) {
	return s.sites.Upsert(ctx, url, domain)
}

func (s *DBStore) UpsertSelector(ctx context.Context, rec *database.SelectorRecord) error {
	return s.selectors.Upsert(ctx, rec)
}

func (s *DBStore) GetSite(ctx context.Context, id uuid.UUID) (*database.Site, error) {
	return s.sites.GetByID(ctx, id)
}

func (s *DBStore) ListSites(ctx context.Context) ([]*database.Site, error) {
	return s.sites.List(ctx)
}

func (s *DBStore) GetSelectors(ctx context.Context, siteID uuid.UUID) ([]*database.SelectorRecord, error) {
	return s.selectors.GetBySite(ctx, siteID)
}
