package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Site is a page whose selectors have been discovered at least once.
type Site struct {
	ID        uuid.UUID `db:"id"`
	URL       string    `db:"url"`
	Domain    string    `db:"domain"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SiteRepository handles site persistence
type SiteRepository struct {
	db *DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Upsert inserts a site or refreshes its timestamp when the URL is already
// known. The stored row keeps its original ID, so repeated discoveries of the
// same URL always resolve to one site.
func (r *SiteRepository) Upsert(ctx context.Context, url, domain string) (*Site, error) {
	query := `
		INSERT INTO sites (id, url, domain)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO UPDATE SET
			domain = EXCLUDED.domain,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, url, domain, created_at, updated_at`

	site := &Site{}
	err := r.db.pool.QueryRow(ctx, query, uuid.New(), url, domain).Scan(
		&site.ID, &site.URL, &site.Domain, &site.CreatedAt, &site.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert site: %w", err)
	}

	return site, nil
}

// GetByID retrieves a single site, nil when not found
func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Site, error) {
	query := `
		SELECT id, url, domain, created_at, updated_at
		FROM sites
		WHERE id = $1`

	site := &Site{}
	err := r.db.pool.QueryRow(ctx, query, id).Scan(
		&site.ID, &site.URL, &site.Domain, &site.CreatedAt, &site.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return site, nil
}

// List returns all known sites, most recently updated first
func (r *SiteRepository) List(ctx context.Context) ([]*Site, error) {
	query := `
		SELECT id, url, domain, created_at, updated_at
		FROM sites
		ORDER BY updated_at DESC`

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []*Site
	for rows.Next() {
		site := &Site{}
		err := rows.Scan(&site.ID, &site.URL, &site.Domain, &site.CreatedAt, &site.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sites, nil
}
