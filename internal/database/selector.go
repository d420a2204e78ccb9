package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SelectorRecord is one stored selector for a site role.
type SelectorRecord struct {
	ID            uuid.UUID       `db:"id"`
	SiteID        uuid.UUID       `db:"site_id"`
	SelectorType  string          `db:"selector_type"`
	SelectorValue string          `db:"selector_value"`
	Confidence    float64         `db:"confidence"`
	Description   string          `db:"description"`
	Examples      json.RawMessage `db:"examples"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// SelectorHistoryEntry records a selector value that was replaced.
type SelectorHistoryEntry struct {
	ID            uuid.UUID `db:"id"`
	SelectorID    uuid.UUID `db:"selector_id"`
	SelectorValue string    `db:"selector_value"`
	Confidence    float64   `db:"confidence"`
	ReplacedAt    time.Time `db:"replaced_at"`
}

// SelectorRepository handles selector persistence
type SelectorRepository struct {
	db *DB
}

// NewSelectorRepository creates a new selector repository
func NewSelectorRepository(db *DB) *SelectorRepository {
	return &SelectorRepository{db: db}
}

// Upsert stores a selector for a site role. When the role already has a
// selector with a different value, the old value goes into selector_history
// before the row is updated. The whole operation runs in one transaction.
func (r *SelectorRepository) Upsert(ctx context.Context, rec *SelectorRecord) error {
	if rec.SiteID == uuid.Nil {
		return fmt.Errorf("selector record has no site id")
	}
	if rec.SelectorType == "" || rec.SelectorValue == "" {
		return fmt.Errorf("selector record has empty type or value")
	}
	if len(rec.Examples) == 0 {
		rec.Examples = json.RawMessage("[]")
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var existingID uuid.UUID
		var existingValue string
		var existingConfidence float64

		err := tx.QueryRow(ctx, `
			SELECT id, selector_value, confidence
			FROM selectors
			WHERE site_id = $1 AND selector_type = $2`,
			rec.SiteID, rec.SelectorType,
		).Scan(&existingID, &existingValue, &existingConfidence)

		switch {
		case err == pgx.ErrNoRows:
			// First selector for this role
		case err != nil:
			return fmt.Errorf("failed to look up existing selector: %w", err)
		case existingValue != rec.SelectorValue:
			_, err := tx.Exec(ctx, `
				INSERT INTO selector_history (id, selector_id, selector_value, confidence)
				VALUES ($1, $2, $3, $4)`,
				uuid.New(), existingID, existingValue, existingConfidence,
			)
			if err != nil {
				return fmt.Errorf("failed to record selector history: %w", err)
			}
		}

		query := `
			INSERT INTO selectors (id, site_id, selector_type, selector_value, confidence, description, examples)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (site_id, selector_type) DO UPDATE SET
				selector_value = EXCLUDED.selector_value,
				confidence = EXCLUDED.confidence,
				description = EXCLUDED.description,
				examples = EXCLUDED.examples,
				updated_at = CURRENT_TIMESTAMP
			RETURNING id, created_at, updated_at`

		err = tx.QueryRow(ctx, query,
			uuid.New(), rec.SiteID, rec.SelectorType, rec.SelectorValue,
			rec.Confidence, rec.Description, rec.Examples,
		).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert selector: %w", err)
		}

		return nil
	})
}

// GetBySite returns all selectors stored for a site
func (r *SelectorRepository) GetBySite(ctx context.Context, siteID uuid.UUID) ([]*SelectorRecord, error) {
	query := `
		SELECT id, site_id, selector_type, selector_value, confidence, description, examples, created_at, updated_at
		FROM selectors
		WHERE site_id = $1
		ORDER BY selector_type ASC`

	rows, err := r.db.pool.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selectors: %w", err)
	}
	defer rows.Close()

	var records []*SelectorRecord
	for rows.Next() {
		rec := &SelectorRecord{}
		err := rows.Scan(
			&rec.ID, &rec.SiteID, &rec.SelectorType, &rec.SelectorValue,
			&rec.Confidence, &rec.Description, &rec.Examples,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selector: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetHistory returns replaced values for a selector, newest first
func (r *SelectorRepository) GetHistory(ctx context.Context, selectorID uuid.UUID) ([]*SelectorHistoryEntry, error) {
	query := `
		SELECT id, selector_id, selector_value, confidence, replaced_at
		FROM selector_history
		WHERE selector_id = $1
		ORDER BY replaced_at DESC`

	rows, err := r.db.pool.Query(ctx, query, selectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selector history: %w", err)
	}
	defer rows.Close()

	var entries []*SelectorHistoryEntry
	for rows.Next() {
		entry := &SelectorHistoryEntry{}
		err := rows.Scan(&entry.ID, &entry.SelectorID, &entry.SelectorValue, &entry.Confidence, &entry.ReplacedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
