package postgres_adapter

import (
	"context"
	"errors"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id            TEXT PRIMARY KEY,
		source        TEXT NOT NULL,
		title         TEXT NOT NULL DEFAULT '',
		price         INTEGER NOT NULL DEFAULT 0,
		bedrooms      INTEGER,
		bathrooms     INTEGER NOT NULL DEFAULT 1,
		property_type TEXT NOT NULL DEFAULT '',
		area          TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		url           TEXT NOT NULL,
		image_url     TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		features      TEXT[] NOT NULL DEFAULT '{}',
		posted_at     TIMESTAMPTZ,
		first_seen_at TIMESTAMPTZ NOT NULL,
		notified_at   TIMESTAMPTZ,
		contacted_at  TIMESTAMPTZ,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id         BIGSERIAL PRIMARY KEY,
		listing_id TEXT NOT NULL REFERENCES listings(id),
		sent_at    TIMESTAMPTZ NOT NULL
	)`,
	`ALTER TABLE listings ADD COLUMN IF NOT EXISTS latitude DOUBLE PRECISION`,
	`ALTER TABLE listings ADD COLUMN IF NOT EXISTS longitude DOUBLE PRECISION`,
	`ALTER TABLE listings ADD COLUMN IF NOT EXISTS geohash TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_first_seen ON listings(first_seen_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_notified ON listings(notified_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_listing ON contacts(listing_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_geohash ON listings(geohash text_pattern_ops)`,
}

const listingColumns = `id, source, title, price, bedrooms, bathrooms, property_type, area, address,
	url, image_url, description, features, posted_at, first_seen_at, notified_at, contacted_at, is_active, latitude, longitude`

// PostgresListingRepository - реализация порта хранилища для PostgreSQL
type PostgresListingRepository struct {
	pool  *pgxpool.Pool
	clock port.Clock
}

func NewPostgresListingRepository(pool *pgxpool.Pool, clock port.Clock) (*PostgresListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if clock == nil {
		clock = time.Now
	}
	return &PostgresListingRepository{pool: pool, clock: clock}, nil
}

// EnsureSchema создает таблицы и индексы, если их нет
func (r *PostgresListingRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresListingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check listing %s: %w", id, err)
	}
	return exists, nil
}

// Add вставляет объявление. Конфликт по id не ошибка: RowsAffected == 0 значит "уже было".
func (r *PostgresListingRepository) Add(ctx context.Context, l domain.Listing) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "Add",
		"listing_id": l.ID,
	})

	query := `INSERT INTO listings (id, source, title, price, bedrooms, bathrooms, property_type, area, address,
		url, image_url, description, features, posted_at, first_seen_at, latitude, longitude, geohash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING`

	features := l.Features
	if features == nil {
		features = []string{}
	}

	lat, lon := locationCoords(l.Location)

	cmdTag, err := r.pool.Exec(ctx, query,
		l.ID, l.Source, l.Title, l.Price, nullableBedrooms(l.Bedrooms), l.Bathrooms, l.PropertyType, l.Area, l.Address,
		l.URL, l.ImageURL, l.Description, features, l.PostedAt, r.clock().UTC(), lat, lon, locationCell(l.Location),
	)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return false, fmt.Errorf("failed to insert listing %s: %w", l.ID, err)
	}

	inserted := cmdTag.RowsAffected() == 1
	if inserted {
		repoLogger.Debug("Listing stored.", nil)
	}
	return inserted, nil
}

func (r *PostgresListingRepository) MarkNotified(ctx context.Context, id string) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE listings SET notified_at = $2 WHERE id = $1`, id, r.clock().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark listing %s as notified: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("mark notified %s: %w", id, domain.ErrListingNotFound)
	}
	return nil
}

// MarkContacted отмечает отклик и пишет запись в contacts в одной транзакции
func (r *PostgresListingRepository) MarkContacted(ctx context.Context, id string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresListingRepository",
		"method":     "MarkContacted",
		"listing_id": id,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var contactedAt *time.Time
	err = tx.QueryRow(ctx, `SELECT contacted_at FROM listings WHERE id = $1 FOR UPDATE`, id).Scan(&contactedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("mark contacted %s: %w", id, domain.ErrListingNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock listing %s: %w", id, err)
	}
	if contactedAt != nil {
		return fmt.Errorf("mark contacted %s: %w", id, domain.ErrAlreadyContacted)
	}

	now := r.clock().UTC()
	if _, err := tx.Exec(ctx, `UPDATE listings SET contacted_at = $2 WHERE id = $1`, id, now); err != nil {
		return fmt.Errorf("failed to mark listing %s as contacted: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO contacts (listing_id, sent_at) VALUES ($1, $2)`, id, now); err != nil {
		return fmt.Errorf("failed to record contact for %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit contact", err, nil)
		return fmt.Errorf("failed to commit contact for %s: %w", id, err)
	}

	repoLogger.Info("Listing marked as contacted.", nil)
	return nil
}

func (r *PostgresListingRepository) GetListing(ctx context.Context, id string) (*domain.StoredListing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	stored, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return stored, nil
}

func (r *PostgresListingRepository) RecentListings(ctx context.Context, since time.Time) ([]domain.StoredListing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE first_seen_at >= $1 ORDER BY first_seen_at DESC, id`
	return r.queryListings(ctx, query, since.UTC())
}

func (r *PostgresListingRepository) UncontactedListings(ctx context.Context) ([]domain.StoredListing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE notified_at IS NOT NULL AND contacted_at IS NULL AND is_active
		ORDER BY first_seen_at DESC, id`
	return r.queryListings(ctx, query)
}

func (r *PostgresListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]domain.StoredListing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.StoredListing, 0)
	for rows.Next() {
		stored, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during listings iteration: %w", err)
	}
	return listings, nil
}

func (r *PostgresListingRepository) Stats(ctx context.Context, now time.Time) (domain.ListingStats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE first_seen_at >= $1),
		COUNT(notified_at),
		COUNT(*) FILTER (WHERE notified_at >= $1),
		COUNT(contacted_at),
		COUNT(*) FILTER (WHERE contacted_at >= $1),
		COUNT(*) FILTER (WHERE is_active)
	FROM listings`

	var s domain.ListingStats
	err := r.pool.QueryRow(ctx, query, now.Add(-24*time.Hour).UTC()).Scan(
		&s.Total, &s.Last24h, &s.Notified, &s.NotifiedLast24, &s.Contacted, &s.ContactedLast24, &s.Active,
	)
	if err != nil {
		return domain.ListingStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}

// nullableBedrooms: неизвестное количество спален хранится как NULL
func nullableBedrooms(bedrooms int) *int {
	if bedrooms < 0 {
		return nil
	}
	return &bedrooms
}

func scanListing(row pgx.Row) (*domain.StoredListing, error) {
	var s domain.StoredListing
	var bedrooms *int
	var lat, lon *float64
	err := row.Scan(
		&s.ID, &s.Source, &s.Title, &s.Price, &bedrooms, &s.Bathrooms, &s.PropertyType, &s.Area, &s.Address,
		&s.URL, &s.ImageURL, &s.Description, &s.Features, &s.PostedAt, &s.FirstSeenAt, &s.NotifiedAt, &s.ContactedAt, &s.IsActive,
		&lat, &lon,
	)
	if err != nil {
		return nil, err
	}
	s.Bedrooms = domain.BedroomsUnknown
	if bedrooms != nil {
		s.Bedrooms = *bedrooms
	}
	s.Location = pointFromColumns(lat, lon)
	return &s, nil
}
