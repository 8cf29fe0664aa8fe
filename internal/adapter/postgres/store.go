// Package postgres implements domain.PlaceStore on a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store owns the connection pool to the places database.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and verifies the connection.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// SelectByIDs fetches the records for the given ids. Ids with no matching
// row are simply absent from the result.
func (s *Store) SelectByIDs(ctx context.Context, ids []string) ([]domain.PlaceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, latitude, longitude,
		       COALESCE(street, ''), COALESCE(house_number, ''),
		       COALESCE(city, ''), COALESCE(county, ''), COALESCE(state, ''),
		       COALESCE(country, ''), COALESCE(postcode, '')
		FROM places
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select places: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PlaceRecord, 0, len(ids))
	for rows.Next() {
		var rec domain.PlaceRecord
		if err := rows.Scan(
			&rec.ID, &rec.Lat, &rec.Lon,
			&rec.Street, &rec.HouseNumber,
			&rec.City, &rec.County, &rec.State,
			&rec.Country, &rec.Postcode,
		); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate places: %w", rows.Err())
	}

	return records, nil
}

// UpdateAddress writes the resolved address fields for one place. Fields the
// provider did not supply are stored as NULL, keeping the candidate
// predicate (missing street or city) consistent across runs.
func (s *Store) UpdateAddress(ctx context.Context, id string, addr domain.AddressComponents) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE places
		SET street = NULLIF($2, ''), house_number = NULLIF($3, ''),
		    city = NULLIF($4, ''), county = NULLIF($5, ''), state = NULLIF($6, ''),
		    country = NULLIF($7, ''), postcode = NULLIF($8, ''),
		    updated_at = now()
		WHERE id = $1
	`, id, addr.Street, addr.HouseNumber, addr.City, addr.County, addr.State, addr.Country, addr.Postcode)
	if err != nil {
		return fmt.Errorf("update place %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place %s not found", id)
	}
	return nil
}

// CheckReadiness reports whether the database is reachable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
