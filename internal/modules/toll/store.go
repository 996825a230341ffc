// README: Toll cache store contract and its PostgreSQL implementation.
package toll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the keyed cache the service reads through. Get returns
// ErrCacheMiss when no row exists; expiry is judged by the caller.
type Store interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Upsert(ctx context.Context, e Entry) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key Key) (*Entry, error) {
	row := s.db.QueryRow(ctx, `
		SELECT origin_hash, destination_hash, toll_amount, currency, source,
		       fetched_at, expires_at, COALESCE(encoded_polyline, '')
		FROM toll_cache
		WHERE origin_hash = $1 AND destination_hash = $2`,
		key.OriginHash, key.DestinationHash,
	)

	var e Entry
	err := row.Scan(
		&e.OriginHash, &e.DestinationHash, &e.TollAmount, &e.Currency, &e.Source,
		&e.FetchedAt, &e.ExpiresAt, &e.EncodedPolyline,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get toll cache: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, e Entry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO toll_cache (
			origin_hash, destination_hash, toll_amount, currency, source,
			fetched_at, expires_at, encoded_polyline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		ON CONFLICT (origin_hash, destination_hash) DO UPDATE
		SET toll_amount = EXCLUDED.toll_amount,
		    currency = EXCLUDED.currency,
		    source = EXCLUDED.source,
		    fetched_at = EXCLUDED.fetched_at,
		    expires_at = EXCLUDED.expires_at,
		    encoded_polyline = EXCLUDED.encoded_polyline`,
		e.OriginHash, e.DestinationHash, e.TollAmount, e.Currency, string(e.Source),
		e.FetchedAt, e.ExpiresAt, e.EncodedPolyline,
	)
	if err != nil {
		return fmt.Errorf("upsert toll cache: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM toll_cache WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired toll cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
