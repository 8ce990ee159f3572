package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"livix-api/internal/domain"
)

// ListingViewRepository registra visitas a alojamientos para las analiticas del propietario.
type ListingViewRepository interface {
	Create(ctx context.Context, view domain.ListingView) error
	ListSince(ctx context.Context, listingIDs []string, since time.Time) ([]domain.ListingView, error)
}

type PgListingViewRepository struct {
	pool *pgxpool.Pool
}

func NewPgListingViewRepository(pool *pgxpool.Pool) *PgListingViewRepository {
	return &PgListingViewRepository{pool: pool}
}

func (r *PgListingViewRepository) Create(ctx context.Context, v domain.ListingView) error {
	const query = `
		INSERT INTO listing_views (id, listing_id, viewer_id, session_id, referrer, user_agent, viewed_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.ListingID,
		v.ViewerID,
		v.SessionID,
		v.Referrer,
		v.UserAgent,
		v.ViewedAt,
	)
	return err
}

// ListSince devuelve las visitas de los alojamientos indicados desde la fecha dada, más recientes primero.
func (r *PgListingViewRepository) ListSince(ctx context.Context, listingIDs []string, since time.Time) ([]domain.ListingView, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	const query = `
		SELECT id, listing_id, COALESCE(viewer_id, ''), session_id, referrer, user_agent, viewed_at
		FROM listing_views
		WHERE listing_id = ANY($1) AND viewed_at >= $2
		ORDER BY viewed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, listingIDs, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.ListingView
	for rows.Next() {
		var v domain.ListingView
		if err := rows.Scan(&v.ID, &v.ListingID, &v.ViewerID, &v.SessionID, &v.Referrer, &v.UserAgent, &v.ViewedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
