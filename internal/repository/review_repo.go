package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"livix-api/internal/domain"
)

// ReviewRepository define el contrato de persistencia para reseñas.
type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) error
	GetByID(ctx context.Context, id string) (domain.Review, error)
	ExistsForStudent(ctx context.Context, studentID, listingID string) (bool, error)
	ListByListing(ctx context.Context, listingID string) ([]domain.Review, error)
	Respond(ctx context.Context, id, response string, at time.Time) error
}

type PgReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPgReviewRepository(pool *pgxpool.Pool) *PgReviewRepository {
	return &PgReviewRepository{pool: pool}
}

const reviewColumns = `id, listing_id, student_id, landlord_id, rating, comment, landlord_response,
	landlord_response_at, created_at, updated_at`

func (r *PgReviewRepository) Create(ctx context.Context, rv domain.Review) error {
	const query = `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		rv.ID,
		rv.ListingID,
		rv.StudentID,
		rv.LandlordID,
		rv.Rating,
		rv.Comment,
		rv.LandlordResponse,
		rv.LandlordResponseAt,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	return err
}

func (r *PgReviewRepository) GetByID(ctx context.Context, id string) (domain.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	rv, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Review{}, err
	}
	return rv, err
}

func (r *PgReviewRepository) ExistsForStudent(ctx context.Context, studentID, listingID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reviews WHERE student_id = $1 AND listing_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, listingID).Scan(&exists)
	return exists, err
}

func (r *PgReviewRepository) ListByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PgReviewRepository) Respond(ctx context.Context, id, response string, at time.Time) error {
	const query = `
		UPDATE reviews
		SET landlord_response = $2, landlord_response_at = $3, updated_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, response, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(
		&rv.ID,
		&rv.ListingID,
		&rv.StudentID,
		&rv.LandlordID,
		&rv.Rating,
		&rv.Comment,
		&rv.LandlordResponse,
		&rv.LandlordResponseAt,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	return rv, err
}
