package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"livix-api/internal/domain"
)

// ApplicationRepository define el contrato de persistencia para solicitudes de alojamiento.
type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) error
	GetByID(ctx context.Context, id string) (domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, reason string, at time.Time) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.Application, error)
	ListByLandlordSince(ctx context.Context, landlordID string, since time.Time) ([]domain.Application, error)
	HasOpen(ctx context.Context, studentID, listingID string) (bool, error)
}

type PgApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewPgApplicationRepository(pool *pgxpool.Pool) *PgApplicationRepository {
	return &PgApplicationRepository{pool: pool}
}

const applicationColumns = `id, student_id, landlord_id, listing_id, status, message, move_in_date, move_out_date,
	budget_eur, student_name, student_email, is_erasmus, rejection_reason, created_at, updated_at`

func (r *PgApplicationRepository) Create(ctx context.Context, a domain.Application) error {
	const query = `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.StudentID,
		a.LandlordID,
		a.ListingID,
		string(a.Status),
		a.Message,
		a.MoveInDate,
		a.MoveOutDate,
		a.BudgetEUR,
		a.StudentName,
		a.StudentEmail,
		a.IsErasmus,
		a.RejectionReason,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *PgApplicationRepository) GetByID(ctx context.Context, id string) (domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, err
	}
	return a, err
}

func (r *PgApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, reason string, at time.Time) error {
	const query = `
		UPDATE applications
		SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status), reason, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE student_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, studentID)
}

func (r *PgApplicationRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE landlord_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, landlordID)
}

func (r *PgApplicationRepository) ListByLandlordSince(ctx context.Context, landlordID string, since time.Time) ([]domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE landlord_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, landlordID, since)
}

// HasOpen indica si el estudiante tiene una solicitud no final para el alojamiento.
func (r *PgApplicationRepository) HasOpen(ctx context.Context, studentID, listingID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE student_id = $1 AND listing_id = $2
			  AND status IN ('sent', 'preapproved', 'pending_docs')
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, listingID).Scan(&exists)
	return exists, err
}

func (r *PgApplicationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var (
		a      domain.Application
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&a.LandlordID,
		&a.ListingID,
		&status,
		&a.Message,
		&a.MoveInDate,
		&a.MoveOutDate,
		&a.BudgetEUR,
		&a.StudentName,
		&a.StudentEmail,
		&a.IsErasmus,
		&a.RejectionReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.Status = domain.ApplicationStatus(status)
	return a, err
}
