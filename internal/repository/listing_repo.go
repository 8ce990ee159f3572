package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"livix-api/internal/domain"
)

// ListingRepository define el contrato de persistencia para alojamientos.
type ListingRepository interface {
	Create(ctx context.Context, listing domain.Listing) error
	GetByID(ctx context.Context, id string) (domain.Listing, error)
	ListActive(ctx context.Context) ([]domain.Listing, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.Listing, error)
}

// PgListingRepository implementa ListingRepository usando pgxpool.
type PgListingRepository struct {
	pool *pgxpool.Pool
}

func NewPgListingRepository(pool *pgxpool.Pool) *PgListingRepository {
	return &PgListingRepository{pool: pool}
}

const listingColumns = `id, landlord_id, title, description, address, city, property_type, price, deposit,
	bedrooms, bathrooms, amenities, photos, lat, lng, verified, status, available_at, minimum_stay,
	created_at, updated_at`

func (r *PgListingRepository) Create(ctx context.Context, l domain.Listing) error {
	const query = `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.LandlordID,
		l.Title,
		l.Description,
		l.Address,
		l.City,
		l.PropertyType,
		l.Price,
		l.Deposit,
		l.Bedrooms,
		l.Bathrooms,
		l.Amenities,
		l.Photos,
		l.Location.Lat,
		l.Location.Lng,
		l.Verified,
		l.Status,
		l.AvailableAt,
		l.MinimumStay,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *PgListingRepository) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Listing{}, err
	}
	return l, err
}

// ListActive devuelve los alojamientos activos en el orden de relevancia por defecto (alta más reciente primero).
func (r *PgListingRepository) ListActive(ctx context.Context) ([]domain.Listing, error) {
	const query = `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE status = 'active'
		ORDER BY created_at DESC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func (r *PgListingRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Listing, error) {
	const query = `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE landlord_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, landlordID)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.LandlordID,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.City,
		&l.PropertyType,
		&l.Price,
		&l.Deposit,
		&l.Bedrooms,
		&l.Bathrooms,
		&l.Amenities,
		&l.Photos,
		&l.Location.Lat,
		&l.Location.Lng,
		&l.Verified,
		&l.Status,
		&l.AvailableAt,
		&l.MinimumStay,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}
