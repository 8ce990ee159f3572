package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"livix-api/internal/domain"
)

// RoommateRepository define el contrato de persistencia para perfiles de convivencia.
type RoommateRepository interface {
	Upsert(ctx context.Context, profile domain.RoommateProfile) error
	GetByUserID(ctx context.Context, userID string) (domain.RoommateProfile, error)
	ListActive(ctx context.Context, limit int) ([]domain.RoommateProfile, error)
	CountActive(ctx context.Context) (int, error)
	NearestByLifestyle(ctx context.Context, reference domain.AttributeVector, q CandidateQuery, k int) ([]domain.RoommateProfile, error)
}

// CandidateQuery son las exclusiones y filtros que se aplican antes de cortar a los k más cercanos.
// Search y Zones son subcadenas sin distinguir mayusculas, igual que en el ranking.
type CandidateQuery struct {
	ExcludeUserIDs []string
	Search         string
	Zones          []string
	VerifiedOnly   bool
}

// PgRoommateRepository implementa RoommateRepository usando pgxpool.
// El vector de convivencia se guarda en una columna vector(5) de pgvector.
type PgRoommateRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoommateRepository(pool *pgxpool.Pool) *PgRoommateRepository {
	return &PgRoommateRepository{pool: pool}
}

const roommateColumns = `id, user_id, name, age, bio, studies, university, location, images, tags, interests,
	budget_min, budget_max, verified, active, lifestyle, created_at, updated_at`

func (r *PgRoommateRepository) Upsert(ctx context.Context, profile domain.RoommateProfile) error {
	const query = `
		INSERT INTO roommate_profiles (` + roommateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (user_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			bio = EXCLUDED.bio,
			studies = EXCLUDED.studies,
			university = EXCLUDED.university,
			location = EXCLUDED.location,
			images = EXCLUDED.images,
			tags = EXCLUDED.tags,
			interests = EXCLUDED.interests,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			active = EXCLUDED.active,
			lifestyle = EXCLUDED.lifestyle,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Age,
		profile.Bio,
		profile.Studies,
		profile.University,
		profile.Location,
		profile.Images,
		profile.Tags,
		profile.Interests,
		profile.BudgetMin,
		profile.BudgetMax,
		profile.Verified,
		profile.Active,
		pgvector.NewVector(profile.Lifestyle.Float32s()),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *PgRoommateRepository) GetByUserID(ctx context.Context, userID string) (domain.RoommateProfile, error) {
	const query = `SELECT ` + roommateColumns + ` FROM roommate_profiles WHERE user_id = $1`
	profile, err := scanRoommate(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return domain.RoommateProfile{}, err
	}
	return profile, nil
}

// ListActive devuelve los perfiles activos en orden de creación (orden estable para el ranking).
func (r *PgRoommateRepository) ListActive(ctx context.Context, limit int) ([]domain.RoommateProfile, error) {
	if limit <= 0 {
		limit = 500
	}
	const query = `
		SELECT ` + roommateColumns + `
		FROM roommate_profiles
		WHERE active = TRUE
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectRoommates(rows)
}

func (r *PgRoommateRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM roommate_profiles WHERE active = TRUE`
	var n int
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

// NearestByLifestyle preselecciona los k perfiles con menor distancia L1 (<+>) al vector dado
// entre los que pasan las exclusiones y filtros de q.
// La distancia L1 coincide con la desviacion total usada por la compatibilidad.
func (r *PgRoommateRepository) NearestByLifestyle(ctx context.Context, reference domain.AttributeVector, q CandidateQuery, k int) ([]domain.RoommateProfile, error) {
	if k <= 0 {
		k = 500
	}
	const query = `
		SELECT ` + roommateColumns + `
		FROM roommate_profiles
		WHERE active = TRUE
		  AND NOT (user_id = ANY($3::text[]))
		  AND ($4::boolean = FALSE OR verified = TRUE)
		  AND (cardinality($5::text[]) = 0 OR location ILIKE ANY($5::text[]))
		  AND ($6::text = '' OR name ILIKE $6 OR bio ILIKE $6 OR studies ILIKE $6
		       OR university ILIKE $6 OR location ILIKE $6
		       OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $6))
		ORDER BY lifestyle <+> $1, created_at ASC, id ASC
		LIMIT $2
	`
	excluded := q.ExcludeUserIDs
	if excluded == nil {
		excluded = []string{}
	}
	zones := make([]string, 0, len(q.Zones))
	for _, z := range q.Zones {
		if z = strings.TrimSpace(z); z != "" {
			zones = append(zones, containsPattern(z))
		}
	}
	search := ""
	if term := strings.TrimSpace(q.Search); term != "" {
		search = containsPattern(term)
	}

	rows, err := r.pool.Query(ctx, query,
		pgvector.NewVector(reference.Clamp().Float32s()),
		k,
		excluded,
		q.VerifiedOnly,
		zones,
		search,
	)
	if err != nil {
		return nil, err
	}
	return collectRoommates(rows)
}

// containsPattern escapa los comodines de LIKE y envuelve el termino en %...%.
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func collectRoommates(rows pgx.Rows) ([]domain.RoommateProfile, error) {
	defer rows.Close()

	var profiles []domain.RoommateProfile
	for rows.Next() {
		p, err := scanRoommate(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func scanRoommate(row pgx.Row) (domain.RoommateProfile, error) {
	var (
		p         domain.RoommateProfile
		age       *int
		lifestyle pgvector.Vector
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&age,
		&p.Bio,
		&p.Studies,
		&p.University,
		&p.Location,
		&p.Images,
		&p.Tags,
		&p.Interests,
		&p.BudgetMin,
		&p.BudgetMax,
		&p.Verified,
		&p.Active,
		&lifestyle,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.RoommateProfile{}, err
	}
	if age != nil {
		p.Age = *age
	}
	p.Lifestyle = domain.AttributeVectorFromFloat32s(lifestyle.Slice())
	return p, nil
}
