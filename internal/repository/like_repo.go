package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"livix-api/internal/domain"
)

// LikeRepository persiste likes entre compañeros y los matches resultantes.
type LikeRepository interface {
	// Like devuelve false si el like ya existia.
	Like(ctx context.Context, like domain.RoommateLike) (bool, error)
	Unlike(ctx context.Context, likerID, likedID string) error
	Exists(ctx context.Context, likerID, likedID string) (bool, error)
	LikedBy(ctx context.Context, likerID string) ([]string, error)
	// CreateMatch devuelve false si el match ya existia.
	CreateMatch(ctx context.Context, match domain.RoommateMatch) (bool, error)
	MatchesFor(ctx context.Context, userID string) ([]domain.RoommateMatch, error)
}

// PgLikeRepository implementa LikeRepository usando pgxpool.
type PgLikeRepository struct {
	pool *pgxpool.Pool
}

func NewPgLikeRepository(pool *pgxpool.Pool) *PgLikeRepository {
	return &PgLikeRepository{pool: pool}
}

func (r *PgLikeRepository) Like(ctx context.Context, like domain.RoommateLike) (bool, error) {
	const query = `
		INSERT INTO roommate_likes (liker_id, liked_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (liker_id, liked_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, like.LikerID, like.LikedID, like.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgLikeRepository) Unlike(ctx context.Context, likerID, likedID string) error {
	const query = `DELETE FROM roommate_likes WHERE liker_id = $1 AND liked_id = $2`
	_, err := r.pool.Exec(ctx, query, likerID, likedID)
	return err
}

func (r *PgLikeRepository) Exists(ctx context.Context, likerID, likedID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM roommate_likes WHERE liker_id = $1 AND liked_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, likerID, likedID).Scan(&exists)
	return exists, err
}

func (r *PgLikeRepository) LikedBy(ctx context.Context, likerID string) ([]string, error) {
	const query = `SELECT liked_id FROM roommate_likes WHERE liker_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, likerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgLikeRepository) CreateMatch(ctx context.Context, match domain.RoommateMatch) (bool, error) {
	const query = `
		INSERT INTO roommate_matches (user1_id, user2_id, matched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, match.User1ID, match.User2ID, match.MatchedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgLikeRepository) MatchesFor(ctx context.Context, userID string) ([]domain.RoommateMatch, error) {
	const query = `
		SELECT user1_id, user2_id, matched_at
		FROM roommate_matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY matched_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.RoommateMatch
	for rows.Next() {
		var m domain.RoommateMatch
		if err := rows.Scan(&m.User1ID, &m.User2ID, &m.MatchedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
