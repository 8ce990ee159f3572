package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/metrics"
	"livix-api/internal/repository"
)

var (
	ErrRoommateProfileNotFound = errors.New("roommate profile not found")
	ErrInvalidRoommateProfile  = errors.New("invalid roommate profile")
)

const defaultCandidatePoolLimit = 500

// RoommateService gestiona perfiles de convivencia y la busqueda de compañeros.
type RoommateService struct {
	logger    *zap.Logger
	profiles  repository.RoommateRepository
	likes     repository.LikeRepository
	poolLimit int
	now       func() time.Time
}

func NewRoommateService(logger *zap.Logger, profiles repository.RoommateRepository, likes repository.LikeRepository, poolLimit int) *RoommateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poolLimit <= 0 {
		poolLimit = defaultCandidatePoolLimit
	}
	return &RoommateService{
		logger:    logger,
		profiles:  profiles,
		likes:     likes,
		poolLimit: poolLimit,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProfileInput son los campos editables del perfil propio.
type ProfileInput struct {
	Name       string
	Age        int
	Bio        string
	Studies    string
	University string
	Location   string
	Images     []string
	Tags       []string
	Interests  []string
	BudgetMin  *int
	BudgetMax  *int
	Active     *bool
	Lifestyle  *domain.AttributeVector
}

func (s *RoommateService) GetMine(ctx context.Context, userID string) (domain.RoommateProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RoommateProfile{}, ErrRoommateProfileNotFound
		}
		return domain.RoommateProfile{}, fmt.Errorf("get roommate profile: %w", err)
	}
	return profile, nil
}

// SaveMine crea o actualiza el perfil del usuario. Un vector ausente conserva el actual
// (o el neutro si el perfil es nuevo).
func (s *RoommateService) SaveMine(ctx context.Context, userID string, verified bool, input ProfileInput) (domain.RoommateProfile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.RoommateProfile{}, fmt.Errorf("%w: name is required", ErrInvalidRoommateProfile)
	}
	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMin > *input.BudgetMax {
		return domain.RoommateProfile{}, fmt.Errorf("%w: budget_min greater than budget_max", ErrInvalidRoommateProfile)
	}
	if input.Lifestyle != nil {
		if err := input.Lifestyle.Validate(); err != nil {
			return domain.RoommateProfile{}, err
		}
	}

	now := s.now()
	profile, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		profile = domain.RoommateProfile{
			ID:        uuid.NewString(),
			UserID:    userID,
			Active:    true,
			Lifestyle: domain.DefaultAttributeVector(),
			CreatedAt: now,
		}
	case err != nil:
		return domain.RoommateProfile{}, fmt.Errorf("get roommate profile: %w", err)
	}

	profile.Name = name
	profile.Age = input.Age
	profile.Bio = strings.TrimSpace(input.Bio)
	profile.Studies = strings.TrimSpace(input.Studies)
	profile.University = strings.TrimSpace(input.University)
	profile.Location = strings.TrimSpace(input.Location)
	profile.Images = input.Images
	profile.Tags = input.Tags
	profile.Interests = input.Interests
	profile.BudgetMin = input.BudgetMin
	profile.BudgetMax = input.BudgetMax
	profile.Verified = verified
	if input.Active != nil {
		profile.Active = *input.Active
	}
	if input.Lifestyle != nil {
		profile.Lifestyle = *input.Lifestyle
	}
	profile.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return domain.RoommateProfile{}, fmt.Errorf("save roommate profile: %w", err)
	}
	return profile, nil
}

// SearchInput define una pasada de ranking. Reference nil usa el vector guardado del usuario.
type SearchInput struct {
	Reference    *domain.AttributeVector
	Filter       CandidateFilter
	ExcludeLiked bool
}

// Search ejecuta el ranking completo sobre los perfiles activos, excluyendo al propio usuario.
// Si hay más perfiles que el limite del pool se preseleccionan los más cercanos por distancia L1.
func (s *RoommateService) Search(ctx context.Context, userID string, input SearchInput) ([]domain.ScoredCandidate, error) {
	viewer, err := s.profiles.GetByUserID(ctx, userID)
	hasViewer := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get roommate profile: %w", err)
	}

	var reference domain.AttributeVector
	switch {
	case input.Reference != nil:
		if err := input.Reference.Validate(); err != nil {
			return nil, err
		}
		reference = *input.Reference
	case hasViewer:
		reference = viewer.Lifestyle
	default:
		reference = domain.DefaultAttributeVector()
	}

	excluded := map[string]struct{}{userID: {}}
	if input.ExcludeLiked && s.likes != nil {
		liked, err := s.likes.LikedBy(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list likes: %w", err)
		}
		for _, id := range liked {
			excluded[id] = struct{}{}
		}
	}

	pool, source, err := s.candidatePool(ctx, reference, candidateQuery(excluded, input.Filter))
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.RoommateProfile, 0, len(pool))
	for _, p := range pool {
		if _, skip := excluded[p.UserID]; skip {
			continue
		}
		candidates = append(candidates, p)
	}

	ranked := RankCandidates(reference, candidates, input.Filter)
	if hasViewer {
		for i := range ranked {
			ranked[i].MatchTags = MatchTags(viewer, ranked[i].RoommateProfile)
		}
	}

	metrics.RankingPasses.WithLabelValues(source).Inc()
	metrics.RankingCandidates.Observe(float64(len(candidates)))
	return ranked, nil
}

// candidatePool trae los perfiles a puntuar. Por encima del limite, las exclusiones y filtros
// viajan en la consulta para que el corte a los k más cercanos se haga sobre candidatos validos.
func (s *RoommateService) candidatePool(ctx context.Context, reference domain.AttributeVector, q repository.CandidateQuery) ([]domain.RoommateProfile, string, error) {
	total, err := s.profiles.CountActive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("count roommate profiles: %w", err)
	}
	if total > s.poolLimit {
		s.logger.Debug("candidate pool over limit, using vector prefilter",
			zap.Int("total", total),
			zap.Int("limit", s.poolLimit),
		)
		pool, err := s.profiles.NearestByLifestyle(ctx, reference, q, s.poolLimit)
		if err != nil {
			return nil, "", fmt.Errorf("nearest roommate profiles: %w", err)
		}
		return pool, "vector", nil
	}
	pool, err := s.profiles.ListActive(ctx, s.poolLimit)
	if err != nil {
		return nil, "", fmt.Errorf("list roommate profiles: %w", err)
	}
	return pool, "full", nil
}

func candidateQuery(excluded map[string]struct{}, filter CandidateFilter) repository.CandidateQuery {
	ids := make([]string, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return repository.CandidateQuery{
		ExcludeUserIDs: ids,
		Search:         strings.TrimSpace(filter.Search),
		Zones:          filter.normalizedZones(),
		VerifiedOnly:   filter.VerifiedOnly,
	}
}
