package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/metrics"
	"livix-api/internal/repository"
)

var (
	ErrSelfLike        = errors.New("cannot like your own profile")
	ErrLikeRateLimited = errors.New("too many likes, try again later")
)

// MatchService gestiona likes entre compañeros y la creación de matches mutuos.
type MatchService struct {
	logger   *zap.Logger
	likes    repository.LikeRepository
	profiles repository.RoommateRepository
	chats    *ChatStore
	limiter  LikeRateLimiter
	now      func() time.Time
}

func NewMatchService(logger *zap.Logger, likes repository.LikeRepository, profiles repository.RoommateRepository, chats *ChatStore, limiter LikeRateLimiter) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewLikeRateLimiter(time.Hour, 100)
	}
	return &MatchService{
		logger:   logger,
		likes:    likes,
		profiles: profiles,
		chats:    chats,
		limiter:  limiter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LikeResult indica si el like generó un match.
type LikeResult struct {
	Matched bool                  `json:"matched"`
	Match   *domain.RoommateMatch `json:"match,omitempty"`
}

// Like registra el like y, si es reciproco, crea el match y abre la conversación.
func (s *MatchService) Like(ctx context.Context, likerID, likedID string) (LikeResult, error) {
	if likerID == likedID {
		return LikeResult{}, ErrSelfLike
	}
	if _, err := s.profiles.GetByUserID(ctx, likedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LikeResult{}, ErrRoommateProfileNotFound
		}
		return LikeResult{}, fmt.Errorf("get roommate profile: %w", err)
	}
	if !s.limiter.Allow(likerID) {
		return LikeResult{}, ErrLikeRateLimited
	}

	now := s.now()
	if _, err := s.likes.Like(ctx, domain.RoommateLike{LikerID: likerID, LikedID: likedID, CreatedAt: now}); err != nil {
		return LikeResult{}, fmt.Errorf("save like: %w", err)
	}

	mutual, err := s.likes.Exists(ctx, likedID, likerID)
	if err != nil {
		return LikeResult{}, fmt.Errorf("check reverse like: %w", err)
	}
	if !mutual {
		return LikeResult{}, nil
	}

	match := domain.NewRoommateMatch(likerID, likedID, now)
	created, err := s.likes.CreateMatch(ctx, match)
	if err != nil {
		return LikeResult{}, fmt.Errorf("save match: %w", err)
	}
	if created {
		metrics.RoommateMatches.Inc()
		s.logger.Info("roommate match created",
			zap.String("user1_id", match.User1ID),
			zap.String("user2_id", match.User2ID),
		)
	}
	if s.chats != nil {
		if _, err := s.chats.EnsureConversation(likerID, likedID, domain.ConversationRoommate); err != nil {
			s.logger.Warn("open match conversation failed", zap.Error(err))
		}
	}
	return LikeResult{Matched: true, Match: &match}, nil
}

func (s *MatchService) Unlike(ctx context.Context, likerID, likedID string) error {
	if likerID == likedID {
		return ErrSelfLike
	}
	if err := s.likes.Unlike(ctx, likerID, likedID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// Matches devuelve los matches del usuario, más recientes primero.
func (s *MatchService) Matches(ctx context.Context, userID string) ([]domain.RoommateMatch, error) {
	matches, err := s.likes.MatchesFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if matches == nil {
		matches = []domain.RoommateMatch{}
	}
	return matches, nil
}
