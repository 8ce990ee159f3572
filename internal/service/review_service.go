package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidReview    = errors.New("invalid review")
	ErrDuplicateReview  = errors.New("listing already reviewed by this student")
	ErrReviewForbidden  = errors.New("not allowed to respond to this review")
	ErrOwnListingReview = errors.New("cannot review your own listing")
)

const (
	minReviewRating        = 1
	maxReviewRating        = 5
	minReviewCommentLength = 10
)

// ReviewService gestiona reseñas de alojamientos y respuestas del propietario.
type ReviewService struct {
	logger   *zap.Logger
	reviews  repository.ReviewRepository
	listings repository.ListingRepository
	now      func() time.Time
}

func NewReviewService(logger *zap.Logger, reviews repository.ReviewRepository, listings repository.ListingRepository) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		logger:   logger,
		reviews:  reviews,
		listings: listings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReviewService) Create(ctx context.Context, studentID, listingID string, rating int, comment string) (domain.Review, error) {
	comment = strings.TrimSpace(comment)
	if rating < minReviewRating || rating > maxReviewRating {
		return domain.Review{}, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReview, minReviewRating, maxReviewRating)
	}
	if len([]rune(comment)) < minReviewCommentLength {
		return domain.Review{}, fmt.Errorf("%w: comment must be at least %d characters", ErrInvalidReview, minReviewCommentLength)
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrListingNotFound
		}
		return domain.Review{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.LandlordID == studentID {
		return domain.Review{}, ErrOwnListingReview
	}
	exists, err := s.reviews.ExistsForStudent(ctx, studentID, listingID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return domain.Review{}, ErrDuplicateReview
	}

	now := s.now()
	review := domain.Review{
		ID:         uuid.NewString(),
		ListingID:  listingID,
		StudentID:  studentID,
		LandlordID: listing.LandlordID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// Summary devuelve las reseñas con la media redondeada a un decimal (nil si no hay ninguna).
func (s *ReviewService) Summary(ctx context.Context, listingID string) (domain.ReviewSummary, error) {
	reviews, err := s.reviews.ListByListing(ctx, listingID)
	if err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	summary := domain.ReviewSummary{Reviews: reviews, TotalReviews: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		avg := math.Round(float64(total)/float64(len(reviews))*10) / 10
		summary.AverageRating = &avg
	}
	return summary, nil
}

// Respond guarda la respuesta del propietario del alojamiento reseñado.
func (s *ReviewService) Respond(ctx context.Context, landlordID, reviewID, response string) (domain.Review, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return domain.Review{}, fmt.Errorf("%w: response is empty", ErrInvalidReview)
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrReviewNotFound
		}
		return domain.Review{}, fmt.Errorf("get review: %w", err)
	}
	if review.LandlordID != landlordID {
		return domain.Review{}, ErrReviewForbidden
	}
	now := s.now()
	if err := s.reviews.Respond(ctx, reviewID, response, now); err != nil {
		return domain.Review{}, fmt.Errorf("respond review: %w", err)
	}
	review.LandlordResponse = response
	review.LandlordResponseAt = &now
	review.UpdatedAt = now
	return review, nil
}
