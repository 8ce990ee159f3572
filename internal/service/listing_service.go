package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrInvalidListingSort = errors.New("invalid listing sort")
	ErrInvalidView        = errors.New("invalid listing view")
)

const (
	SortRelevance = "relevance"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

// ListingFilter son los filtros de la pantalla de exploración.
type ListingFilter struct {
	Search        string         `json:"search"`
	MinPrice      *int           `json:"min_price"`
	MaxPrice      *int           `json:"max_price"`
	PropertyType  string         `json:"property_type"`
	MinBedrooms   int            `json:"min_bedrooms"`
	MinBathrooms  int            `json:"min_bathrooms"`
	Neighborhoods []string       `json:"neighborhoods"`
	Amenities     []string       `json:"amenities"`
	VerifiedOnly  bool           `json:"verified_only"`
	Zone          domain.Polygon `json:"zone"`
	Sort          string         `json:"sort"`
}

// ListingService gestiona la busqueda, publicación y visitas de alojamientos.
type ListingService struct {
	logger   *zap.Logger
	listings repository.ListingRepository
	views    repository.ListingViewRepository
	now      func() time.Time
}

func NewListingService(logger *zap.Logger, listings repository.ListingRepository, views repository.ListingViewRepository) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		logger:   logger,
		listings: listings,
		views:    views,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ListingService) Get(ctx context.Context, id string) (domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// Search filtra los alojamientos activos y los ordena segun filter.Sort.
func (s *ListingService) Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	switch filter.Sort {
	case "", SortRelevance, SortPriceLow, SortPriceHigh:
	default:
		return nil, ErrInvalidListingSort
	}
	all, err := s.listings.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return FilterListings(all, filter), nil
}

// FilterListings aplica todos los filtros activos (AND) y ordena de forma estable.
// Una zona con menos de tres vertices no filtra.
func FilterListings(listings []domain.Listing, filter ListingFilter) []domain.Listing {
	words := strings.Fields(strings.ToLower(filter.Search))
	amenities := normalizeTerms(filter.Amenities)
	neighborhoods := normalizeTerms(filter.Neighborhoods)
	useZone := filter.Zone.Valid()

	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if useZone && !filter.Zone.Contains(l.Location) {
			continue
		}
		if len(words) > 0 && !containsAllWords(l.Title+" "+l.Address+" "+l.City, words) {
			continue
		}
		if filter.MinPrice != nil && l.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		if filter.PropertyType != "" && l.PropertyType != filter.PropertyType {
			continue
		}
		if !l.IsResidence() {
			if filter.MinBedrooms > 0 && l.Bedrooms < filter.MinBedrooms {
				continue
			}
			if filter.MinBathrooms > 0 && l.Bathrooms < filter.MinBathrooms {
				continue
			}
			if len(neighborhoods) > 0 && !containsAny(l.Address, neighborhoods) {
				continue
			}
		}
		if len(amenities) > 0 && !hasAnyAmenity(l.Amenities, amenities) {
			continue
		}
		if filter.VerifiedOnly && !l.Verified {
			continue
		}
		out = append(out, l)
	}

	switch filter.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAllWords(text string, words []string) bool {
	text = strings.ToLower(text)
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func containsAny(text string, terms []string) bool {
	text = strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func hasAnyAmenity(listingAmenities, wanted []string) bool {
	for _, a := range listingAmenities {
		if containsAny(a, wanted) {
			return true
		}
	}
	return false
}

// ViewInput describe una visita a la ficha de un alojamiento.
type ViewInput struct {
	ViewerID  string
	SessionID string
	Referrer  string
	UserAgent string
}

// TrackView registra una visita. Las visitas del propio propietario no cuentan.
// Sin session_id se genera uno nuevo.
func (s *ListingService) TrackView(ctx context.Context, listingID string, input ViewInput) (bool, error) {
	if strings.TrimSpace(listingID) == "" {
		return false, fmt.Errorf("%w: listing id is required", ErrInvalidView)
	}
	if strings.TrimSpace(input.SessionID) == "" {
		input.SessionID = uuid.NewString()
	}
	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return false, err
	}
	if input.ViewerID != "" && input.ViewerID == listing.LandlordID {
		return false, nil
	}
	view := domain.ListingView{
		ID:        uuid.NewString(),
		ListingID: listingID,
		ViewerID:  input.ViewerID,
		SessionID: input.SessionID,
		Referrer:  input.Referrer,
		UserAgent: input.UserAgent,
		ViewedAt:  s.now(),
	}
	if err := s.views.Create(ctx, view); err != nil {
		return false, fmt.Errorf("save listing view: %w", err)
	}
	return true, nil
}

// Publish valida el borrador completo y crea el alojamiento activo.
// El precio publicado es la media redondeada de las habitaciones.
func (s *ListingService) Publish(ctx context.Context, landlordID string, premium bool, draft domain.ListingDraft) (domain.Listing, error) {
	if err := ValidateDraft(draft, premium); err != nil {
		return domain.Listing{}, err
	}

	total := 0
	for _, r := range draft.Rooms {
		total += r.Price
	}
	now := s.now()
	listing := domain.Listing{
		ID:           uuid.NewString(),
		LandlordID:   landlordID,
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		Address:      strings.TrimSpace(draft.Address),
		City:         strings.TrimSpace(draft.City),
		PropertyType: draft.PropertyType,
		Price:        int(math.Round(float64(total) / float64(len(draft.Rooms)))),
		Deposit:      draft.Deposit,
		Bedrooms:     len(draft.Rooms),
		Bathrooms:    draft.Bathrooms,
		Amenities:    draft.Amenities,
		Photos:       draft.Photos,
		Location:     draft.Location,
		Status:       domain.ListingStatusActive,
		AvailableAt:  draft.AvailableAt.UTC(),
		MinimumStay:  draft.MinimumStay,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return domain.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	s.logger.Info("listing published",
		zap.String("listing_id", listing.ID),
		zap.String("landlord_id", landlordID),
	)
	return listing, nil
}
