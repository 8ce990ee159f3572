package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (m *memUserRepo) Upsert(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

type memRoommateRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.RoommateProfile
	order    []string
}

func (m *memRoommateRepo) Upsert(_ context.Context, p domain.RoommateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.UserID]; !ok {
		m.order = append(m.order, p.UserID)
	}
	m.profiles[p.UserID] = p
	return nil
}

func (m *memRoommateRepo) GetByUserID(_ context.Context, userID string) (domain.RoommateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return domain.RoommateProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *memRoommateRepo) ListActive(_ context.Context, limit int) ([]domain.RoommateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RoommateProfile
	for _, id := range m.order {
		if p := m.profiles[id]; p.Active {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRoommateRepo) CountActive(ctx context.Context) (int, error) {
	all, _ := m.ListActive(ctx, 0)
	return len(all), nil
}

func (m *memRoommateRepo) NearestByLifestyle(ctx context.Context, _ domain.AttributeVector, _ repository.CandidateQuery, k int) ([]domain.RoommateProfile, error) {
	return m.ListActive(ctx, k)
}

type memLikeRepo struct {
	mu      sync.Mutex
	likes   map[[2]string]bool
	matches []domain.RoommateMatch
}

func (m *memLikeRepo) Like(_ context.Context, like domain.RoommateLike) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{like.LikerID, like.LikedID}
	if m.likes[key] {
		return false, nil
	}
	m.likes[key] = true
	return true, nil
}

func (m *memLikeRepo) Unlike(_ context.Context, likerID, likedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, [2]string{likerID, likedID})
	return nil
}

func (m *memLikeRepo) Exists(_ context.Context, likerID, likedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.likes[[2]string{likerID, likedID}], nil
}

func (m *memLikeRepo) LikedBy(_ context.Context, likerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.likes {
		if k[0] == likerID {
			out = append(out, k[1])
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memLikeRepo) CreateMatch(_ context.Context, match domain.RoommateMatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.matches {
		if existing.User1ID == match.User1ID && existing.User2ID == match.User2ID {
			return false, nil
		}
	}
	m.matches = append(m.matches, match)
	return true, nil
}

func (m *memLikeRepo) MatchesFor(_ context.Context, userID string) ([]domain.RoommateMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RoommateMatch
	for _, match := range m.matches {
		if match.User1ID == userID || match.User2ID == userID {
			out = append(out, match)
		}
	}
	return out, nil
}

type memListingRepo struct {
	mu       sync.Mutex
	listings []domain.Listing
}

func (m *memListingRepo) Create(_ context.Context, l domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, l)
	return nil
}

func (m *memListingRepo) GetByID(_ context.Context, id string) (domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, pgx.ErrNoRows
}

func (m *memListingRepo) ListActive(_ context.Context) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Listing
	for _, l := range m.listings {
		if l.Status == domain.ListingStatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memListingRepo) ListByLandlord(_ context.Context, landlordID string) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Listing
	for _, l := range m.listings {
		if l.LandlordID == landlordID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memListingViewRepo struct {
	mu    sync.Mutex
	views []domain.ListingView
}

func (m *memListingViewRepo) Create(_ context.Context, v domain.ListingView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, v)
	return nil
}

func (m *memListingViewRepo) ListSince(_ context.Context, listingIDs []string, since time.Time) ([]domain.ListingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ListingView
	for _, v := range m.views {
		for _, id := range listingIDs {
			if v.ListingID == id && !v.ViewedAt.Before(since) {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

type memApplicationRepo struct {
	mu   sync.Mutex
	apps []domain.Application
}

func (m *memApplicationRepo) Create(_ context.Context, a domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = append(m.apps, a)
	return nil
}

func (m *memApplicationRepo) GetByID(_ context.Context, id string) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Application{}, pgx.ErrNoRows
}

func (m *memApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.apps {
		if m.apps[i].ID == id {
			m.apps[i].Status = status
			m.apps[i].RejectionReason = reason
			m.apps[i].UpdatedAt = at
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memApplicationRepo) filter(keep func(domain.Application) bool) []domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, a := range m.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *memApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]domain.Application, error) {
	return m.filter(func(a domain.Application) bool { return a.StudentID == studentID }), nil
}

func (m *memApplicationRepo) ListByLandlord(_ context.Context, landlordID string) ([]domain.Application, error) {
	return m.filter(func(a domain.Application) bool { return a.LandlordID == landlordID }), nil
}

func (m *memApplicationRepo) ListByLandlordSince(_ context.Context, landlordID string, since time.Time) ([]domain.Application, error) {
	return m.filter(func(a domain.Application) bool {
		return a.LandlordID == landlordID && !a.CreatedAt.Before(since)
	}), nil
}

func (m *memApplicationRepo) HasOpen(_ context.Context, studentID, listingID string) (bool, error) {
	open := m.filter(func(a domain.Application) bool {
		return a.StudentID == studentID && a.ListingID == listingID && !a.Status.IsFinal()
	})
	return len(open) > 0, nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews []domain.Review
}

func (m *memReviewRepo) Create(_ context.Context, r domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *memReviewRepo) GetByID(_ context.Context, id string) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Review{}, pgx.ErrNoRows
}

func (m *memReviewRepo) ExistsForStudent(_ context.Context, studentID, listingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.StudentID == studentID && r.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviewRepo) ListByListing(_ context.Context, listingID string) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviewRepo) Respond(_ context.Context, id, response string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews[i].LandlordResponse = response
			m.reviews[i].LandlordResponseAt = &at
			return nil
		}
	}
	return pgx.ErrNoRows
}
