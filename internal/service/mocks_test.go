package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

// vec construye un vector de convivencia con campos nombrados.
func vec(cleanliness, noise, visitors, study, partying int) domain.AttributeVector {
	return domain.AttributeVector{
		Cleanliness:    cleanliness,
		Noise:          noise,
		Visitors:       visitors,
		StudyIntensity: study,
		Partying:       partying,
	}
}

type mockRoommateRepo struct {
	byUser       map[string]domain.RoommateProfile
	order        []string
	nearestUsed  bool
	nearestQuery repository.CandidateQuery
	err          error
}

func newMockRoommateRepo(profiles ...domain.RoommateProfile) *mockRoommateRepo {
	m := &mockRoommateRepo{byUser: make(map[string]domain.RoommateProfile)}
	for _, p := range profiles {
		if p.Lifestyle == (domain.AttributeVector{}) {
			p.Lifestyle = domain.DefaultAttributeVector()
		}
		p.Active = true
		m.byUser[p.UserID] = p
		m.order = append(m.order, p.UserID)
	}
	return m
}

func (m *mockRoommateRepo) Upsert(_ context.Context, p domain.RoommateProfile) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byUser[p.UserID]; !ok {
		m.order = append(m.order, p.UserID)
	}
	m.byUser[p.UserID] = p
	return nil
}

func (m *mockRoommateRepo) GetByUserID(_ context.Context, userID string) (domain.RoommateProfile, error) {
	if m.err != nil {
		return domain.RoommateProfile{}, m.err
	}
	p, ok := m.byUser[userID]
	if !ok {
		return domain.RoommateProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockRoommateRepo) active() []domain.RoommateProfile {
	var out []domain.RoommateProfile
	for _, id := range m.order {
		if p := m.byUser[id]; p.Active {
			out = append(out, p)
		}
	}
	return out
}

func (m *mockRoommateRepo) ListActive(_ context.Context, limit int) ([]domain.RoommateProfile, error) {
	out := m.active()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRoommateRepo) CountActive(_ context.Context) (int, error) {
	return len(m.active()), nil
}

func (m *mockRoommateRepo) NearestByLifestyle(_ context.Context, ref domain.AttributeVector, q repository.CandidateQuery, k int) ([]domain.RoommateProfile, error) {
	m.nearestUsed = true
	m.nearestQuery = q
	term := strings.ToLower(q.Search)
	var out []domain.RoommateProfile
	for _, p := range m.active() {
		if slices.Contains(q.ExcludeUserIDs, p.UserID) {
			continue
		}
		if q.VerifiedOnly && !p.Verified {
			continue
		}
		if len(q.Zones) > 0 && !matchesZone(p.Location, q.Zones) {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ref.Deviation(out[i].Lifestyle) < ref.Deviation(out[j].Lifestyle)
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

type mockLikeRepo struct {
	mu      sync.Mutex
	likes   map[[2]string]time.Time
	matches map[[2]string]domain.RoommateMatch
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{
		likes:   make(map[[2]string]time.Time),
		matches: make(map[[2]string]domain.RoommateMatch),
	}
}

func (m *mockLikeRepo) Like(_ context.Context, like domain.RoommateLike) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{like.LikerID, like.LikedID}
	if _, ok := m.likes[key]; ok {
		return false, nil
	}
	m.likes[key] = like.CreatedAt
	return true, nil
}

func (m *mockLikeRepo) Unlike(_ context.Context, likerID, likedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, [2]string{likerID, likedID})
	return nil
}

func (m *mockLikeRepo) Exists(_ context.Context, likerID, likedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[[2]string{likerID, likedID}]
	return ok, nil
}

func (m *mockLikeRepo) LikedBy(_ context.Context, likerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for k := range m.likes {
		if k[0] == likerID {
			ids = append(ids, k[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockLikeRepo) CreateMatch(_ context.Context, match domain.RoommateMatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{match.User1ID, match.User2ID}
	if _, ok := m.matches[key]; ok {
		return false, nil
	}
	m.matches[key] = match
	return true, nil
}

func (m *mockLikeRepo) MatchesFor(_ context.Context, userID string) ([]domain.RoommateMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RoommateMatch
	for _, match := range m.matches {
		if match.User1ID == userID || match.User2ID == userID {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchedAt.After(out[j].MatchedAt) })
	return out, nil
}

type mockListingRepo struct {
	byID  map[string]domain.Listing
	order []string
	err   error
}

func newMockListingRepo(listings ...domain.Listing) *mockListingRepo {
	m := &mockListingRepo{byID: make(map[string]domain.Listing)}
	for _, l := range listings {
		m.byID[l.ID] = l
		m.order = append(m.order, l.ID)
	}
	return m
}

func (m *mockListingRepo) Create(_ context.Context, l domain.Listing) error {
	if m.err != nil {
		return m.err
	}
	m.byID[l.ID] = l
	m.order = append(m.order, l.ID)
	return nil
}

func (m *mockListingRepo) GetByID(_ context.Context, id string) (domain.Listing, error) {
	l, ok := m.byID[id]
	if !ok {
		return domain.Listing{}, pgx.ErrNoRows
	}
	return l, nil
}

func (m *mockListingRepo) ListActive(_ context.Context) ([]domain.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Listing
	for _, id := range m.order {
		if l := m.byID[id]; l.Status == domain.ListingStatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) ListByLandlord(_ context.Context, landlordID string) ([]domain.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Listing
	for _, id := range m.order {
		if l := m.byID[id]; l.LandlordID == landlordID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockListingViewRepo struct {
	mu    sync.Mutex
	views []domain.ListingView
	err   error
}

func (m *mockListingViewRepo) Create(_ context.Context, v domain.ListingView) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.views = append(m.views, v)
	return nil
}

func (m *mockListingViewRepo) ListSince(_ context.Context, listingIDs []string, since time.Time) ([]domain.ListingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make(map[string]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		ids[id] = struct{}{}
	}
	var out []domain.ListingView
	for _, v := range m.views {
		if _, ok := ids[v.ListingID]; ok && !v.ViewedAt.Before(since) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ViewedAt.After(out[j].ViewedAt) })
	return out, nil
}

type mockApplicationRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Application
	err  error
}

func newMockApplicationRepo(apps ...domain.Application) *mockApplicationRepo {
	m := &mockApplicationRepo{byID: make(map[string]domain.Application)}
	for _, a := range apps {
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockApplicationRepo) Create(_ context.Context, a domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.Application{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *mockApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	a.RejectionReason = reason
	a.UpdatedAt = at
	m.byID[id] = a
	return nil
}

func (m *mockApplicationRepo) filter(keep func(domain.Application) bool) []domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, a := range m.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]domain.Application, error) {
	return m.filter(func(a domain.Application) bool { return a.StudentID == studentID }), nil
}

func (m *mockApplicationRepo) ListByLandlord(_ context.Context, landlordID string) ([]domain.Application, error) {
	return m.filter(func(a domain.Application) bool { return a.LandlordID == landlordID }), nil
}

func (m *mockApplicationRepo) ListByLandlordSince(_ context.Context, landlordID string, since time.Time) ([]domain.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.filter(func(a domain.Application) bool {
		return a.LandlordID == landlordID && !a.CreatedAt.Before(since)
	}), nil
}

func (m *mockApplicationRepo) HasOpen(_ context.Context, studentID, listingID string) (bool, error) {
	open := m.filter(func(a domain.Application) bool {
		return a.StudentID == studentID && a.ListingID == listingID && !a.Status.IsFinal()
	})
	return len(open) > 0, nil
}

type mockReviewRepo struct {
	byID map[string]domain.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{byID: make(map[string]domain.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, r domain.Review) error {
	m.byID[r.ID] = r
	return nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id string) (domain.Review, error) {
	r, ok := m.byID[id]
	if !ok {
		return domain.Review{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockReviewRepo) ExistsForStudent(_ context.Context, studentID, listingID string) (bool, error) {
	for _, r := range m.byID {
		if r.StudentID == studentID && r.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReviewRepo) ListByListing(_ context.Context, listingID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range m.byID {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockReviewRepo) Respond(_ context.Context, id, response string, at time.Time) error {
	r, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.LandlordResponse = response
	r.LandlordResponseAt = &at
	r.UpdatedAt = at
	m.byID[id] = r
	return nil
}

var errRepoDown = errors.New("repository unavailable")
