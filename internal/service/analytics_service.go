package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
	recentViewsLimit     = 10
)

type DayViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

type ListingStats struct {
	ListingID    string `json:"listing_id"`
	Title        string `json:"title"`
	Views        int    `json:"views"`
	Applications int    `json:"applications"`
}

type StatusCount struct {
	Status domain.ApplicationStatus `json:"status"`
	Count  int                      `json:"count"`
}

type RecentView struct {
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	ViewedAt     time.Time `json:"viewed_at"`
}

// AnalyticsReport es el panel de un propietario para los ultimos PeriodDays dias.
type AnalyticsReport struct {
	PeriodDays           int            `json:"period_days"`
	TotalViews           int            `json:"total_views"`
	TotalApplications    int            `json:"total_applications"`
	ApprovedApplications int            `json:"approved_applications"`
	ConversionRate       float64        `json:"conversion_rate"`
	AveragePrice         float64        `json:"average_price"`
	ProjectedRevenue     float64        `json:"projected_revenue"`
	ViewsByDay           []DayViews     `json:"views_by_day"`
	ViewsByListing       []ListingStats `json:"views_by_listing"`
	ApplicationsByStatus []StatusCount  `json:"applications_by_status"`
	RecentViews          []RecentView   `json:"recent_views"`
}

// AnalyticsService calcula las metricas del panel del propietario.
type AnalyticsService struct {
	logger       *zap.Logger
	listings     repository.ListingRepository
	views        repository.ListingViewRepository
	applications repository.ApplicationRepository
	now          func() time.Time
}

func NewAnalyticsService(logger *zap.Logger, listings repository.ListingRepository, views repository.ListingViewRepository, applications repository.ApplicationRepository) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		logger:       logger,
		listings:     listings,
		views:        views,
		applications: applications,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Report carga alojamientos+visitas y solicitudes en paralelo y agrega las metricas.
func (s *AnalyticsService) Report(ctx context.Context, landlordID string, days int) (AnalyticsReport, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}
	since := s.now().AddDate(0, 0, -days)

	var (
		listings []domain.Listing
		views    []domain.ListingView
		apps     []domain.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listings, err = s.listings.ListByLandlord(gctx, landlordID)
		if err != nil {
			return fmt.Errorf("list landlord listings: %w", err)
		}
		ids := make([]string, 0, len(listings))
		for _, l := range listings {
			ids = append(ids, l.ID)
		}
		views, err = s.views.ListSince(gctx, ids, since)
		if err != nil {
			return fmt.Errorf("list listing views: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		apps, err = s.applications.ListByLandlordSince(gctx, landlordID, since)
		if err != nil {
			return fmt.Errorf("list landlord applications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return AnalyticsReport{}, err
	}

	report := BuildAnalyticsReport(listings, views, apps)
	report.PeriodDays = days
	return report, nil
}

// BuildAnalyticsReport agrega las metricas a partir de los datos ya cargados.
func BuildAnalyticsReport(listings []domain.Listing, views []domain.ListingView, apps []domain.Application) AnalyticsReport {
	report := AnalyticsReport{
		TotalViews:           len(views),
		TotalApplications:    len(apps),
		ViewsByDay:           []DayViews{},
		ViewsByListing:       []ListingStats{},
		ApplicationsByStatus: []StatusCount{},
		RecentViews:          []RecentView{},
	}

	statusCounts := make(map[domain.ApplicationStatus]int)
	appsByListing := make(map[string]int)
	for _, a := range apps {
		statusCounts[a.Status]++
		appsByListing[a.ListingID]++
		if a.Status == domain.ApplicationApproved {
			report.ApprovedApplications++
		}
	}
	if report.TotalViews > 0 {
		report.ConversionRate = roundTo(float64(report.TotalApplications)/float64(report.TotalViews)*100, 2)
	}

	if len(listings) > 0 {
		total := 0
		for _, l := range listings {
			total += l.Price
		}
		report.AveragePrice = roundTo(float64(total)/float64(len(listings)), 2)
	}
	report.ProjectedRevenue = roundTo(float64(report.ApprovedApplications)*report.AveragePrice, 2)

	viewsByDay := make(map[string]int)
	viewsByListing := make(map[string]int)
	for _, v := range views {
		viewsByDay[v.ViewedAt.UTC().Format("2006-01-02")]++
		viewsByListing[v.ListingID]++
	}
	for day, n := range viewsByDay {
		report.ViewsByDay = append(report.ViewsByDay, DayViews{Date: day, Views: n})
	}
	sort.Slice(report.ViewsByDay, func(i, j int) bool { return report.ViewsByDay[i].Date < report.ViewsByDay[j].Date })

	titles := make(map[string]string, len(listings))
	for _, l := range listings {
		titles[l.ID] = l.Title
		report.ViewsByListing = append(report.ViewsByListing, ListingStats{
			ListingID:    l.ID,
			Title:        l.Title,
			Views:        viewsByListing[l.ID],
			Applications: appsByListing[l.ID],
		})
	}
	sort.SliceStable(report.ViewsByListing, func(i, j int) bool {
		return report.ViewsByListing[i].Views > report.ViewsByListing[j].Views
	})

	for _, status := range []domain.ApplicationStatus{
		domain.ApplicationSent,
		domain.ApplicationPreapproved,
		domain.ApplicationPendingDocs,
		domain.ApplicationApproved,
		domain.ApplicationRejected,
		domain.ApplicationCancelledByStudent,
		domain.ApplicationExpired,
	} {
		if n := statusCounts[status]; n > 0 {
			report.ApplicationsByStatus = append(report.ApplicationsByStatus, StatusCount{Status: status, Count: n})
		}
	}

	recent := make([]domain.ListingView, len(views))
	copy(recent, views)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].ViewedAt.After(recent[j].ViewedAt) })
	if len(recent) > recentViewsLimit {
		recent = recent[:recentViewsLimit]
	}
	for _, v := range recent {
		title, ok := titles[v.ListingID]
		if !ok {
			title = "Desconocido"
		}
		report.RecentViews = append(report.RecentViews, RecentView{
			ListingID:    v.ListingID,
			ListingTitle: title,
			ViewedAt:     v.ViewedAt,
		})
	}
	return report
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
