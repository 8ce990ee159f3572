package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrInvalidApplication    = errors.New("invalid application")
	ErrDuplicateApplication  = errors.New("an open application for this listing already exists")
	ErrInvalidTransition     = errors.New("invalid application status transition")
	ErrApplicationForbidden  = errors.New("not allowed to modify this application")
	ErrOwnListingApplication = errors.New("cannot apply to your own listing")
)

const minApplicationMessageLength = 10

// Transiciones que puede aplicar el propietario.
var landlordTransitions = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.ApplicationSent: {
		domain.ApplicationPreapproved,
		domain.ApplicationPendingDocs,
		domain.ApplicationApproved,
		domain.ApplicationRejected,
	},
	domain.ApplicationPreapproved: {
		domain.ApplicationPendingDocs,
		domain.ApplicationApproved,
		domain.ApplicationRejected,
	},
	domain.ApplicationPendingDocs: {
		domain.ApplicationPreapproved,
		domain.ApplicationApproved,
		domain.ApplicationRejected,
	},
}

// CanTransition indica si el propietario puede mover la solicitud de from a to.
func CanTransition(from, to domain.ApplicationStatus) bool {
	for _, allowed := range landlordTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ApplicationService gestiona las solicitudes de estudiantes a alojamientos.
type ApplicationService struct {
	logger       *zap.Logger
	applications repository.ApplicationRepository
	listings     repository.ListingRepository
	chats        *ChatStore
	now          func() time.Time
}

func NewApplicationService(logger *zap.Logger, applications repository.ApplicationRepository, listings repository.ListingRepository, chats *ChatStore) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		logger:       logger,
		applications: applications,
		listings:     listings,
		chats:        chats,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type CreateApplicationInput struct {
	ListingID    string
	Message      string
	MoveInDate   time.Time
	MoveOutDate  *time.Time
	BudgetEUR    int
	StudentName  string
	StudentEmail string
	IsErasmus    bool
}

// Create registra la solicitud y abre la conversación con el propietario con el mensaje inicial.
func (s *ApplicationService) Create(ctx context.Context, studentID string, input CreateApplicationInput) (domain.Application, error) {
	message := strings.TrimSpace(input.Message)
	switch {
	case len([]rune(message)) < minApplicationMessageLength:
		return domain.Application{}, fmt.Errorf("%w: message must be at least %d characters", ErrInvalidApplication, minApplicationMessageLength)
	case input.MoveInDate.IsZero():
		return domain.Application{}, fmt.Errorf("%w: move_in_date is required", ErrInvalidApplication)
	case input.MoveOutDate != nil && !input.MoveOutDate.After(input.MoveInDate):
		return domain.Application{}, fmt.Errorf("%w: move_out_date must be after move_in_date", ErrInvalidApplication)
	case input.BudgetEUR <= 0:
		return domain.Application{}, fmt.Errorf("%w: budget must be positive", ErrInvalidApplication)
	case strings.TrimSpace(input.StudentName) == "" || strings.TrimSpace(input.StudentEmail) == "":
		return domain.Application{}, fmt.Errorf("%w: student name and email are required", ErrInvalidApplication)
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, ErrListingNotFound
		}
		return domain.Application{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.Status != domain.ListingStatusActive {
		return domain.Application{}, ErrListingNotFound
	}
	if listing.LandlordID == studentID {
		return domain.Application{}, ErrOwnListingApplication
	}

	open, err := s.applications.HasOpen(ctx, studentID, listing.ID)
	if err != nil {
		return domain.Application{}, fmt.Errorf("check open applications: %w", err)
	}
	if open {
		return domain.Application{}, ErrDuplicateApplication
	}

	now := s.now()
	app := domain.Application{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		LandlordID:   listing.LandlordID,
		ListingID:    listing.ID,
		Status:       domain.ApplicationSent,
		Message:      message,
		MoveInDate:   input.MoveInDate.UTC(),
		MoveOutDate:  input.MoveOutDate,
		BudgetEUR:    input.BudgetEUR,
		StudentName:  strings.TrimSpace(input.StudentName),
		StudentEmail: strings.TrimSpace(input.StudentEmail),
		IsErasmus:    input.IsErasmus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return domain.Application{}, fmt.Errorf("create application: %w", err)
	}

	if s.chats != nil {
		if _, err := s.chats.AddMessage(studentID, listing.LandlordID, message, domain.ConversationLandlord); err != nil {
			s.logger.Warn("application message not delivered",
				zap.String("application_id", app.ID),
				zap.Error(err),
			)
		}
	}
	return app, nil
}

// List devuelve las solicitudes del estudiante o las recibidas por el propietario.
func (s *ApplicationService) List(ctx context.Context, userID, role string) ([]domain.Application, error) {
	var (
		apps []domain.Application
		err  error
	)
	if role == domain.RoleLandlord {
		apps, err = s.applications.ListByLandlord(ctx, userID)
	} else {
		apps, err = s.applications.ListByStudent(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// UpdateStatus aplica una transición del propietario.
func (s *ApplicationService) UpdateStatus(ctx context.Context, landlordID, applicationID string, status domain.ApplicationStatus, reason string) (domain.Application, error) {
	app, err := s.get(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if app.LandlordID != landlordID {
		return domain.Application{}, ErrApplicationForbidden
	}
	if !CanTransition(app.Status, status) {
		return domain.Application{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, status)
	}
	if status != domain.ApplicationRejected {
		reason = ""
	}
	return s.setStatus(ctx, app, status, strings.TrimSpace(reason))
}

// Cancel permite al estudiante retirar una solicitud no final.
func (s *ApplicationService) Cancel(ctx context.Context, studentID, applicationID string) (domain.Application, error) {
	app, err := s.get(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if app.StudentID != studentID {
		return domain.Application{}, ErrApplicationForbidden
	}
	if app.Status.IsFinal() {
		return domain.Application{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, domain.ApplicationCancelledByStudent)
	}
	return s.setStatus(ctx, app, domain.ApplicationCancelledByStudent, "")
}

func (s *ApplicationService) get(ctx context.Context, id string) (domain.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, ErrApplicationNotFound
		}
		return domain.Application{}, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func (s *ApplicationService) setStatus(ctx context.Context, app domain.Application, status domain.ApplicationStatus, reason string) (domain.Application, error) {
	now := s.now()
	if err := s.applications.UpdateStatus(ctx, app.ID, status, reason, now); err != nil {
		return domain.Application{}, fmt.Errorf("update application status: %w", err)
	}
	s.logger.Info("application status changed",
		zap.String("application_id", app.ID),
		zap.String("from", string(app.Status)),
		zap.String("to", string(status)),
	)
	app.Status = status
	app.RejectionReason = reason
	app.UpdatedAt = now
	return app, nil
}
