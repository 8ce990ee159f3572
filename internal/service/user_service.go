package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService replica en la base de datos las cuentas del proveedor de autenticación.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time

	mu     sync.Mutex
	synced map[string]Claims
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
		synced: make(map[string]Claims),
	}
}

// Sync guarda el usuario del token si no se habia sincronizado con los mismos claims.
func (s *UserService) Sync(ctx context.Context, claims Claims) error {
	key := claimsKey(claims)
	s.mu.Lock()
	prev, ok := s.synced[claims.UserID]
	s.mu.Unlock()
	if ok && claimsKey(prev) == key {
		return nil
	}

	user := domain.User{
		ID:        claims.UserID,
		Email:     normalizeEmail(claims.Email),
		Role:      claims.Role,
		Verified:  claims.Verified,
		Premium:   claims.Premium,
		CreatedAt: s.now(),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	s.mu.Lock()
	s.synced[claims.UserID] = claims
	s.mu.Unlock()
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func claimsKey(c Claims) string {
	return fmt.Sprintf("%s|%s|%t|%t", normalizeEmail(c.Email), c.Role, c.Verified, c.Premium)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
