package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timebank/internal/repository"
)

// Service handles user operations.
type Service struct {
	repo            Repository
	defaultTimezone string
	logger          *slog.Logger
}

// NewService creates a new user service. Users created without a timezone
// get defaultTimezone.
func NewService(repo Repository, defaultTimezone string, logger *slog.Logger) *Service {
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &Service{repo: repo, defaultTimezone: defaultTimezone, logger: logger}
}

// CreateRequest defines user creation inputs.
type CreateRequest struct {
	Username string
	Nickname string
	Role     Role
	Timezone string
}

// Create registers a new user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	tz := req.Timezone
	if tz == "" {
		tz = s.defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	role := req.Role
	if role == "" {
		role = RoleUser
	}

	u := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Nickname:  req.Nickname,
		Role:      role,
		Timezone:  tz,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// Ensure returns the user with the given username, creating it if missing.
func (s *Service) Ensure(ctx context.Context, req CreateRequest) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u, err = s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("created user", "user", u.ID, "username", u.Username)
	}
	return u, nil
}

// UpdateRequest describes a partial profile update. Username and role are
// fixed once created.
type UpdateRequest struct {
	ID       string
	Nickname *string
	Timezone *string
}

// Update applies a partial profile update. A new timezone re-cuts every
// day, past ones included, since days are never stored.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*User, error) {
	if req.Nickname == nil && req.Timezone == nil {
		return nil, ErrInvalidInput
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, *req.Timezone)
		}
	}
	u, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Nickname != nil {
		u.Nickname = strings.TrimSpace(*req.Nickname)
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Delete removes an account with its activities, stamps, regimes, API keys
// and journal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("deleted user", "user", id)
	}
	return nil
}

// Location loads the user's timezone.
func (s *Service) Location(ctx context.Context, id string) (*time.Location, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, u.Timezone)
	}
	return loc, nil
}
