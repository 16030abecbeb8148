package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/repository"
)

// Service handles activity operations.
type Service struct {
	repo    Repository
	journal JournalRepository
	logger  *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, journalRepo JournalRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, journal: journalRepo, logger: logger}
}

// CreateRequest defines activity creation inputs.
type CreateRequest struct {
	Name          string
	Color         string
	Icon          string
	PointsPerHour float64
	SecondsFree   int64
}

// UpdateRequest describes a partial activity update.
type UpdateRequest struct {
	ID            string
	Name          *string
	Color         *string
	Icon          *string
	PointsPerHour *float64
	SecondsFree   *int64
}

// Create creates a new activity.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Activity, error) {
	if err := validateFields(req.Name, req.PointsPerHour, req.SecondsFree); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	act := &Activity{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		Color:         req.Color,
		Icon:          req.Icon,
		PointsPerHour: req.PointsPerHour,
		SecondsFree:   req.SecondsFree,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, userID, act); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}

	s.record(ctx, userID, act.ID, journal.KindActivityCreated, fmt.Sprintf("created activity %q", act.Name))
	return act, nil
}

// Get fetches an activity by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Activity, error) {
	act, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return act, nil
}

// List returns all activities of a user.
func (s *Service) List(ctx context.Context, userID string) ([]Activity, error) {
	acts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return acts, nil
}

// Update applies a partial update. Rate changes never touch totals that were
// already snapshotted elsewhere.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Activity, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		updated.Color = *req.Color
	}
	if req.Icon != nil {
		updated.Icon = *req.Icon
	}
	if req.PointsPerHour != nil {
		updated.PointsPerHour = *req.PointsPerHour
	}
	if req.SecondsFree != nil {
		updated.SecondsFree = *req.SecondsFree
	}
	if err := validateFields(updated.Name, updated.PointsPerHour, updated.SecondsFree); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}

	s.record(ctx, userID, updated.ID, journal.KindActivityUpdated, fmt.Sprintf("updated activity %q", updated.Name))
	return &updated, nil
}

// Delete removes an activity. Stamps that reference it are kept and simply
// stop contributing to intervals.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	s.record(ctx, userID, id, journal.KindActivityDeleted, fmt.Sprintf("deleted activity %s", id))
	return nil
}

// Lookup snapshots the user's activities for one derivation pass.
func (s *Service) Lookup(ctx context.Context, userID string) (Lookup, error) {
	acts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return LookupFrom(acts), nil
}

func (s *Service) record(ctx context.Context, userID, id string, kind journal.Kind, summary string) {
	if s.journal == nil {
		return
	}
	err := s.journal.Log(ctx, userID, &journal.Entry{
		Entity:   journal.EntityActivity,
		EntityID: id,
		Kind:     kind,
		Summary:  summary,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("journal write failed", "kind", kind, "error", err)
	}
}

func validateFields(name string, pointsPerHour float64, secondsFree int64) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if math.IsNaN(pointsPerHour) || math.IsInf(pointsPerHour, 0) {
		return ErrInvalidInput
	}
	if secondsFree < 0 {
		return ErrInvalidInput
	}
	return nil
}
