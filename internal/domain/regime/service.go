package regime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/repository"
)

// Service handles regime operations.
type Service struct {
	repo       Repository
	activities ActivitySource
	journal    JournalRepository
	logger     *slog.Logger
}

// NewService creates a new regime service.
func NewService(repo Repository, activities ActivitySource, journalRepo JournalRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, journal: journalRepo, logger: logger}
}

// CreateRequest defines regime creation inputs.
type CreateRequest struct {
	Name      string
	Icon      string
	IsHoliday bool
	Intervals []Interval
}

// UpdateRequest describes a partial regime update. Intervals replaces the
// whole set when non-nil.
type UpdateRequest struct {
	ID        string
	Name      *string
	Icon      *string
	IsHoliday *bool
	Intervals *[]Interval
}

// Create validates, scores and stores a new regime.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Regime, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	r := &Regime{
		ID:        uuid.NewString(),
		UserID:    userID,
		Icon:      req.Icon,
		Name:      strings.TrimSpace(req.Name),
		IsHoliday: req.IsHoliday,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, userID, r, req.Intervals); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("creating regime: %w", err)
	}
	s.record(ctx, userID, r.ID, journal.KindRegimeCreated, fmt.Sprintf("created regime %q", r.Name))
	return r, nil
}

// Get fetches a regime by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Regime, error) {
	r, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegimeNotFound
		}
		return nil, fmt.Errorf("getting regime: %w", err)
	}
	return r, nil
}

// List returns all regimes of a user.
func (s *Service) List(ctx context.Context, userID string) ([]Regime, error) {
	regimes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing regimes: %w", err)
	}
	return regimes, nil
}

// Update applies a partial update. Totals are recomputed whenever the
// intervals or the holiday flag change.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Regime, error) {
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
		if updated.Name == "" {
			return nil, ErrInvalidInput
		}
	}
	if req.Icon != nil {
		updated.Icon = *req.Icon
	}
	if req.IsHoliday != nil {
		updated.IsHoliday = *req.IsHoliday
	}
	if req.Intervals != nil || req.IsHoliday != nil {
		intervals := current.Intervals
		if req.Intervals != nil {
			intervals = *req.Intervals
		}
		if err := s.apply(ctx, userID, &updated, intervals); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegimeNotFound
		}
		return nil, fmt.Errorf("updating regime: %w", err)
	}
	s.record(ctx, userID, updated.ID, journal.KindRegimeUpdated, fmt.Sprintf("updated regime %q", updated.Name))
	return &updated, nil
}

// Delete removes a regime.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRegimeNotFound
		}
		return fmt.Errorf("deleting regime: %w", err)
	}
	s.record(ctx, userID, id, journal.KindRegimeDeleted, fmt.Sprintf("deleted regime %s", id))
	return nil
}

// Preview validates and scores intervals without storing anything.
func (s *Service) Preview(ctx context.Context, userID string, intervals []Interval) (ValidationResult, Metrics, error) {
	result := ValidateIntervals(intervals)
	if !result.Valid {
		return result, Metrics{}, nil
	}
	lookup, err := s.lookup(ctx, userID)
	if err != nil {
		return result, Metrics{}, err
	}
	return result, Score(withDurations(intervals), lookup), nil
}

// apply sets r's intervals and totals. Holiday regimes carry no intervals
// and always score zero.
func (s *Service) apply(ctx context.Context, userID string, r *Regime, intervals []Interval) error {
	if r.IsHoliday {
		r.Intervals = []Interval{}
		r.TotalPoints = 0
		r.TotalDurationMs = 0
		return nil
	}

	result := ValidateIntervals(intervals)
	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrValidation, result.Error)
	}

	prepared := withDurations(intervals)
	for i := range prepared {
		if prepared[i].IntervalID == "" {
			prepared[i].IntervalID = uuid.NewString()
		}
	}

	lookup, err := s.lookup(ctx, userID)
	if err != nil {
		return err
	}
	m := Score(prepared, lookup)
	r.Intervals = prepared
	r.TotalPoints = m.TotalPoints
	r.TotalDurationMs = m.TotalDurationMs
	return nil
}

func (s *Service) lookup(ctx context.Context, userID string) (activity.Lookup, error) {
	acts, err := s.activities.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return activity.LookupFrom(acts), nil
}

func (s *Service) record(ctx context.Context, userID, id string, kind journal.Kind, summary string) {
	if s.journal == nil {
		return
	}
	err := s.journal.Log(ctx, userID, &journal.Entry{
		Entity:   journal.EntityRegime,
		EntityID: id,
		Kind:     kind,
		Summary:  summary,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("journal write failed", "kind", kind, "error", err)
	}
}

// withDurations returns a copy of intervals with durations recomputed from
// their clock times.
func withDurations(intervals []Interval) []Interval {
	out := make([]Interval, len(intervals))
	for i, iv := range intervals {
		iv.DurationMs = IntervalDuration(iv.StartTime, iv.EndTime)
		out[i] = iv
	}
	return out
}
