package stamp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/repository"
)

// Service handles stamp operations.
type Service struct {
	stamps     Repository
	activities ActivityRepository
	journal    JournalRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new stamp service.
func NewService(stamps Repository, activities ActivityRepository, journalRepo JournalRepository, logger *slog.Logger) *Service {
	return &Service{
		stamps:     stamps,
		activities: activities,
		journal:    journalRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest describes a new stamp. A zero Timestamp means now.
type CreateRequest struct {
	Timestamp  time.Time
	Kind       Kind
	ActivityID string
}

// UpdateRequest describes a stamp correction.
type UpdateRequest struct {
	ID         string
	Timestamp  *time.Time
	Kind       *Kind
	ActivityID *string
}

// Create appends a stamp to the user's log. Stamps may be created out of
// order; derivation sorts by timestamp.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Stamp, error) {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	st := &Stamp{
		ID:         uuid.NewString(),
		UserID:     userID,
		Timestamp:  ts.UTC().Truncate(time.Second),
		Kind:       req.Kind,
		ActivityID: strings.TrimSpace(req.ActivityID),
	}
	if err := s.validate(ctx, userID, st); err != nil {
		return nil, err
	}

	if err := s.stamps.Create(ctx, userID, st); err != nil {
		return nil, fmt.Errorf("creating stamp: %w", err)
	}

	s.record(ctx, userID, st.ID, journal.KindStampCreated, summarize("created", st))
	return st, nil
}

// Start records a start stamp for an activity at now.
func (s *Service) Start(ctx context.Context, userID, activityID string) (*Stamp, error) {
	return s.Create(ctx, userID, CreateRequest{Kind: KindStart, ActivityID: activityID})
}

// Stop records a stop stamp at now.
func (s *Service) Stop(ctx context.Context, userID string) (*Stamp, error) {
	return s.Create(ctx, userID, CreateRequest{Kind: KindStop})
}

// Get returns a stamp by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Stamp, error) {
	st, err := s.stamps.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStampNotFound
		}
		return nil, fmt.Errorf("getting stamp: %w", err)
	}
	return st, nil
}

// List returns the user's stamps, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Stamp, error) {
	opts.NewestFirst = true
	stamps, err := s.stamps.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing stamps: %w", err)
	}
	return stamps, nil
}

// Update corrects a stamp's time, kind or activity.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Stamp, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Timestamp != nil {
		updated.Timestamp = req.Timestamp.UTC().Truncate(time.Second)
	}
	if req.Kind != nil {
		updated.Kind = *req.Kind
		if updated.Kind == KindStop {
			updated.ActivityID = ""
		}
	}
	if req.ActivityID != nil {
		updated.ActivityID = strings.TrimSpace(*req.ActivityID)
	}
	if err := s.validate(ctx, userID, &updated); err != nil {
		return nil, err
	}

	if err := s.stamps.Update(ctx, userID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStampNotFound
		}
		return nil, fmt.Errorf("updating stamp: %w", err)
	}

	s.record(ctx, userID, updated.ID, journal.KindStampUpdated, summarize("updated", &updated))
	return &updated, nil
}

// Delete removes a stamp.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.stamps.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStampNotFound
		}
		return fmt.Errorf("deleting stamp: %w", err)
	}
	s.record(ctx, userID, id, journal.KindStampDeleted, fmt.Sprintf("deleted stamp %s", id))
	return nil
}

func (s *Service) validate(ctx context.Context, userID string, st *Stamp) error {
	if !st.Kind.Valid() {
		return ErrInvalidInput
	}
	if st.Kind == KindStop {
		if st.ActivityID != "" {
			return ErrInvalidInput
		}
		return nil
	}
	if st.ActivityID == "" {
		return ErrInvalidInput
	}
	if s.activities == nil {
		return nil
	}
	if _, err := s.activities.Get(ctx, userID, st.ActivityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownActivity
		}
		return fmt.Errorf("resolving activity: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, userID, id string, kind journal.Kind, summary string) {
	if s.journal == nil {
		return
	}
	err := s.journal.Log(ctx, userID, &journal.Entry{
		Entity:   journal.EntityStamp,
		EntityID: id,
		Kind:     kind,
		Summary:  summary,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("journal write failed", "kind", kind, "error", err)
	}
}

func summarize(verb string, st *Stamp) string {
	if st.Kind == KindStart {
		return fmt.Sprintf("%s start stamp at %s for activity %s", verb, st.Timestamp.Format(time.RFC3339), st.ActivityID)
	}
	return fmt.Sprintf("%s stop stamp at %s", verb, st.Timestamp.Format(time.RFC3339))
}
