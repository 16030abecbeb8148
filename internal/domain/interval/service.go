package interval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// StampSource lists a user's stamps.
type StampSource interface {
	List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error)
}

// ActivitySource lists a user's activities.
type ActivitySource interface {
	List(ctx context.Context, userID string) ([]activity.Activity, error)
}

// Observer is notified after each derivation.
type Observer interface {
	ObserveIntervals(n int)
}

// Service derives intervals from stored stamps.
type Service struct {
	stamps     StampSource
	activities ActivitySource
	observer   Observer
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new interval service. observer may be nil.
func NewService(stamps StampSource, activities ActivitySource, observer Observer, logger *slog.Logger) *Service {
	return &Service{
		stamps:     stamps,
		activities: activities,
		observer:   observer,
		logger:     logger,
		now:        time.Now,
	}
}

// List derives every interval of the user, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Interval, error) {
	stamps, lookup, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	intervals := DeriveAt(stamps, lookup, s.now())
	if s.observer != nil {
		s.observer.ObserveIntervals(len(intervals))
	}
	if s.logger != nil {
		s.logger.Debug("derived intervals", "user", userID, "stamps", len(stamps), "intervals", len(intervals))
	}
	return intervals, nil
}

// Current returns the ongoing interval, if any.
func (s *Service) Current(ctx context.Context, userID string) (*Interval, error) {
	intervals, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range intervals {
		if intervals[i].Ongoing() {
			return &intervals[i], nil
		}
	}
	return nil, nil
}

// Load fetches the full stamp log and an activity snapshot for one
// derivation pass.
func (s *Service) Load(ctx context.Context, userID string) ([]stamp.Stamp, activity.Lookup, error) {
	stamps, err := s.stamps.List(ctx, userID, stamp.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("listing stamps: %w", err)
	}
	acts, err := s.activities.List(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing activities: %w", err)
	}
	return stamps, activity.LookupFrom(acts), nil
}
