package day

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// Loader provides the stamp log and an activity snapshot for one pass.
type Loader interface {
	Load(ctx context.Context, userID string) ([]stamp.Stamp, activity.Lookup, error)
}

// LocationSource resolves the timezone days are cut in.
type LocationSource interface {
	Location(ctx context.Context, userID string) (*time.Location, error)
}

// Observer is notified after each materialization.
type Observer interface {
	ObserveDays(n int)
}

// Service materializes days on demand.
type Service struct {
	loader    Loader
	locations LocationSource
	observer  Observer
	maxDays   int
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new day service. A maxDays of zero leaves ranges
// unbounded. observer may be nil.
func NewService(loader Loader, locations LocationSource, observer Observer, maxDays int, logger *slog.Logger) *Service {
	return &Service{
		loader:    loader,
		locations: locations,
		observer:  observer,
		maxDays:   maxDays,
		logger:    logger,
		now:       time.Now,
	}
}

// ListOptions selects the dates to return.
type ListOptions struct {
	From string
	To   string
	// Fill returns an empty day for every date with nothing tracked.
	Fill bool
}

// List materializes the days of the range, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Day, error) {
	rng := Range{From: opts.From, To: opts.To}
	n, err := RangeDays(rng)
	if err != nil {
		return nil, err
	}
	if s.maxDays > 0 && n > s.maxDays {
		return nil, fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, n, s.maxDays)
	}

	loc, err := s.locations.Location(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving timezone: %w", err)
	}
	stamps, lookup, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	days, err := MaterializeAt(stamps, rng, loc, userID, lookup, s.now())
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.ObserveDays(len(days))
	}
	if s.logger != nil {
		s.logger.Debug("materialized days", "user", userID, "from", opts.From, "to", opts.To, "days", len(days))
	}

	if !opts.Fill {
		return days, nil
	}
	return FillRange(days, rng, userID, loc)
}

// Get returns a single date, empty if nothing was tracked on it.
func (s *Service) Get(ctx context.Context, userID, dateKey string) (*Day, error) {
	days, err := s.List(ctx, userID, ListOptions{From: dateKey, To: dateKey, Fill: true})
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}
