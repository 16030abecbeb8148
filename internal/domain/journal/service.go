package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultLimit = 50

// Service handles change journal operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new journal service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an entry with the current timestamp if missing.
func (s *Service) Log(ctx context.Context, userID string, entry *Entry) error {
	if entry == nil || entry.Kind == "" || entry.Entity == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, userID, entry); err != nil {
		return fmt.Errorf("logging journal entry: %w", err)
	}
	return nil
}

// Recent lists journal entries newest first.
func (s *Service) Recent(ctx context.Context, userID string, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	entries, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	return entries, nil
}
