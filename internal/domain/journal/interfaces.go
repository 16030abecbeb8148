package journal

import "context"

// Repository provides persistence operations for journal entries.
type Repository interface {
	Log(ctx context.Context, userID string, entry *Entry) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Entry, error)
}
