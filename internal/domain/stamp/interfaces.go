package stamp

import (
	"context"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/journal"
)

// Repository provides persistence for stamps.
type Repository interface {
	Create(ctx context.Context, userID string, st *Stamp) error
	Get(ctx context.Context, userID, id string) (*Stamp, error)
	Update(ctx context.Context, userID string, st *Stamp) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Stamp, error)
}

// ActivityRepository resolves the activity a start stamp names.
type ActivityRepository interface {
	Get(ctx context.Context, userID, id string) (*activity.Activity, error)
}

// JournalRepository logs stamp mutations.
type JournalRepository interface {
	Log(ctx context.Context, userID string, entry *journal.Entry) error
}
