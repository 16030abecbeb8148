package activity

import (
	"context"

	"github.com/rpggio/timebank/internal/domain/journal"
)

// Repository provides persistence for activities.
type Repository interface {
	Create(ctx context.Context, userID string, act *Activity) error
	Get(ctx context.Context, userID, id string) (*Activity, error)
	List(ctx context.Context, userID string) ([]Activity, error)
	Update(ctx context.Context, userID string, act *Activity) error
	Delete(ctx context.Context, userID, id string) error
}

// JournalRepository logs activity mutations.
type JournalRepository interface {
	Log(ctx context.Context, userID string, entry *journal.Entry) error
}
