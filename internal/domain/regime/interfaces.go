package regime

import (
	"context"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/journal"
)

// Repository provides persistence for regimes.
type Repository interface {
	Create(ctx context.Context, userID string, r *Regime) error
	Get(ctx context.Context, userID, id string) (*Regime, error)
	List(ctx context.Context, userID string) ([]Regime, error)
	Update(ctx context.Context, userID string, r *Regime) error
	Delete(ctx context.Context, userID, id string) error
}

// ActivitySource lists the activities rates are read from.
type ActivitySource interface {
	List(ctx context.Context, userID string) ([]activity.Activity, error)
}

// JournalRepository logs regime mutations.
type JournalRepository interface {
	Log(ctx context.Context, userID string, entry *journal.Entry) error
}
