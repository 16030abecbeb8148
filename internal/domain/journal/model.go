package journal

import "time"

// Kind identifies what happened to an entity.
type Kind string

const (
	KindActivityCreated Kind = "activity_created"
	KindActivityUpdated Kind = "activity_updated"
	KindActivityDeleted Kind = "activity_deleted"
	KindStampCreated    Kind = "stamp_created"
	KindStampUpdated    Kind = "stamp_updated"
	KindStampDeleted    Kind = "stamp_deleted"
	KindRegimeCreated   Kind = "regime_created"
	KindRegimeUpdated   Kind = "regime_updated"
	KindRegimeDeleted   Kind = "regime_deleted"
)

// Entity names the kind of record an entry refers to.
const (
	EntityActivity = "activity"
	EntityStamp    = "stamp"
	EntityRegime   = "regime"
)

// Entry is one line of a user's change journal.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Kind      Kind      `json:"kind"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
