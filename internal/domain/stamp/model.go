package stamp

import "time"

// Kind is either a start or a stop marker.
type Kind string

const (
	KindStart Kind = "start"
	KindStop  Kind = "stop"
)

// Valid reports whether k is a known stamp kind.
func (k Kind) Valid() bool {
	return k == KindStart || k == KindStop
}

// Stamp is one timestamped marker in a user's activity log. ActivityID is set
// exactly when Kind is KindStart.
type Stamp struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       Kind      `json:"type"`
	ActivityID string    `json:"activity_id,omitempty"`
}
