package stamp

import "time"

// ListOptions filters stamps by time. Zero bounds are open; Until is exclusive.
type ListOptions struct {
	Since       time.Time
	Until       time.Time
	NewestFirst bool
	Limit       int
	Offset      int
}
