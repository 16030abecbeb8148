package activity

import "time"

// Activity is a user-owned thing time can be spent on, with the rate used to score it.
type Activity struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	PointsPerHour float64   `json:"points_per_hour"`
	SecondsFree   int64     `json:"seconds_free"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Info is the subset of an activity the accounting pipeline reads.
type Info struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Icon          string  `json:"icon"`
	PointsPerHour float64 `json:"points_per_hour"`
	SecondsFree   int64   `json:"seconds_free"`
}

// Info returns the rate-bearing view of the activity.
func (a Activity) Info() Info {
	return Info{
		ID:            a.ID,
		Name:          a.Name,
		Color:         a.Color,
		Icon:          a.Icon,
		PointsPerHour: a.PointsPerHour,
		SecondsFree:   a.SecondsFree,
	}
}

// Lookup resolves an activity by ID. The boolean is false when the activity
// no longer exists; callers drop whatever referenced it.
type Lookup func(activityID string) (Info, bool)

// LookupFrom snapshots activities into a Lookup. Later changes to the slice
// are not observed.
func LookupFrom(activities []Activity) Lookup {
	byID := make(map[string]Info, len(activities))
	for _, a := range activities {
		byID[a.ID] = a.Info()
	}
	return func(activityID string) (Info, bool) {
		info, ok := byID[activityID]
		return info, ok
	}
}
