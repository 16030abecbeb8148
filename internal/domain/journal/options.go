package journal

// ListOptions provides filtering options for listing journal entries.
type ListOptions struct {
	Entity   string
	EntityID string
	Kind     *Kind
	Limit    int
	Offset   int
}
