package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/timebank/internal/domain/journal"
)

// JournalRepository implements journal.Repository for SQLite
type JournalRepository struct {
	db *DB
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(db *DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Log inserts a new journal entry
func (r *JournalRepository) Log(ctx context.Context, userID string, entry *journal.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO journal (user_id, entity, entity_id, kind, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		userID,
		entry.Entity,
		entry.EntityID,
		string(entry.Kind),
		entry.Summary,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.UserID = userID
	entry.CreatedAt = createdAt
	return nil
}

// List returns journal entries matching the given filters, newest first
func (r *JournalRepository) List(ctx context.Context, userID string, opts journal.ListOptions) ([]journal.Entry, error) {
	query := `
		SELECT id, user_id, entity, entity_id, kind, summary, created_at
		FROM journal
		WHERE user_id = ?
	`
	args := []any{userID}
	conditions := []string{}

	if opts.Entity != "" {
		conditions = append(conditions, "entity = ?")
		args = append(args, opts.Entity)
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, opts.EntityID)
	}
	if opts.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*opts.Kind))
	}
	if len(conditions) > 0 {
		query += " AND " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

	query, args = paginate(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	entries := []journal.Entry{}
	for rows.Next() {
		var entry journal.Entry
		var kind string
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Entity,
			&entry.EntityID,
			&kind,
			&entry.Summary,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Kind = journal.Kind(kind)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return entries, nil
}
