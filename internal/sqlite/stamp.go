package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/repository"
)

// StampRepository implements stamp.Repository for SQLite. Timestamps are
// stored as Unix milliseconds so range queries compare integers.
type StampRepository struct {
	db *DB
}

// NewStampRepository creates a new StampRepository
func NewStampRepository(db *DB) *StampRepository {
	return &StampRepository{db: db}
}

// Create inserts a new stamp
func (r *StampRepository) Create(ctx context.Context, userID string, st *stamp.Stamp) error {
	query := `
		INSERT INTO stamps (id, user_id, timestamp_ms, type, activity_id)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		userID,
		st.Timestamp.UnixMilli(),
		string(st.Kind),
		nullString(st.ActivityID),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create stamp: %w", err)
	}
	st.UserID = userID
	return nil
}

// Get retrieves a stamp by ID
func (r *StampRepository) Get(ctx context.Context, userID, id string) (*stamp.Stamp, error) {
	query := `
		SELECT id, user_id, timestamp_ms, type, activity_id
		FROM stamps
		WHERE id = ? AND user_id = ?
	`
	st, err := scanStamp(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stamp: %w", err)
	}
	return st, nil
}

// Update modifies a stamp
func (r *StampRepository) Update(ctx context.Context, userID string, st *stamp.Stamp) error {
	query := `
		UPDATE stamps
		SET timestamp_ms = ?, type = ?, activity_id = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		st.Timestamp.UnixMilli(),
		string(st.Kind),
		nullString(st.ActivityID),
		st.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stamp: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a stamp
func (r *StampRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stamps WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete stamp: %w", err)
	}
	return expectOneRow(result)
}

// List returns stamps matching the given filters
func (r *StampRepository) List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error) {
	query := `
		SELECT id, user_id, timestamp_ms, type, activity_id
		FROM stamps
		WHERE user_id = ?
	`
	args := []any{userID}
	conditions := []string{}

	if !opts.Since.IsZero() {
		conditions = append(conditions, "timestamp_ms >= ?")
		args = append(args, opts.Since.UnixMilli())
	}
	if !opts.Until.IsZero() {
		conditions = append(conditions, "timestamp_ms < ?")
		args = append(args, opts.Until.UnixMilli())
	}
	if len(conditions) > 0 {
		query += " AND " + joinConditions(conditions)
	}

	if opts.NewestFirst {
		query += " ORDER BY timestamp_ms DESC, id DESC"
	} else {
		query += " ORDER BY timestamp_ms ASC, id ASC"
	}

	query, args = paginate(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stamps: %w", err)
	}
	defer rows.Close()

	stamps := []stamp.Stamp{}
	for rows.Next() {
		st, err := scanStamp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stamp: %w", err)
		}
		stamps = append(stamps, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stamp rows: %w", err)
	}
	return stamps, nil
}

func scanStamp(row rowScanner) (*stamp.Stamp, error) {
	var st stamp.Stamp
	var ms int64
	var kind string
	var activityID sql.NullString
	if err := row.Scan(&st.ID, &st.UserID, &ms, &kind, &activityID); err != nil {
		return nil, err
	}
	st.Timestamp = time.UnixMilli(ms).UTC()
	st.Kind = stamp.Kind(kind)
	if activityID.Valid {
		st.ActivityID = activityID.String
	}
	return &st, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
