package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, user_id, name, color, icon, points_per_hour, seconds_free, created_at, updated_at`

// Create inserts a new activity
func (r *ActivityRepository) Create(ctx context.Context, userID string, act *activity.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		act.ID,
		userID,
		act.Name,
		act.Color,
		act.Icon,
		act.PointsPerHour,
		act.SecondsFree,
		act.CreatedAt,
		act.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	act.UserID = userID
	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, userID, id string) (*activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ? AND user_id = ?`

	act, err := scanActivity(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return act, nil
}

// List returns all activities of a user ordered by name
func (r *ActivityRepository) List(ctx context.Context, userID string) ([]activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE user_id = ? ORDER BY name ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	acts := []activity.Activity{}
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		acts = append(acts, *act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return acts, nil
}

// Update modifies an activity
func (r *ActivityRepository) Update(ctx context.Context, userID string, act *activity.Activity) error {
	query := `
		UPDATE activities
		SET name = ?, color = ?, icon = ?, points_per_hour = ?, seconds_free = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		act.Name,
		act.Color,
		act.Icon,
		act.PointsPerHour,
		act.SecondsFree,
		act.UpdatedAt,
		act.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes an activity. Stamps referencing it are kept.
func (r *ActivityRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return expectOneRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*activity.Activity, error) {
	var act activity.Activity
	err := row.Scan(
		&act.ID,
		&act.UserID,
		&act.Name,
		&act.Color,
		&act.Icon,
		&act.PointsPerHour,
		&act.SecondsFree,
		&act.CreatedAt,
		&act.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &act, nil
}
