package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/repository"
)

// RegimeRepository implements regime.Repository for SQLite
type RegimeRepository struct {
	db *DB
}

// NewRegimeRepository creates a new RegimeRepository
func NewRegimeRepository(db *DB) *RegimeRepository {
	return &RegimeRepository{db: db}
}

const regimeColumns = `id, user_id, icon, name, is_holiday, intervals, total_points, total_duration_ms, created_at, updated_at`

// Create inserts a new regime
func (r *RegimeRepository) Create(ctx context.Context, userID string, reg *regime.Regime) error {
	intervals, err := encodeIntervals(reg.Intervals)
	if err != nil {
		return err
	}

	query := `INSERT INTO regimes (` + regimeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		reg.ID,
		userID,
		reg.Icon,
		reg.Name,
		reg.IsHoliday,
		intervals,
		reg.TotalPoints,
		reg.TotalDurationMs,
		reg.CreatedAt,
		reg.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create regime: %w", err)
	}
	reg.UserID = userID
	return nil
}

// Get retrieves a regime by ID
func (r *RegimeRepository) Get(ctx context.Context, userID, id string) (*regime.Regime, error) {
	query := `SELECT ` + regimeColumns + ` FROM regimes WHERE id = ? AND user_id = ?`
	reg, err := scanRegime(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get regime: %w", err)
	}
	return reg, nil
}

// List returns all regimes of a user ordered by name
func (r *RegimeRepository) List(ctx context.Context, userID string) ([]regime.Regime, error) {
	query := `SELECT ` + regimeColumns + ` FROM regimes WHERE user_id = ? ORDER BY name ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list regimes: %w", err)
	}
	defer rows.Close()

	regimes := []regime.Regime{}
	for rows.Next() {
		reg, err := scanRegime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regime: %w", err)
		}
		regimes = append(regimes, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regime rows: %w", err)
	}
	return regimes, nil
}

// Update modifies a regime
func (r *RegimeRepository) Update(ctx context.Context, userID string, reg *regime.Regime) error {
	intervals, err := encodeIntervals(reg.Intervals)
	if err != nil {
		return err
	}

	query := `
		UPDATE regimes
		SET icon = ?, name = ?, is_holiday = ?, intervals = ?, total_points = ?, total_duration_ms = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		reg.Icon,
		reg.Name,
		reg.IsHoliday,
		intervals,
		reg.TotalPoints,
		reg.TotalDurationMs,
		reg.UpdatedAt,
		reg.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update regime: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a regime
func (r *RegimeRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM regimes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete regime: %w", err)
	}
	return expectOneRow(result)
}

func scanRegime(row rowScanner) (*regime.Regime, error) {
	var reg regime.Regime
	var intervals string
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.Icon,
		&reg.Name,
		&reg.IsHoliday,
		&intervals,
		&reg.TotalPoints,
		&reg.TotalDurationMs,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(intervals), &reg.Intervals); err != nil {
		return nil, fmt.Errorf("failed to decode regime intervals: %w", err)
	}
	if reg.Intervals == nil {
		reg.Intervals = []regime.Interval{}
	}
	return &reg, nil
}

func encodeIntervals(intervals []regime.Interval) (string, error) {
	if intervals == nil {
		intervals = []regime.Interval{}
	}
	data, err := json.Marshal(intervals)
	if err != nil {
		return "", fmt.Errorf("failed to encode regime intervals: %w", err)
	}
	return string(data), nil
}
