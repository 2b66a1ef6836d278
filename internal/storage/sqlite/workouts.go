package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

const workoutColumns = `id, user_id, date, day_type, notes, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row scanner) (models.Workout, error) {
	var (
		w       models.Workout
		date    string
		created int64
	)
	if err := row.Scan(&w.ID, &w.UserID, &date, &w.DayType, &w.Notes, &created); err != nil {
		return models.Workout{}, err
	}
	d, err := parseDate(date)
	if err != nil {
		return models.Workout{}, err
	}
	w.Date = d
	w.CreatedAt = fromNanos(created)
	return w, nil
}

// ListWorkouts returns a user's workouts, newest date first, then newest created.
func (d *DB) ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC, rowid DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a single workout owned by userID.
func (d *DB) GetWorkout(ctx context.Context, id uuid.UUID, userID int) (models.Workout, error) {
	w, err := scanWorkout(d.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND user_id = ?`,
		id, userID))
	if err != nil {
		return models.Workout{}, notFound(err, "querying workout")
	}
	return w, nil
}

// CreateWorkout inserts w, assigning its ID and creation time.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	w.ID = uuid.New()
	w.CreatedAt = time.Now().UTC()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, date, day_type, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.DateString(), w.DayType, w.Notes, w.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout overwrites the editable fields of a workout owned by w.UserID.
func (d *DB) UpdateWorkout(ctx context.Context, w models.Workout) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE workouts SET date = ?, day_type = ?, notes = ? WHERE id = ? AND user_id = ?`,
		w.DateString(), w.DayType, w.Notes, w.ID, w.UserID)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	return rowsAffected(res, "updating workout")
}

// DeleteWorkout removes a workout; its sets go with it.
func (d *DB) DeleteWorkout(ctx context.Context, id uuid.UUID, userID int) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return rowsAffected(res, "deleting workout")
}
