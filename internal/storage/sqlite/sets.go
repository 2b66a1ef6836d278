package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

const setRecordQuery = `
	SELECT s.id, s.workout_id, w.date, s.exercise_id, e.name, e.muscle_group, s.weight, s.reps, s.notes
	FROM set_entries s
	JOIN workouts w ON w.id = s.workout_id
	JOIN exercises e ON e.id = s.exercise_id`

func (d *DB) querySetRecords(ctx context.Context, query string, args ...any) ([]models.SetRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying set records: %w", err)
	}
	defer rows.Close()

	var result []models.SetRecord
	for rows.Next() {
		var (
			r    models.SetRecord
			date string
		)
		if err := rows.Scan(&r.SetID, &r.WorkoutID, &date, &r.ExerciseID, &r.ExerciseName,
			&r.MuscleGroup, &r.Weight, &r.Reps, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning set record: %w", err)
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ListWorkoutSets returns the sets of one workout in creation order.
func (d *DB) ListWorkoutSets(ctx context.Context, workoutID uuid.UUID, userID int) ([]models.SetRecord, error) {
	return d.querySetRecords(ctx,
		setRecordQuery+`
		 WHERE s.workout_id = ? AND w.user_id = ?
		 ORDER BY s.created_at ASC, s.rowid ASC`,
		workoutID, userID)
}

// ListSetRecords returns every set a user has logged.
func (d *DB) ListSetRecords(ctx context.Context, userID int) ([]models.SetRecord, error) {
	return d.querySetRecords(ctx,
		setRecordQuery+`
		 WHERE w.user_id = ?
		 ORDER BY w.date ASC, s.created_at ASC, s.rowid ASC`,
		userID)
}

// GetSet retrieves a set whose workout is owned by userID.
func (d *DB) GetSet(ctx context.Context, id uuid.UUID, userID int) (models.SetEntry, error) {
	var (
		s       models.SetEntry
		created int64
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT s.id, s.workout_id, s.exercise_id, s.weight, s.reps, s.notes, s.created_at
		 FROM set_entries s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE s.id = ? AND w.user_id = ?`,
		id, userID).Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.Weight, &s.Reps, &s.Notes, &created)
	if err != nil {
		return models.SetEntry{}, notFound(err, "querying set")
	}
	s.CreatedAt = fromNanos(created)
	return s, nil
}

// CreateSet inserts s, assigning its ID and creation time.
func (d *DB) CreateSet(ctx context.Context, s *models.SetEntry) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO set_entries (id, workout_id, exercise_id, weight, reps, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.WorkoutID, s.ExerciseID, s.Weight, s.Reps, s.Notes, s.CreatedAt.UnixNano())
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// UpdateSet overwrites the exercise, weight, reps and notes of a set.
func (d *DB) UpdateSet(ctx context.Context, s models.SetEntry, userID int) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE set_entries SET exercise_id = ?, weight = ?, reps = ?, notes = ?
		 WHERE id = ? AND workout_id IN (SELECT id FROM workouts WHERE user_id = ?)`,
		s.ExerciseID, s.Weight, s.Reps, s.Notes, s.ID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("updating set: %w", err)
	}
	return rowsAffected(res, "updating set")
}

// DeleteSet removes a set whose workout is owned by userID.
func (d *DB) DeleteSet(ctx context.Context, id uuid.UUID, userID int) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM set_entries
		 WHERE id = ? AND workout_id IN (SELECT id FROM workouts WHERE user_id = ?)`,
		id, userID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	return rowsAffected(res, "deleting set")
}
