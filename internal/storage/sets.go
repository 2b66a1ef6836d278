package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

const setRecordColumns = `s.id, s.workout_id, w.date, s.exercise_id, e.name, e.muscle_group, s.weight, s.reps, s.notes`

// ListWorkoutSets returns the sets of one workout in creation order.
func (db *DB) ListWorkoutSets(ctx context.Context, workoutID uuid.UUID, userID int) ([]models.SetRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setRecordColumns+`
		 FROM set_entries s
		 JOIN workouts w ON w.id = s.workout_id
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE s.workout_id = $1 AND w.user_id = $2
		 ORDER BY s.created_at ASC, s.id ASC`,
		workoutID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	return scanSetRecords(rows)
}

// ListSetRecords returns every set a user has logged, annotated for the progress views.
func (db *DB) ListSetRecords(ctx context.Context, userID int) ([]models.SetRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setRecordColumns+`
		 FROM set_entries s
		 JOIN workouts w ON w.id = s.workout_id
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE w.user_id = $1
		 ORDER BY w.date ASC, s.created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying set records: %w", err)
	}
	defer rows.Close()

	return scanSetRecords(rows)
}

func scanSetRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.SetRecord, error) {
	var result []models.SetRecord
	for rows.Next() {
		var r models.SetRecord
		if err := rows.Scan(&r.SetID, &r.WorkoutID, &r.Date, &r.ExerciseID, &r.ExerciseName,
			&r.MuscleGroup, &r.Weight, &r.Reps, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning set record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetSet retrieves a set whose workout is owned by userID.
func (db *DB) GetSet(ctx context.Context, id uuid.UUID, userID int) (models.SetEntry, error) {
	var s models.SetEntry
	err := db.Pool.QueryRow(ctx,
		`SELECT s.id, s.workout_id, s.exercise_id, s.weight, s.reps, s.notes, s.created_at
		 FROM set_entries s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE s.id = $1 AND w.user_id = $2`,
		id, userID).Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.Weight, &s.Reps, &s.Notes, &s.CreatedAt)
	if err != nil {
		return models.SetEntry{}, notFound(err, "querying set")
	}
	return s, nil
}

// CreateSet inserts s, assigning its ID and creation time. The caller has
// already established that the workout and exercise belong to the user.
func (db *DB) CreateSet(ctx context.Context, s *models.SetEntry) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO set_entries (id, workout_id, exercise_id, weight, reps, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.WorkoutID, s.ExerciseID, s.Weight, s.Reps, s.Notes, s.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// UpdateSet overwrites the exercise, weight, reps and notes of a set.
func (db *DB) UpdateSet(ctx context.Context, s models.SetEntry, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE set_entries SET exercise_id = $1, weight = $2, reps = $3, notes = $4
		 WHERE id = $5 AND workout_id IN (SELECT id FROM workouts WHERE user_id = $6)`,
		s.ExerciseID, s.Weight, s.Reps, s.Notes, s.ID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("updating set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSet removes a set whose workout is owned by userID.
func (db *DB) DeleteSet(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM set_entries
		 WHERE id = $1 AND workout_id IN (SELECT id FROM workouts WHERE user_id = $2)`,
		id, userID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
