package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// ListExercises returns a user's active (or archived) exercises with the
// number of sets referencing each, ordered by muscle group then name.
func (db *DB) ListExercises(ctx context.Context, userID int, archived bool) ([]models.ExerciseUsage, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.user_id, e.name, e.muscle_group, e.is_active, e.created_at,
		        (SELECT COUNT(*) FROM set_entries s WHERE s.exercise_id = e.id)
		 FROM exercises e
		 WHERE e.user_id = $1 AND e.is_active = $2
		 ORDER BY e.muscle_group, e.name`,
		userID, !archived)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseUsage
	for rows.Next() {
		var e models.ExerciseUsage
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.IsActive, &e.CreatedAt, &e.UsageCount); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// ListActiveExercises returns the exercises a user may log new sets against.
func (db *DB) ListActiveExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, muscle_group, is_active, created_at
		 FROM exercises
		 WHERE user_id = $1 AND is_active
		 ORDER BY muscle_group, name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying active exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise retrieves a single exercise owned by userID, active or not.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID, userID int) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, muscle_group, is_active, created_at
		 FROM exercises
		 WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.IsActive, &e.CreatedAt)
	if err != nil {
		return models.Exercise{}, notFound(err, "querying exercise")
	}
	return e, nil
}

// CreateExercise inserts e as active, assigning its ID and creation time.
func (db *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, user_id, name, muscle_group, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Name, e.MuscleGroup, e.IsActive, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// SetExerciseActive archives (false) or restores (true) an exercise.
// Setting the current state again is a no-op that still succeeds.
func (db *DB) SetExerciseActive(ctx context.Context, id uuid.UUID, userID int, active bool) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET is_active = $1 WHERE id = $2 AND user_id = $3`,
		active, id, userID)
	if err != nil {
		return fmt.Errorf("updating exercise state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExercise removes an exercise that no set references. The ownership
// check, the reference check and the delete share one transaction.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var one int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM exercises WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID).Scan(&one)
	if err != nil {
		return notFound(err, "locking exercise")
	}

	var refs int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM set_entries WHERE exercise_id = $1`, id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("counting exercise references: %w", err)
	}
	if refs > 0 {
		return ErrReferentialIntegrity
	}

	if _, err := tx.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferentialIntegrity
		}
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferentialIntegrity
		}
		return fmt.Errorf("committing exercise delete: %w", err)
	}
	return nil
}
