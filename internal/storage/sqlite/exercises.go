package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

const exerciseColumns = `id, user_id, name, muscle_group, is_active, created_at`

func scanExercise(row scanner, extra ...any) (models.Exercise, error) {
	var (
		e       models.Exercise
		created int64
	)
	dest := append([]any{&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.IsActive, &created}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Exercise{}, err
	}
	e.CreatedAt = fromNanos(created)
	return e, nil
}

// ListExercises returns a user's active (or archived) exercises with usage counts.
func (d *DB) ListExercises(ctx context.Context, userID int, archived bool) ([]models.ExerciseUsage, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+`,
		        (SELECT COUNT(*) FROM set_entries s WHERE s.exercise_id = exercises.id)
		 FROM exercises
		 WHERE user_id = ? AND is_active = ?
		 ORDER BY muscle_group, name`,
		userID, !archived)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseUsage
	for rows.Next() {
		var count int
		e, err := scanExercise(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, models.ExerciseUsage{Exercise: e, UsageCount: count})
	}
	return result, rows.Err()
}

// ListActiveExercises returns the exercises a user may log new sets against.
func (d *DB) ListActiveExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 WHERE user_id = ? AND is_active = 1
		 ORDER BY muscle_group, name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying active exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise retrieves a single exercise owned by userID, active or not.
func (d *DB) GetExercise(ctx context.Context, id uuid.UUID, userID int) (models.Exercise, error) {
	e, err := scanExercise(d.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ? AND user_id = ?`,
		id, userID))
	if err != nil {
		return models.Exercise{}, notFound(err, "querying exercise")
	}
	return e, nil
}

// CreateExercise inserts e, assigning its ID and creation time.
func (d *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO exercises (id, user_id, name, muscle_group, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Name, e.MuscleGroup, e.IsActive, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// SetExerciseActive archives (false) or restores (true) an exercise.
func (d *DB) SetExerciseActive(ctx context.Context, id uuid.UUID, userID int, active bool) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE exercises SET is_active = ? WHERE id = ? AND user_id = ?`,
		active, id, userID)
	if err != nil {
		return fmt.Errorf("updating exercise state: %w", err)
	}
	return rowsAffected(res, "updating exercise state")
}

// DeleteExercise removes an exercise that no set references.
func (d *DB) DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM set_entries WHERE exercise_id = exercises.id)
		 FROM exercises WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&refs)
	if err != nil {
		return notFound(err, "checking exercise references")
	}
	if refs > 0 {
		return storage.ErrReferentialIntegrity
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id); err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrReferentialIntegrity
		}
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing exercise delete: %w", err)
	}
	return nil
}
