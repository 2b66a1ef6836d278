package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// ListWorkouts returns a user's workouts, newest date first, then newest created.
func (db *DB) ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, date, day_type, notes, created_at
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.DayType, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a single workout owned by userID.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID, userID int) (models.Workout, error) {
	var w models.Workout
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, date, day_type, notes, created_at
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&w.ID, &w.UserID, &w.Date, &w.DayType, &w.Notes, &w.CreatedAt)
	if err != nil {
		return models.Workout{}, notFound(err, "querying workout")
	}
	return w, nil
}

// CreateWorkout inserts w, assigning its ID and creation time.
func (db *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	w.ID = uuid.New()
	w.CreatedAt = time.Now().UTC()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, date, day_type, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.UserID, w.Date, w.DayType, w.Notes, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout overwrites the editable fields of a workout owned by w.UserID.
func (db *DB) UpdateWorkout(ctx context.Context, w models.Workout) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET date = $1, day_type = $2, notes = $3
		 WHERE id = $4 AND user_id = $5`,
		w.Date, w.DayType, w.Notes, w.ID, w.UserID)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWorkout removes a workout; its sets go with it.
func (db *DB) DeleteWorkout(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
