package storage

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Store is the repository surface the HTTP layer and seeder depend on.
// Every read and write is scoped to userID; rows owned by anyone else behave
// as if they did not exist.
type Store interface {
	Ping(ctx context.Context) error
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)

	ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID, userID int) (models.Workout, error)
	CreateWorkout(ctx context.Context, w *models.Workout) error
	UpdateWorkout(ctx context.Context, w models.Workout) error
	DeleteWorkout(ctx context.Context, id uuid.UUID, userID int) error

	ListWorkoutSets(ctx context.Context, workoutID uuid.UUID, userID int) ([]models.SetRecord, error)
	GetSet(ctx context.Context, id uuid.UUID, userID int) (models.SetEntry, error)
	CreateSet(ctx context.Context, s *models.SetEntry) error
	UpdateSet(ctx context.Context, s models.SetEntry, userID int) error
	DeleteSet(ctx context.Context, id uuid.UUID, userID int) error

	ListExercises(ctx context.Context, userID int, archived bool) ([]models.ExerciseUsage, error)
	ListActiveExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID, userID int) (models.Exercise, error)
	CreateExercise(ctx context.Context, e *models.Exercise) error
	SetExerciseActive(ctx context.Context, id uuid.UUID, userID int, active bool) error
	DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error

	ListSetRecords(ctx context.Context, userID int) ([]models.SetRecord, error)
}
