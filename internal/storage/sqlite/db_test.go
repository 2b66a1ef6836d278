package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	db      *DB
	user    int
	other   int
	bench   models.Exercise
	row     models.Exercise
	workout models.Workout
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{db: openTest(t)}

	var err error
	f.user, err = f.db.GetOrCreateUser(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)
	f.other, err = f.db.GetOrCreateUser(ctx, "bob@example.com", "Bob")
	require.NoError(t, err)

	f.bench = models.Exercise{UserID: f.user, Name: "Bench Press", MuscleGroup: models.MuscleChest, IsActive: true}
	require.NoError(t, f.db.CreateExercise(ctx, &f.bench))
	f.row = models.Exercise{UserID: f.user, Name: "Barbell Row", MuscleGroup: models.MuscleBack, IsActive: true}
	require.NoError(t, f.db.CreateExercise(ctx, &f.row))

	f.workout = models.Workout{UserID: f.user, Date: date(2024, 3, 1), DayType: models.DayChestTriceps, Notes: "push"}
	require.NoError(t, f.db.CreateWorkout(ctx, &f.workout))
	return f
}

func (f fixture) addSet(t *testing.T, exerciseID uuid.UUID, weight float64, reps int) models.SetEntry {
	t.Helper()
	s := models.SetEntry{WorkoutID: f.workout.ID, ExerciseID: exerciseID, Weight: weight, Reps: reps}
	require.NoError(t, f.db.CreateSet(context.Background(), &s))
	return s
}

// TestGetOrCreateUser verifies that repeated logins resolve to the same user.
func TestGetOrCreateUser(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	a, err := db.GetOrCreateUser(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)
	b, err := db.GetOrCreateUser(ctx, "alice@example.com", "")
	require.NoError(t, err)
	c, err := db.GetOrCreateUser(ctx, "bob@example.com", "Bob")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

// TestOpenFile verifies the schema is created on disk and survives reopening.
func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "liftlog.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := db.GetOrCreateUser(ctx, "local", "Local")
	require.NoError(t, err)
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	again, err := db.GetOrCreateUser(ctx, "local", "")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

// TestWorkoutOrderingAndRoundTrip checks date storage and date-desc, created-desc ordering.
func TestWorkoutOrderingAndRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sameDay := models.Workout{UserID: f.user, Date: date(2024, 3, 1), DayType: models.DayOther}
	require.NoError(t, f.db.CreateWorkout(ctx, &sameDay))
	older := models.Workout{UserID: f.user, Date: date(2024, 2, 20), DayType: models.DayFullBody}
	require.NoError(t, f.db.CreateWorkout(ctx, &older))

	list, err := f.db.ListWorkouts(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, sameDay.ID, list[0].ID, "later created first within a date")
	assert.Equal(t, f.workout.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)

	got, err := f.db.GetWorkout(ctx, f.workout.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 1), got.Date)
	assert.Equal(t, models.DayChestTriceps, got.DayType)
	assert.Equal(t, "push", got.Notes)

	others, err := f.db.ListWorkouts(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, others)
}

// TestWorkoutScoping verifies another user cannot read, edit or delete a workout.
func TestWorkoutScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.GetWorkout(ctx, f.workout.ID, f.other)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	hijack := f.workout
	hijack.UserID = f.other
	hijack.Notes = "mine now"
	assert.ErrorIs(t, f.db.UpdateWorkout(ctx, hijack), storage.ErrNotFound)
	assert.ErrorIs(t, f.db.DeleteWorkout(ctx, f.workout.ID, f.other), storage.ErrNotFound)

	got, err := f.db.GetWorkout(ctx, f.workout.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, "push", got.Notes)
}

// TestDeleteWorkoutCascades verifies a workout's sets are removed with it.
func TestDeleteWorkoutCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addSet(t, f.bench.ID, 80, 10)

	require.NoError(t, f.db.DeleteWorkout(ctx, f.workout.ID, f.user))

	_, err := f.db.GetSet(ctx, s.ID, f.user)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	records, err := f.db.ListSetRecords(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestSetsInCreationOrder verifies a workout lists its sets oldest first with joined fields.
func TestSetsInCreationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.addSet(t, f.bench.ID, 80, 10)
	second := f.addSet(t, f.row.ID, 60, 12)
	third := f.addSet(t, f.bench.ID, 82.5, 8)

	sets, err := f.db.ListWorkoutSets(ctx, f.workout.ID, f.user)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{sets[0].SetID, sets[1].SetID, sets[2].SetID})
	assert.Equal(t, "Barbell Row", sets[1].ExerciseName)
	assert.Equal(t, models.MuscleBack, sets[1].MuscleGroup)
	assert.Equal(t, date(2024, 3, 1), sets[2].Date)
	assert.Equal(t, 82.5, sets[2].Weight)

	others, err := f.db.ListWorkoutSets(ctx, f.workout.ID, f.other)
	require.NoError(t, err)
	assert.Empty(t, others)
}

// TestSetUpdateAndDeleteScoping verifies sets are only mutable through an owned workout.
func TestSetUpdateAndDeleteScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addSet(t, f.bench.ID, 80, 10)

	s.Reps = 6
	s.ExerciseID = f.row.ID
	s.Notes = "switched"
	assert.ErrorIs(t, f.db.UpdateSet(ctx, s, f.other), storage.ErrNotFound)
	require.NoError(t, f.db.UpdateSet(ctx, s, f.user))

	got, err := f.db.GetSet(ctx, s.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Reps)
	assert.Equal(t, f.row.ID, got.ExerciseID)
	assert.Equal(t, "switched", got.Notes)

	_, err = f.db.GetSet(ctx, s.ID, f.other)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, f.db.DeleteSet(ctx, s.ID, f.other), storage.ErrNotFound)
	require.NoError(t, f.db.DeleteSet(ctx, s.ID, f.user))
	assert.ErrorIs(t, f.db.DeleteSet(ctx, s.ID, f.user), storage.ErrNotFound)
}

// TestExerciseListingAndUsage checks active/archived filtering, ordering and usage counts.
func TestExerciseListingAndUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSet(t, f.bench.ID, 80, 10)
	f.addSet(t, f.bench.ID, 80, 8)

	active, err := f.db.ListExercises(ctx, f.user, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Barbell Row", active[0].Name, "Back before Chest")
	assert.Equal(t, 0, active[0].UsageCount)
	assert.Equal(t, "Bench Press", active[1].Name)
	assert.Equal(t, 2, active[1].UsageCount)

	require.NoError(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.user, false))

	active, err = f.db.ListExercises(ctx, f.user, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	archived, err := f.db.ListExercises(ctx, f.user, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, f.bench.ID, archived[0].ID)
	assert.False(t, archived[0].IsActive)
	assert.Equal(t, 2, archived[0].UsageCount)

	picker, err := f.db.ListActiveExercises(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, picker, 1)
	assert.Equal(t, f.row.ID, picker[0].ID)
}

// TestArchiveRoundTrip verifies archive then unarchive restores the exercise and keeps its sets.
func TestArchiveRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSet(t, f.bench.ID, 80, 10)

	require.NoError(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.user, false))
	require.NoError(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.user, false), "archiving twice is a no-op")
	require.NoError(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.user, true))

	got, err := f.db.GetExercise(ctx, f.bench.ID, f.user)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	records, err := f.db.ListSetRecords(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.ErrorIs(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.other, false), storage.ErrNotFound)
}

// TestDeleteExercise covers the protected delete: referenced exercises stay, unreferenced ones go.
func TestDeleteExercise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSet(t, f.bench.ID, 80, 10)

	assert.ErrorIs(t, f.db.DeleteExercise(ctx, f.bench.ID, f.user), storage.ErrReferentialIntegrity)
	got, err := f.db.GetExercise(ctx, f.bench.ID, f.user)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	require.NoError(t, f.db.SetExerciseActive(ctx, f.bench.ID, f.user, false))
	assert.ErrorIs(t, f.db.DeleteExercise(ctx, f.bench.ID, f.user), storage.ErrReferentialIntegrity)

	assert.ErrorIs(t, f.db.DeleteExercise(ctx, f.row.ID, f.other), storage.ErrNotFound)
	require.NoError(t, f.db.DeleteExercise(ctx, f.row.ID, f.user))
	_, err = f.db.GetExercise(ctx, f.row.ID, f.user)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	records, err := f.db.ListSetRecords(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestForeignKeysEnforced verifies the schema rejects protected deletes even outside the store guard.
func TestForeignKeysEnforced(t *testing.T) {
	f := newFixture(t)
	f.addSet(t, f.bench.ID, 80, 10)

	_, err := f.db.db.Exec(`DELETE FROM exercises WHERE id = ?`, f.bench.ID)
	require.Error(t, err)
	assert.True(t, isForeignKeyViolation(err))
}

// TestCreateSetUnknownWorkout maps a dangling workout reference to not found.
func TestCreateSetUnknownWorkout(t *testing.T) {
	f := newFixture(t)
	s := models.SetEntry{WorkoutID: uuid.New(), ExerciseID: f.bench.ID, Weight: 1, Reps: 1}
	assert.ErrorIs(t, f.db.CreateSet(context.Background(), &s), storage.ErrNotFound)
}
