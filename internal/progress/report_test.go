package progress

import (
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeExercises() []models.Exercise {
	return []models.Exercise{
		{ID: benchID, Name: "Bench Press", MuscleGroup: models.MuscleChest, IsActive: true},
		{ID: deadliftID, Name: "Deadlift", MuscleGroup: models.MuscleBack, IsActive: true},
	}
}

// TestDefaultExercise covers each configured strategy.
func TestDefaultExercise(t *testing.T) {
	records := []models.SetRecord{
		rec(day1, deadliftID, "Deadlift", models.MuscleBack, 140, 5),
		rec(day2, benchID, "Bench Press", models.MuscleChest, 80, 10),
	}

	e, ok := DefaultExercise(StrategyFirst, activeExercises(), records)
	require.True(t, ok)
	assert.Equal(t, deadliftID, e.ID, "Back sorts first")

	e, ok = DefaultExercise(StrategyLatest, activeExercises(), records)
	require.True(t, ok)
	assert.Equal(t, benchID, e.ID)

	_, ok = DefaultExercise(StrategyNone, activeExercises(), records)
	assert.False(t, ok)

	_, ok = DefaultExercise(StrategyFirst, nil, records)
	assert.False(t, ok)
}

// TestDefaultExerciseLatestFallsBack uses the first exercise when the latest set's
// exercise is archived or no sets exist.
func TestDefaultExerciseLatestFallsBack(t *testing.T) {
	archived := uuid.New()
	records := []models.SetRecord{rec(day2, archived, "Old", models.MuscleOther, 10, 10)}

	e, ok := DefaultExercise(StrategyLatest, activeExercises(), records)
	require.True(t, ok)
	assert.Equal(t, deadliftID, e.ID)

	e, ok = DefaultExercise(StrategyLatest, activeExercises(), nil)
	require.True(t, ok)
	assert.Equal(t, deadliftID, e.ID)
}

// TestParseStrategy accepts the known names and rejects anything else.
func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": StrategyFirst, "first": StrategyFirst, "latest": StrategyLatest, "none": StrategyNone} {
		got, err := ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("random")
	assert.Error(t, err)
}

// TestBuild wires the engine outputs together.
func TestBuild(t *testing.T) {
	rep := Build(scenario(), activeExercises(), nil, StrategyFirst)
	assert.Equal(t, 2, rep.Summary.TotalWorkoutDays)
	assert.Len(t, rep.Daily, 2)
	assert.Len(t, rep.Exercises, 2)
	require.NotNil(t, rep.SelectedExercise)
	assert.Equal(t, deadliftID, rep.SelectedExercise.ID)
	assert.Equal(t, []WeightPoint{{Date: "2024-01-02", MaxWeight: 150}}, rep.Series)

	bench := activeExercises()[0]
	rep = Build(scenario(), activeExercises(), &bench, StrategyNone)
	assert.Equal(t, benchID, rep.SelectedExercise.ID)
	assert.Equal(t, []WeightPoint{{Date: "2024-01-01", MaxWeight: 80}}, rep.Series)

	rep = Build(nil, nil, nil, StrategyNone)
	assert.Nil(t, rep.SelectedExercise)
	assert.NotNil(t, rep.Series)
	assert.Equal(t, Summary{}, rep.Summary)
}

// TestTotalsFor checks the workout detail aggregate.
func TestTotalsFor(t *testing.T) {
	tot := TotalsFor(scenario())
	assert.Equal(t, WorkoutTotals{UniqueExercises: 2, TotalSets: 3, TotalVolume: 1890}, tot)
	assert.Equal(t, WorkoutTotals{}, TotalsFor(nil))
}
