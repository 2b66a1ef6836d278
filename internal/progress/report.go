package progress

import (
	"fmt"
	"sort"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Strategy picks the exercise charted when none is requested.
type Strategy string

const (
	// StrategyFirst charts the first active exercise by muscle group, then name.
	StrategyFirst Strategy = "first"
	// StrategyLatest charts the exercise of the most recently dated set.
	StrategyLatest Strategy = "latest"
	// StrategyNone charts nothing until an exercise is requested.
	StrategyNone Strategy = "none"
)

// ParseStrategy validates a configured strategy name. Empty means first.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyFirst:
		return StrategyFirst, nil
	case StrategyLatest, StrategyNone:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown default exercise strategy %q (want first, latest or none)", s)
}

// DefaultExercise returns the exercise to chart when the request names none.
// active must already be restricted to the user's active exercises.
func DefaultExercise(strategy Strategy, active []models.Exercise, records []models.SetRecord) (models.Exercise, bool) {
	ordered := make([]models.Exercise, len(active))
	copy(ordered, active)
	sortExercises(ordered)

	switch strategy {
	case StrategyNone:
		return models.Exercise{}, false
	case StrategyLatest:
		if len(records) > 0 {
			latest := records[0].Date
			for _, r := range records[1:] {
				if r.Date.After(latest) {
					latest = r.Date
				}
			}
			onLatest := map[uuid.UUID]bool{}
			for _, r := range records {
				if r.Date.Equal(latest) {
					onLatest[r.ExerciseID] = true
				}
			}
			for _, e := range ordered {
				if onLatest[e.ID] {
					return e, true
				}
			}
		}
	}

	if len(ordered) == 0 {
		return models.Exercise{}, false
	}
	return ordered[0], true
}

func sortExercises(list []models.Exercise) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].MuscleGroup != list[j].MuscleGroup {
			return list[i].MuscleGroup < list[j].MuscleGroup
		}
		return list[i].Name < list[j].Name
	})
}

// Report is the complete progress page payload.
type Report struct {
	Summary          Summary           `json:"summary"`
	Daily            []DayStat         `json:"daily"`
	Exercises        []ExerciseStat    `json:"exercises"`
	ActiveExercises  []models.Exercise `json:"active_exercises"`
	SelectedExercise *models.Exercise  `json:"selected_exercise"`
	Series           []WeightPoint     `json:"series"`
}

// Build assembles the report. selected, when non-nil, overrides the strategy.
func Build(records []models.SetRecord, active []models.Exercise, selected *models.Exercise, strategy Strategy) Report {
	daily := DailySeries(records)
	rep := Report{
		Summary:         Summarize(daily),
		Daily:           daily,
		Exercises:       ExerciseSummaries(records),
		ActiveExercises: active,
		Series:          []WeightPoint{},
	}
	if rep.ActiveExercises == nil {
		rep.ActiveExercises = []models.Exercise{}
	}

	if selected == nil {
		if e, ok := DefaultExercise(strategy, active, records); ok {
			selected = &e
		}
	}
	if selected != nil {
		rep.SelectedExercise = selected
		rep.Series = MaxWeightSeries(records, selected.ID)
	}
	return rep
}

// WorkoutTotals is the aggregate shown on the workout detail page.
type WorkoutTotals struct {
	UniqueExercises int     `json:"unique_exercises"`
	TotalSets       int     `json:"total_sets"`
	TotalVolume     float64 `json:"total_volume"`
}

// TotalsFor aggregates the sets of a single workout.
func TotalsFor(records []models.SetRecord) WorkoutTotals {
	seen := map[uuid.UUID]struct{}{}
	t := WorkoutTotals{TotalSets: len(records)}
	for _, r := range records {
		seen[r.ExerciseID] = struct{}{}
		t.TotalVolume += r.Volume()
	}
	t.UniqueExercises = len(seen)
	return t
}
