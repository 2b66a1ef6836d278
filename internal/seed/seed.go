// Package seed populates a user's account with demo exercises, workouts and
// sets. Rows are matched by their natural keys, so running it again only
// reconciles what is already there.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// Options selects the demo user and the reference date.
type Options struct {
	Login       string
	DisplayName string
	// Today anchors the workout dates. Zero means the current UTC date.
	Today time.Time
}

// Result counts what a run created.
type Result struct {
	UserID    int
	Exercises int
	Workouts  int
	Sets      int
}

type exerciseSeed struct {
	name   string
	group  models.MuscleGroup
	active bool
}

var exercises = []exerciseSeed{
	{"Bench Press", models.MuscleChest, true},
	{"Incline Dumbbell Press", models.MuscleChest, true},
	{"Deadlift", models.MuscleBack, true},
	{"Lat Pulldown", models.MuscleBack, true},
	{"Squat", models.MuscleLegs, true},
	{"Lateral Raises", models.MuscleShoulders, true},
	{"Old Exercise (archived)", models.MuscleOther, false},
}

type workoutSeed struct {
	daysAgo int
	dayType models.DayType
	notes   string
}

var workouts = []workoutSeed{
	{0, models.DayChestTriceps, "Demo chest day"},
	{2, models.DayBackBiceps, "Demo back day"},
	{4, models.DayLegsShoulders, "Demo legs day"},
}

type setSeed struct {
	workout  int
	exercise string
	weight   float64
	reps     int
}

var sets = []setSeed{
	{0, "Bench Press", 80, 10},
	{0, "Bench Press", 80, 8},
	{0, "Incline Dumbbell Press", 30, 12},
	{0, "Lateral Raises", 9, 15},

	{1, "Deadlift", 140, 5},
	{1, "Deadlift", 150, 3},
	{1, "Lat Pulldown", 75, 10},

	{2, "Squat", 120, 5},
	{2, "Squat", 110, 8},
}

// Run seeds the demo data for opts.Login.
func Run(ctx context.Context, store storage.Store, opts Options, log *slog.Logger) (Result, error) {
	var res Result
	if opts.Login == "" {
		return res, fmt.Errorf("seed login is required")
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	uid, err := store.GetOrCreateUser(ctx, opts.Login, opts.DisplayName)
	if err != nil {
		return res, fmt.Errorf("resolving seed user: %w", err)
	}
	res.UserID = uid

	exByName, created, err := seedExercises(ctx, store, uid)
	if err != nil {
		return res, err
	}
	res.Exercises = created

	woIDs, created, err := seedWorkouts(ctx, store, uid, today)
	if err != nil {
		return res, err
	}
	res.Workouts = created

	for _, s := range sets {
		wid := woIDs[s.workout]
		eid := exByName[s.exercise]
		existing, err := store.ListWorkoutSets(ctx, wid, uid)
		if err != nil {
			return res, fmt.Errorf("listing seeded sets: %w", err)
		}
		if hasSet(existing, eid, s.weight, s.reps) {
			continue
		}
		entry := models.SetEntry{WorkoutID: wid, ExerciseID: eid, Weight: s.weight, Reps: s.reps}
		if err := store.CreateSet(ctx, &entry); err != nil {
			return res, fmt.Errorf("creating seed set: %w", err)
		}
		res.Sets++
	}

	log.Info("seed complete", "user_id", uid, "login", opts.Login,
		"new_exercises", res.Exercises, "new_workouts", res.Workouts, "new_sets", res.Sets)
	return res, nil
}

func seedExercises(ctx context.Context, store storage.Store, uid int) (map[string]uuid.UUID, int, error) {
	byName := map[string]models.Exercise{}
	for _, archived := range []bool{false, true} {
		list, err := store.ListExercises(ctx, uid, archived)
		if err != nil {
			return nil, 0, fmt.Errorf("listing exercises: %w", err)
		}
		for _, e := range list {
			byName[e.Name] = e.Exercise
		}
	}

	ids := make(map[string]uuid.UUID, len(exercises))
	created := 0
	for _, s := range exercises {
		e, ok := byName[s.name]
		if !ok {
			e = models.Exercise{UserID: uid, Name: s.name, MuscleGroup: s.group, IsActive: true}
			if err := store.CreateExercise(ctx, &e); err != nil {
				return nil, 0, fmt.Errorf("creating exercise %q: %w", s.name, err)
			}
			created++
		}
		if e.IsActive != s.active {
			if err := store.SetExerciseActive(ctx, e.ID, uid, s.active); err != nil {
				return nil, 0, fmt.Errorf("setting %q active=%v: %w", s.name, s.active, err)
			}
		}
		ids[s.name] = e.ID
	}
	return ids, created, nil
}

func seedWorkouts(ctx context.Context, store storage.Store, uid int, today time.Time) ([]uuid.UUID, int, error) {
	list, err := store.ListWorkouts(ctx, uid)
	if err != nil {
		return nil, 0, fmt.Errorf("listing workouts: %w", err)
	}
	byDate := map[string]uuid.UUID{}
	for _, w := range list {
		if _, ok := byDate[w.DateString()]; !ok {
			byDate[w.DateString()] = w.ID
		}
	}

	ids := make([]uuid.UUID, len(workouts))
	created := 0
	for i, s := range workouts {
		date := today.AddDate(0, 0, -s.daysAgo)
		if id, ok := byDate[date.Format(models.DateLayout)]; ok {
			ids[i] = id
			continue
		}
		w := models.Workout{UserID: uid, Date: date, DayType: s.dayType, Notes: s.notes}
		if err := store.CreateWorkout(ctx, &w); err != nil {
			return nil, 0, fmt.Errorf("creating workout for %s: %w", w.DateString(), err)
		}
		ids[i] = w.ID
		created++
	}
	return ids, created, nil
}

func hasSet(existing []models.SetRecord, exerciseID uuid.UUID, weight float64, reps int) bool {
	for _, r := range existing {
		if r.ExerciseID == exerciseID && r.Weight == weight && r.Reps == reps {
			return true
		}
	}
	return false
}
