package models

import (
	"time"

	"github.com/google/uuid"
)

// SetEntry is one recorded performance of an exercise within a workout.
type SetEntry struct {
	ID         uuid.UUID `json:"id"`
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Volume returns weight × reps.
func (s SetEntry) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// SetRecord is a set joined with its workout date and exercise identity,
// the shape the progress views and workout detail page read.
type SetRecord struct {
	SetID        uuid.UUID   `json:"id"`
	WorkoutID    uuid.UUID   `json:"workout_id"`
	Date         time.Time   `json:"date"`
	ExerciseID   uuid.UUID   `json:"exercise_id"`
	ExerciseName string      `json:"exercise_name"`
	MuscleGroup  MuscleGroup `json:"muscle_group"`
	Weight       float64     `json:"weight"`
	Reps         int         `json:"reps"`
	Notes        string      `json:"notes"`
}

// Volume returns weight × reps.
func (r SetRecord) Volume() float64 {
	return r.Weight * float64(r.Reps)
}
