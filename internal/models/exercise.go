package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MuscleGroup is the fixed category an exercise belongs to.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "Chest"
	MuscleBack      MuscleGroup = "Back"
	MuscleLegs      MuscleGroup = "Legs"
	MuscleShoulders MuscleGroup = "Shoulders"
	MuscleArms      MuscleGroup = "Arms"
	MuscleCore      MuscleGroup = "Core"
	MuscleOther     MuscleGroup = "Other"
)

// MuscleGroups lists every muscle group in display order.
var MuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleLegs, MuscleShoulders, MuscleArms, MuscleCore, MuscleOther,
}

// Valid reports whether m is one of the known muscle groups.
func (m MuscleGroup) Valid() bool {
	for _, g := range MuscleGroups {
		if g == m {
			return true
		}
	}
	return false
}

// MuscleGroupChoices returns the muscle groups as form choices.
func MuscleGroupChoices() []Choice {
	choices := make([]Choice, 0, len(MuscleGroups))
	for _, g := range MuscleGroups {
		choices = append(choices, Choice{Value: string(g), Label: string(g)})
	}
	return choices
}

// Exercise is an entry in a user's exercise catalog.
// Archived exercises (IsActive false) keep their historical sets but are not
// offered when logging new ones.
type Exercise struct {
	ID          uuid.UUID   `json:"id"`
	UserID      int         `json:"-"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Label is the human-readable form used in pickers, e.g. "Bench Press (Chest)".
func (e Exercise) Label() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.MuscleGroup)
}

// ExerciseUsage is an exercise annotated with the number of sets referencing it.
type ExerciseUsage struct {
	Exercise
	UsageCount int `json:"usage_count"`
}

// Choice is a value/label pair offered by a form field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
