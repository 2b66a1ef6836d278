package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout used for workout dates in forms, storage and output.
const DateLayout = "2006-01-02"

// DayType is the fixed category of a training day.
type DayType string

const (
	DayChestTriceps  DayType = "Chest_Triceps"
	DayBackBiceps    DayType = "Back_Biceps"
	DayLegsShoulders DayType = "Legs_Shoulders"
	DayFullBody      DayType = "FullBody"
	DayOther         DayType = "Other"
)

// DayTypes lists every day type in display order.
var DayTypes = []DayType{DayChestTriceps, DayBackBiceps, DayLegsShoulders, DayFullBody, DayOther}

var dayTypeLabels = map[DayType]string{
	DayChestTriceps:  "Chest + Triceps",
	DayBackBiceps:    "Back + Biceps",
	DayLegsShoulders: "Legs + Shoulders",
	DayFullBody:      "Full Body",
	DayOther:         "Other",
}

// Valid reports whether d is one of the known day types.
func (d DayType) Valid() bool {
	_, ok := dayTypeLabels[d]
	return ok
}

// Label returns the display label, or the raw value for unknown day types.
func (d DayType) Label() string {
	if l, ok := dayTypeLabels[d]; ok {
		return l
	}
	return string(d)
}

// DayTypeChoices returns the day types as form choices.
func DayTypeChoices() []Choice {
	choices := make([]Choice, 0, len(DayTypes))
	for _, d := range DayTypes {
		choices = append(choices, Choice{Value: string(d), Label: d.Label()})
	}
	return choices
}

// Workout is one training day logged by a user.
type Workout struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"-"`
	Date      time.Time `json:"date"`
	DayType   DayType   `json:"day_type"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// DateString formats the workout date as YYYY-MM-DD.
func (w Workout) DateString() string {
	return w.Date.Format(DateLayout)
}
