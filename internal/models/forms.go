package models

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgRequired = "This field is required."
	msgChoice   = "Select a valid choice."
	msgNumber   = "Enter a number."
	msgWhole    = "Enter a whole number."
	msgDate     = "Enter a valid date."
	msgMinZero  = "Ensure this value is greater than or equal to 0."
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("musclegroup", func(fl validator.FieldLevel) bool {
		return MuscleGroup(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("daytype", func(fl validator.FieldLevel) bool {
		return DayType(fl.Field().String()).Valid()
	})
}

// ValidationError maps form field names to a user-facing message.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidationError reports whether err carries form field errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// structErrors folds validator failures into ve, keyed by the form field name.
func structErrors(ve *ValidationError, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		field := formFieldNames[fe.StructField()]
		switch fe.Tag() {
		case "required":
			ve.add(field, msgRequired)
		case "musclegroup", "daytype", "oneof":
			ve.add(field, msgChoice)
		case "max":
			ve.add(field, fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
				fe.Param(), len([]rune(fmt.Sprint(fe.Value())))))
		case "gte":
			ve.add(field, msgMinZero)
		case "lte":
			ve.add(field, fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param()))
		default:
			ve.add(field, "Enter a valid value.")
		}
	}
}

var formFieldNames = map[string]string{
	"Name":        "name",
	"MuscleGroup": "muscle_group",
	"DayType":     "day_type",
	"Notes":       "notes",
	"Weight":      "weight",
	"Reps":        "reps",
	"ExerciseID":  "exercise",
	"Date":        "date",
}

// ExerciseForm is the submitted data for creating an exercise.
type ExerciseForm struct {
	Name        string      `json:"name" validate:"required,max=100"`
	MuscleGroup MuscleGroup `json:"muscle_group" validate:"musclegroup"`
}

// ParseExerciseForm reads and validates an exercise form. A blank muscle
// group falls back to Other.
func ParseExerciseForm(v url.Values) (ExerciseForm, error) {
	f := ExerciseForm{
		Name:        strings.TrimSpace(v.Get("name")),
		MuscleGroup: MuscleGroup(strings.TrimSpace(v.Get("muscle_group"))),
	}
	if f.MuscleGroup == "" {
		f.MuscleGroup = MuscleOther
	}
	return f, f.Validate()
}

// Validate checks the form against its field rules.
func (f ExerciseForm) Validate() error {
	ve := &ValidationError{}
	structErrors(ve, validate.Struct(f))
	return ve.orNil()
}

// WorkoutForm is the submitted data for creating or editing a workout.
type WorkoutForm struct {
	Date    time.Time `json:"date"`
	DayType DayType   `json:"day_type" validate:"daytype"`
	Notes   string    `json:"notes"`
}

// ParseWorkoutForm reads and validates a workout form. A blank day type
// falls back to Other.
func ParseWorkoutForm(v url.Values) (WorkoutForm, error) {
	ve := &ValidationError{}
	f := WorkoutForm{
		DayType: DayType(strings.TrimSpace(v.Get("day_type"))),
		Notes:   v.Get("notes"),
	}
	if f.DayType == "" {
		f.DayType = DayOther
	}

	raw := strings.TrimSpace(v.Get("date"))
	switch {
	case raw == "":
		ve.add("date", msgRequired)
	default:
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			ve.add("date", msgDate)
		} else {
			f.Date = d
		}
	}

	structErrors(ve, validate.Struct(f))
	return f, ve.orNil()
}

// Validate checks the form against its field rules.
func (f WorkoutForm) Validate() error {
	ve := &ValidationError{}
	structErrors(ve, validate.Struct(f))
	return ve.orNil()
}

// SetForm is the submitted data for creating or editing a set.
type SetForm struct {
	ExerciseID uuid.UUID `json:"exercise"`
	Weight     float64   `json:"weight" validate:"gte=0,lte=10000"`
	Reps       int       `json:"reps" validate:"gte=0,lte=2147483647"`
	Notes      string    `json:"notes" validate:"max=255"`
}

// ParseSetForm reads and validates a set form. The exercise must be one of
// allowed; anything else is reported as an invalid choice.
func ParseSetForm(v url.Values, allowed []Exercise) (SetForm, error) {
	ve := &ValidationError{}
	f := SetForm{Notes: v.Get("notes")}

	rawEx := strings.TrimSpace(v.Get("exercise"))
	if rawEx == "" {
		ve.add("exercise", msgRequired)
	} else if id, err := uuid.Parse(rawEx); err != nil || !containsExercise(allowed, id) {
		ve.add("exercise", msgChoice)
	} else {
		f.ExerciseID = id
	}

	rawWeight := strings.TrimSpace(v.Get("weight"))
	if rawWeight == "" {
		ve.add("weight", msgRequired)
	} else if w, err := strconv.ParseFloat(rawWeight, 64); err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		ve.add("weight", msgNumber)
	} else {
		f.Weight = w
	}

	rawReps := strings.TrimSpace(v.Get("reps"))
	if rawReps == "" {
		ve.add("reps", msgRequired)
	} else if r, err := strconv.Atoi(rawReps); err != nil {
		ve.add("reps", msgWhole)
	} else {
		f.Reps = r
	}

	structErrors(ve, validate.Struct(f))
	return f, ve.orNil()
}

func containsExercise(list []Exercise, id uuid.UUID) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}

// FormValues is the echo of submitted values returned alongside field errors.
func FormValues(v url.Values, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = v.Get(f)
	}
	return out
}
