package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// writeJSON encodes v before touching the response, so a value that cannot be
// encoded becomes a logged 500 rather than an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// writeError maps store errors to responses. Missing and foreign rows are a
// plain 404; anything unexpected is logged and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// writeFormError answers an invalid submission with the echoed values and field errors.
func writeFormError(w http.ResponseWriter, err error, page map[string]any) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		page["errors"] = ve.Fields
	}
	writeJSON(w, http.StatusBadRequest, page)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// pathID parses the {id} URL parameter. A malformed ID cannot name any row,
// so it is answered the same way as a missing one.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

type workoutView struct {
	ID           uuid.UUID      `json:"id"`
	Date         string         `json:"date"`
	DayType      models.DayType `json:"day_type"`
	DayTypeLabel string         `json:"day_type_label"`
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
}

func newWorkoutView(wo models.Workout) workoutView {
	return workoutView{
		ID:           wo.ID,
		Date:         wo.DateString(),
		DayType:      wo.DayType,
		DayTypeLabel: wo.DayType.Label(),
		Notes:        wo.Notes,
		CreatedAt:    wo.CreatedAt,
	}
}

type setView struct {
	ID            uuid.UUID          `json:"id"`
	ExerciseID    uuid.UUID          `json:"exercise_id"`
	ExerciseLabel string             `json:"exercise"`
	MuscleGroup   models.MuscleGroup `json:"muscle_group"`
	Weight        float64            `json:"weight"`
	Reps          int                `json:"reps"`
	Volume        float64            `json:"volume"`
	Notes         string             `json:"notes"`
}

func newSetView(rec models.SetRecord) setView {
	return setView{
		ID:            rec.SetID,
		ExerciseID:    rec.ExerciseID,
		ExerciseLabel: models.Exercise{Name: rec.ExerciseName, MuscleGroup: rec.MuscleGroup}.Label(),
		MuscleGroup:   rec.MuscleGroup,
		Weight:        rec.Weight,
		Reps:          rec.Reps,
		Volume:        rec.Volume(),
		Notes:         rec.Notes,
	}
}

func exerciseChoices(list []models.Exercise) []models.Choice {
	choices := make([]models.Choice, 0, len(list))
	for _, e := range list {
		choices = append(choices, models.Choice{Value: e.ID.String(), Label: e.Label()})
	}
	return choices
}
