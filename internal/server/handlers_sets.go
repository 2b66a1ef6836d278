package server

import (
	"fmt"
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

var setFields = []string{"exercise", "weight", "reps", "notes"}

func workoutURL(id fmt.Stringer) string {
	return fmt.Sprintf("/workout/%s/", id)
}

func setFormPage(values map[string]string, workout models.Workout, exercises []models.Exercise) map[string]any {
	return map[string]any{
		"form":      values,
		"workout":   newWorkoutView(workout),
		"exercises": exerciseChoices(exercises),
	}
}

func (s *Server) handleSetAddForm(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wo, err := s.store.GetWorkout(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	active, err := s.store.ListActiveExercises(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setFormPage(map[string]string{
		"exercise": "", "weight": "", "reps": "", "notes": "",
	}, wo, active))
}

func (s *Server) handleSetCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wo, err := s.store.GetWorkout(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	active, err := s.store.ListActiveExercises(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	form, err := models.ParseSetForm(r.PostForm, active)
	if err != nil {
		writeFormError(w, err, setFormPage(models.FormValues(r.PostForm, setFields...), wo, active))
		return
	}
	set := models.SetEntry{
		WorkoutID:  wo.ID,
		ExerciseID: form.ExerciseID,
		Weight:     form.Weight,
		Reps:       form.Reps,
		Notes:      form.Notes,
	}
	if err := s.store.CreateSet(r.Context(), &set); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect(w, r, workoutURL(wo.ID))
}

// setExerciseChoices is the user's active exercises plus the set's current
// one, which may since have been archived.
func (s *Server) setExerciseChoices(r *http.Request, uid int, set models.SetEntry) ([]models.Exercise, error) {
	active, err := s.store.ListActiveExercises(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	for _, e := range active {
		if e.ID == set.ExerciseID {
			return active, nil
		}
	}
	current, err := s.store.GetExercise(r.Context(), set.ExerciseID, uid)
	if err != nil {
		return nil, err
	}
	return append(active, current), nil
}

func (s *Server) handleSetEditForm(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	set, err := s.store.GetSet(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wo, err := s.store.GetWorkout(r.Context(), set.WorkoutID, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	choices, err := s.setExerciseChoices(r, uid, set)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page := setFormPage(map[string]string{
		"exercise": set.ExerciseID.String(),
		"weight":   fmt.Sprint(set.Weight),
		"reps":     fmt.Sprint(set.Reps),
		"notes":    set.Notes,
	}, wo, choices)
	page["set"] = set
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSetUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	set, err := s.store.GetSet(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	choices, err := s.setExerciseChoices(r, uid, set)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	form, err := models.ParseSetForm(r.PostForm, choices)
	if err != nil {
		wo, werr := s.store.GetWorkout(r.Context(), set.WorkoutID, uid)
		if werr != nil {
			s.writeError(w, r, werr)
			return
		}
		page := setFormPage(models.FormValues(r.PostForm, setFields...), wo, choices)
		page["set"] = set
		writeFormError(w, err, page)
		return
	}
	set.ExerciseID, set.Weight, set.Reps, set.Notes = form.ExerciseID, form.Weight, form.Reps, form.Notes
	if err := s.store.UpdateSet(r.Context(), set, uid); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect(w, r, workoutURL(set.WorkoutID))
}

func (s *Server) handleSetDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	set, err := s.store.GetSet(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"set": set, "workout_url": workoutURL(set.WorkoutID)})
}

func (s *Server) handleSetDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// the parent workout is needed for the redirect after the row is gone
	set, err := s.store.GetSet(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteSet(r.Context(), id, uid); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect(w, r, workoutURL(set.WorkoutID))
}
