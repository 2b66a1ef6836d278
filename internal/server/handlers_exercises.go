package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

const exercisesURL = "/exercises/"

func (s *Server) handleExerciseList(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	archived := r.URL.Query().Get("archived") == "1"
	exercises, err := s.store.ListExercises(r.Context(), uid, archived)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []models.ExerciseUsage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": exercises,
		"archived":  archived,
		"messages":  popFlash(w, r),
	})
}

func exerciseFormPage(values map[string]string) map[string]any {
	return map[string]any{
		"form":          values,
		"muscle_groups": models.MuscleGroupChoices(),
	}
}

func (s *Server) handleExerciseAddForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUserID(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, exerciseFormPage(map[string]string{
		"name": "", "muscle_group": string(models.MuscleOther),
	}))
}

func (s *Server) handleExerciseCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	form, err := models.ParseExerciseForm(r.PostForm)
	if err != nil {
		writeFormError(w, err, exerciseFormPage(models.FormValues(r.PostForm, "name", "muscle_group")))
		return
	}
	e := models.Exercise{UserID: uid, Name: form.Name, MuscleGroup: form.MuscleGroup, IsActive: true}
	if err := s.store.CreateExercise(r.Context(), &e); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect(w, r, exercisesURL)
}

func (s *Server) handleExerciseArchive(w http.ResponseWriter, r *http.Request) {
	s.setExerciseActive(w, r, false)
}

func (s *Server) handleExerciseUnarchive(w http.ResponseWriter, r *http.Request) {
	s.setExerciseActive(w, r, true)
}

func (s *Server) setExerciseActive(w http.ResponseWriter, r *http.Request, active bool) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.SetExerciseActive(r.Context(), id, uid, active); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("exercise state changed", "user_id", uid, "exercise_id", id, "active", active)
	redirect(w, r, exercisesURL)
}

func (s *Server) handleExerciseDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := s.store.GetExercise(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": e})
}

func (s *Server) handleExerciseDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := s.store.GetExercise(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.store.DeleteExercise(r.Context(), id, uid)
	switch {
	case errors.Is(err, storage.ErrReferentialIntegrity):
		if s.opts.Metrics != nil {
			s.opts.Metrics.BlockedDeletes.Inc()
		}
		setFlash(w, fmt.Sprintf("Cannot delete %q: it is used in existing sets. Archive it instead.", e.Name))
		redirect(w, r, exercisesURL)
	case err != nil:
		s.writeError(w, r, err)
	default:
		redirect(w, r, exercisesURL)
	}
}
