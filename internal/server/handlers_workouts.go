package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/progress"
)

var workoutFields = []string{"date", "day_type", "notes"}

func (s *Server) handleWorkoutList(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workouts, err := s.store.ListWorkouts(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]workoutView, 0, len(workouts))
	for _, wo := range workouts {
		views = append(views, newWorkoutView(wo))
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": views})
}

func (s *Server) handleWorkoutDetail(w http.ResponseWriter, r *http.Request) {
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
	records, err := s.store.ListWorkoutSets(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sets := make([]setView, 0, len(records))
	for _, rec := range records {
		sets = append(sets, newSetView(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout": newWorkoutView(wo),
		"sets":    sets,
		"totals":  progress.TotalsFor(records),
	})
}

func workoutFormPage(values map[string]string) map[string]any {
	return map[string]any{
		"form":      values,
		"day_types": models.DayTypeChoices(),
	}
}

func (s *Server) handleWorkoutAddForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUserID(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, workoutFormPage(map[string]string{
		"date": "", "day_type": string(models.DayOther), "notes": "",
	}))
}

func (s *Server) handleWorkoutCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	form, err := models.ParseWorkoutForm(r.PostForm)
	if err != nil {
		writeFormError(w, err, workoutFormPage(models.FormValues(r.PostForm, workoutFields...)))
		return
	}
	wo := models.Workout{UserID: uid, Date: form.Date, DayType: form.DayType, Notes: form.Notes}
	if err := s.store.CreateWorkout(r.Context(), &wo); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("workout created", "user_id", uid, "workout_id", wo.ID)
	redirect(w, r, "/")
}

func (s *Server) handleWorkoutEditForm(w http.ResponseWriter, r *http.Request) {
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
	page := workoutFormPage(map[string]string{
		"date": wo.DateString(), "day_type": string(wo.DayType), "notes": wo.Notes,
	})
	page["workout"] = newWorkoutView(wo)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleWorkoutUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// ownership first, so a foreign workout is a 404 even with an invalid form
	wo, err := s.store.GetWorkout(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	form, err := models.ParseWorkoutForm(r.PostForm)
	if err != nil {
		page := workoutFormPage(models.FormValues(r.PostForm, workoutFields...))
		page["workout"] = newWorkoutView(wo)
		writeFormError(w, err, page)
		return
	}
	wo.Date, wo.DayType, wo.Notes = form.Date, form.DayType, form.Notes
	if err := s.store.UpdateWorkout(r.Context(), wo); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleWorkoutDeleteConfirm(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, map[string]any{"workout": newWorkoutView(wo)})
}

func (s *Server) handleWorkoutDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteWorkout(r.Context(), id, uid); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("workout deleted", "user_id", uid, "workout_id", id)
	redirect(w, r, "/")
}
