package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/progress"
	"github.com/google/uuid"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var selected *models.Exercise
	if raw := r.URL.Query().Get("exercise"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		// any owned exercise can be charted, archived ones included
		e, err := s.store.GetExercise(r.Context(), id, uid)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		selected = &e
	}

	records, err := s.store.ListSetRecords(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	active, err := s.store.ListActiveExercises(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress.Build(records, active, selected, s.opts.DefaultExercise))
}
