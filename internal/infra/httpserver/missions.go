package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appmissions "github.com/bryanwahyu/automaton-secops/internal/application/missions"
	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

// maxNotesBytes is the capacity of the MySQL TEXT notes column.
const maxNotesBytes = 65535

func pathID(req *http.Request, kind string) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(kind, id); err != nil {
		return "", invalid("%v", err)
	}
	return id, nil
}

// POST /v1/projects
// Body: {"name": "...", "description": "..."}
func (rt *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}

	p, phases, err := rt.missions.CreateProject(req.Context(), appmissions.CreateProjectCommand{
		OwnerID:     currentUser(req).ID,
		Name:        middleware.SanitizeString(body.Name),
		Description: middleware.SanitizeString(body.Description),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{
		"project": p,
		"phases":  phases,
	})
}

// GET /v1/projects
func (rt *Router) handleListProjects(w http.ResponseWriter, req *http.Request) error {
	list, err := rt.missions.ListProjects(req.Context(), currentUser(req).ID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*missions.Project{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// DELETE /v1/projects/{id}
func (rt *Router) handleDeleteProject(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req, "project")
	if err != nil {
		return err
	}
	if err := rt.missions.DeleteProject(req.Context(), currentUser(req).ID, missions.ProjectID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/projects/{id}/phases
func (rt *Router) handleListPhases(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req, "project")
	if err != nil {
		return err
	}
	list, err := rt.missions.Phases(req.Context(), currentUser(req).ID, missions.ProjectID(id))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*missions.Phase{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/phases/{id}/toggle
func (rt *Router) handleTogglePhase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req, "phase")
	if err != nil {
		return err
	}
	ph, err := rt.missions.TogglePhase(req.Context(), currentUser(req).ID, missions.PhaseID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ph)
}

// PUT /v1/phases/{id}/notes
// Body: {"notes": "..."}. The write is debounced; 202 means scheduled.
func (rt *Router) handleSaveNotes(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req, "phase")
	if err != nil {
		return err
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	if len(body.Notes) > maxNotesBytes {
		return invalid("notes exceed %d bytes", maxNotesBytes)
	}

	owner := currentUser(req).ID
	phaseID := missions.PhaseID(id)
	// ownership is checked up front; the deferred write re-checks it
	if _, err := rt.missions.Phase(req.Context(), owner, phaseID); err != nil {
		return err
	}

	if rt.notes == nil {
		if err := rt.missions.SaveNotes(req.Context(), owner, phaseID, body.Notes); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	if err := rt.notes.Schedule(owner, phaseID, body.Notes); err != nil {
		return err
	}
	middleware.IncrementNotesScheduled()
	return writeJSON(w, http.StatusAccepted, map[string]string{
		"phase_id": id,
		"status":   "scheduled",
	})
}
