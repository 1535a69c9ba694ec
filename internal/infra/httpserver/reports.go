package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	appreports "github.com/bryanwahyu/automaton-secops/internal/application/reports"
	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
	"github.com/bryanwahyu/automaton-secops/internal/infra/render"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

func reportID(req *http.Request) (reports.ReportID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID("report", id); err != nil {
		return "", invalid("%v", err)
	}
	return reports.ReportID(id), nil
}

// GET /v1/reports?q=&limit=
func (rt *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ParseLimit(req.URL.Query().Get("limit"), 100, 100)
	if err != nil {
		return invalid("%v", err)
	}
	list, err := rt.reports.List(req.Context(), currentUser(req).ID, reports.ListFilter{
		Query: middleware.SanitizeString(req.URL.Query().Get("q")),
		Limit: limit,
	})
	if err != nil {
		return err
	}
	if list == nil {
		list = []*reports.Report{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reports/{id}?format=html
func (rt *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id, err := reportID(req)
	if err != nil {
		return err
	}
	rep, err := rt.reports.Get(req.Context(), currentUser(req).ID, id)
	if err != nil {
		return err
	}

	switch req.URL.Query().Get("format") {
	case "", "json":
		return writeJSON(w, http.StatusOK, rep)
	case "html":
		page, err := render.Page(rep.Title, rep.GeneratedContent)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, err = w.Write([]byte(page))
		return err
	default:
		return invalid("unsupported format %q (allowed: json, html)", req.URL.Query().Get("format"))
	}
}

// GET /v1/reports/{id}/download
func (rt *Router) handleDownloadReport(w http.ResponseWriter, req *http.Request) error {
	id, err := reportID(req)
	if err != nil {
		return err
	}
	rep, err := rt.reports.Get(req.Context(), currentUser(req).ID, id)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", appreports.DownloadName(rep)))
	_, err = w.Write([]byte(rep.GeneratedContent))
	return err
}

// DELETE /v1/reports/{id}
func (rt *Router) handleDeleteReport(w http.ResponseWriter, req *http.Request) error {
	id, err := reportID(req)
	if err != nil {
		return err
	}
	if err := rt.reports.Delete(req.Context(), currentUser(req).ID, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
