package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bryanwahyu/automaton-secops/internal/application/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
	"github.com/bryanwahyu/automaton-secops/internal/infra/ai/prompt"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

type categoryView struct {
	ID          analysis.Category   `json:"id"`
	Label       string              `json:"label"`
	ReportType  analysis.ReportType `json:"report_type"`
	Description string              `json:"description"`
}

// GET /v1/categories
func (rt *Router) handleCategories(w http.ResponseWriter, req *http.Request) error {
	cats := analysis.Categories()
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView{
			ID:          c,
			Label:       c.Label(),
			ReportType:  c.ReportType(),
			Description: prompt.Description(c),
		})
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/samples/{category}
func (rt *Router) handleSample(w http.ResponseWriter, req *http.Request) error {
	c, err := analysis.ParseCategory(chi.URLParam(req, "category"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"category": string(c),
		"content":  prompt.SampleFor(c),
	})
}

// POST /v1/analyses
// Body: {"type": "<category>", "content": "<raw text>"}
func (rt *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	c, err := analysis.ParseCategory(body.Type)
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	out, err := rt.analysis.Analyze(req.Context(), identity.UserFrom(req.Context()), analysis.Request{
		Category:   c,
		RawContent: body.Content,
	})
	switch {
	case errors.Is(err, analysis.ErrSuperseded):
		middleware.IncrementAnalysesSuperseded()
		return err
	case appanalysis.IsGatewayFailure(err):
		middleware.IncrementAnalysesFailed()
		return err
	case err != nil:
		return err
	}

	if out.Persisted {
		middleware.IncrementReportsPersisted()
	}
	if out.PersistError != "" {
		middleware.IncrementPersistFailures()
	}
	return writeJSON(w, http.StatusOK, out)
}
