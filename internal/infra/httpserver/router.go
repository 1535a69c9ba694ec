package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	appanalysis "github.com/bryanwahyu/automaton-secops/internal/application/analysis"
	appmissions "github.com/bryanwahyu/automaton-secops/internal/application/missions"
	appreports "github.com/bryanwahyu/automaton-secops/internal/application/reports"
	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

const maxBodyBytes = 2 << 20

// Deps are the services behind the HTTP API. Identity may be nil when only
// static API keys are configured; Notes may be nil to write notes directly.
type Deps struct {
	Analysis       *appanalysis.Service
	Reports        *appreports.Service
	Missions       *appmissions.Service
	Notes          *appmissions.NotesDebouncer
	Identity       identity.Provider
	Verifier       identity.Verifier
	Limiter        *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

type Router struct {
	analysis *appanalysis.Service
	reports  *appreports.Service
	missions *appmissions.Service
	notes    *appmissions.NotesDebouncer
	identity identity.Provider
	log      logrus.FieldLogger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	rt := &Router{
		analysis: d.Analysis,
		reports:  d.Reports,
		missions: d.Missions,
		notes:    d.Notes,
		identity: d.Identity,
		log:      log,
	}
	verifier := d.Verifier
	if verifier == nil && d.Identity != nil {
		verifier = d.Identity
	}
	if verifier == nil {
		verifier = middleware.StaticKeys{}
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(10, 1)
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler(d.Checkers))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(v1 chi.Router) {
		// Never authenticated, so a stale bearer cannot block signing in again.
		v1.Post("/auth/signup", rt.wrap(rt.handleSignUp))
		v1.Post("/auth/signin", rt.wrap(rt.handleSignIn))
		v1.Get("/categories", rt.wrap(rt.handleCategories))
		v1.Get("/samples/{category}", rt.wrap(rt.handleSample))

		v1.Group(func(opt chi.Router) {
			opt.Use(middleware.Authenticate(verifier, log))
			opt.With(middleware.RateLimit(limiter)).Post("/analyses", rt.wrap(rt.handleAnalyze))
		})

		v1.Group(func(auth chi.Router) {
			auth.Use(middleware.Authenticate(verifier, log))
			auth.Use(middleware.RequireUser)

			auth.Post("/auth/signout", rt.wrap(rt.handleSignOut))
			auth.Get("/me", rt.wrap(rt.handleMe))

			auth.Get("/reports", rt.wrap(rt.handleListReports))
			auth.Get("/reports/{id}", rt.wrap(rt.handleGetReport))
			auth.Get("/reports/{id}/download", rt.wrap(rt.handleDownloadReport))
			auth.Delete("/reports/{id}", rt.wrap(rt.handleDeleteReport))

			auth.Post("/projects", rt.wrap(rt.handleCreateProject))
			auth.Get("/projects", rt.wrap(rt.handleListProjects))
			auth.Delete("/projects/{id}", rt.wrap(rt.handleDeleteProject))
			auth.Get("/projects/{id}/phases", rt.wrap(rt.handleListPhases))

			auth.Post("/phases/{id}/toggle", rt.wrap(rt.handleTogglePhase))
			auth.Put("/phases/{id}/notes", rt.wrap(rt.handleSaveNotes))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, msg, detail := statusFor(err)
			entry := rt.log.WithError(err).WithFields(logrus.Fields{
				"path":       req.URL.Path,
				"status":     status,
				"request_id": chimw.GetReqID(req.Context()),
			})
			if status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Debug("request rejected")
			}
			if detail != "" {
				middleware.WriteJSON(w, status, map[string]string{"error": msg, "detail": detail})
				return
			}
			middleware.JSONError(w, status, msg)
		}
	}
}

// badRequest is an input error detected at the HTTP boundary.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

// maxDetailBytes caps the upstream body echoed back for gateway failures.
const maxDetailBytes = 1024

// statusFor maps an error to a status, a client-facing message and an
// optional detail carrying the upstream body of a gateway failure.
func statusFor(err error) (int, string, string) {
	var (
		bad *badRequest
		rej *identity.RejectedError
		gw  *analysis.GatewayError
	)
	switch {
	case errors.As(err, &bad), analysis.IsValidation(err), errors.As(err, &rej),
		errors.Is(err, missions.ErrNameRequired):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, analysis.ErrUnauthenticated),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error(), ""
	case errors.Is(err, reports.ErrNotFound),
		errors.Is(err, missions.ErrProjectNotFound),
		errors.Is(err, missions.ErrPhaseNotFound):
		return http.StatusNotFound, err.Error(), ""
	case errors.Is(err, analysis.ErrSuperseded):
		return http.StatusConflict, err.Error(), ""
	case errors.Is(err, analysis.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error(), ""
	case errors.Is(err, analysis.ErrQuotaExhausted):
		return http.StatusPaymentRequired, err.Error(), ""
	case errors.As(err, &gw):
		return http.StatusBadGateway, gw.Error(), truncate(strings.TrimSpace(gw.Body), maxDetailBytes)
	case errors.Is(err, identity.ErrNotConfigured), errors.Is(err, appmissions.ErrDebouncerClosed):
		return http.StatusServiceUnavailable, err.Error(), ""
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out", ""
	}
	return http.StatusInternalServerError, "internal server error", ""
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func decodeJSON(w http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return invalid("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return invalid("request body is empty")
		}
		return invalid("malformed json: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// currentUser is only called behind RequireUser.
func currentUser(req *http.Request) *identity.User {
	return identity.UserFrom(req.Context())
}
