package httpserver

import (
	"net/http"
	"strings"

	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (rt *Router) readCredentials(w http.ResponseWriter, req *http.Request) (credentialsBody, error) {
	var body credentialsBody
	if err := decodeJSON(w, req, &body); err != nil {
		return body, err
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return body, invalid("%v", err)
	}
	if err := middleware.ValidatePassword(body.Password); err != nil {
		return body, invalid("%v", err)
	}
	if rt.identity == nil {
		return body, identity.ErrNotConfigured
	}
	return body, nil
}

// POST /v1/auth/signup
func (rt *Router) handleSignUp(w http.ResponseWriter, req *http.Request) error {
	body, err := rt.readCredentials(w, req)
	if err != nil {
		return err
	}
	s, err := rt.identity.SignUp(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, s)
}

// POST /v1/auth/signin
func (rt *Router) handleSignIn(w http.ResponseWriter, req *http.Request) error {
	body, err := rt.readCredentials(w, req)
	if err != nil {
		return err
	}
	s, err := rt.identity.SignIn(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, s)
}

// POST /v1/auth/signout
func (rt *Router) handleSignOut(w http.ResponseWriter, req *http.Request) error {
	if rt.identity != nil {
		if err := rt.identity.SignOut(req.Context(), middleware.BearerToken(req)); err != nil {
			return err
		}
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/me
func (rt *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, currentUser(req))
}
