package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
)

// StaticKeys verifies bearer tokens against configured per-user API keys.
// The map is user id -> key.
type StaticKeys map[string]string

func (k StaticKeys) Verify(_ context.Context, token string) (*identity.User, error) {
	for userID, key := range k {
		if key == "" {
			continue
		}
		// constant-time comparison
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
			return &identity.User{ID: userID}, nil
		}
	}
	return nil, identity.ErrInvalidToken
}

// Chain tries each verifier in order. The first one to accept the token
// wins; any failure other than ErrInvalidToken or ErrNotConfigured stops
// the chain.
type Chain []identity.Verifier

func (c Chain) Verify(ctx context.Context, token string) (*identity.User, error) {
	for _, v := range c {
		u, err := v.Verify(ctx, token)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, identity.ErrInvalidToken) && !errors.Is(err, identity.ErrNotConfigured) {
			return nil, err
		}
	}
	return nil, identity.ErrInvalidToken
}

// BearerToken extracts the token from "Authorization: Bearer <token>". A bare
// token is accepted too.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		auth = auth[7:]
	}
	return strings.TrimSpace(auth)
}

// Authenticate resolves the bearer token, when present, and stores the user
// in the request context. Requests without a token pass through anonymous.
func Authenticate(v identity.Verifier, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := v.Verify(r.Context(), token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), u)))
			case errors.Is(err, identity.ErrInvalidToken):
				JSONError(w, http.StatusUnauthorized, "invalid or expired session")
			default:
				log.WithError(err).Warn("token verification failed")
				JSONError(w, http.StatusServiceUnavailable, "identity provider unavailable")
			}
		})
	}
}

// RequireUser rejects requests that Authenticate left anonymous.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity.UserFrom(r.Context()) == nil {
			JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
