package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotConfigured      = errors.New("identity provider not configured")
)

// User is the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is issued at sign-in and revoked at sign-out.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         User   `json:"user"`
}

// Verifier resolves a bearer token into a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// Provider is the managed auth service.
type Provider interface {
	Verifier
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

type ctxKey struct{}

// WithUser attaches u to ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user or nil.
func UserFrom(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// RejectedError is a sign-up or sign-in refused by the provider for a reason
// the caller can fix (weak password, existing account).
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "identity: " + e.Message }
