package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gotruesdk "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
)

// Client adapts the GoTrue SDK (the auth service behind the project's
// managed backend) to identity.Provider.
type Client struct {
	api     gotruesdk.Client
	timeout time.Duration
}

// New points the SDK at baseURL, the service root without the /auth/v1
// suffix. An empty baseURL yields a client that answers ErrNotConfigured.
func New(baseURL, anonKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{timeout: timeout}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		c.api = gotruesdk.New("", anonKey).WithCustomGoTrueURL(baseURL + "/auth/v1")
	}
	return c
}

// with returns an SDK client bound to ctx and, when set, to a user token.
// The SDK has no context parameters, so ctx rides on the transport.
func (c *Client) with(ctx context.Context, token string) (gotruesdk.Client, error) {
	if c.api == nil {
		return nil, identity.ErrNotConfigured
	}
	api := c.api.WithClient(http.Client{
		Timeout:   c.timeout,
		Transport: ctxTransport{ctx: ctx, base: http.DefaultTransport},
	})
	if token != "" {
		api = api.WithToken(token)
	}
	return api, nil
}

type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*identity.Session, error) {
	api, err := c.with(ctx, "")
	if err != nil {
		return nil, err
	}
	resp, err := api.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		if status, text, ok := rejection(err); ok && status < 500 {
			return nil, &identity.RejectedError{Message: text}
		}
		return nil, providerError(err)
	}
	// without auto confirm only the user is set and the tokens stay empty
	return &identity.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         toUser(resp.User),
	}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	api, err := c.with(ctx, "")
	if err != nil {
		return nil, err
	}
	resp, err := api.SignInWithEmailPassword(email, password)
	if err != nil {
		status, text, ok := rejection(err)
		switch {
		case ok && (status == http.StatusBadRequest || status == http.StatusUnauthorized):
			return nil, identity.ErrInvalidCredentials
		case ok && status < 500:
			return nil, &identity.RejectedError{Message: text}
		}
		return nil, providerError(err)
	}
	return &identity.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         toUser(resp.User),
	}, nil
}

// SignOut revokes the session behind token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	api, err := c.with(ctx, token)
	if err != nil {
		return err
	}
	if err := api.Logout(); err != nil {
		if isTokenRejected(err) {
			return identity.ErrInvalidToken
		}
		return providerError(err)
	}
	return nil
}

// Verify resolves an access token into its user.
func (c *Client) Verify(ctx context.Context, token string) (*identity.User, error) {
	api, err := c.with(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := api.GetUser()
	if err != nil {
		if isTokenRejected(err) {
			return nil, identity.ErrInvalidToken
		}
		return nil, providerError(err)
	}
	if resp.ID == uuid.Nil {
		return nil, identity.ErrInvalidToken
	}
	u := toUser(resp.User)
	return &u, nil
}

func toUser(u types.User) identity.User {
	if u.ID == uuid.Nil {
		return identity.User{Email: u.Email}
	}
	return identity.User{ID: u.ID.String(), Email: u.Email}
}

// The SDK reports non-2xx answers only as "response status code N: body".
var statusPattern = regexp.MustCompile(`(?s)^response status code (\d{3})(?:: (.*))?$`)

// rejection extracts the status and a human readable message from an SDK
// error. ok is false for transport and decode failures.
func rejection(err error) (status int, text string, ok bool) {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, "", false
	}
	status, _ = strconv.Atoi(m[1])
	text = errorText(m[2])
	if text == "" {
		text = fmt.Sprintf("request rejected (status %d)", status)
	}
	return status, text, true
}

func isTokenRejected(err error) bool {
	status, _, ok := rejection(err)
	return ok && (status == http.StatusUnauthorized || status == http.StatusForbidden)
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func errorText(body string) string {
	var e errorResponse
	if json.Unmarshal([]byte(body), &e) != nil {
		return strings.TrimSpace(body)
	}
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func providerError(err error) error {
	return fmt.Errorf("identity provider: %w", err)
}
