package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/infra/ai/prompt"
)

type capturedRequest struct {
	Path          string
	Authorization string
	Body          struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Stream bool `json:"stream"`
	}
}

func newTestGateway(t *testing.T, status int, body string) (*Gateway, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.Authorization = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g := NewGateway(Options{
		BaseURL: srv.URL + "/v1",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	return g, captured
}

func TestAnalyzeSuccessReturnsContentVerbatim(t *testing.T) {
	const md = "# Configuration Security Audit\n\n## Security Score\n**Grade**: F"
	body := `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
		mustJSON(t, md) + `},"finish_reason":"stop"}]}`
	g, captured := newTestGateway(t, http.StatusOK, body)

	res, err := g.Analyze(context.Background(), analysis.Request{
		Category:   analysis.CategoryConfigAudit,
		RawContent: "PermitRootLogin yes",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Content != md {
		t.Errorf("content = %q, want %q", res.Content, md)
	}

	if captured.Path != "/v1/chat/completions" {
		t.Errorf("path = %s", captured.Path)
	}
	if captured.Authorization != "Bearer test-key" {
		t.Errorf("authorization = %q", captured.Authorization)
	}
	if captured.Body.Model != defaultModel {
		t.Errorf("model = %q", captured.Body.Model)
	}
	if captured.Body.Stream {
		t.Error("request must not stream")
	}
	msgs := captured.Body.Messages
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != prompt.PromptFor(analysis.CategoryConfigAudit) {
		t.Errorf("system message = %s/%.40q", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != "user" || msgs[1].Content != "PermitRootLogin yes" {
		t.Errorf("user message = %s/%q", msgs[1].Role, msgs[1].Content)
	}
}

func TestAnalyzeMissingContentUsesPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"id":"x","choices":[]}`},
		{"empty object", `{}`},
		{"empty content", `{"choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGateway(t, http.StatusOK, tc.body)
			res, err := g.Analyze(context.Background(), analysis.Request{
				Category:   analysis.CategoryLogAnalysis,
				RawContent: "sshd[1]: Failed password",
			})
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if res.Content != NoContent {
				t.Errorf("content = %q, want %q", res.Content, NoContent)
			}
		})
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       error
		wantStatus int
		wantBody   string
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit exceeded","type":"rate_limit"}}`,
			want:   analysis.ErrRateLimited,
		},
		{
			name:   "rate limited plain body",
			status: http.StatusTooManyRequests,
			body:   `slow down`,
			want:   analysis.ErrRateLimited,
		},
		{
			name:   "quota exhausted",
			status: http.StatusPaymentRequired,
			body:   `{"error":{"message":"credits exhausted","type":"billing"}}`,
			want:   analysis.ErrQuotaExhausted,
		},
		{
			name:       "server error with json body",
			status:     http.StatusInternalServerError,
			body:       `{"error":{"message":"upstream exploded","type":"server_error"}}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "upstream exploded",
		},
		{
			name:       "bad gateway with text body",
			status:     http.StatusBadGateway,
			body:       `upstream unavailable`,
			wantStatus: http.StatusBadGateway,
			wantBody:   "upstream unavailable",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGateway(t, tc.status, tc.body)
			_, err := g.Analyze(context.Background(), analysis.Request{
				Category:   analysis.CategorySecurityReport,
				RawContent: "22/tcp open ssh",
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil {
				if !errors.Is(err, tc.want) {
					t.Errorf("err = %v, want %v", err, tc.want)
				}
				return
			}
			var gwErr *analysis.GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("err = %T %v, want *GatewayError", err, err)
			}
			if gwErr.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", gwErr.StatusCode, tc.wantStatus)
			}
			if gwErr.Body != tc.wantBody {
				t.Errorf("body = %q, want %q", gwErr.Body, tc.wantBody)
			}
		})
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGateway(Options{BaseURL: url + "/v1", APIKey: "k", Timeout: time.Second})
	_, err := g.Analyze(context.Background(), analysis.Request{
		Category:   analysis.CategorySecurityReport,
		RawContent: "x",
	})
	var gwErr *analysis.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("err = %T %v, want *GatewayError", err, err)
	}
	if gwErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", gwErr.StatusCode)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	g, _ := newTestGateway(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Analyze(ctx, analysis.Request{Category: analysis.CategoryLogAnalysis, RawContent: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func mustJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
