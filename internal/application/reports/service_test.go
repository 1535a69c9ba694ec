package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/automaton-secops/internal/application"
	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	domain "github.com/bryanwahyu/automaton-secops/internal/domain/reports"
	"github.com/bryanwahyu/automaton-secops/internal/infra/db/memory"
	"github.com/bryanwahyu/automaton-secops/internal/logging"
)

var fixedNow = time.Date(2026, 1, 5, 10, 23, 45, 0, time.UTC)

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "http://archive/" + key, nil
}

func newService(archive domain.Archive) *Service {
	n := 0
	return &Service{
		Repo:    memory.NewReportRepository(),
		Archive: archive,
		Clock:   application.FixedClock{T: fixedNow},
		Log:     logging.Discard(),
		NewID:   func() string { n++; return fmt.Sprintf("r%d", n) },
	}
}

func TestPersistMapsReportType(t *testing.T) {
	want := map[analysis.Category]analysis.ReportType{
		analysis.CategorySecurityReport: "security",
		analysis.CategoryLogAnalysis:    "log_analysis",
		analysis.CategoryConfigAudit:    "audit",
	}
	svc := newService(nil)
	for _, c := range analysis.Categories() {
		r, err := svc.Persist(context.Background(), PersistCommand{
			OwnerID:          "u1",
			Category:         c,
			RawContent:       "input",
			GeneratedContent: "# Report",
		})
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if r.ReportType != want[c] {
			t.Errorf("%s: report type = %s, want %s", c, r.ReportType, want[c])
		}
		wantTitle := c.Label() + " - 2026-01-05 10:23:45"
		if r.Title != wantTitle {
			t.Errorf("%s: title = %q, want %q", c, r.Title, wantTitle)
		}
	}
}

func TestPersistStoresInputAndSeverity(t *testing.T) {
	archive := &fakeArchive{}
	svc := newService(archive)

	r, err := svc.Persist(context.Background(), PersistCommand{
		OwnerID:          "u1",
		Category:         analysis.CategorySecurityReport,
		RawContent:       "22/tcp open ssh",
		GeneratedContent: "## Severity Assessment\n- **Risk Level**: Medium",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.RawInput == nil || *r.RawInput != "22/tcp open ssh" {
		t.Errorf("raw input = %v", r.RawInput)
	}
	if r.Severity == nil || *r.Severity != domain.SeverityMedium {
		t.Errorf("severity = %v", r.Severity)
	}
	if len(archive.keys) != 1 || archive.keys[0] != "reports/u1/r1.md" {
		t.Errorf("archive keys = %v", archive.keys)
	}

	got, err := svc.Get(context.Background(), "u1", r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GeneratedContent != r.GeneratedContent {
		t.Errorf("stored content = %q", got.GeneratedContent)
	}
}

func TestPersistArchiveFailureIsNotFatal(t *testing.T) {
	svc := newService(&fakeArchive{err: errors.New("bucket gone")})
	if _, err := svc.Persist(context.Background(), PersistCommand{
		OwnerID: "u1", Category: analysis.CategoryLogAnalysis, GeneratedContent: "x",
	}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
}

func TestPersistRequiresOwner(t *testing.T) {
	svc := newService(nil)
	if _, err := svc.Persist(context.Background(), PersistCommand{Category: analysis.CategoryLogAnalysis, GeneratedContent: "x"}); err == nil {
		t.Fatal("expected error without owner")
	}
}

func TestDeleteIsScopedToOwner(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()
	r, err := svc.Persist(ctx, PersistCommand{
		OwnerID: "alice", Category: analysis.CategoryConfigAudit,
		RawContent: "PermitRootLogin yes", GeneratedContent: "# audit",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, "mallory", r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotFound", err)
	}
	if list, _ := svc.List(ctx, "alice", domain.ListFilter{}); len(list) != 1 {
		t.Fatalf("alice has %d reports after foreign delete, want 1", len(list))
	}
	if err := svc.Delete(ctx, "alice", r.ID); err != nil {
		t.Fatal(err)
	}
	if list, _ := svc.List(ctx, "alice", domain.ListFilter{}); len(list) != 0 {
		t.Fatalf("alice has %d reports after delete, want 0", len(list))
	}
}

func TestListSearchesTitleAndContent(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()
	for _, cmd := range []PersistCommand{
		{OwnerID: "u1", Category: analysis.CategoryConfigAudit, GeneratedContent: "sshd hardening"},
		{OwnerID: "u1", Category: analysis.CategoryLogAnalysis, GeneratedContent: "brute force from 10.0.0.1"},
		{OwnerID: "u2", Category: analysis.CategoryLogAnalysis, GeneratedContent: "brute force elsewhere"},
	} {
		if _, err := svc.Persist(ctx, cmd); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"BRUTE", 1},
		{"config auditor", 1},
		{"nothing", 0},
	}
	for _, tc := range tests {
		list, err := svc.List(ctx, "u1", domain.ListFilter{Query: tc.query})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != tc.want {
			t.Errorf("List(%q) = %d reports, want %d", tc.query, len(list), tc.want)
		}
	}
}

func TestDownloadName(t *testing.T) {
	r := &domain.Report{ReportType: analysis.ReportTypeAudit, CreatedAt: fixedNow}
	if got := DownloadName(r); !strings.HasPrefix(got, "audit-") || !strings.HasSuffix(got, ".md") {
		t.Errorf("DownloadName = %q", got)
	}
}
