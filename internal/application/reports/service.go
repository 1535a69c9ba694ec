package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/automaton-secops/internal/application"
	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	domain "github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

const titleTimeLayout = "2006-01-02 15:04:05"

// Service persists and serves reports. Archive is optional.
type Service struct {
	Repo    domain.Repository
	Archive domain.Archive
	Clock   application.Clock
	Log     logrus.FieldLogger
	NewID   func() string
}

// PersistCommand is the output of one successful analysis.
type PersistCommand struct {
	OwnerID          string
	Category         analysis.Category
	RawContent       string
	GeneratedContent string
}

// Persist writes a report row for a successful analysis.
func (s *Service) Persist(ctx context.Context, cmd PersistCommand) (*domain.Report, error) {
	if strings.TrimSpace(cmd.OwnerID) == "" {
		return nil, fmt.Errorf("persist report: owner is required")
	}
	if cmd.GeneratedContent == "" && cmd.RawContent == "" {
		return nil, fmt.Errorf("persist report: nothing to store")
	}

	now := s.clock().Now()
	r := &domain.Report{
		ID:               domain.ReportID(s.newID()),
		OwnerID:          cmd.OwnerID,
		Title:            Title(cmd.Category, now),
		ReportType:       cmd.Category.ReportType(),
		GeneratedContent: cmd.GeneratedContent,
		Severity:         domain.DetectSeverity(cmd.GeneratedContent),
		CreatedAt:        now,
	}
	if cmd.RawContent != "" {
		raw := cmd.RawContent
		r.RawInput = &raw
	}

	if err := s.Repo.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}
	s.archive(ctx, r)
	return r, nil
}

// Title is "<category label> - <timestamp>".
func Title(c analysis.Category, at time.Time) string {
	return fmt.Sprintf("%s - %s", c.Label(), at.Format(titleTimeLayout))
}

func (s *Service) archive(ctx context.Context, r *domain.Report) {
	if s.Archive == nil {
		return
	}
	key := ArchiveKey(r)
	url, err := s.Archive.Put(ctx, key, []byte(r.GeneratedContent), "text/markdown")
	if err != nil {
		s.log().WithError(err).WithField("report_id", r.ID).Warn("report archive failed")
		return
	}
	s.log().WithFields(logrus.Fields{"report_id": r.ID, "url": url}).Debug("report archived")
}

// ArchiveKey is the object key of a report's markdown copy.
func ArchiveKey(r *domain.Report) string {
	return fmt.Sprintf("reports/%s/%s.md", r.OwnerID, r.ID)
}

// DownloadName mirrors the browser download name "<type>-<unix millis>.md".
func DownloadName(r *domain.Report) string {
	return fmt.Sprintf("%s-%d.md", r.ReportType, r.CreatedAt.UnixMilli())
}

// List returns the owner's reports, newest first.
func (s *Service) List(ctx context.Context, ownerID string, f domain.ListFilter) ([]*domain.Report, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	f.Query = strings.TrimSpace(f.Query)
	return s.Repo.ListByOwner(ctx, ownerID, f)
}

func (s *Service) Get(ctx context.Context, ownerID string, id domain.ReportID) (*domain.Report, error) {
	return s.Repo.Get(ctx, ownerID, id)
}

// Delete removes the report if it belongs to ownerID.
func (s *Service) Delete(ctx context.Context, ownerID string, id domain.ReportID) error {
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log().WithFields(logrus.Fields{"report_id": id, "owner_id": ownerID}).Info("report deleted")
	return nil
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
