package missions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/automaton-secops/internal/application"
	domain "github.com/bryanwahyu/automaton-secops/internal/domain/missions"
)

// Service implements the phase tracker use cases.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
	Log   logrus.FieldLogger
	NewID func() string
}

// CreateProjectCommand is a new engagement.
type CreateProjectCommand struct {
	OwnerID     string
	Name        string
	Description string
}

// CreateProject writes the project together with its five pending phases.
func (s *Service) CreateProject(ctx context.Context, cmd CreateProjectCommand) (*domain.Project, []*domain.Phase, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, nil, domain.ErrNameRequired
	}
	now := s.clock().Now()
	p := &domain.Project{
		ID:        domain.ProjectID(s.newID()),
		OwnerID:   cmd.OwnerID,
		Name:      name,
		CreatedAt: now,
	}
	if d := strings.TrimSpace(cmd.Description); d != "" {
		p.Description = &d
	}
	phases := domain.NewPhaseSet(p.ID, now, s.newID)

	if err := s.Repo.CreateProject(ctx, p, phases); err != nil {
		return nil, nil, fmt.Errorf("create project: %w", err)
	}
	s.log().WithFields(logrus.Fields{"project_id": p.ID, "owner_id": p.OwnerID}).Info("project created")
	return p, phases, nil
}

// ListProjects returns the owner's projects, newest first.
func (s *Service) ListProjects(ctx context.Context, ownerID string) ([]*domain.Project, error) {
	return s.Repo.ListProjects(ctx, ownerID)
}

// DeleteProject removes a project and its phases.
func (s *Service) DeleteProject(ctx context.Context, ownerID string, id domain.ProjectID) error {
	return s.Repo.DeleteProject(ctx, ownerID, id)
}

// Phases is fetched fresh on every call; there is no cache.
func (s *Service) Phases(ctx context.Context, ownerID string, project domain.ProjectID) ([]*domain.Phase, error) {
	return s.Repo.ListPhases(ctx, ownerID, project)
}

func (s *Service) Phase(ctx context.Context, ownerID string, id domain.PhaseID) (*domain.Phase, error) {
	return s.Repo.GetPhase(ctx, ownerID, id)
}

// TogglePhase flips a phase between pending and done. Concurrent toggles are
// last-write-wins.
func (s *Service) TogglePhase(ctx context.Context, ownerID string, id domain.PhaseID) (*domain.Phase, error) {
	ph, err := s.Repo.GetPhase(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	next := ph.Status.Toggle()
	if err := s.Repo.UpdatePhaseStatus(ctx, ownerID, id, next); err != nil {
		return nil, fmt.Errorf("toggle phase: %w", err)
	}
	ph.Status = next
	ph.UpdatedAt = s.clock().Now()
	return ph, nil
}

// SaveNotes writes notes immediately. Empty notes are stored as NULL.
func (s *Service) SaveNotes(ctx context.Context, ownerID string, id domain.PhaseID, notes string) error {
	var v *string
	if notes != "" {
		v = &notes
	}
	if err := s.Repo.UpdatePhaseNotes(ctx, ownerID, id, v); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
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
