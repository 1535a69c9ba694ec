package missions

import (
	"context"
	"errors"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrPhaseNotFound   = errors.New("phase not found")
	ErrNameRequired    = errors.New("project name is required")
)

// Repository port. Phase access is scoped through the owning project's owner.
type Repository interface {
	// CreateProject writes the project and its phases in one transaction.
	CreateProject(ctx context.Context, p *Project, phases []*Phase) error
	ListProjects(ctx context.Context, ownerID string) ([]*Project, error)
	DeleteProject(ctx context.Context, ownerID string, id ProjectID) error
	ListPhases(ctx context.Context, ownerID string, project ProjectID) ([]*Phase, error)
	GetPhase(ctx context.Context, ownerID string, id PhaseID) (*Phase, error)
	UpdatePhaseStatus(ctx context.Context, ownerID string, id PhaseID, s Status) error
	UpdatePhaseNotes(ctx context.Context, ownerID string, id PhaseID, notes *string) error
}
