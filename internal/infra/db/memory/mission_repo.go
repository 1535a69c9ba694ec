package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
)

// MissionRepository keeps projects and phases in process memory.
type MissionRepository struct {
	mu       sync.RWMutex
	projects map[missions.ProjectID]missions.Project
	phases   map[missions.PhaseID]missions.Phase
}

func NewMissionRepository() *MissionRepository {
	return &MissionRepository{
		projects: make(map[missions.ProjectID]missions.Project),
		phases:   make(map[missions.PhaseID]missions.Phase),
	}
}

func (r *MissionRepository) CreateProject(_ context.Context, p *missions.Project, phases []*missions.Phase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = *p
	for _, ph := range phases {
		r.phases[ph.ID] = *ph
	}
	return nil
}

func (r *MissionRepository) ListProjects(_ context.Context, ownerID string) ([]*missions.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*missions.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MissionRepository) DeleteProject(_ context.Context, ownerID string, id missions.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return missions.ErrProjectNotFound
	}
	for pid, ph := range r.phases {
		if ph.ProjectID == id {
			delete(r.phases, pid)
		}
	}
	delete(r.projects, id)
	return nil
}

func (r *MissionRepository) ListPhases(_ context.Context, ownerID string, project missions.ProjectID) ([]*missions.Phase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[project]
	if !ok || p.OwnerID != ownerID {
		return nil, missions.ErrProjectNotFound
	}
	var out []*missions.Phase
	for _, ph := range r.phases {
		if ph.ProjectID == project {
			cp := ph
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *MissionRepository) GetPhase(_ context.Context, ownerID string, id missions.PhaseID) (*missions.Phase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ph, ok := r.owned(ownerID, id)
	if !ok {
		return nil, missions.ErrPhaseNotFound
	}
	return &ph, nil
}

func (r *MissionRepository) UpdatePhaseStatus(_ context.Context, ownerID string, id missions.PhaseID, s missions.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ph, ok := r.owned(ownerID, id)
	if !ok {
		return missions.ErrPhaseNotFound
	}
	ph.Status = s
	r.phases[id] = ph
	return nil
}

func (r *MissionRepository) UpdatePhaseNotes(_ context.Context, ownerID string, id missions.PhaseID, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ph, ok := r.owned(ownerID, id)
	if !ok {
		return missions.ErrPhaseNotFound
	}
	if notes != nil {
		n := *notes
		notes = &n
	}
	ph.Notes = notes
	r.phases[id] = ph
	return nil
}

// owned must be called with mu held.
func (r *MissionRepository) owned(ownerID string, id missions.PhaseID) (missions.Phase, bool) {
	ph, ok := r.phases[id]
	if !ok {
		return missions.Phase{}, false
	}
	p, ok := r.projects[ph.ProjectID]
	if !ok || p.OwnerID != ownerID {
		return missions.Phase{}, false
	}
	return ph, true
}
