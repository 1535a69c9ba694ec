package missions

import (
	"time"
)

type ProjectID string

type PhaseID string

// Project groups the five lifecycle phases of one engagement.
type Project struct {
	ID          ProjectID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Status enum
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Toggle flips pending <-> done. Anything unexpected is treated as pending.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Phase is one lifecycle stage of a project.
type Phase struct {
	ID        PhaseID   `json:"id"`
	ProjectID ProjectID `json:"project_id"`
	Name      string    `json:"phase_name"`
	Order     int       `json:"phase_order"`
	Notes     *string   `json:"notes"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalPhase describes one entry of the fixed lifecycle.
type CanonicalPhase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var canonicalPhases = [...]CanonicalPhase{
	{Name: "Reconnaissance", Description: "Gather target information"},
	{Name: "Scanning", Description: "Identify vulnerabilities"},
	{Name: "Exploitation", Description: "Gain access to target"},
	{Name: "Persistence", Description: "Maintain access"},
	{Name: "Reporting", Description: "Document findings"},
}

// CanonicalPhases returns the lifecycle in order; index is the phase order.
func CanonicalPhases() []CanonicalPhase {
	out := make([]CanonicalPhase, len(canonicalPhases))
	copy(out, canonicalPhases[:])
	return out
}

// NewPhaseSet builds the five pending phases for a new project. ids supplies
// one identifier per phase.
func NewPhaseSet(project ProjectID, now time.Time, ids func() string) []*Phase {
	out := make([]*Phase, 0, len(canonicalPhases))
	for i, cp := range canonicalPhases {
		out = append(out, &Phase{
			ID:        PhaseID(ids()),
			ProjectID: project,
			Name:      cp.Name,
			Order:     i,
			Status:    StatusPending,
			UpdatedAt: now,
		})
	}
	return out
}
