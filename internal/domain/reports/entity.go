package reports

import (
	"time"

	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
)

// ReportID identifier type
type ReportID string

// Report is a persisted analysis. Created once per successful analysis,
// never mutated, deleted only by its owner.
type Report struct {
	ID               ReportID            `json:"id"`
	OwnerID          string              `json:"owner_id"`
	Title            string              `json:"title"`
	ReportType       analysis.ReportType `json:"report_type"`
	RawInput         *string             `json:"raw_input,omitempty"`
	GeneratedContent string              `json:"generated_content"`
	Severity         *Severity           `json:"severity,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// Severity enum
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityHigh          Severity = "high"
	SeverityMedium        Severity = "medium"
	SeverityLow           Severity = "low"
	SeverityInformational Severity = "informational"
)

// ListFilter narrows an owner's report listing.
type ListFilter struct {
	Query string // case-insensitive match on title or content
	Limit int
}
