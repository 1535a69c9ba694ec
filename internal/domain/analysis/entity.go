package analysis

import (
	"strings"
)

// Category selects the system prompt and the stored report type.
type Category string

const (
	CategorySecurityReport Category = "security_report"
	CategoryLogAnalysis    Category = "log_analysis"
	CategoryConfigAudit    Category = "config_audit"
)

// ReportType is the storage-side vocabulary for reports.
type ReportType string

const (
	ReportTypeSecurity    ReportType = "security"
	ReportTypeLogAnalysis ReportType = "log_analysis"
	ReportTypeAudit       ReportType = "audit"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySecurityReport, CategoryLogAnalysis, CategoryConfigAudit}
}

// ParseCategory accepts only the three known categories.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", &ValidationError{Field: "category", Message: "unknown category: " + s}
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategorySecurityReport, CategoryLogAnalysis, CategoryConfigAudit:
		return true
	}
	return false
}

// Label is the human readable name used in report titles.
func (c Category) Label() string {
	switch c {
	case CategorySecurityReport:
		return "Security Report"
	case CategoryLogAnalysis:
		return "Log Parser"
	case CategoryConfigAudit:
		return "Config Auditor"
	default:
		return "Analysis"
	}
}

// ReportType maps the request vocabulary onto the storage vocabulary.
func (c Category) ReportType() ReportType {
	switch c {
	case CategoryConfigAudit:
		return ReportTypeAudit
	case CategoryLogAnalysis:
		return ReportTypeLogAnalysis
	default:
		return ReportTypeSecurity
	}
}

// Label for stored reports, as shown in the report vault.
func (t ReportType) Label() string {
	switch t {
	case ReportTypeSecurity:
		return "Security Report"
	case ReportTypeAudit:
		return "Config Audit"
	case ReportTypeLogAnalysis:
		return "Log Analysis"
	default:
		return string(t)
	}
}

// Request is one user submission.
type Request struct {
	Category   Category
	RawContent string
}

// Validate checks the request before any network call is made.
func (r Request) Validate() error {
	if !r.Category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category: " + string(r.Category)}
	}
	if strings.TrimSpace(r.RawContent) == "" {
		return ErrEmptyContent
	}
	return nil
}

// Result is a successful analysis.
type Result struct {
	Content string `json:"content"`
}
