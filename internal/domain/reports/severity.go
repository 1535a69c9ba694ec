package reports

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rxRiskLevel = regexp.MustCompile(`(?i)\*{0,2}risk\s*level\*{0,2}\s*:?\s*\*{0,2}\s*\[?(critical|high|medium|low|informational|info)\b`)
	rxCVSS      = regexp.MustCompile(`(?i)\*{0,2}cvss\s*score\*{0,2}\s*:?\s*\*{0,2}\s*\[?(\d{1,2}(?:\.\d)?)`)
)

// DetectSeverity reads the severity a model wrote into a markdown report.
// The "Risk Level" line wins; otherwise the CVSS score is banded. Returns nil
// when the report carries neither.
func DetectSeverity(content string) *Severity {
	if m := rxRiskLevel.FindStringSubmatch(content); m != nil {
		s := normalizeSeverity(m[1])
		return &s
	}
	if m := rxCVSS.FindStringSubmatch(content); m != nil {
		score, err := strconv.ParseFloat(m[1], 64)
		if err == nil && score >= 0 && score <= 10 {
			s := severityFromCVSS(score)
			return &s
		}
	}
	return nil
}

func normalizeSeverity(v string) Severity {
	switch strings.ToLower(v) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityInformational
	}
}

// CVSS v3 qualitative bands.
func severityFromCVSS(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score >= 0.1:
		return SeverityLow
	default:
		return SeverityInformational
	}
}
