package reports

import "testing"

func TestDetectSeverity(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Severity
		wantNil bool
	}{
		{
			name:    "risk level bold markdown",
			content: "## Severity Assessment\n- **CVSS Score**: 5.3\n- **Risk Level**: High\n",
			want:    SeverityHigh,
		},
		{
			name:    "risk level bracketed",
			content: "Risk Level: [Critical]",
			want:    SeverityCritical,
		},
		{
			name:    "info maps to informational",
			content: "**Risk Level**: Info",
			want:    SeverityInformational,
		},
		{
			name:    "cvss fallback",
			content: "- **CVSS Score**: 7.5 - network reachable",
			want:    SeverityHigh,
		},
		{
			name:    "cvss low band",
			content: "CVSS Score: 2.1",
			want:    SeverityLow,
		},
		{
			name:    "nothing to detect",
			content: "# Log Analysis Report\n## Summary\nquiet night",
			wantNil: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectSeverity(tc.content)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("DetectSeverity = %s, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("DetectSeverity = nil, want %s", tc.want)
			}
			if *got != tc.want {
				t.Errorf("DetectSeverity = %s, want %s", *got, tc.want)
			}
		})
	}
}
