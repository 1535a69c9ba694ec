package analysis

import (
	"errors"
	"testing"
)

func TestReportTypeMapping(t *testing.T) {
	want := map[Category]ReportType{
		CategorySecurityReport: ReportTypeSecurity,
		CategoryLogAnalysis:    ReportTypeLogAnalysis,
		CategoryConfigAudit:    ReportTypeAudit,
	}
	for _, c := range Categories() {
		if got := c.ReportType(); got != want[c] {
			t.Errorf("%s.ReportType() = %s, want %s", c, got, want[c])
		}
	}
	if len(want) != len(Categories()) {
		t.Fatalf("mapping table covers %d categories, Categories() has %d", len(want), len(Categories()))
	}
}

func TestLabelsAreDistinct(t *testing.T) {
	seen := map[string]Category{}
	for _, c := range Categories() {
		l := c.Label()
		if l == "" {
			t.Errorf("%s has empty label", c)
		}
		if prev, ok := seen[l]; ok {
			t.Errorf("label %q shared by %s and %s", l, prev, c)
		}
		seen[l] = c
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"security_report", CategorySecurityReport, false},
		{" log_analysis ", CategoryLogAnalysis, false},
		{"config_audit", CategoryConfigAudit, false},
		{"audit", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseCategory(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCategory(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err != nil && !IsValidation(err) {
			t.Errorf("ParseCategory(%q) err = %T, want *ValidationError", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"ok", Request{Category: CategoryConfigAudit, RawContent: "PermitRootLogin yes"}, nil},
		{"blank", Request{Category: CategoryConfigAudit, RawContent: " \n\t"}, ErrEmptyContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}

	err := Request{Category: "bogus", RawContent: "x"}.Validate()
	if !IsValidation(err) {
		t.Errorf("unknown category err = %v, want validation error", err)
	}
}

func TestGatewayErrorMessage(t *testing.T) {
	if got := (&GatewayError{StatusCode: 503}).Error(); got != "ai gateway error: 503" {
		t.Errorf("got %q", got)
	}
	if got := (&GatewayError{Body: "dial tcp: refused"}).Error(); got != "ai gateway unreachable: dial tcp: refused" {
		t.Errorf("got %q", got)
	}
}
