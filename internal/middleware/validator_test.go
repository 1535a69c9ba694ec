package middleware

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"ana@example.com", false},
		{"first.last+tag@sub.example.org", false},
		{"", true},
		{"ana", true},
		{"ana@localhost", true},
		{"Ana <ana@example.com>", true},
	}
	for _, tc := range tests {
		if err := ValidateEmail(tc.in); (err != nil) != tc.wantErr {
			t.Errorf("ValidateEmail(%q) = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil {
		t.Error("5 characters should fail")
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("6 characters: %v", err)
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("report", "6f1c1a52-3c0e-4f0e-9b7b-0d3f2a1e8c44"); err != nil {
		t.Errorf("uuid rejected: %v", err)
	}
	if err := ValidateID("report", "../etc/passwd"); err == nil {
		t.Error("non uuid accepted")
	}
}

func TestSanitizeString(t *testing.T) {
	in := "  Acme\x00 external\x07\tperimeter\n"
	if got := SanitizeString(in); got != "Acme external\tperimeter" {
		t.Errorf("SanitizeString = %q", got)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 100, false},
		{"10", 10, false},
		{"0", 100, false},
		{"-3", 100, false},
		{"1000", 100, false},
		{"ten", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseLimit(tc.raw, 100, 100)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseLimit(%q) = %d, %v; want %d, wantErr %v", tc.raw, got, err, tc.want, tc.wantErr)
		}
	}
}
