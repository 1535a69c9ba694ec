package storage

import (
	"net/url"
	"testing"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		endpoint string
		key      string
		want     string
	}{
		{"http://localhost:9000", "reports/u1/r1.md", "http://localhost:9000/secops-reports/reports/u1/r1.md"},
		{"https://s3.example.com", "reports/u 2/r.md", "https://s3.example.com/secops-reports/reports/u%202/r.md"},
	}
	for _, tc := range tests {
		ep, err := url.Parse(tc.endpoint)
		if err != nil {
			t.Fatal(err)
		}
		if got := objectURL(ep, "secops-reports", tc.key); got != tc.want {
			t.Errorf("objectURL(%s, %s) = %s, want %s", tc.endpoint, tc.key, got, tc.want)
		}
	}
}
