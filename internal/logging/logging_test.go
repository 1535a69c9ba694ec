package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"debug text", Options{Level: "debug", Format: "text"}, logrus.DebugLevel, false},
		{"warn json", Options{Level: "warn", Format: "JSON"}, logrus.WarnLevel, true},
		{"invalid level falls back", Options{Level: "loud"}, logrus.InfoLevel, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := New(tc.opts)
			if log.GetLevel() != tc.wantLevel {
				t.Errorf("level = %s, want %s", log.GetLevel(), tc.wantLevel)
			}
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			if isJSON != tc.wantJSON {
				t.Errorf("json formatter = %v, want %v", isJSON, tc.wantJSON)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Options{Level: "info", Format: "json", Output: path})
	log.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Errorf("log file missing field: %s", data)
	}
}
