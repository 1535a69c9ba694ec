package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("AI_GATEWAY_API_KEY", "")
	cfg, err := Parse([]byte("database:\n  host: db\n  name: secops\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Port != 3306 {
		t.Errorf("database = %s:%d, want mysql:3306", cfg.Database.Driver, cfg.Database.Port)
	}
	if cfg.AI.Model != "google/gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
	if cfg.NotesDebounce() != 750*time.Millisecond {
		t.Errorf("debounce = %s", cfg.NotesDebounce())
	}
	if cfg.Analysis.AllowAnonymous {
		t.Error("anonymous analysis must be off by default")
	}
}

func TestParsePostgresDefaultsPort(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: postgres\n  host: db\n  user: u\n  password: p\n  name: n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN = %q, want %q", got, want)
	}
}

func TestParseRejectsUnknownDriver(t *testing.T) {
	if _, err := Parse([]byte("database:\n  driver: sqlite\n")); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: 9000
database:
  host: localhost
  port: 3307
  user: root
  password: from-file
  name: secops
ai:
  apiKey: from-file
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AI_GATEWAY_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "from-env" {
		t.Errorf("api key = %q, want env override", cfg.AI.APIKey)
	}
	want := "root:from-file@tcp(localhost:3307)/secops?parseTime=true&charset=utf8mb4&loc=UTC&clientFoundRows=true"
	if got := cfg.MySQLDSN(); got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
