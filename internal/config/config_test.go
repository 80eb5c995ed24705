package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Load reads config.yaml from the working directory, so each test runs in
// its own temp dir.
func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9595" {
		t.Errorf("addr = %q, want :9595", cfg.Server.Addr)
	}
	if cfg.ThresholdMeters != 1000 {
		t.Errorf("threshold = %v, want 1000", cfg.ThresholdMeters)
	}
	if cfg.Paths.Database != "results.db" {
		t.Errorf("database = %q, want results.db", cfg.Paths.Database)
	}
	if cfg.Jobs.RetentionMinutes != 60 {
		t.Errorf("retention = %d, want 60", cfg.Jobs.RetentionMinutes)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := chtemp(t)

	yaml := `
server:
  addr: ":8080"
threshold_meters: 2500
auth:
  user: admin
  password: s3cret
jobs:
  retention_minutes: 15
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.ThresholdMeters != 2500 {
		t.Errorf("threshold = %v, want 2500", cfg.ThresholdMeters)
	}
	if cfg.Auth.User != "admin" || cfg.Auth.Password != "s3cret" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Jobs.Retention().Minutes() != 15 {
		t.Errorf("retention = %v, want 15m", cfg.Jobs.Retention())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chtemp(t)
	t.Setenv("DDC_THRESHOLD_METERS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ThresholdMeters != 500 {
		t.Errorf("threshold = %v, want 500 from env", cfg.ThresholdMeters)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	dir := chtemp(t)

	yaml := "threshold_meters: -5\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}
