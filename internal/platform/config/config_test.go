package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Environment != "local" || !cfg.IsLocal() {
		t.Errorf("expected local environment, got %s", cfg.Environment)
	}
	if cfg.Site.Name != defaultSiteName {
		t.Errorf("expected default site name, got %q", cfg.Site.Name)
	}
	if cfg.Content.Source != ContentSourceFiles {
		t.Errorf("expected files content source, got %s", cfg.Content.Source)
	}
	if cfg.Content.Dir != "content" {
		t.Errorf("unexpected content dir %s", cfg.Content.Dir)
	}
	if cfg.Content.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected content read timeout %s", cfg.Content.ReadTimeout)
	}
	if cfg.Content.Retries != 1 {
		t.Errorf("unexpected retries %d", cfg.Content.Retries)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"SITE_ENVIRONMENT":             "PROD",
		"SITE_SERVER_PORT":             "9090",
		"SITE_SERVER_WRITE_TIMEOUT":    "45s",
		"SITE_NAME":                    "Bandipur",
		"SITE_CONTENT_SOURCE":          "Firestore",
		"SITE_CONTENT_READ_TIMEOUT":    "750ms",
		"SITE_CONTENT_RETRIES":         "0",
		"SITE_FIRESTORE_PROJECT_ID":    "bandipur-prod",
		"SITE_FIRESTORE_DATABASE_ID":   "site-content",
		"SITE_FIRESTORE_EMULATOR_HOST": "localhost:8081",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Environment != "prod" || cfg.IsLocal() {
		t.Errorf("expected prod environment, got %s", cfg.Environment)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("unexpected write timeout %s", cfg.Server.WriteTimeout)
	}
	if cfg.Content.Source != ContentSourceFirestore {
		t.Errorf("expected firestore source, got %s", cfg.Content.Source)
	}
	if cfg.Content.ReadTimeout != 750*time.Millisecond {
		t.Errorf("unexpected read timeout %s", cfg.Content.ReadTimeout)
	}
	if cfg.Content.Retries != 0 {
		t.Errorf("expected retries override, got %d", cfg.Content.Retries)
	}
	if cfg.Firestore.ProjectID != "bandipur-prod" || cfg.Firestore.EmulatorHost != "localhost:8081" || cfg.Firestore.DatabaseID != "site-content" {
		t.Errorf("unexpected firestore config %+v", cfg.Firestore)
	}
}

func TestLoadFallsBackToGenericKeys(t *testing.T) {
	env := map[string]string{
		"PORT":                 "7000",
		"SITE_CONTENT_SOURCE":  "firestore",
		"GOOGLE_CLOUD_PROJECT": "bandipur-run",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "bandipur-run" {
		t.Errorf("expected GOOGLE_CLOUD_PROJECT fallback, got %s", cfg.Firestore.ProjectID)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"SITE_CONTENT_SOURCE":  "firestore",
		"SITE_CONTENT_RETRIES": "-1",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := vErr.Fields()
	want := map[string]bool{"Firestore.ProjectID": false, "Content.Retries": false}
	for _, field := range fields {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected %s in validation fields, got %v", field, fields)
		}
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	env := map[string]string{"SITE_CONTENT_SOURCE": "supabase"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := vErr.Fields(); len(got) != 1 || got[0] != "Content.Source" {
		t.Errorf("unexpected fields %v", got)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport SITE_NAME=\"Bandipur Local\"\nSITE_CONTENT_DIR=./testdata\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{"SITE_CONTENT_DIR": "override"}), WithoutSystemEnv(), WithEnvFile(path))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site.Name != "Bandipur Local" {
		t.Errorf("expected name from .env, got %q", cfg.Site.Name)
	}
	if cfg.Content.Dir != "override" {
		t.Errorf("expected env map to win over .env, got %q", cfg.Content.Dir)
	}
}
