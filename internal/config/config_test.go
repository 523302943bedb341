package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.IdleTimeout != time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Site.File != "site.yaml" {
		t.Errorf("unexpected site file: %s", cfg.Site.File)
	}
	if cfg.Site.ContentDir != "content" {
		t.Errorf("unexpected content dir: %s", cfg.Site.ContentDir)
	}
	if cfg.Site.MenuLocation != "primary" {
		t.Errorf("unexpected menu location: %s", cfg.Site.MenuLocation)
	}
	if cfg.Site.ContentTTL != 5*time.Minute {
		t.Errorf("unexpected content ttl: %s", cfg.Site.ContentTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.DevMode {
		t.Errorf("dev mode should default to false")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"HANKO_THEME_PORT":          "9090",
		"HANKO_THEME_READ_TIMEOUT":  "20s",
		"HANKO_THEME_WRITE_TIMEOUT": "25s",
		"HANKO_THEME_SITE_FILE":     "/etc/hanko/site.yaml",
		"HANKO_THEME_CONTENT_DIR":   " /srv/content ",
		"HANKO_THEME_MENU_LOCATION": "footer",
		"HANKO_THEME_CONTENT_TTL":   "0s",
		"HANKO_THEME_DEV":           "true",
		"LOG_LEVEL":                 "debug",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.WriteTimeout != 25*time.Second {
		t.Errorf("unexpected timeouts: %s %s", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Site.File != "/etc/hanko/site.yaml" || cfg.Site.ContentDir != "/srv/content" {
		t.Errorf("unexpected site config: %+v", cfg.Site)
	}
	if cfg.Site.MenuLocation != "footer" {
		t.Errorf("unexpected menu location: %s", cfg.Site.MenuLocation)
	}
	if cfg.Site.ContentTTL != 0 {
		t.Errorf("expected caching disabled, got %s", cfg.Site.ContentTTL)
	}
	if !cfg.DevMode || cfg.LogLevel != "debug" {
		t.Errorf("unexpected dev/log settings: %v %s", cfg.DevMode, cfg.LogLevel)
	}
}

func TestLoadPortFallback(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "7070"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	env := map[string]string{
		"HANKO_THEME_PORT":         "http",
		"HANKO_THEME_READ_TIMEOUT": "soon",
		"HANKO_THEME_CONTENT_TTL":  "-1m",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"HANKO_THEME_PORT", "HANKO_THEME_READ_TIMEOUT", "HANKO_THEME_CONTENT_TTL"}
	got := vErr.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected fields %v, got %v", want, got)
		}
	}
}

func TestLoadDotEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "HANKO_THEME_PORT=8181\nHANKO_THEME_SITE_FILE=from-dotenv.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"HANKO_THEME_PORT": "8282"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8282" {
		t.Errorf("explicit map must win over .env, got %s", cfg.Server.Port)
	}
	if cfg.Site.File != "from-dotenv.yaml" {
		t.Errorf("expected .env value, got %s", cfg.Site.File)
	}

	if _, err := Load(WithEnvFile(filepath.Join(dir, "missing.env")), WithoutSystemEnv()); err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
}
