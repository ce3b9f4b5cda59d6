package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "LOG_LEVEL", "GCP_PROJECT",
		"STORE_ID", "MIN_CLIENT_VERSION", "STATE_PATH", "BACKEND_URL",
		"BACKEND_ADMIN_KEY", "RETURN_URL_BASE", "BACKEND_BROWSER_TLS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("BACKEND_BROWSER_TLS", "true")
	t.Setenv("MIN_CLIENT_VERSION", "v1.4.0")
	t.Setenv("PORT", "9090")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.Backend.BaseURL)
	}
	if !cfg.Backend.BrowserTLS {
		t.Error("BrowserTLS = false, want true")
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development default", cfg.Environment)
	}
	if cfg.Backend.ReturnURLBase != "http://localhost:9090" {
		t.Errorf("ReturnURLBase = %q, want local default", cfg.Backend.ReturnURLBase)
	}
	if cfg.SuccessURL() != "http://localhost:9090/payment/success" {
		t.Errorf("SuccessURL() = %q", cfg.SuccessURL())
	}
	if cfg.CancelURL() != "http://localhost:9090/payment/cancel" {
		t.Errorf("CancelURL() = %q", cfg.CancelURL())
	}
}

func TestLoadRequiresBackendURL(t *testing.T) {
	clearEnv(t)

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() succeeded without a backend URL")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": "8090",
		"environment": "development",
		"min_client_version": "v2.0.0",
		"backend": {
			"base_url": "https://api.example.com",
			"admin_key": "secret-key",
			"return_url_base": "https://shop.example.com/"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Backend.AdminKey != "secret-key" {
		t.Errorf("AdminKey = %q", cfg.Backend.AdminKey)
	}
	if cfg.Backend.ReturnURLBase != "https://shop.example.com" {
		t.Errorf("ReturnURLBase = %q, trailing slash should be trimmed", cfg.Backend.ReturnURLBase)
	}
	if cfg.MinClientVersion != "v2.0.0" {
		t.Errorf("MinClientVersion = %q", cfg.MinClientVersion)
	}
}

func TestLoadRejectsBadMinVersion(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("MIN_CLIENT_VERSION", "1.4.0") // missing "v" prefix

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() accepted a min_client_version without the v prefix")
	}
}

func TestProductionRequiresGCPSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() succeeded in production without GCP_PROJECT/STORE_ID")
	}
}
