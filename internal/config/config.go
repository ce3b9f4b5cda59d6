// Package config handles loading and validation of storefront configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all storefront configuration.
// Environment determines whether backend credentials load from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	StoreID    string // Secret name holding the backend credentials

	// MinClientVersion gates outdated UI bundles (semver, e.g. "v1.4.0").
	// Empty disables the gate.
	MinClientVersion string

	// StatePath is where the session state file (token + identity) lives.
	StatePath string

	// Backend holds the external REST backend settings (loaded from secrets).
	Backend BackendConfig
}

// BackendConfig contains the external backend API settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type BackendConfig struct {
	BaseURL  string `json:"base_url"`
	AdminKey string `json:"admin_key,omitempty"` // Back-office API key, optional

	// ReturnURLBase is the externally reachable base for the payment
	// provider's return redirects (/payment/success, /payment/cancel).
	// Defaults to the local listen address.
	ReturnURLBase string `json:"return_url_base,omitempty"`

	// BrowserTLS enables the Chrome-fingerprint transport for backends
	// fronted by CDNs that rate limit on TLS fingerprint.
	BrowserTLS bool `json:"browser_tls,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:             envOrDefault("PORT", "8080"),
		Environment:      envOrDefault("ENVIRONMENT", "development"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		GCPProject:       os.Getenv("GCP_PROJECT"),
		StoreID:          os.Getenv("STORE_ID"),
		MinClientVersion: os.Getenv("MIN_CLIENT_VERSION"),
		StatePath:        envOrDefault("STATE_PATH", defaultStatePath()),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.StoreID == "" {
			return nil, fmt.Errorf("STORE_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading backend config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port             string        `json:"port"`
		Environment      string        `json:"environment"`
		LogLevel         string        `json:"log_level"`
		MinClientVersion string        `json:"min_client_version"`
		StatePath        string        `json:"state_path"`
		Backend          BackendConfig `json:"backend"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:             withDefault(fileConfig.Port, "8080"),
		Environment:      withDefault(fileConfig.Environment, "development"),
		LogLevel:         withDefault(fileConfig.LogLevel, "info"),
		MinClientVersion: fileConfig.MinClientVersion,
		StatePath:        withDefault(fileConfig.StatePath, defaultStatePath()),
		Backend:          fileConfig.Backend,
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromSecretManager fetches backend config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{store_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StoreID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Backend); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads backend config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Backend = BackendConfig{
		BaseURL:       os.Getenv("BACKEND_URL"),
		AdminKey:      os.Getenv("BACKEND_ADMIN_KEY"),
		ReturnURLBase: os.Getenv("RETURN_URL_BASE"),
		BrowserTLS:    os.Getenv("BACKEND_BROWSER_TLS") == "true",
	}
	return nil
}

// applyDefaults fills derived fields after the backend config is loaded.
func (c *Config) applyDefaults() {
	if c.Backend.ReturnURLBase == "" {
		c.Backend.ReturnURLBase = fmt.Sprintf("http://localhost:%s", c.Port)
	}
	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	c.Backend.ReturnURLBase = strings.TrimSuffix(c.Backend.ReturnURLBase, "/")
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base_url: %w", err)
	}
	if c.MinClientVersion != "" && !strings.HasPrefix(c.MinClientVersion, "v") {
		return fmt.Errorf("min_client_version must be a semver string starting with 'v'")
	}
	return nil
}

// SuccessURL returns the payment provider's success return target.
func (c *Config) SuccessURL() string {
	return c.Backend.ReturnURLBase + "/payment/success"
}

// CancelURL returns the payment provider's cancel return target.
func (c *Config) CancelURL() string {
	return c.Backend.ReturnURLBase + "/payment/cancel"
}

// defaultStatePath places the session state file under the user config dir,
// falling back to the working directory when none is available.
func defaultStatePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront", "session.json")
	}
	return "session.json"
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
