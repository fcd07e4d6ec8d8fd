package config

import (
	"os"
	"testing"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	// Setup env var
	os.Setenv("TEST_GH_TOKEN", "ghp_example123")
	defer os.Unsetenv("TEST_GH_TOKEN")

	// Create temp config file
	configContent := `
org: aws-samples
github:
  token: ${TEST_GH_TOKEN}
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	// Load config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GitHub.Token != "ghp_example123" {
		t.Errorf("Expected token ghp_example123, got %s", cfg.GitHub.Token)
	}
	if cfg.Org != "aws-samples" {
		t.Errorf("Expected org aws-samples, got %s", cfg.Org)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte("org: aws-samples\n")); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine.BatchSize != 5 {
		t.Errorf("Expected batch size 5, got %d", cfg.Engine.BatchSize)
	}
	if cfg.Engine.MaxAttempts != 3 {
		t.Errorf("Expected max attempts 3, got %d", cfg.Engine.MaxAttempts)
	}
	if cfg.Storage.Backend != "fs" {
		t.Errorf("Expected fs backend, got %s", cfg.Storage.Backend)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}
