package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
}

type strictConfig struct {
	Name string `yaml:"name"`
}

func (c *strictConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_LEVEL", "debug")
	path := writeFile(t, "name: app\nlevel: ${TEST_LEVEL}\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "app" || cfg.Level != "debug" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRunsValidation(t *testing.T) {
	path := writeFile(t, "name: \"\"\n")

	var cfg strictConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadIfExistsMissingFileKeepsTarget(t *testing.T) {
	cfg := testConfig{Name: "default", Level: "info"}
	if err := LoadIfExists(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if cfg.Name != "default" || cfg.Level != "info" {
		t.Errorf("target changed: %+v", cfg)
	}
}

func TestLoadIfExistsReadsPresentFile(t *testing.T) {
	path := writeFile(t, "name: fromfile\n")

	cfg := testConfig{Name: "default"}
	if err := LoadIfExists(path, &cfg); err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if cfg.Name != "fromfile" {
		t.Errorf("Name = %q, want %q", cfg.Name, "fromfile")
	}
}
