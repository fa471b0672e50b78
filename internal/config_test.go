package internal

import (
	"testing"
)

func TestThemeConfig_DefaultsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestThemeConfig_AcceptsHexAndIndex(t *testing.T) {
	for _, color := range []string{"#7d56f4", "#FFFFFF", "0", "15", "255"} {
		cfg := ThemeConfig{Accent: color}
		if err := cfg.Validate(); err != nil {
			t.Errorf("color %q should pass: %v", color, err)
		}
	}
}

func TestThemeConfig_EmptyFieldsKeepDefaults(t *testing.T) {
	cfg := ThemeConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty theme should pass: %v", err)
	}
}

func TestThemeConfig_RejectsGarbage(t *testing.T) {
	for _, color := range []string{"pink", "#fff", "#12345g", "2555", "-1"} {
		cfg := ThemeConfig{Border: color}
		if err := cfg.Validate(); err == nil {
			t.Errorf("color %q should fail validation", color)
		}
	}
}

func TestFullConfig_ThemeValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UI.Theme.Error = "not-a-color"
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch theme error")
	}
}
