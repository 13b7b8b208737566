package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faultdemo/internal/config"
)

func TestBuildRunConfigDefault(t *testing.T) {
	cfg, report, err := buildRunConfig(&config.FileConfig{}, options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "main" {
		t.Errorf("expected main preset, got %s", cfg.Name)
	}
	if len(cfg.Scenarios) != 9 {
		t.Errorf("expected 9 scenarios, got %d", len(cfg.Scenarios))
	}
	if report {
		t.Error("report should be off by default")
	}
}

func TestBuildRunConfigOverrides(t *testing.T) {
	file := &config.FileConfig{
		Run: config.RunConfig{Preset: "extras", Args: []string{"a"}, Report: true},
	}

	tests := []struct {
		name      string
		opts      options
		wantName  string
		wantCount int
		wantArgs  int
	}{
		{"file only", options{}, "extras", 3, 1},
		{"preset flag", options{presetName: "all"}, "all", 12, 1},
		{"only flag", options{only: "guarded-division, cleanup"}, "custom", 2, 1},
		{"positional args", options{args: []string{"x", "y"}}, "extras", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, report, err := buildRunConfig(file, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Name != tt.wantName {
				t.Errorf("expected name %s, got %s", tt.wantName, cfg.Name)
			}
			if len(cfg.Scenarios) != tt.wantCount {
				t.Errorf("expected %d scenarios, got %d", tt.wantCount, len(cfg.Scenarios))
			}
			if len(cfg.Args) != tt.wantArgs {
				t.Errorf("expected %d args, got %d", tt.wantArgs, len(cfg.Args))
			}
			if !report {
				t.Error("report from config file should be kept")
			}
		})
	}
}

func TestBuildRunConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"unknown preset", options{presetName: "nope"}},
		{"unknown scenario", options{only: "nope"}},
		{"empty selection", options{only: " , "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := buildRunConfig(&config.FileConfig{}, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	if err := configureLogger(&config.FileConfig{Log: config.LogConfig{Level: "loud"}}, ""); err == nil {
		t.Error("expected error for invalid file level")
	}
	if err := configureLogger(&config.FileConfig{}, "loud"); err == nil {
		t.Error("expected error for invalid flag level")
	}
	if err := configureLogger(&config.FileConfig{}, "warn"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	if _, err := loadConfig(""); err != nil {
		t.Errorf("empty path should yield empty config: %v", err)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("run:\n  preset: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunScenariosMatchesGolden(t *testing.T) {
	cfg, _, err := buildRunConfig(&config.FileConfig{}, options{})
	if err != nil {
		t.Fatal(err)
	}

	var out, report bytes.Buffer
	if err := runScenarios(cfg, &out, &report, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := os.ReadFile(filepath.Join("..", "..", "internal", "scenario", "testdata", "main.golden"))
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != string(want) {
		t.Errorf("transcript mismatch:\n%s", out.String())
	}
	if !strings.Contains(report.String(), "main") {
		t.Errorf("report should name the preset, got %q", report.String())
	}
}

func TestPrintListings(t *testing.T) {
	var buf bytes.Buffer
	printPresets(&buf)
	for _, name := range []string{"main", "extras", "all"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("preset listing missing %s", name)
		}
	}

	buf.Reset()
	printScenarios(&buf)
	if !strings.Contains(buf.String(), "guarded-division") {
		t.Error("scenario listing missing guarded-division")
	}
}
