package sitepress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/sitepress/images"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "site.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProjectsDir != "projects" {
		t.Errorf("projects dir = %q", cfg.ProjectsDir)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Tolerance() != images.DefaultTolerance {
		t.Errorf("tolerance = %v", cfg.Tolerance())
	}
	if cfg.LargeThreshold() != images.DefaultLargeThreshold {
		t.Errorf("large threshold = %d", cfg.LargeThreshold())
	}
	if len(cfg.Images.HeroWidths) == 0 || len(cfg.Images.ResponsiveWidths) == 0 {
		t.Error("responsive width defaults missing")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	yaml := `
name: My Studio
url: https://studio.example
projects_dir: work
strict: true
images:
  tolerance_ms: 2500
  large_threshold_kb: 100
  heroes:
    - hero.jpg
    - ""
    - "   "
  hero_widths: [320, 640]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "My Studio" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.ProjectsDir != "work" {
		t.Errorf("projects dir = %q", cfg.ProjectsDir)
	}
	if !cfg.Strict {
		t.Error("strict not set")
	}
	if cfg.Tolerance() != 2500*time.Millisecond {
		t.Errorf("tolerance = %v", cfg.Tolerance())
	}
	if cfg.LargeThreshold() != 100<<10 {
		t.Errorf("large threshold = %d", cfg.LargeThreshold())
	}
	if len(cfg.Images.HeroWidths) != 2 || cfg.Images.HeroWidths[0] != 320 {
		t.Errorf("hero widths = %v", cfg.Images.HeroWidths)
	}
	// Unset fields still get defaults.
	if cfg.OutputDir != "dist" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	// Blank hero entries are dropped, not matched against every file.
	if len(cfg.Images.Heroes) != 1 || cfg.Images.Heroes[0] != "hero.jpg" {
		t.Errorf("heroes = %v", cfg.Images.Heroes)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed yaml should be an error")
	}
}
