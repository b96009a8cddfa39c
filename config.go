package sitepress

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/sitepress/images"
)

// ImageConfig tunes the optimization pipeline. Every value here is a
// tunable, not a load-bearing constant.
type ImageConfig struct {
	CacheDir         string   `yaml:"cache_dir"`
	ToleranceMS      int      `yaml:"tolerance_ms"`
	LargeThresholdKB int      `yaml:"large_threshold_kb"`
	Heroes           []string `yaml:"heroes"`
	HeroWidths       []int    `yaml:"hero_widths"`
	ResponsiveWidths []int    `yaml:"responsive_widths"`
}

// SiteConfig holds all configuration for a sitepress site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Site")
	URL         string `yaml:"url"`         // Canonical URL for sitemap/feed
	Description string `yaml:"description"` // Site description for the feed

	ProjectsDir  string `yaml:"projects_dir"`  // project sources (default "projects")
	AssetsDir    string `yaml:"assets_dir"`    // site-wide images (default "assets/images")
	PagesDir     string `yaml:"pages_dir"`     // hand-written HTML pages (default "pages")
	PartialsDir  string `yaml:"partials_dir"`  // include fragments (default "partials")
	TemplatePath string `yaml:"template"`      // project page template (default "templates/project.html")
	OutputDir    string `yaml:"output_dir"`    // build output (default "dist")

	Addr   string `yaml:"addr"`   // dev server listen address (default ":3000")
	Strict bool   `yaml:"strict"` // non-zero exit when a build has failures

	Images ImageConfig `yaml:"images"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.ProjectsDir == "" {
		c.ProjectsDir = "projects"
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "assets/images"
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.PartialsDir == "" {
		c.PartialsDir = "partials"
	}
	if c.TemplatePath == "" {
		c.TemplatePath = "templates/project.html"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Images.CacheDir == "" {
		c.Images.CacheDir = ".image-cache"
	}
	c.Images.Heroes = FilterEmpty(c.Images.Heroes)
	if c.Images.ToleranceMS == 0 {
		c.Images.ToleranceMS = int(images.DefaultTolerance / time.Millisecond)
	}
	if c.Images.LargeThresholdKB == 0 {
		c.Images.LargeThresholdKB = images.DefaultLargeThreshold >> 10
	}
	if len(c.Images.HeroWidths) == 0 {
		c.Images.HeroWidths = images.DefaultHeroWidths
	}
	if len(c.Images.ResponsiveWidths) == 0 {
		c.Images.ResponsiveWidths = images.DefaultResponsiveWidths
	}
}

// Tolerance returns the staleness tolerance as a duration.
func (c *SiteConfig) Tolerance() time.Duration {
	return time.Duration(c.Images.ToleranceMS) * time.Millisecond
}

// LargeThreshold returns the responsive-set size threshold in bytes.
func (c *SiteConfig) LargeThreshold() int64 {
	return int64(c.Images.LargeThresholdKB) << 10
}

// LoadConfig reads a site.yaml file and applies defaults. A missing file is
// not an error; the zero config with defaults describes a conventional tree.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.setDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the build and dev server.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithEncoder overrides the image encoder, mainly for tests.
func WithEncoder(e images.Encoder) Option {
	return func(a *App) {
		a.encoder = e
	}
}
