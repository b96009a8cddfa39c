// Package sitepress is a static-site generator for markdown-driven
// marketing sites. It discovers project pages, renders their custom block
// syntax to HTML, assembles them into templates with partial includes, and
// maintains a filesystem cache of optimized image variants (WebP, AVIF,
// responsive sizes) that a production build content-hashes into the output
// and the dev server serves directly from cache.
package sitepress

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eringen/sitepress/images"
)

// App wires configuration, the discovery cache, the image pipeline, and the
// dev server together.
type App struct {
	Config   SiteConfig
	Projects *ProjectCache
	Guard    RunGuard

	logger   *slog.Logger
	encoder  images.Encoder
	manifest *AssetManifest

	mu         sync.Mutex
	lastReport *BuildReport
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()
	a := &App{
		Config:   cfg,
		logger:   slog.Default(),
		manifest: NewAssetManifest(),
	}
	a.Projects = NewProjectCache(cfg.ProjectsDir, 5*time.Second)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build runs one full pass: optimize every image, assemble every page, and
// emit sitemap, feed, and (in build mode) the asset manifest. Per-file
// failures are contained and reported; only filesystem unavailability is
// fatal.
func (a *App) Build(mode images.Mode) (*BuildReport, error) {
	start := time.Now()
	cfg := a.Config

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	a.manifest = NewAssetManifest()
	disp := &images.Dispatcher{Mode: mode, OutputDir: cfg.OutputDir, Logger: a.logger}
	if mode == images.ModeBuild {
		disp.Emit = a.manifest.Emit(cfg.OutputDir)
	}
	gen := images.NewGenerator(cfg.Images.CacheDir, cfg.Tolerance())
	if a.encoder != nil {
		gen.Encoder = a.encoder
	}
	pipe := images.NewPipeline(gen, disp, images.Options{
		Heroes:           cfg.Images.Heroes,
		HeroWidths:       cfg.Images.HeroWidths,
		ResponsiveWidths: cfg.Images.ResponsiveWidths,
		LargeThreshold:   cfg.LargeThreshold(),
		Logger:           a.logger,
	})

	rep := &BuildReport{Mode: mode, Started: start, Images: &images.Report{Started: start}}

	projects, err := FindProjects(cfg.ProjectsDir)
	if err != nil {
		return nil, err
	}
	rep.Projects = len(projects)

	if _, err := os.Stat(cfg.AssetsDir); err == nil {
		if err := pipe.ProcessTree(cfg.AssetsDir, filepath.ToSlash(cfg.AssetsDir), rep.Images); err != nil {
			return nil, fmt.Errorf("optimize site assets: %w", err)
		}
	}
	for _, p := range projects {
		if _, err := os.Stat(p.ImagesDir); err != nil {
			continue
		}
		prefix := path.Join("assets", "projects", p.Slug, "images")
		if err := pipe.ProcessTree(p.ImagesDir, prefix, rep.Images); err != nil {
			return nil, fmt.Errorf("optimize images for %s: %w", p.Slug, err)
		}
	}
	rep.Images.Duration = time.Since(start)

	pages := make([]*Page, 0, len(projects))
	for _, p := range projects {
		page, err := LoadPage(p)
		if err != nil {
			rep.PageErrors = append(rep.PageErrors, err.Error())
			a.logger.Warn("project page skipped", "slug", p.Slug, "error", err)
			continue
		}
		html, err := a.AssemblePage(page)
		if err != nil {
			rep.PageErrors = append(rep.PageErrors, err.Error())
			a.logger.Warn("project page skipped", "slug", p.Slug, "error", err)
			continue
		}
		dst := filepath.Join(cfg.OutputDir, "projects", p.Slug, "index.html")
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(dst, []byte(html), 0o644); err != nil {
			return nil, err
		}
		rep.PagesWritten++
		pages = append(pages, page)
	}

	if err := a.emitSitePages(rep); err != nil {
		return nil, err
	}
	if err := writeSitemap(cfg.OutputDir, cfg, pages); err != nil {
		return nil, err
	}
	if err := writeFeed(cfg.OutputDir, cfg, pages); err != nil {
		return nil, err
	}
	if mode == images.ModeBuild {
		if err := a.manifest.WriteJSON(filepath.Join(cfg.OutputDir, "asset-manifest.json")); err != nil {
			return nil, err
		}
	}

	rep.Duration = time.Since(start)
	a.recordHistory(rep)
	rep.LogSummary(a.logger)

	a.mu.Lock()
	a.lastReport = rep
	a.mu.Unlock()
	return rep, nil
}

// LastReport returns the most recent build report, or nil before the first
// build completes.
func (a *App) LastReport() *BuildReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

// emitSitePages processes the hand-written pages tree: HTML files get
// partial includes and site-level placeholders, everything else is copied
// verbatim.
func (a *App) emitSitePages(rep *BuildReport) error {
	cfg := a.Config
	if _, err := os.Stat(cfg.PagesDir); err != nil {
		return nil
	}
	values := a.sitePageValues()
	return filepath.WalkDir(cfg.PagesDir, func(pth string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(cfg.PagesDir, pth)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(pth)
		if err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(pth), ".html") {
			out := ResolveIncludes(string(data), cfg.PartialsDir, a.logger)
			data = []byte(SubstitutePlaceholders(out, values))
			rep.PagesWritten++
		}
		dst := filepath.Join(cfg.OutputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}

// hasVariant checks the image cache for a derived artifact.
func (a *App) hasVariant(rel string, f images.Format, width int) bool {
	return images.HasVariant(a.Config.Images.CacheDir, rel, f, width)
}

// recordHistory appends the report to the build-history database. History
// is advisory; failure to record is a warning, never a build failure.
func (a *App) recordHistory(rep *BuildReport) {
	store, err := NewBuildStore(filepath.Join(a.Config.Images.CacheDir, "builds.db"))
	if err != nil {
		a.logger.Warn("build history unavailable", "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(rep); err != nil {
		a.logger.Warn("build history write failed", "error", err)
	}
}
