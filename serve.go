package sitepress

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"

	"github.com/eringen/sitepress/images"
	"github.com/eringen/sitepress/views"
)

// Serve runs an initial dev build, then starts the dev server with a file
// watcher that re-runs the pass on source changes. At most one pass runs at
// a time; changes arriving mid-pass are dropped, and the next change (or a
// restart) picks up anything missed since staleness is re-evaluated from
// scratch each run.
func (a *App) Serve() error {
	if a.Guard.TryStart() {
		_, err := a.Build(images.ModeDev)
		a.Guard.Done()
		if err != nil {
			return err
		}
	}

	watcher, err := a.startWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	e := echo.New()
	e.HideBanner = true
	a.setupMiddleware(e)

	e.GET("/_status", a.handleStatus)
	e.GET("/assets/*", a.handleAsset)
	e.Static("/", a.Config.OutputDir)

	if err := e.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleAsset serves images in dev mode. Optimized .webp/.avif requests are
// intercepted and streamed from the cache with no-cache headers; everything
// else falls back to the output tree (fallback copies) and then the source
// trees.
func (a *App) handleAsset(c echo.Context) error {
	rel := strings.TrimPrefix(c.Request().URL.Path, "/")
	rel = filepath.ToSlash(filepath.Clean(rel))
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return echo.ErrNotFound
	}

	ext := strings.ToLower(filepath.Ext(rel))
	if ext == ".webp" || ext == ".avif" {
		cachePath := filepath.Join(a.Config.Images.CacheDir, filepath.FromSlash(rel))
		if _, err := os.Stat(cachePath); err == nil {
			h := c.Response().Header()
			if ext == ".webp" {
				h.Set(echo.HeaderContentType, "image/webp")
			} else {
				h.Set(echo.HeaderContentType, "image/avif")
			}
			h.Set("Cache-Control", "no-store, must-revalidate")
			return c.File(cachePath)
		}
	}

	if p := filepath.Join(a.Config.OutputDir, filepath.FromSlash(rel)); fileExists(p) {
		return c.File(p)
	}
	if src, ok := a.sourceAssetPath(rel); ok && fileExists(src) {
		return c.File(src)
	}
	return echo.ErrNotFound
}

// sourceAssetPath maps an output-relative asset URL back to its source file
// so dev mode serves originals without copying them anywhere.
func (a *App) sourceAssetPath(rel string) (string, bool) {
	assetsPrefix := filepath.ToSlash(a.Config.AssetsDir) + "/"
	if rest, ok := strings.CutPrefix(rel, assetsPrefix); ok {
		return filepath.Join(a.Config.AssetsDir, filepath.FromSlash(rest)), true
	}
	if rest, ok := strings.CutPrefix(rel, "assets/projects/"); ok {
		// assets/projects/<slug>/images/<path>; only discovered projects are
		// served, so a bogus slug cannot reach into the projects tree.
		slug, imgRel, found := strings.Cut(rest, "/images/")
		if found {
			p, err := a.Projects.Get(slug)
			if err != nil {
				return "", false
			}
			return filepath.Join(p.ImagesDir, filepath.FromSlash(imgRel)), true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// handleStatus renders the dev status page: discovered projects plus recent
// build history.
func (a *App) handleStatus(c echo.Context) error {
	projects, err := a.Projects.List()
	if err != nil {
		return err
	}
	rows := make([]views.ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, views.ProjectRow{Slug: p.Slug, URL: "/projects/" + p.Slug + "/"})
	}

	var builds []views.BuildRow
	store, err := NewBuildStore(filepath.Join(a.Config.Images.CacheDir, "builds.db"))
	if err == nil {
		defer store.Close()
		if records, err := store.Recent(10); err == nil {
			for _, r := range records {
				builds = append(builds, views.BuildRow{
					Started:   r.Started,
					Mode:      r.Mode,
					Duration:  r.Duration,
					Pages:     r.Pages,
					Generated: r.Generated,
					Fresh:     r.Fresh,
					Fallbacks: r.Fallbacks,
				})
			}
		}
	}
	return Render(c, views.Status(a.Config.Name, rows, builds))
}

// startWatcher watches the source trees and triggers a guarded rebuild on
// any change. New directories are added to the watch set as they appear.
func (a *App) startWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	roots := []string{
		a.Config.ProjectsDir,
		a.Config.AssetsDir,
		a.Config.PagesDir,
		a.Config.PartialsDir,
		filepath.Dir(a.Config.TemplatePath),
	}
	for _, root := range roots {
		if err := watchTree(watcher, root); err != nil {
			a.logger.Warn("watch tree unavailable", "root", root, "error", err)
		}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = watcher.Add(ev.Name)
					}
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
					ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
					a.triggerRebuild(ev.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("watcher error", "error", err)
			}
		}
	}()
	return watcher, nil
}

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

// triggerRebuild starts a guarded dev pass. Overlapping triggers are
// dropped, not queued.
func (a *App) triggerRebuild(source string) {
	if !a.Guard.TryStart() {
		a.logger.Debug("change dropped, build in flight", "source", source)
		return
	}
	a.logger.Info("source changed, rebuilding", "source", source)
	a.Projects.Invalidate()
	go func() {
		defer a.Guard.Done()
		if _, err := a.Build(images.ModeDev); err != nil {
			a.logger.Error("rebuild failed", "error", err)
		}
	}()
}
