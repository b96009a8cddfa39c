package sitepress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
)

// FindProjects scans the immediate children of root and returns one Project
// per subdirectory containing <name>/<name>.md. That file's presence is the
// sole listing criterion; front matter is not validated here. Everything
// else is skipped silently.
func FindProjects(root string) ([]Project, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read projects root %s: %w", root, err)
	}
	var projects []Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		slug := e.Name()
		mdPath := filepath.Join(root, slug, slug+".md")
		if _, err := os.Stat(mdPath); err != nil {
			slog.Debug("skipping directory without project markdown", "dir", slug)
			continue
		}
		projects = append(projects, Project{
			Slug:         slug,
			MarkdownPath: mdPath,
			ImagesDir:    filepath.Join(root, slug, "images"),
		})
	}
	return projects, nil
}

// LoadPage reads a project's Markdown file and splits front matter from the
// body. Front-matter values are treated as opaque strings; title is the
// only key pages rely on.
func LoadPage(p Project) (*Page, error) {
	f, err := os.Open(p.MarkdownPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.MarkdownPath, err)
	}
	defer f.Close()

	meta := map[string]string{}
	body, err := frontmatter.Parse(f, &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter in %s: %w", p.MarkdownPath, err)
	}
	if meta["slug"] == "" {
		meta["slug"] = p.Slug
	}
	return &Page{Project: p, Meta: meta, Body: string(body)}, nil
}
