package sitepress

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eringen/sitepress/images"
	"github.com/eringen/sitepress/markdown"
)

var (
	reInclude = regexp.MustCompile(`<!--\s*@include\s+([\w.-]+)\s*-->`)
	reImgTag  = regexp.MustCompile(`<img([^>]*?)src="(?:\./)?images/([^"]+)"([^>]*?)\s*/?>`)
)

// SubstitutePlaceholders replaces every {{key}} occurrence in tpl with its
// value. Replacement is global per key; keys absent from values are left
// verbatim. Case-sensitive by design.
func SubstitutePlaceholders(tpl string, values map[string]string) string {
	for k, v := range values {
		tpl = strings.ReplaceAll(tpl, "{{"+k+"}}", v)
	}
	return tpl
}

// ResolveIncludes replaces <!-- @include name --> directives with the
// contents of <partialsDir>/<name>.html. Unresolved names leave the
// directive unchanged and log a warning; includes are never fatal.
func ResolveIncludes(src, partialsDir string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	return reInclude.ReplaceAllStringFunc(src, func(m string) string {
		name := reInclude.FindStringSubmatch(m)[1]
		file := name
		if filepath.Ext(file) == "" {
			file += ".html"
		}
		data, err := os.ReadFile(filepath.Join(partialsDir, file))
		if err != nil {
			logger.Warn("unresolved partial include", "name", name, "error", err)
			return m
		}
		return string(data)
	})
}

// variantFn reports whether a derived artifact exists for the given
// output-relative path, format, and width (0 = native size).
type variantFn func(rel string, f images.Format, width int) bool

// UpgradeImages rewrites relative images/... references in project HTML to
// the page's asset location and upgrades each <img> to a <picture> offering
// AVIF and WebP (with responsive srcset when derivatives exist) ahead of
// the original fallback. prefix is the ../-chain matching the page's depth;
// resolve maps output-relative names to their hashed forms in build mode.
func UpgradeImages(src, slug, prefix string, widths []int, hasVariant variantFn, resolve func(string) string) string {
	if resolve == nil {
		resolve = func(rel string) string { return rel }
	}
	return reImgTag.ReplaceAllStringFunc(src, func(m string) string {
		parts := reImgTag.FindStringSubmatch(m)
		pre, file, post := parts[1], parts[2], parts[3]

		rel := path.Join("assets", "projects", slug, "images", file)
		href := prefix + resolve(rel)
		fallback := "<img" + pre + `src="` + href + `"` + post + ">"

		avifSet := srcsetFor(rel, prefix, images.FormatAVIF, widths, hasVariant, resolve)
		webpSet := srcsetFor(rel, prefix, images.FormatWebP, widths, hasVariant, resolve)
		if avifSet == "" && webpSet == "" {
			return fallback
		}

		var b strings.Builder
		b.WriteString("<picture>")
		if avifSet != "" {
			b.WriteString(`<source type="image/avif" srcset="` + avifSet + `">`)
		}
		if webpSet != "" {
			b.WriteString(`<source type="image/webp" srcset="` + webpSet + `">`)
		}
		b.WriteString(fallback)
		b.WriteString("</picture>")
		return b.String()
	})
}

// srcsetFor lists the existing derivatives for one format: responsive
// widths with w descriptors, then the native-size artifact.
func srcsetFor(rel, prefix string, f images.Format, widths []int, hasVariant variantFn, resolve func(string) string) string {
	dir := path.Dir(rel)
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))

	var entries []string
	for _, w := range widths {
		if hasVariant(rel, f, w) {
			variant := fmt.Sprintf("%s/%s-%d.%s", dir, base, w, f.Ext())
			entries = append(entries, fmt.Sprintf("%s%s %dw", prefix, resolve(variant), w))
		}
	}
	if hasVariant(rel, f, 0) {
		native := fmt.Sprintf("%s/%s.%s", dir, base, f.Ext())
		entries = append(entries, prefix+resolve(native))
	}
	return strings.Join(entries, ", ")
}

// AssemblePage renders one project page: block preprocessing + Markdown,
// image upgrades, partial includes, then global placeholder substitution
// into the page template.
func (a *App) AssemblePage(page *Page) (string, error) {
	content, err := markdown.Render(page.Body)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", page.Project.MarkdownPath, err)
	}

	// Project pages are emitted at projects/<slug>/index.html, two levels
	// below the site root.
	content = UpgradeImages(content, page.Project.Slug, "../../", a.Config.Images.ResponsiveWidths, a.hasVariant, a.manifest.Resolve)

	tpl, err := os.ReadFile(a.Config.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	out := ResolveIncludes(string(tpl), a.Config.PartialsDir, a.logger)

	values := make(map[string]string, len(page.Meta)+2)
	for k, v := range page.Meta {
		values[k] = v
	}
	values["title"] = page.Title()
	values["content"] = content
	return SubstitutePlaceholders(out, values), nil
}

// sitePageValues are the placeholders available to hand-written pages.
func (a *App) sitePageValues() map[string]string {
	return map[string]string{
		"site_name":        a.Config.Name,
		"site_url":         a.Config.URL,
		"site_description": a.Config.Description,
	}
}
