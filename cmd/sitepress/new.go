package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/sitepress"
)

// starter files written by `sitepress new`. Kept inline; the scaffold is
// small enough that an embedded template tree would be overkill.
var starterFiles = map[string]string{
	"site.yaml": `name: {{SiteName}}
url: http://localhost:3000
description: ""

projects_dir: projects
assets_dir: assets/images
pages_dir: pages
partials_dir: partials
template: templates/project.html
output_dir: dist

images:
  cache_dir: .image-cache
  tolerance_ms: 1000
  large_threshold_kb: 500
`,
	"templates/project.html": `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{title}}</title>
  <!-- @include head -->
</head>
<body>
  <main>
    <h1>{{title}}</h1>
    {{content}}
  </main>
  <!-- @include footer -->
</body>
</html>
`,
	"partials/head.html":   `<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n",
	"partials/footer.html": `<footer><p>Built with sitepress.</p></footer>` + "\n",
	"pages/index.html": `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{site_name}}</title>
  <!-- @include head -->
</head>
<body>
  <h1>{{site_name}}</h1>
  <p>{{site_description}}</p>
</body>
</html>
`,
	"projects/sample/sample.md": `---
title: Sample Project
date: 2026-01-01
---

# Sample Project

[[callout | info]]
| Replace this project with your own.

[[columns]]
[[column]]
Left column content.
[[column]]
Right column content.
[[/columns]]
`,
	"assets/images/.gitkeep": "",
}

func runNew(name string) error {
	dirName := name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		dirName = name[idx+1:]
	}
	dirName = sitepress.Slugify(dirName)
	if dirName == "" {
		return fmt.Errorf("%q does not reduce to a usable directory name", name)
	}
	if _, err := os.Stat(dirName); err == nil {
		return fmt.Errorf("directory %q already exists", dirName)
	}

	siteName := toTitle(dirName)
	fmt.Printf("Creating new sitepress site: %s\n\n", dirName)

	for rel, content := range starterFiles {
		outPath := filepath.Join(dirName, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		content = strings.ReplaceAll(content, "{{SiteName}}", siteName)
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Printf("  created %s\n", outPath)
	}

	fmt.Printf("\nNext steps:\n  cd %s\n  sitepress dev\n", dirName)
	return nil
}

// toTitle converts a directory name like "my-site" to "My Site".
func toTitle(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
