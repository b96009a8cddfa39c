package sitepress

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap emits sitemap.xml for the site root and every project page.
func writeSitemap(outputDir string, cfg SiteConfig, pages []*Page) error {
	urls := []sitemapURL{
		{Loc: BuildURL(cfg.URL)},
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(cfg.URL, "projects", p.Project.Slug),
			LastMod: p.Meta["date"],
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemap); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "sitemap.xml"), buf.Bytes(), 0o644)
}
