package sitepress

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// writeFeed emits feed.xml listing the project pages.
func writeFeed(outputDir string, cfg SiteConfig, pages []*Page) error {
	items := make([]rssItem, 0, len(pages))
	for _, p := range pages {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Meta["date"]); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		pageURL := BuildURL(cfg.URL, "projects", p.Project.Slug)
		items = append(items, rssItem{
			Title:       p.Title(),
			Link:        pageURL,
			Description: p.Meta["description"],
			PubDate:     pubDate,
			GUID:        pageURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(feed); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "feed.xml"), buf.Bytes(), 0o644)
}
