package sitepress

// Project is one entry of the discovery manifest: a subdirectory of the
// projects root containing a matching Markdown file.
type Project struct {
	Slug         string
	MarkdownPath string
	ImagesDir    string
}

// Page carries everything needed to assemble one project page: opaque
// front-matter strings plus the Markdown body.
type Page struct {
	Project Project
	Meta    map[string]string // front-matter keys, substituted verbatim
	Body    string            // Markdown source after front matter
}

// Title returns the page title from front matter, falling back to the slug.
func (p *Page) Title() string {
	if t := p.Meta["title"]; t != "" {
		return t
	}
	return p.Project.Slug
}
