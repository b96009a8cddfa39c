// Package views holds the dev server's hand-written templ components.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// ProjectRow is one discovered project on the status page.
type ProjectRow struct {
	Slug string
	URL  string
}

// BuildRow is one build-history entry on the status page.
type BuildRow struct {
	Started   time.Time
	Mode      string
	Duration  time.Duration
	Pages     int
	Generated int
	Fresh     int
	Fallbacks int
}

// Status renders the dev status page: discovered projects and recent
// builds.
func Status(siteName string, projects []ProjectRow, builds []BuildRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><title>`)
		b.WriteString(html.EscapeString(siteName))
		b.WriteString(` · dev status</title><style>body{font-family:monospace;margin:2rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}</style></head><body>`)
		fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(siteName))

		b.WriteString("<h2>Projects</h2><ul>")
		for _, p := range projects {
			fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(p.URL), html.EscapeString(p.Slug))
		}
		b.WriteString("</ul>")

		b.WriteString("<h2>Recent builds</h2>")
		if len(builds) == 0 {
			b.WriteString("<p>No builds recorded yet.</p>")
		} else {
			b.WriteString("<table><tr><th>started</th><th>mode</th><th>duration</th><th>pages</th><th>generated</th><th>fresh</th><th>fallbacks</th></tr>")
			for _, r := range builds {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>",
					r.Started.Local().Format("2006-01-02 15:04:05"),
					html.EscapeString(r.Mode),
					r.Duration.Round(time.Millisecond),
					r.Pages, r.Generated, r.Fresh, r.Fallbacks)
			}
			b.WriteString("</table>")
		}
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
