package markdown

import (
	"strings"
	"testing"
)

func TestParseToggle(t *testing.T) {
	src := "Intro text.\n\n[[toggle | Technical details]]\n| First line.\n| Second line.\n\nOutro."
	blocks := Parse(src)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if blocks[0].Kind != BlockPlain || blocks[0].Body != "Intro text." {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	tog := blocks[1]
	if tog.Kind != BlockToggle {
		t.Fatalf("block 1 kind = %d, want toggle", tog.Kind)
	}
	if tog.Title != "Technical details" {
		t.Errorf("toggle title = %q", tog.Title)
	}
	if tog.Body != "First line.\nSecond line." {
		t.Errorf("toggle body = %q", tog.Body)
	}
	if blocks[2].Kind != BlockPlain || blocks[2].Body != "Outro." {
		t.Errorf("block 2 = %+v", blocks[2])
	}
}

func TestParseCalloutTypeAndBody(t *testing.T) {
	src := "[[callout | warning]]\n| Mind the gap."
	blocks := Parse(src)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	c := blocks[0]
	if c.Kind != BlockCallout || c.Type != "warning" {
		t.Errorf("callout = %+v", c)
	}
	if c.Body != "Mind the gap." {
		t.Errorf("callout body = %q", c.Body)
	}
}

func TestParseModernColumns(t *testing.T) {
	src := "[[columns]]\n[[column]]\nLeft side.\n[[column]]\nRight side.\n[[/columns]]"
	blocks := Parse(src)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	cols := blocks[0]
	if cols.Kind != BlockColumns {
		t.Fatalf("kind = %d, want columns", cols.Kind)
	}
	if len(cols.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols.Columns))
	}
	if cols.Columns[0] != "Left side." || cols.Columns[1] != "Right side." {
		t.Errorf("columns = %q", cols.Columns)
	}
}

func TestParseLegacyColumnsMatchModern(t *testing.T) {
	// The historical single-line pipe-quoted form and the modern multi-line
	// form must produce identical column sets.
	legacy := "[[columns]] [[column]] | Content 1 | [[column]] | Content 2 | [[/columns]]"
	modern := "[[columns]]\n[[column]]\nContent 1\n[[column]]\nContent 2\n[[/columns]]"

	lb := Parse(legacy)
	mb := Parse(modern)
	if len(lb) != 1 || len(mb) != 1 {
		t.Fatalf("got %d legacy / %d modern blocks, want 1 each", len(lb), len(mb))
	}
	if len(lb[0].Columns) != len(mb[0].Columns) {
		t.Fatalf("legacy %d columns vs modern %d", len(lb[0].Columns), len(mb[0].Columns))
	}
	for i := range lb[0].Columns {
		if lb[0].Columns[i] != mb[0].Columns[i] {
			t.Errorf("column %d: legacy %q vs modern %q", i, lb[0].Columns[i], mb[0].Columns[i])
		}
	}
}

func TestParseUnclosedColumnsEndAtNextMarker(t *testing.T) {
	src := "[[columns]]\n[[column]]\n| Alpha |\n[[toggle | After]]\n| Hidden."
	blocks := Parse(src)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want columns + toggle", len(blocks))
	}
	if blocks[0].Kind != BlockColumns {
		t.Fatalf("block 0 kind = %d, want columns", blocks[0].Kind)
	}
	if len(blocks[0].Columns) != 1 || blocks[0].Columns[0] != "Alpha" {
		t.Errorf("columns = %q", blocks[0].Columns)
	}
	if blocks[1].Kind != BlockToggle || blocks[1].Title != "After" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestParseUnclosedColumnsEndAtHeading(t *testing.T) {
	src := "[[columns]]\n[[column]]\nAlpha\n## Next section\nProse."
	blocks := Parse(src)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Kind != BlockColumns || len(blocks[0].Columns) != 1 {
		t.Fatalf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != BlockPlain || !strings.HasPrefix(blocks[1].Body, "## Next section") {
		t.Errorf("heading was consumed by the columns block: %+v", blocks[1])
	}
}

func TestStripPipes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain line untouched", "Content", "Content"},
		{"leading pipe", "| Content", "Content"},
		{"leading and trailing", "| Content |", "Content"},
		{"stacked pipes", "| | Content 1 |", "Content 1"},
		{"pipe-only line dropped", "| Content\n|\n| More", "Content\nMore"},
		{"multiline", "| One\n| Two", "One\nTwo"},
		{"whole trim", "  | Spaced |  ", "Spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripPipes(tt.in); got != tt.want {
				t.Errorf("StripPipes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderToggleHTML(t *testing.T) {
	out, err := Render("[[toggle | Specs]]\n| **Bold** detail.")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<details class="toggle">`,
		`<summary>Specs</summary>`,
		`<div class="toggle-content">`,
		`<strong>Bold</strong>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCalloutClass(t *testing.T) {
	out, err := Render("[[callout | info]]\n| Heads up.")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div class="content-callout-info">`) {
		t.Errorf("callout class missing:\n%s", out)
	}
	if !strings.Contains(out, "Heads up.") {
		t.Errorf("callout body missing:\n%s", out)
	}
	if strings.Contains(out, "|") {
		t.Errorf("pipe quoting leaked into output:\n%s", out)
	}
}

func TestRenderColumnsWrappers(t *testing.T) {
	out, err := Render("[[columns]]\n[[column]]\nLeft\n[[column]]\nRight\n[[/columns]]")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div class="content-columns">`) {
		t.Errorf("columns wrapper missing:\n%s", out)
	}
	if got := strings.Count(out, `<div class="content-column">`); got != 2 {
		t.Errorf("got %d column wrappers, want 2:\n%s", got, out)
	}
}

func TestRenderLeavesNoBlockTokens(t *testing.T) {
	src := "Before.\n\n[[toggle | T]]\n| a\n\n[[callout | note]]\n| b\n\n[[columns]]\n[[column]]\nc\n[[/columns]]\n\nAfter."
	out, err := Render(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "[[") || strings.Contains(out, "]]") {
		t.Errorf("block tokens leaked into HTML:\n%s", out)
	}
}

func TestToggleSummaryIsEscaped(t *testing.T) {
	out, err := Render("[[toggle | <script>alert(1)</script>]]\n| body")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("summary title not escaped:\n%s", out)
	}
}
