package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	out, err := ToHTML("# Title\n\nSome *emphasis* here.")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, ">Title</h1>") {
		t.Errorf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "<em>emphasis</em>") {
		t.Errorf("emphasis missing:\n%s", out)
	}
}

func TestToHTMLHeadingIDs(t *testing.T) {
	out, err := ToHTML("## Process Notes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `id="process-notes"`) {
		t.Errorf("auto heading id missing:\n%s", out)
	}
}

func TestToHTMLPassesRawHTMLThrough(t *testing.T) {
	src := `Look: <img src="./images/shot.png" alt="shot"> done.`
	out, err := ToHTML(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<img src="./images/shot.png" alt="shot">`) {
		t.Errorf("inline img tag was mangled:\n%s", out)
	}
}

func TestToHTMLTables(t *testing.T) {
	out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered:\n%s", out)
	}
}

func TestRenderMixedDocument(t *testing.T) {
	src := "# Project\n\nBody prose.\n\n[[toggle | More]]\n| Extra.\n\nTail."
	out, err := Render(src)
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []string{">Project</h1>", "Body prose.", "<details", "Extra.", "Tail."}
	last := -1
	for _, w := range wantOrder {
		idx := strings.Index(out, w)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
		if idx < last {
			t.Errorf("%q appears out of order", w)
		}
		last = idx
	}
}
