package sitepress

import (
	"errors"
	"testing"
	"time"
)

func TestProjectCacheListAndGet(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "alpha", "# Alpha")

	c := NewProjectCache(root, time.Minute)
	projects, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects", len(projects))
	}

	p, err := c.Get("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "alpha" {
		t.Errorf("slug = %q", p.Slug)
	}

	if _, err := c.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProjectCacheInvalidate(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "alpha", "# Alpha")

	c := NewProjectCache(root, time.Minute)
	if _, err := c.List(); err != nil {
		t.Fatal(err)
	}

	// New project appears only after invalidation within the TTL window.
	writeProject(t, root, "beta", "# Beta")
	projects, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("cached list grew without invalidation: %d", len(projects))
	}

	c.Invalidate()
	projects, err = c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects after invalidate, want 2", len(projects))
	}
}
