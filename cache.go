package sitepress

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested project does not exist.
var ErrNotFound = errors.New("sitepress: not found")

// ProjectCache is an in-memory cache of the discovery manifest with TTL,
// used by the dev server so status requests do not rescan the disk. The
// watcher invalidates it on any source change.
type ProjectCache struct {
	mu       sync.RWMutex
	projects []Project
	fetched  time.Time
	ttl      time.Duration
	root     string
}

// NewProjectCache creates a ProjectCache scanning the given projects root.
func NewProjectCache(root string, ttl time.Duration) *ProjectCache {
	return &ProjectCache{root: root, ttl: ttl}
}

func (c *ProjectCache) valid() bool {
	return c.projects != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh scan.
func (c *ProjectCache) Invalidate() {
	c.mu.Lock()
	c.projects = nil
	c.mu.Unlock()
}

// List returns the cached manifest, rescanning when stale. It tries a read
// lock first; only takes a write lock if a reload is needed.
func (c *ProjectCache) List() ([]Project, error) {
	c.mu.RLock()
	if c.valid() {
		projects := c.projects
		c.mu.RUnlock()
		return projects, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.projects, nil
	}
	projects, err := FindProjects(c.root)
	if err != nil {
		return nil, err
	}
	c.projects = projects
	c.fetched = time.Now()
	return projects, nil
}

// Get returns a single project by slug from the cache.
func (c *ProjectCache) Get(slug string) (Project, error) {
	projects, err := c.List()
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}
