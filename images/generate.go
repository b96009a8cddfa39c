package images

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Generator produces derived artifacts in a cache directory that mirrors the
// source asset tree. The cache only grows; nothing here deletes entries, and
// a cleared cache is rebuilt from sources on the next run.
type Generator struct {
	CacheDir  string
	Tolerance time.Duration
	Encoder   Encoder
}

// NewGenerator returns a Generator using the production encoder.
func NewGenerator(cacheDir string, tolerance time.Duration) *Generator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Generator{CacheDir: cacheDir, Tolerance: tolerance, Encoder: NewEncoder()}
}

// derivedName builds "<base>.<ext>" or "<base>-<width>.<ext>".
func derivedName(baseName string, f Format, width int) string {
	if width > 0 {
		return fmt.Sprintf("%s-%d.%s", baseName, width, f.Ext())
	}
	return baseName + "." + f.Ext()
}

// Generate re-encodes sourcePath into the cache as
// <CacheDir>/<relDir>/<baseName>[-<width>].<ext>, resizing first when width
// is positive. A fresh cache entry is left untouched and regenerated reports
// false; callers still deliver it to the current build's output.
func (g *Generator) Generate(sourcePath, relDir, baseName string, f Format, width int) (derivedPath string, regenerated bool, err error) {
	derivedPath = filepath.Join(g.CacheDir, relDir, derivedName(baseName, f, width))

	stale, err := IsStale(sourcePath, derivedPath, g.Tolerance)
	if err != nil {
		return "", false, err
	}
	if !stale {
		return derivedPath, false, nil
	}

	img, err := decodeFile(sourcePath)
	if err != nil {
		return "", false, err
	}
	if width > 0 {
		img = resizeToWidth(img, width)
	}

	var buf bytes.Buffer
	if err := g.Encoder.Encode(&buf, img, f); err != nil {
		return "", false, fmt.Errorf("encode %s as %s: %w", sourcePath, f, err)
	}

	if err := os.MkdirAll(filepath.Dir(derivedPath), 0o755); err != nil {
		return "", false, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(derivedPath, buf.Bytes(), 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", derivedPath, err)
	}
	return derivedPath, true, nil
}

// CopyThrough places an unmodified copy of sourcePath into the cache, for
// sources that are already in their optimized format (WebP originals).
func (g *Generator) CopyThrough(sourcePath, relDir, fileName string) (derivedPath string, copied bool, err error) {
	derivedPath = filepath.Join(g.CacheDir, relDir, fileName)

	stale, err := IsStale(sourcePath, derivedPath, g.Tolerance)
	if err != nil {
		return "", false, err
	}
	if !stale {
		return derivedPath, false, nil
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", sourcePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(derivedPath), 0o755); err != nil {
		return "", false, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(derivedPath, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", derivedPath, err)
	}
	return derivedPath, true, nil
}
