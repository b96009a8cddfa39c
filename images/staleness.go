package images

import (
	"fmt"
	"os"
	"time"
)

// DefaultTolerance absorbs filesystem timestamp resolution differences
// (FAT-like 2s granularity, CI cache restores) when comparing mtimes.
const DefaultTolerance = time.Second

// IsStale reports whether the derived file needs to be regenerated from the
// source. A missing or unreadable derived file counts as stale; a missing
// source is an error, since sources are discovered by scanning the disk and
// must exist by construction.
func IsStale(sourcePath, derivedPath string, tolerance time.Duration) (bool, error) {
	src, err := os.Stat(sourcePath)
	if err != nil {
		return false, fmt.Errorf("stat source %s: %w", sourcePath, err)
	}
	derived, err := os.Stat(derivedPath)
	if err != nil {
		return true, nil
	}
	return src.ModTime().After(derived.ModTime().Add(tolerance)), nil
}
