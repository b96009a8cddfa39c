package images

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Mode selects where delivered files end up.
type Mode int

const (
	// ModeDev leaves optimized artifacts in the cache, where the dev
	// server's interception middleware serves them directly.
	ModeDev Mode = iota
	// ModeBuild hands every delivered file to the bundler emit hook for
	// content hashing and inclusion in the final output.
	ModeBuild
)

// EmitFunc registers a named asset with the surrounding bundler during a
// production build. The name is the output-relative path before hashing.
type EmitFunc func(relPath string, data []byte) error

// Dispatcher moves cached artifacts (or fallback originals) to the current
// build's output. Every failure here is non-fatal: the caller gets false,
// a warning is logged, and the build moves on.
type Dispatcher struct {
	Mode      Mode
	OutputDir string
	Emit      EmitFunc
	Logger    *slog.Logger
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Deliver makes the cached file at cachePath available at relPath in the
// output. In dev mode the cache is the serving location, so delivery is a
// presence check; in build mode the bytes are emitted to the bundler.
func (d *Dispatcher) Deliver(cachePath, relPath string) bool {
	if d.Mode == ModeDev {
		if _, err := os.Stat(cachePath); err != nil {
			d.logger().Warn("cached artifact missing at delivery", "cache", cachePath, "rel", relPath)
			return false
		}
		return true
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		d.logger().Warn("read cached artifact", "cache", cachePath, "error", err)
		return false
	}
	if err := d.Emit(relPath, data); err != nil {
		d.logger().Warn("emit artifact", "rel", relPath, "error", err)
		return false
	}
	return true
}

// DeliverOriginal ships the unmodified source file as a fallback when
// optimization failed. In dev mode the original is copied into the output
// tree so normal static serving picks it up.
func (d *Dispatcher) DeliverOriginal(sourcePath, relPath string) bool {
	if d.Mode == ModeDev {
		dst := filepath.Join(d.OutputDir, filepath.FromSlash(relPath))
		if err := copyFile(sourcePath, dst); err != nil {
			d.logger().Warn("copy fallback original", "source", sourcePath, "error", err)
			return false
		}
		return true
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		d.logger().Warn("read fallback original", "source", sourcePath, "error", err)
		return false
	}
	if err := d.Emit(relPath, data); err != nil {
		d.logger().Warn("emit fallback original", "rel", relPath, "error", err)
		return false
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
