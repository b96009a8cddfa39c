package sitepress

import (
	"log/slog"
	"time"

	"github.com/eringen/sitepress/images"
)

// BuildReport aggregates one build's outcomes so summary and exit-code
// decisions come from data rather than console side effects.
type BuildReport struct {
	Mode     images.Mode
	Started  time.Time
	Duration time.Duration

	Projects     int
	PagesWritten int
	PageErrors   []string

	Images *images.Report
}

// Clean reports whether the build finished without any contained failure.
func (r *BuildReport) Clean() bool {
	return len(r.PageErrors) == 0 && r.Images.Clean()
}

// Warnings counts contained failures: failed pages, image fallbacks, and
// delivery misses.
func (r *BuildReport) Warnings() int {
	return len(r.PageErrors) + len(r.Images.Failures) + r.Images.DeliveryMisses
}

// ExitCode maps the report to a process exit code. Contained failures only
// fail the build in strict mode; fatal errors never reach this point.
func (r *BuildReport) ExitCode(strict bool) int {
	if strict && !r.Clean() {
		return 1
	}
	return 0
}

// LogSummary writes the one-line build summary.
func (r *BuildReport) LogSummary(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	l.Info("build finished",
		"projects", r.Projects,
		"pages", r.PagesWritten,
		"images", r.Images.Files,
		"generated", r.Images.Generated,
		"fresh", r.Images.Fresh,
		"warnings", r.Warnings(),
		"duration", r.Duration.Round(time.Millisecond),
	)
	for _, e := range r.PageErrors {
		l.Warn("page failed", "error", e)
	}
}

func modeName(m images.Mode) string {
	if m == images.ModeBuild {
		return "build"
	}
	return "dev"
}
