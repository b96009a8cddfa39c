package images

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Default responsive treatment: heroes always get the full ladder, project
// images only once they cross the large-file threshold.
var (
	DefaultHeroWidths       = []int{400, 800, 1200, 1600}
	DefaultResponsiveWidths = []int{800, 1200, 1600}
)

// DefaultLargeThreshold is the byte size above which a project image
// receives responsive variants.
const DefaultLargeThreshold = 500 << 10

// Options tune the pipeline's responsive-set behavior.
type Options struct {
	// Heroes lists tree-relative paths that always get HeroWidths variants.
	Heroes           []string
	HeroWidths       []int
	ResponsiveWidths []int
	LargeThreshold   int64
	Logger           *slog.Logger
}

// Pipeline drives per-file optimization: staleness check, format
// generation, and delivery. Processing is strictly sequential; within one
// file the primary format precedes WebP, which precedes AVIF.
type Pipeline struct {
	gen    *Generator
	disp   *Dispatcher
	opts   Options
	heroes map[string]struct{}
}

// NewPipeline wires a Generator and Dispatcher with responsive options.
func NewPipeline(gen *Generator, disp *Dispatcher, opts Options) *Pipeline {
	if len(opts.HeroWidths) == 0 {
		opts.HeroWidths = DefaultHeroWidths
	}
	if len(opts.ResponsiveWidths) == 0 {
		opts.ResponsiveWidths = DefaultResponsiveWidths
	}
	if opts.LargeThreshold <= 0 {
		opts.LargeThreshold = DefaultLargeThreshold
	}
	heroes := make(map[string]struct{}, len(opts.Heroes))
	for _, h := range opts.Heroes {
		heroes[path.Clean(h)] = struct{}{}
	}
	return &Pipeline{gen: gen, disp: disp, opts: opts, heroes: heroes}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.opts.Logger != nil {
		return p.opts.Logger
	}
	return slog.Default()
}

// FileResult is the tagged outcome of processing one source image.
type FileResult struct {
	Source            string   // tree-relative source path
	Artifacts         []string // output-relative delivered artifacts
	Ignored           bool     // extension not handled by this pipeline
	Err               error    // whole-file failure, if any
	FallbackDelivered bool     // original shipped in place of derived output
}

// Failed reports whether the file's optimization failed outright.
func (r FileResult) Failed() bool { return r.Err != nil }

// Report aggregates pipeline outcomes for one run.
type Report struct {
	Started        time.Time
	Duration       time.Duration
	Files          int
	Ignored        int
	Generated      int // artifacts re-encoded this run
	Fresh          int // artifacts already current in the cache
	DeliveryMisses int
	Failures       []FileResult
}

// Clean reports whether the run finished without fallbacks or misses.
func (r *Report) Clean() bool {
	return len(r.Failures) == 0 && r.DeliveryMisses == 0
}

func (r *Report) record(res FileResult) {
	if res.Ignored {
		r.Ignored++
		return
	}
	r.Files++
	if res.Failed() {
		r.Failures = append(r.Failures, res)
	}
}

// ProcessTree walks the asset tree rooted at root and optimizes every image
// in it, delivering artifacts under outPrefix in the output. Walk errors
// (unreadable tree) are fatal and propagate; everything per-file is
// contained and recorded in rep.
func (p *Pipeline) ProcessTree(root, outPrefix string, rep *Report) error {
	return filepath.WalkDir(root, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, pth)
		if err != nil {
			return err
		}
		res := p.processFile(pth, filepath.ToSlash(rel), outPrefix, info.Size(), rep)
		rep.record(res)
		return nil
	})
}

// ProcessFile optimizes a single source image. Exposed for targeted
// regeneration; ProcessTree is the usual entry point.
func (p *Pipeline) ProcessFile(sourcePath, treeRel, outPrefix string, size int64, rep *Report) FileResult {
	res := p.processFile(sourcePath, treeRel, outPrefix, size, rep)
	rep.record(res)
	return res
}

func (p *Pipeline) processFile(sourcePath, treeRel, outPrefix string, size int64, rep *Report) FileResult {
	res := FileResult{Source: treeRel}

	rel := path.Join(outPrefix, treeRel)
	relDir := path.Dir(rel)
	ext := strings.ToLower(path.Ext(treeRel))
	base := strings.TrimSuffix(path.Base(treeRel), path.Ext(treeRel))

	step := func(f Format, width int, outRel string) error {
		cachePath, regenerated, err := p.gen.Generate(sourcePath, relDir, base, f, width)
		if err != nil {
			return err
		}
		if regenerated {
			rep.Generated++
		} else {
			rep.Fresh++
		}
		if p.disp.Deliver(cachePath, outRel) {
			res.Artifacts = append(res.Artifacts, outRel)
		} else {
			rep.DeliveryMisses++
		}
		return nil
	}
	derived := func(f Format, width int) error {
		return step(f, width, path.Join(relDir, derivedName(base, f, width)))
	}
	// The primary artifact is delivered under the source's exact name
	// (".jpeg" stays ".jpeg"); page references are built from the source
	// filename and must resolve against the manifest.
	primary := func(f Format) error {
		return step(f, 0, rel)
	}

	// AVIF is allowed to fail per file; some inputs defeat the encoder and
	// the other formats still serve the image.
	tryAVIF := func(width int) {
		if err := derived(FormatAVIF, width); err != nil {
			p.logger().Warn("avif artifact skipped", "source", treeRel, "error", err)
		}
	}

	fail := func(err error) FileResult {
		res.Err = err
		res.FallbackDelivered = p.disp.DeliverOriginal(sourcePath, rel)
		p.logger().Warn("image optimization failed, original delivered",
			"source", treeRel, "fallback", res.FallbackDelivered, "error", err)
		return res
	}

	switch ext {
	case ".jpg", ".jpeg":
		if p.disp.Mode == ModeBuild {
			if err := primary(FormatJPEG); err != nil {
				return fail(err)
			}
		}
		if err := derived(FormatWebP, 0); err != nil {
			return fail(err)
		}
		tryAVIF(0)
	case ".png":
		if p.disp.Mode == ModeBuild {
			if err := primary(FormatPNG); err != nil {
				return fail(err)
			}
		}
		if err := derived(FormatWebP, 0); err != nil {
			return fail(err)
		}
		tryAVIF(0)
	case ".webp":
		// Already in an optimized format; build mode copies it through the
		// cache as the primary artifact.
		if p.disp.Mode == ModeBuild {
			cachePath, copied, err := p.gen.CopyThrough(sourcePath, relDir, path.Base(treeRel))
			if err != nil {
				return fail(err)
			}
			if copied {
				rep.Generated++
			} else {
				rep.Fresh++
			}
			if p.disp.Deliver(cachePath, rel) {
				res.Artifacts = append(res.Artifacts, rel)
			} else {
				rep.DeliveryMisses++
			}
		}
		tryAVIF(0)
	default:
		res.Ignored = true
		return res
	}

	for _, w := range p.widthsFor(treeRel, size) {
		if err := derived(FormatWebP, w); err != nil {
			p.logger().Warn("responsive webp skipped", "source", treeRel, "width", w, "error", err)
			continue
		}
		tryAVIF(w)
	}
	return res
}

// widthsFor returns the responsive ladder for a file: the hero ladder for
// designated heroes, the project ladder for large files, nothing otherwise.
func (p *Pipeline) widthsFor(treeRel string, size int64) []int {
	if _, ok := p.heroes[path.Clean(treeRel)]; ok {
		return p.opts.HeroWidths
	}
	if size > p.opts.LargeThreshold {
		return p.opts.ResponsiveWidths
	}
	return nil
}

// HasVariant reports whether a derived artifact exists in cacheDir for the
// given output-relative source path, format, and width (0 = native size).
// The page assembler uses this to decide srcset membership.
func HasVariant(cacheDir, rel string, f Format, width int) bool {
	relDir := path.Dir(rel)
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	name := derivedName(base, f, width)
	_, err := os.Stat(filepath.Join(cacheDir, filepath.FromSlash(relDir), name))
	return err == nil
}
