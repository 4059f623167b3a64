package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	"git.home.luguber.info/inful/ralog/internal/aggregate"
	"git.home.luguber.info/inful/ralog/internal/config"
	"git.home.luguber.info/inful/ralog/internal/document"
	ferrors "git.home.luguber.info/inful/ralog/internal/foundation/errors"
	"git.home.luguber.info/inful/ralog/internal/logfields"
	"git.home.luguber.info/inful/ralog/internal/markdown"
	"git.home.luguber.info/inful/ralog/internal/metrics"
	"git.home.luguber.info/inful/ralog/internal/render"
)

// Converter turns a markdown body into an HTML fragment. Implementations
// must be safe for concurrent use.
type Converter interface {
	Convert(body []byte) ([]byte, error)
}

type textfileWriter interface {
	WriteTextfile(path string) error
}

// Builder runs site builds for one configuration.
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	recorder  metrics.Recorder
	renderer  *render.Renderer
	converter Converter
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// WithRecorder sets the metrics recorder. Defaults to a Prometheus recorder
// when a metrics textfile is configured and to metrics.NoopRecorder otherwise.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithRenderer replaces the renderer built from the site configuration.
func WithRenderer(r *render.Renderer) Option { return func(b *Builder) { b.renderer = r } }

// WithConverter replaces the markdown converter built from the configuration.
func WithConverter(c Converter) Option { return func(b *Builder) { b.converter = c } }

// NewBuilder creates a Builder for cfg. A nil cfg means config.Default().
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.recorder == nil {
		if cfg.Metrics.Textfile != "" {
			b.recorder = metrics.NewPrometheusRecorder(nil)
		} else {
			b.recorder = metrics.NoopRecorder{}
		}
	}
	if b.renderer == nil {
		r, err := render.New(cfg.SiteSettings())
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to load page templates").Fatal().Build()
		}
		b.renderer = r
	}
	if b.converter == nil {
		c, err := markdown.NewConverter(cfg.MarkdownOptions())
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to configure markdown").Fatal().Build()
		}
		b.converter = c
	}
	return b, nil
}

// sourceEntry is one non-directory entry of the source directory.
type sourceEntry struct {
	Name string
	Path string
	Kind EntryKind
}

type renderedPage struct {
	doc  *document.Document
	html []byte
}

// buildState carries mutable state across stages.
type buildState struct {
	*Builder
	logger   *slog.Logger
	report   *Report
	writeDir string
	stageDir string
	entries  []sourceEntry
	pages    []*renderedPage // aligned with entries; nil for assets
}

// Build runs every stage once. The returned Report is never nil, and on
// failure it describes how far the build got.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport(b.cfg.Source, b.cfg.Output.Directory)
	bs := &buildState{
		Builder: b,
		logger:  b.logger.With(logfields.BuildID(report.BuildID)),
		report:  report,
	}
	bs.logger.Info("Build started",
		slog.String("source", b.cfg.Source),
		slog.String("output", b.cfg.Output.Directory),
		slog.Bool("atomic", b.cfg.Output.Atomic))

	err := runStages(ctx, bs, []stageDef{
		{StagePrepare, stagePrepare},
		{StageDiscover, stageDiscover},
		{StageParse, stageParse},
		{StageWrite, stageWrite},
		{StageIndex, stageIndex},
		{StageFinalize, stageFinalize},
	})
	if err != nil {
		abortStaging(bs.stageDir)
	}

	report.finish(err)
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))

	if err == nil && b.cfg.Report.Enabled {
		if perr := report.Persist(b.cfg.Output.Directory); perr != nil {
			bs.logger.Warn("Failed to persist build report", logfields.Error(perr))
		}
	}
	if path := b.cfg.Metrics.Textfile; path != "" {
		if tw, ok := b.recorder.(textfileWriter); ok {
			if werr := tw.WriteTextfile(path); werr != nil {
				bs.logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
			}
		}
	}

	attrs := []any{
		logfields.Outcome(string(report.Outcome)),
		slog.Int("pages", report.PagesRendered),
		slog.Int("assets", report.AssetsCopied),
		slog.Int("groups", report.Groups),
		logfields.Duration(report.Duration()),
	}
	if err != nil {
		bs.logger.Debug("Build failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	bs.logger.Info("Build completed", attrs...)
	return report, nil
}

func stagePrepare(_ context.Context, bs *buildState) error {
	output := bs.cfg.Output.Directory
	dir, err := prepareOutput(output, bs.cfg.Output.Atomic)
	if err != nil {
		category := ferrors.CategoryFileSystem
		if errors.Is(err, ErrDestinationNotDir) {
			category = ferrors.CategoryEnvironment
		}
		return ferrors.WrapError(err, category, "cannot use output directory").
			Fatal().
			WithContext("path", output).
			Build()
	}
	bs.writeDir = dir
	if dir != output {
		bs.stageDir = dir
	}
	return nil
}

func stageDiscover(_ context.Context, bs *buildState) error {
	source := bs.cfg.Source
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return ferrors.EnvironmentError("source directory not found").
			WithCause(ErrSourceMissing).
			WithContext("path", source).
			Build()
	}

	dirEntries, err := os.ReadDir(source)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to list source directory").
			Fatal().
			WithContext("path", source).
			Build()
	}

	outputs := map[string]string{IndexName: "generated index"}
	for _, d := range dirEntries {
		path := filepath.Join(source, d.Name())
		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir {
			bs.report.SkippedDirs++
			continue
		}

		entry := sourceEntry{Name: d.Name(), Path: path, Kind: Classify(d.Name())}
		if entry.Kind == KindDocument {
			bs.report.Documents++
		} else {
			bs.report.Assets++
		}

		out := OutputName(entry.Name)
		if prev, ok := outputs[out]; ok {
			bs.logger.Warn("Output name collision; later entry wins",
				logfields.File(out), slog.String("first", prev), logfields.Path(path))
		}
		outputs[out] = path
		bs.entries = append(bs.entries, entry)
	}

	bs.logger.Debug("Discovered source entries",
		slog.Int("documents", bs.report.Documents),
		slog.Int("assets", bs.report.Assets),
		slog.Int("skipped_dirs", bs.report.SkippedDirs))
	return nil
}

func stageParse(ctx context.Context, bs *buildState) error {
	bs.pages = make([]*renderedPage, len(bs.entries))
	errs := make([]error, len(bs.entries))

	workers := bs.cfg.Workers()
	bs.recorder.SetDocumentWorkers(workers)

	p := pool.New().WithMaxGoroutines(workers)
	for i, e := range bs.entries {
		if e.Kind != KindDocument {
			continue
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			bs.pages[i], errs[i] = bs.processDocument(e)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var failed []error
	for i, err := range errs {
		if err != nil {
			bs.logger.Debug("Document failed", logfields.Path(bs.entries[i].Path), logfields.Error(err))
			failed = append(failed, err)
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		return ferrors.WrapError(errors.Join(failed...), ferrors.GetCategory(failed[0]),
			fmt.Sprintf("%d of %d documents failed", len(failed), bs.report.Documents)).
			Fatal().
			WithContext("count", len(failed)).
			Build()
	}
}

// processDocument reads, parses, converts and renders one document.
func (bs *buildState) processDocument(e sourceEntry) (*renderedPage, error) {
	raw, err := os.ReadFile(e.Path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			Fatal().
			WithContext("path", e.Path).
			Build()
	}

	res := document.Parse(e.Path, raw)
	if !res.OK() {
		return nil, ferrors.WrapError(res.Err, ferrors.CategoryDocument, "invalid document "+e.Path).
			Fatal().
			WithContext("path", e.Path).
			Build()
	}

	body, err := bs.converter.Convert(res.Document.Body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to convert markdown").
			Fatal().
			WithContext("path", e.Path).
			Build()
	}

	html, err := bs.renderer.RenderPage(res.Document.Header, body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to render page").
			Fatal().
			WithContext("path", e.Path).
			Build()
	}
	return &renderedPage{doc: res.Document, html: html}, nil
}

func stageWrite(ctx context.Context, bs *buildState) error {
	for i, e := range bs.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(bs.writeDir, OutputName(e.Name))

		if e.Kind == KindAsset {
			if err := copyFile(e.Path, dst); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to copy asset").
					Fatal().
					WithContext("path", e.Path).
					Build()
			}
			bs.report.AssetsCopied++
			bs.recorder.AddAssetsCopied(1)
			continue
		}

		page := bs.pages[i]
		if err := os.WriteFile(dst, page.html, 0o644); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write page").
				Fatal().
				WithContext("path", dst).
				Build()
		}
		bs.report.PagesRendered++
		bs.recorder.AddPagesRendered(1)
		bs.report.Pages = append(bs.report.Pages, PageRecord{
			Source:      e.Path,
			Output:      filepath.Join(bs.cfg.Output.Directory, OutputName(e.Name)),
			Location:    page.doc.Header.Location,
			Fingerprint: page.doc.Fingerprint(),
		})
		bs.logger.Debug("Wrote page", logfields.Path(dst), logfields.Location(page.doc.Header.Location))
	}
	return nil
}

func stageIndex(_ context.Context, bs *buildState) error {
	var entries []aggregate.Entry
	for i, e := range bs.entries {
		if page := bs.pages[i]; page != nil {
			entries = append(entries, aggregate.Entry{
				OutputPath: filepath.Join(bs.cfg.Output.Directory, OutputName(e.Name)),
				Header:     page.doc.Header,
			})
		}
	}

	groups := aggregate.GroupBy(entries, bs.cfg.IndexOrder(), aggregate.WithLanguage(bs.cfg.Language()))
	bs.report.Groups = len(groups)

	listing, err := aggregate.Fragment(bs.renderer, groups)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render index listing").Fatal().Build()
	}
	index, err := bs.renderer.RenderIndex(listing)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render index").Fatal().Build()
	}

	dst := filepath.Join(bs.writeDir, IndexName)
	if err := os.WriteFile(dst, index, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write index").
			Fatal().
			WithContext("path", dst).
			Build()
	}
	bs.logger.Debug("Wrote index", logfields.Path(dst), logfields.Count(len(groups)))
	return nil
}

func stageFinalize(_ context.Context, bs *buildState) error {
	if bs.stageDir == "" {
		return nil
	}
	if err := promoteStaging(bs.stageDir, bs.cfg.Output.Directory); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to promote staging directory").
			Fatal().
			WithContext("path", bs.cfg.Output.Directory).
			Build()
	}
	bs.stageDir = ""
	return nil
}
