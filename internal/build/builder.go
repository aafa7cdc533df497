package build

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/pipeline"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// Sink receives generated files. Paths are slash separated and relative to
// the output root.
type Sink interface {
	Write(ctx context.Context, relPath string, data []byte) error
}

// Config holds the knobs of a build.
type Config struct {
	Version        string        // application version, recorded in the report
	AssetVersion   string        // {{VERSION}} value; build start time when empty
	Concurrency    int           // compile workers; <= 0 means runtime.NumCPU()
	Timeout        time.Duration // 0 disables the deadline
	WordsPerMinute int
	ExcerptLength  int
	DefaultAuthor  string
	Site           site.Config
}

// Input is everything a build reads.
type Input struct {
	Documents []docmodel.Document
	Templates templates.Templates
}

// Builder runs builds. A Builder may be reused; each Build call is independent.
type Builder struct {
	cfg       Config
	processor *pipeline.Processor
	recorder  metrics.Recorder
	logger    *slog.Logger
	stages    []StageDef
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger builds are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New returns a builder for cfg.
func New(cfg Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		stages:   defaultStages(),
	}
	b.processor = pipeline.NewProcessor(markdown.NewRenderer(),
		pipeline.WithWordsPerMinute(cfg.WordsPerMinute),
		pipeline.WithExcerptLength(cfg.ExcerptLength),
		pipeline.WithDefaultAuthor(cfg.DefaultAuthor),
	)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) concurrency() int {
	if b.cfg.Concurrency > 0 {
		return b.cfg.Concurrency
	}
	return runtime.NumCPU()
}

// Build compiles in and writes every generated file to sink. The report is
// returned even when the build fails.
func (b *Builder) Build(ctx context.Context, in Input, sink Sink) (*BuildReport, error) {
	buildID := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(buildID))
	report := newBuildReport(buildID, b.cfg.Version, len(in.Documents))

	if sink == nil {
		err := errors.InternalError("build requires an output sink").Build()
		report.finish(err)
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return report, err
	}

	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	logger.Info("Starting build", slog.Int("documents", len(in.Documents)), slog.Int("concurrency", b.concurrency()))
	assetVersion := b.cfg.AssetVersion
	if assetVersion == "" {
		assetVersion = strconv.FormatInt(report.Start.Unix(), 10)
	}

	bs := &BuildState{
		Documents:    in.Documents,
		Templates:    in.Templates,
		AssetVersion: assetVersion,
		Sink:         sink,
		Report:       report,
		builder:      b,
		logger:       logger,
	}
	err := runStages(ctx, bs, b.stages)
	report.finish(err)

	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))

	if err != nil {
		logger.Error("Build failed",
			logfields.Stage(string(report.FailedStage)),
			logfields.Outcome(string(report.Outcome)),
			logfields.Error(err))
		return report, err
	}
	logger.Info("Build complete",
		logfields.Posts(len(bs.Posts)),
		logfields.Pages(report.Pages),
		logfields.DurationMS(msec(report.Duration())),
		logfields.Outcome(string(report.Outcome)))
	return report, nil
}
