package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/sitefs"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
	"git.home.luguber.info/inful/blogbuilder/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for generated site (overrides output.directory)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	applyLogging(cfg, root.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunBuild(ctx, cfg, ResolveOutputDir(b.Output, cfg))
}

// RunBuild reads content and templates from the working directory, builds
// the site and promotes it to outputDir.
func RunBuild(ctx context.Context, cfg *config.Config, outputDir string) error {
	fmt.Println("Starting blogbuilder build")
	if err := cfg.CheckOutputDir(outputDir); err != nil {
		fmt.Println("Build failed")
		return err
	}
	slog.Info("Starting blog build",
		slog.String("content", cfg.Content.Dir),
		logfields.Output(outputDir),
		slog.Bool("staging", cfg.Output.Staging))

	return classifyCanceled(runBuild(ctx, cfg, outputDir))
}

// classifyCanceled reports interrupted or timed out builds as runtime
// errors.
func classifyCanceled(err error) error {
	if err == nil {
		return nil
	}
	var se *build.StageError
	canceled := stderrors.As(err, &se) && se.Kind == build.StageErrorCanceled
	if !canceled && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	b := errors.RuntimeError("build canceled").WithCause(err)
	if se != nil {
		b = b.WithContext("stage", string(se.Stage))
	}
	return b.Build()
}

func runBuild(ctx context.Context, cfg *config.Config, outputDir string) error {
	docs, err := discoverContent(ctx, cfg.Content.Dir)
	if err != nil {
		return err
	}
	tpl, err := templates.Load(os.DirFS("."), templates.Paths{
		Layout: cfg.Templates.Layout,
		Header: cfg.Templates.Header,
		Footer: cfg.Templates.Footer,
	})
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		promRecorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = promRecorder
	}

	ws := workspace.NewManager(outputDir, cfg.Output.Staging)
	dir, err := ws.Begin()
	if err != nil {
		return errors.FileSystemError("failed to prepare output directory").WithCause(err).
			WithContext("path", outputDir).
			Build()
	}

	// Static assets go first so generated pages win on conflicting paths.
	if copied, err := sitefs.CopyStatic(ctx, cfg.Static.Dir, dir); err != nil {
		ws.Abort()
		return err
	} else if copied {
		slog.Debug("Copied static assets", logfields.Path(cfg.Static.Dir))
	}

	builder := build.New(newBuildConfig(cfg), build.WithRecorder(recorder), build.WithLogger(slog.Default()))
	report, buildErr := builder.Build(ctx, build.Input{Documents: docs, Templates: tpl}, sitefs.NewDirSink(dir))

	if buildErr != nil {
		ws.Abort()
	} else if err := ws.Commit(); err != nil {
		buildErr = errors.FileSystemError("failed to promote build output").WithCause(err).
			WithContext("path", outputDir).
			Build()
	}

	writeArtifacts(cfg, report, promRecorder)

	if buildErr != nil {
		fmt.Println("Build failed")
		return buildErr
	}
	fmt.Println("Build completed successfully")
	fmt.Println(report.Summary())
	return nil
}

func newBuildConfig(cfg *config.Config) build.Config {
	return build.Config{
		Version:        version.Version,
		AssetVersion:   strconv.FormatInt(time.Now().Unix(), 10),
		Concurrency:    cfg.Build.Concurrency,
		Timeout:        cfg.Build.Timeout,
		WordsPerMinute: cfg.Build.WordsPerMinute,
		ExcerptLength:  cfg.Build.ExcerptLength,
		DefaultAuthor:  cfg.Site.DefaultAuthor,
		Site: site.Config{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			Language:    cfg.Site.Language,
			BaseURL:     cfg.Site.BaseURL,
			About:       cfg.Site.About,
		},
	}
}

// discoverContent treats a missing content directory as an empty collection.
func discoverContent(ctx context.Context, dir string) ([]docmodel.Document, error) {
	if _, err := os.Stat(dir); stderrors.Is(err, fs.ErrNotExist) {
		slog.Warn("Content directory not found, building without posts", logfields.Path(dir))
		return nil, nil
	}
	docs, err := sitefs.Discover(ctx, os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	slog.Info("Discovered posts", logfields.Path(dir), slog.Int("documents", len(docs)))
	return docs, nil
}

// writeArtifacts persists the optional report and metrics textfile. Failures
// are logged; they never change the build result.
func writeArtifacts(cfg *config.Config, report *build.BuildReport, rec *metrics.PrometheusRecorder) {
	if report != nil && cfg.Build.Report != "" {
		if err := report.Persist(cfg.Build.Report); err != nil {
			slog.Warn("Failed to write build report", logfields.Path(cfg.Build.Report), logfields.Error(err))
		} else {
			slog.Debug("Wrote build report", logfields.Path(cfg.Build.Report))
		}
	}
	if rec != nil {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
}
