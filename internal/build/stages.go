package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// StageName identifies a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareTemplates StageName = "prepare_templates"
	StageCompilePosts     StageName = "compile_posts"
	StageRegisterSlugs    StageName = "register_slugs"
	StageGeneratePages    StageName = "generate_pages"
	StageWriteOutput      StageName = "write_output"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// page is a generated file together with its kind, used as a metrics label.
type page struct {
	kind string
	site.Output
}

// BuildState carries values between stages of one build.
type BuildState struct {
	Documents    []docmodel.Document
	Templates    templates.Templates
	AssetVersion string
	Sink         Sink

	Composer *templates.Composer
	Posts    []docmodel.Post
	pages    []page

	Report *BuildReport

	builder *Builder
	logger  *slog.Logger
}

func defaultStages() []StageDef {
	return []StageDef{
		{StagePrepareTemplates, stagePrepareTemplates},
		{StageCompilePosts, stageCompilePosts},
		{StageRegisterSlugs, stageRegisterSlugs},
		{StageGeneratePages, stageGeneratePages},
		{StageWriteOutput, stageWriteOutput},
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	rec := bs.builder.recorder
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.Report.recordStage(st.Name, 0, metrics.ResultCanceled)
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			bs.Report.recordStage(st.Name, dur, metrics.ResultSuccess)
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			bs.logger.Debug("Stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(msec(dur)))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			if ctx.Err() != nil {
				se = newCanceledStageError(st.Name, err)
			} else {
				se = newFatalStageError(st.Name, err)
			}
		}
		result := metrics.ResultFatal
		if se.Kind == StageErrorCanceled {
			result = metrics.ResultCanceled
		}
		bs.Report.recordStage(st.Name, dur, result)
		rec.IncStageResult(string(st.Name), result)
		return se
	}
	return nil
}

func msec(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
