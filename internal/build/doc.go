// Package build runs one full blog build: templates are validated, every
// document is compiled concurrently into a post, slugs are registered in
// input order, the pages and the feed are generated and everything is handed
// to a Sink.
//
// A build is a fixed sequence of stages. Each stage is timed, recorded in the
// BuildReport and reported to a metrics.Recorder. The first failing stage
// aborts the build with a *StageError.
package build
