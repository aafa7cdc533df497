package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyPage       = "page"
	KeyPosts      = "posts"
	KeyPages      = "pages"
	KeyOutput     = "output"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
