package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// ReportSchemaVersion is bumped on incompatible report changes.
const ReportSchemaVersion = 1

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// PostSummary describes one compiled post in the report.
type PostSummary struct {
	Slug        string `json:"slug"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Minutes     int    `json:"minutes"`
	Fingerprint string `json:"fingerprint"`
}

// BuildReport captures what a build did.
type BuildReport struct {
	SchemaVersion  int                               `json:"schema_version"`
	BuildID        string                            `json:"build_id"`
	Version        string                            `json:"version"`
	Start          time.Time                         `json:"start"`
	End            time.Time                         `json:"end"`
	Outcome        BuildOutcome                      `json:"outcome"`
	Documents      int                               `json:"documents"`
	Pages          int                               `json:"pages"`
	Posts          []PostSummary                     `json:"posts"`
	StageDurations map[StageName]time.Duration       `json:"-"`
	StageResults   map[StageName]metrics.ResultLabel `json:"stage_results"`
	Error          string                            `json:"error,omitempty"`
	FailedStage    StageName                         `json:"failed_stage,omitempty"`
}

func newBuildReport(buildID, version string, documents int) *BuildReport {
	return &BuildReport{
		SchemaVersion:  ReportSchemaVersion,
		BuildID:        buildID,
		Version:        version,
		Start:          time.Now(),
		Documents:      documents,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *BuildReport) recordStage(name StageName, d time.Duration, result metrics.ResultLabel) {
	r.StageDurations[name] = d
	r.StageResults[name] = result
}

// finish stamps the end time and derives the outcome from err.
func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	if err == nil {
		r.Outcome = OutcomeSuccess
		return
	}
	r.Error = err.Error()
	r.Outcome = OutcomeFailed
	var se *StageError
	if errors.As(err, &se) {
		r.FailedStage = se.Stage
		if se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
		}
	}
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("documents=%d posts=%d pages=%d duration=%s stages=%d outcome=%s",
		r.Documents, len(r.Posts), r.Pages, r.Duration().Truncate(time.Millisecond), len(r.StageResults), r.Outcome)
}

// MarshalJSON adds stage durations in milliseconds.
func (r *BuildReport) MarshalJSON() ([]byte, error) {
	type alias BuildReport
	durations := make(map[StageName]float64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = msec(v)
	}
	return json.Marshal(struct {
		*alias
		StageDurationsMS map[StageName]float64 `json:"stage_durations_ms"`
		DurationMS       float64               `json:"duration_ms"`
	}{(*alias)(r), durations, msec(r.Duration())})
}

// Persist writes the report as JSON to path atomically.
func (r *BuildReport) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}
	jb, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(jb, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename report json: %w", err)
	}
	return nil
}
