package build

import (
	"fmt"
	"io"
	"time"
)

// Outcome is the final result of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning" // completed with per-document errors
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report captures the statistics of one build. It is owned by the Builder;
// observers must treat it as read-only.
type Report struct {
	ID           string
	Stage        Stage
	Outcome      Outcome
	Processed    int
	Errors       int
	Skipped      int // drafts left out of the site
	Start        time.Time
	End          time.Time
	FatalError   string
	Outputs      []string          // written pages relative to OutputDir, slash separated
	Artifacts    map[string]string // artifact name -> "ok" or the error text
	SourceCommit string
	ConfigHash   string
	OutputDir    string
	Minified     bool
}

func newReport(id string, start time.Time) *Report {
	return &Report{
		ID:        id,
		Stage:     StageInit,
		Start:     start,
		Artifacts: make(map[string]string),
	}
}

// Elapsed is the wall time of the build, or the time so far while it runs.
func (r *Report) Elapsed() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// DeriveOutcome sets Outcome from the recorded failures.
func (r *Report) DeriveOutcome(canceled bool) {
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case r.FatalError != "":
		r.Outcome = OutcomeFailed
	case r.Errors > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Failed reports whether the build should be treated as unsuccessful by callers.
func (r *Report) Failed() bool {
	return r.FatalError != "" || r.Errors > 0
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s processed=%d errors=%d skipped=%d duration=%s stage=%s outcome=%s",
		r.ID, r.Processed, r.Errors, r.Skipped, r.Elapsed().Truncate(time.Millisecond), r.Stage, r.Outcome)
}

// WriteSummary prints the end-of-build summary shown by the CLI.
func (r *Report) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, "\nBuild Summary:")
	fmt.Fprintf(w, "- Files processed successfully: %d\n", r.Processed)
	if r.Errors > 0 {
		fmt.Fprintf(w, "- Files with errors: %d\n", r.Errors)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(w, "- Drafts skipped: %d\n", r.Skipped)
	}
	if r.FatalError != "" {
		fmt.Fprintf(w, "- Fatal error: %s\n", r.FatalError)
	}
	fmt.Fprintf(w, "- Output directory: %s\n", r.OutputDir)
	fmt.Fprintf(w, "- Build time: %.2f seconds\n", r.Elapsed().Seconds())
	if r.Minified {
		fmt.Fprintln(w, "- HTML minification: Enabled")
	} else {
		fmt.Fprintln(w, "- HTML minification: Disabled")
	}
	if r.SourceCommit != "" {
		fmt.Fprintf(w, "- Source commit: %s\n", r.SourceCommit)
	}
	if r.Stage == StageDone {
		fmt.Fprintln(w, "\nBuild complete!")
	}
}

// ReportData is the serializable form of a Report used by history and
// notifications.
type ReportData struct {
	ID             string            `json:"id"`
	Stage          string            `json:"stage"`
	Outcome        string            `json:"outcome"`
	Processed      int               `json:"processed"`
	Errors         int               `json:"errors"`
	Skipped        int               `json:"skipped"`
	Start          time.Time         `json:"start"`
	End            time.Time         `json:"end"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	FatalError     string            `json:"fatal_error,omitempty"`
	SourceCommit   string            `json:"source_commit,omitempty"`
	ConfigHash     string            `json:"config_hash,omitempty"`
	Artifacts      map[string]string `json:"artifacts,omitempty"`
}

// Data returns a copy of the report suitable for JSON encoding.
func (r *Report) Data() ReportData {
	artifacts := make(map[string]string, len(r.Artifacts))
	for k, v := range r.Artifacts {
		artifacts[k] = v
	}
	return ReportData{
		ID:             r.ID,
		Stage:          string(r.Stage),
		Outcome:        string(r.Outcome),
		Processed:      r.Processed,
		Errors:         r.Errors,
		Skipped:        r.Skipped,
		Start:          r.Start,
		End:            r.End,
		ElapsedSeconds: r.Elapsed().Seconds(),
		FatalError:     r.FatalError,
		SourceCommit:   r.SourceCommit,
		ConfigHash:     r.ConfigHash,
		Artifacts:      artifacts,
	}
}
