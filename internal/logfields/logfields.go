package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyArtifact   = "artifact"
	KeyProcessed  = "processed"
	KeyErrors     = "errors"
	KeyOutcome    = "outcome"
	KeyCommit     = "commit"
	KeyURL        = "url"
	KeyAddr       = "addr"
	KeyName       = "name"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Artifact(name string) slog.Attr  { return slog.String(KeyArtifact, name) }
func Processed(n int) slog.Attr       { return slog.Int(KeyProcessed, n) }
func Errors(n int) slog.Attr          { return slog.Int(KeyErrors, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Commit(sha string) slog.Attr     { return slog.String(KeyCommit, sha) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
