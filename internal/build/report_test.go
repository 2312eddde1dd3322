package build

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_CanTransition(t *testing.T) {
	assert.True(t, StageInit.CanTransition(StageSettingUpOutput))
	assert.True(t, StageSettingUpOutput.CanTransition(StageProcessingContent))
	assert.True(t, StageProcessingContent.CanTransition(StageGeneratingArtifacts))
	assert.True(t, StageGeneratingArtifacts.CanTransition(StageDone))
	assert.True(t, StageProcessingContent.CanTransition(StageAborted))

	assert.False(t, StageInit.CanTransition(StageProcessingContent))
	assert.False(t, StageDone.CanTransition(StageAborted))
	assert.False(t, StageAborted.CanTransition(StageInit))
	assert.True(t, StageDone.Terminal())
	assert.False(t, StageGeneratingArtifacts.Terminal())
}

func TestReport_DeriveOutcome(t *testing.T) {
	r := newReport("id", time.Now())
	r.DeriveOutcome(false)
	assert.Equal(t, OutcomeSuccess, r.Outcome)

	r.Errors = 2
	r.DeriveOutcome(false)
	assert.Equal(t, OutcomeWarning, r.Outcome)

	r.FatalError = "boom"
	r.DeriveOutcome(false)
	assert.Equal(t, OutcomeFailed, r.Outcome)

	r.DeriveOutcome(true)
	assert.Equal(t, OutcomeCanceled, r.Outcome)
}

func TestReport_WriteSummary(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := newReport("id", start)
	r.End = start.Add(1500 * time.Millisecond)
	r.Processed = 3
	r.Errors = 1
	r.Stage = StageDone
	r.OutputDir = "/srv/site"
	r.Minified = true

	var buf bytes.Buffer
	r.WriteSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "- Files processed successfully: 3\n")
	assert.Contains(t, out, "- Files with errors: 1\n")
	assert.Contains(t, out, "- Output directory: /srv/site\n")
	assert.Contains(t, out, "- Build time: 1.50 seconds\n")
	assert.Contains(t, out, "- HTML minification: Enabled\n")
	assert.Contains(t, out, "Build complete!")
	assert.NotContains(t, out, "Drafts skipped")

	assert.Contains(t, r.Summary(), "processed=3 errors=1")
}

func TestReport_Data(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := newReport("abc", start)
	r.End = start.Add(2 * time.Second)
	r.Artifacts["sitemap.xml"] = "ok"
	r.Outcome = OutcomeSuccess

	data, err := json.Marshal(r.Data())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "abc", decoded["id"])
	assert.InDelta(t, 2.0, decoded["elapsed_seconds"], 0.0001)
	assert.NotContains(t, decoded, "fatal_error")

	r.Artifacts["robots.txt"] = "ok"
	assert.Len(t, r.Data().Artifacts, 2)
}
