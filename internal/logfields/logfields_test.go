package logfields

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "processing_content", Stage("processing_content")},
		{"File", KeyFile, "about.md", File("about.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Output", KeyOutput, "about.html", Output("about.html")},
		{"Artifact", KeyArtifact, "sitemap.xml", Artifact("sitemap.xml")},
		{"Outcome", KeyOutcome, "success", Outcome("success")},
		{"Commit", KeyCommit, "abc123", Commit("abc123")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Addr", KeyAddr, ":8000", Addr(":8000")},
		{"Name", KeyName, "n", Name("n")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Key drift would break log ingestion schemas.
			assert.Equal(t, tc.attrKey, tc.attr.Key)
			assert.Equal(t, tc.attrVal, tc.attr.Value.String())
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, KeyProcessed, Processed(3).Key)
	assert.Equal(t, int64(3), Processed(3).Value.Int64())
	assert.Equal(t, KeyErrors, Errors(1).Key)
	assert.Equal(t, KeyDurationMS, DurationMS(12.5).Key)
	assert.InDelta(t, 12.5, DurationMS(12.5).Value.Float64(), 0.0001)
}

func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	assert.Equal(t, KeyError, attr.Key)
	assert.Empty(t, attr.Value.String())
	assert.Equal(t, "err-test", Error(errTest{}).Value.String())
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
