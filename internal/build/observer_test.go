package build

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

func TestLogObserver_OnArtifactLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"written", nil, "level=INFO"},
		{"artifact warning", errors.ArtifactError("failed to write sitemap").Build(), "level=WARN"},
		{"plain error", stderrors.New("disk full"), "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))
			obs.OnArtifact(&Report{}, "sitemap.xml", tt.err)
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "sitemap.xml")
		})
	}
}
