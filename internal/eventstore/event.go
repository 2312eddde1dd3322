package eventstore

import (
	"encoding/json"
	"time"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// Event types written by the build observer.
const (
	TypeBuildStarted    = "BuildStarted"
	TypePageRendered    = "PageRendered"
	TypePageFailed      = "PageFailed"
	TypeArtifactWritten = "ArtifactWritten"
	TypeArtifactFailed  = "ArtifactFailed"
	TypeBuildCompleted  = "BuildCompleted"
)

// Event is one recorded fact about a build. Payload holds JSON.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent marshals payload into an event stamped with the current time.
func NewEvent(buildID, eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.EventStoreError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return Event{
		BuildID:   buildID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}

// BuildStarted is the payload of TypeBuildStarted.
type BuildStarted struct {
	ContentDir   string `json:"content_dir"`
	OutputDir    string `json:"output_dir"`
	ConfigHash   string `json:"config_hash,omitempty"`
	SourceCommit string `json:"source_commit,omitempty"`
}

// Page is the payload of TypePageRendered and TypePageFailed.
type Page struct {
	Source     string  `json:"source"`
	Output     string  `json:"output,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Skipped    bool    `json:"skipped,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Artifact is the payload of TypeArtifactWritten and TypeArtifactFailed.
type Artifact struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}
