// Package notify publishes build summaries to NATS.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pressdarling/simple-ssg/internal/build"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/retry"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "simplessg.builds"

const (
	connectTimeout = 2 * time.Second
	flushTimeout   = 2 * time.Second
)

var connectPolicy = retry.NewPolicy(retry.BackoffExponential, 250*time.Millisecond, time.Second, 2)

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// BuildEvent is the JSON message published when a build finishes.
type BuildEvent struct {
	build.ReportData
	Host      string    `json:"host,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends a BuildEvent for every completed build. It is a
// build.Observer; only OnComplete does any work.
type Publisher struct {
	build.NoopObserver

	conn    conn
	subject string
}

// Connect dials the NATS server at url, retrying a few times with backoff.
func Connect(url, subject string) (*Publisher, error) {
	var nc *nats.Conn
	err := connectPolicy.Do(context.Background(), func() error {
		var dialErr error
		nc, dialErr = nats.Connect(url, nats.Name("simplessg"), nats.Timeout(connectTimeout))
		return dialErr
	})
	if err != nil {
		return nil, errors.NetworkError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS publisher connected", logfields.URL(url), slog.String("subject", subject))
	return newPublisher(nc, subject), nil
}

func newPublisher(c conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: c, subject: subject}
}

// Publish sends the summary of r. Delivery is best effort.
func (p *Publisher) Publish(r *build.Report) error {
	host, _ := os.Hostname()
	data, err := json.Marshal(BuildEvent{ReportData: r.Data(), Host: host, Timestamp: time.Now()})
	if err != nil {
		return errors.InternalError("failed to marshal build event").WithCause(err).Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.NetworkError("failed to publish build event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return errors.NetworkError("failed to flush build event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

func (p *Publisher) OnComplete(r *build.Report) {
	if err := p.Publish(r); err != nil {
		slog.Warn("Build notification not delivered", logfields.BuildID(r.ID), logfields.Error(err))
		return
	}
	slog.Debug("Published build event", logfields.BuildID(r.ID), slog.String("subject", p.subject))
}

func (p *Publisher) Close() {
	p.conn.Close()
}
