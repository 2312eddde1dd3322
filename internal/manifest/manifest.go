// Package manifest records a fingerprint of every rendered page so that
// consecutive builds of the same site can be compared.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"github.com/pressdarling/simple-ssg/internal/build"
	"github.com/pressdarling/simple-ssg/internal/content"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
)

// FileName is written to the output root. It has no .html extension so the
// sitemap never lists it.
const FileName = ".build-manifest.json"

// Page is the manifest entry for one rendered document.
type Page struct {
	Source      string `json:"source"`
	Output      string `json:"output"`
	Fingerprint string `json:"fingerprint"`
}

// BuildManifest describes the pages produced by one build.
type BuildManifest struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Outcome      string    `json:"outcome"`
	SourceCommit string    `json:"source_commit,omitempty"`
	ConfigHash   string    `json:"config_hash"`
	Pages        []Page    `json:"pages"`
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a digest over the configuration hash and page fingerprints.
// Two builds with the same hash produced the same site.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		ConfigHash string `json:"config_hash"`
		Pages      []Page `json:"pages"`
	}{
		ConfigHash: m.ConfigHash,
		Pages:      m.Pages,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// ChangedSince lists the sources that are new or whose fingerprint differs
// from prev. A nil prev reports every page.
func (m *BuildManifest) ChangedSince(prev *BuildManifest) []string {
	old := make(map[string]string)
	if prev != nil {
		for _, p := range prev.Pages {
			old[p.Source] = p.Fingerprint
		}
	}
	var changed []string
	for _, p := range m.Pages {
		if fp, ok := old[p.Source]; !ok || fp != p.Fingerprint {
			changed = append(changed, p.Source)
		}
	}
	return changed
}

// Load reads the manifest from an output directory.
func Load(outputDir string) (*BuildManifest, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, FileName))
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

// Save writes the manifest into outputDir through a temporary file.
func (m *BuildManifest) Save(outputDir string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.ArtifactError("failed to write "+FileName).
			WithCause(err).WithContext("path", path).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.ArtifactError("failed to write "+FileName).
			WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// Fingerprint returns the content fingerprint of a loaded document.
func Fingerprint(doc *content.Document) string {
	return mdfp.CalculateFingerprintFromParts(frontMatterYAML(doc.Header), doc.Body)
}

// frontMatterYAML strips the delimiter lines from a front matter block.
func frontMatterYAML(header string) string {
	lines := strings.Split(strings.TrimRight(header, "\r\n"), "\n")
	if len(lines) < 2 {
		return ""
	}
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if first != last || (first != "---" && first != "+++") {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// Writer is a build.Observer that collects page fingerprints and saves the
// manifest when a build reaches the done stage.
type Writer struct {
	outputDir string
	logger    *slog.Logger

	previous *BuildManifest
	pages    []Page
	last     *BuildManifest
}

// NewWriter returns a Writer for the given output root.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outputDir: outputDir, logger: logger}
}

// OnStage resets state at the start of a build and remembers the manifest
// of the previous build before the output root may be cleaned.
func (w *Writer) OnStage(_ *build.Report, stage build.Stage) {
	if stage != build.StageInit {
		return
	}
	w.pages = nil
	w.last = nil
	prev, err := Load(w.outputDir)
	if err != nil {
		prev = nil
	}
	w.previous = prev
}

func (w *Writer) OnPage(_ *build.Report, ev build.PageEvent) {
	if ev.Err != nil || ev.Skipped || ev.Doc == nil || ev.Output == "" {
		return
	}
	w.pages = append(w.pages, Page{
		Source:      ev.Source,
		Output:      ev.Output,
		Fingerprint: Fingerprint(ev.Doc),
	})
}

func (w *Writer) OnArtifact(*build.Report, string, error) {}

func (w *Writer) OnComplete(r *build.Report) {
	if r.Stage != build.StageDone {
		return
	}
	pages := append([]Page(nil), w.pages...)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Source < pages[j].Source })
	m := &BuildManifest{
		ID:           r.ID,
		Start:        r.Start,
		End:          r.End,
		Outcome:      string(r.Outcome),
		SourceCommit: r.SourceCommit,
		ConfigHash:   r.ConfigHash,
		Pages:        pages,
	}
	if err := m.Save(w.outputDir); err != nil {
		w.logger.Warn("Failed to write build manifest", logfields.BuildID(r.ID), logfields.Error(err))
		return
	}
	w.last = m
	if w.previous != nil {
		w.logger.Info("Build manifest written",
			logfields.BuildID(r.ID),
			slog.Int("pages", len(pages)),
			slog.Int("changed", len(m.ChangedSince(w.previous))))
	}
}

// Last returns the manifest written by the most recent successful call to
// OnComplete, or nil.
func (w *Writer) Last() *BuildManifest {
	return w.last
}

// Previous returns the manifest found in the output root when the current
// build started, or nil.
func (w *Writer) Previous() *BuildManifest {
	return w.previous
}
