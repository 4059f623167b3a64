package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/ralog/internal/foundation/errors"
)

// Report file names written into the output directory.
const (
	ReportJSONName = "build-report.json"
	ReportTextName = "build-report.txt"
)

// BuildOutcome is the final state of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// PageRecord describes one rendered page.
type PageRecord struct {
	Source      string `json:"source"`
	Output      string `json:"output"`
	Location    string `json:"location"`
	Fingerprint string `json:"fingerprint"`
}

// Report captures what a build did.
type Report struct {
	SchemaVersion  int
	BuildID        string
	Source         string
	Output         string
	Start          time.Time
	End            time.Time
	Documents      int
	Assets         int
	SkippedDirs    int
	PagesRendered  int
	AssetsCopied   int
	Groups         int
	Outcome        BuildOutcome
	Error          error
	StageDurations map[StageName]time.Duration
	Pages          []PageRecord
}

func newReport(source, output string) *Report {
	return &Report{
		SchemaVersion:  1,
		BuildID:        uuid.NewString(),
		Source:         source,
		Output:         output,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
	}
}

// finish stamps the end time and derives the outcome from err.
func (r *Report) finish(err error) {
	r.End = time.Now()
	r.Error = err
	switch {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case ferrors.HasCategory(err, ferrors.CategoryCanceled):
		r.Outcome = OutcomeCanceled
	default:
		r.Outcome = OutcomeFailed
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s documents=%d assets=%d pages=%d copied=%d groups=%d duration=%s outcome=%s",
		r.BuildID, r.Documents, r.Assets, r.PagesRendered, r.AssetsCopied, r.Groups,
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

type reportJSON struct {
	SchemaVersion    int                `json:"schema_version"`
	BuildID          string             `json:"build_id"`
	Source           string             `json:"source"`
	Output           string             `json:"output"`
	Start            time.Time          `json:"start"`
	End              time.Time          `json:"end"`
	Documents        int                `json:"documents"`
	Assets           int                `json:"assets"`
	SkippedDirs      int                `json:"skipped_dirs"`
	PagesRendered    int                `json:"pages_rendered"`
	AssetsCopied     int                `json:"assets_copied"`
	Groups           int                `json:"groups"`
	Outcome          BuildOutcome       `json:"outcome"`
	Error            string             `json:"error,omitempty"`
	StageDurationsMS map[string]float64 `json:"stage_durations_ms"`
	Pages            []PageRecord       `json:"pages"`
}

func (r *Report) serializable() reportJSON {
	out := reportJSON{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		Source:           r.Source,
		Output:           r.Output,
		Start:            r.Start,
		End:              r.End,
		Documents:        r.Documents,
		Assets:           r.Assets,
		SkippedDirs:      r.SkippedDirs,
		PagesRendered:    r.PagesRendered,
		AssetsCopied:     r.AssetsCopied,
		Groups:           r.Groups,
		Outcome:          r.Outcome,
		StageDurationsMS: make(map[string]float64, len(r.StageDurations)),
		Pages:            r.Pages,
	}
	if out.Pages == nil {
		out.Pages = []PageRecord{}
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	for name, d := range r.StageDurations {
		out.StageDurationsMS[string(name)] = float64(d) / float64(time.Millisecond)
	}
	return out
}

// Persist writes build-report.json and build-report.txt into root. Each file
// is written to a temporary name and renamed into place.
func (r *Report) Persist(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONName), append(jb, '\n')); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(root, ReportTextName), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
