package pipeline

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"dicomsar/dicom"
	"dicomsar/dicom/dtag"
	"dicomsar/safewrite"
	"dicomsar/transform"
)

// Status classifies a processed file.
type Status int

const (
	// Unmodified means the file decoded fine and no substitution changed it.
	Unmodified Status = iota
	// Modified means at least one element was rewritten (or would have been,
	// under dry-run).
	Modified
	// Failed means the file could not be processed; other files are
	// unaffected.
	Failed
	// Skipped means the job was queued but cancellation arrived before it
	// started.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Unmodified:
		return "unmodified"
	case Modified:
		return "modified"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Change records one element rewrite for reporting.
type Change struct {
	Tag     dtag.Tag
	Keyword string
	Old     string
	New     string
}

// JobOutcome is the result of processing one file.
type JobOutcome struct {
	Path      string
	Status    Status
	Changes   []Change
	Anomalies []string

	// Render holds dump-mode output; it is written to the configured output
	// stream by the collector, never by the worker.
	Render string

	Err      error
	Duration time.Duration
}

func runJob(cfg Config, path string) JobOutcome {
	start := time.Now()
	outcome := process(cfg, path)
	outcome.Path = path
	outcome.Duration = time.Since(start)
	return outcome
}

func process(cfg Config, path string) JobOutcome {
	bs, err := os.ReadFile(path)
	if err != nil {
		return failed(errors.Wrap(err, "process error: reading file"))
	}

	d, err := dicom.Decode(bs)
	if err != nil {
		return failed(errors.Wrap(err, "process error: decoding"))
	}

	if cfg.Mode == Dump {
		render, err := renderDump(path, d, cfg.Selector, cfg.JSONDump)
		if err != nil {
			return failed(errors.Wrap(err, "process error: rendering dump"))
		}
		return JobOutcome{Status: Unmodified, Render: render, Anomalies: d.Anomalies}
	}

	changes, err := substitute(cfg, d)
	if err != nil {
		return failed(err)
	}
	if len(changes) == 0 {
		return JobOutcome{Status: Unmodified, Anomalies: d.Anomalies}
	}

	encoded, err := dicom.Encode(d)
	if err != nil {
		return failed(errors.Wrap(err, "process error: encoding"))
	}
	if err := safewrite.Persist(path, encoded, cfg.WriteMode); err != nil {
		return failed(errors.Wrap(err, "process error: persisting"))
	}
	return JobOutcome{Status: Modified, Changes: changes, Anomalies: d.Anomalies}
}

// substitute applies the rule to every eligible top-level element. Any
// constraint violation aborts the whole file: no partial rewrite is ever
// persisted.
func substitute(cfg Config, d *dicom.Dataset) ([]Change, error) {
	var changes []Change
	for _, e := range d.Elements {
		if !eligible(cfg, e) {
			continue
		}
		outcome, err := transform.Apply(e, cfg.Rule)
		if err != nil {
			return nil, errors.Wrapf(err, "substitute error: element %s", e.Tag)
		}
		if outcome.Changed {
			changes = append(changes, Change{
				Tag:     e.Tag,
				Keyword: e.Keyword(),
				Old:     outcome.Old,
				New:     outcome.New,
			})
		}
	}
	return changes, nil
}

// eligible restricts substitution to string-like top-level elements. File
// meta elements and anything nested inside a sequence are never rewritten.
func eligible(cfg Config, e *dicom.Element) bool {
	if !e.VR.IsStringLike() || e.Tag.IsFileMeta() {
		return false
	}
	if cfg.Selector == nil || cfg.Selector.Empty() {
		return true
	}
	return cfg.Selector.Matches(e.Tag)
}

func failed(err error) JobOutcome {
	return JobOutcome{Status: Failed, Err: err}
}
