// Package pipeline walks a directory tree and processes every regular file
// through a bounded worker pool. Each file succeeds or fails on its own; one
// corrupt file never stops the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"dicomsar/safewrite"
	"dicomsar/selector"
	"dicomsar/transform"
)

type Mode int

const (
	// Dump prints decoded elements and never writes files.
	Dump Mode = iota
	// SearchReplace rewrites matching elements and persists changed files.
	SearchReplace
)

// Event is a per-file progress notification delivered from the collector
// goroutine, one at a time.
type Event struct {
	Path       string
	Status     Status
	Done       int64
	Discovered int64
}

type Config struct {
	Mode Mode

	// Root is the directory tree (or single file) to process.
	Root string

	Selector *selector.Selector

	// Rule is required in SearchReplace mode.
	Rule *transform.Rule

	WriteMode safewrite.Mode

	// Workers overrides the pool size; zero or negative picks the default.
	Workers int

	// JSONDump switches dump output from plain lines to ordered JSON.
	JSONDump bool

	// Out receives dump output. Only the collector writes to it.
	Out io.Writer

	Log    *slog.Logger
	ErrLog *slog.Logger

	// OnEvent, when set, is called from the collector after each file.
	OnEvent func(Event)
}

// DefaultWorkers leaves headroom for the discovery and collector goroutines
// on large machines while never dropping below one worker.
func DefaultWorkers() int {
	n := runtime.NumCPU() - 4
	if n < 1 {
		return 1
	}
	return n
}

// Run walks cfg.Root and processes every regular file. It blocks until all
// submitted jobs finish; cancellation stops discovery and marks queued jobs
// skipped while in-flight jobs run to completion.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Mode == SearchReplace && cfg.Rule == nil {
		return Report{}, errors.New("Run error: search-replace mode requires a rule")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.ErrLog == nil {
		cfg.ErrLog = cfg.Log
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	start := time.Now()

	// The job channel capacity bounds how far discovery can run ahead of the
	// workers; a full channel blocks the walk.
	jobs := make(chan string, workers)
	results := make(chan JobOutcome, workers)

	var discovered atomic.Int64
	var walkErr error
	go func() {
		defer close(jobs)
		walkErr = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == cfg.Root {
					return err
				}
				cfg.Log.Warn("skipping unreadable entry", "path", path, "err", err)
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			select {
			case <-ctx.Done():
				return fs.SkipAll
			case jobs <- path:
				discovered.Add(1)
			}
			return nil
		})
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					results <- JobOutcome{Path: path, Status: Skipped}
					continue
				}
				results <- runJob(cfg, path)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	report := collect(cfg, results, &discovered)
	report.Discovered = int(discovered.Load())
	report.Elapsed = time.Since(start)

	if walkErr != nil {
		return report, errors.Wrap(walkErr, "Run error: walking root")
	}
	return report, nil
}

// collect is the single consumer of worker results. All aggregation, change
// logging, error logging and dump output happen here, so none of it needs
// locking.
func collect(cfg Config, results <-chan JobOutcome, discovered *atomic.Int64) Report {
	var report Report
	var done int64

	for outcome := range results {
		done++
		if outcome.Status != Skipped {
			report.WorkTime += outcome.Duration
		}

		for _, anomaly := range outcome.Anomalies {
			cfg.Log.Warn(anomaly, "file", outcome.Path)
		}

		switch outcome.Status {
		case Modified:
			report.Processed++
			report.Modified++
			logChanges(cfg, outcome)
		case Unmodified:
			report.Processed++
			if outcome.Render != "" {
				fmt.Fprint(cfg.Out, outcome.Render)
			}
		case Failed:
			report.Processed++
			report.Errored++
			cfg.ErrLog.Error("processing failed", "file", outcome.Path, "err", outcome.Err)
		case Skipped:
			report.Skipped++
		}

		if cfg.OnEvent != nil {
			cfg.OnEvent(Event{
				Path:       outcome.Path,
				Status:     outcome.Status,
				Done:       done,
				Discovered: discovered.Load(),
			})
		}
	}
	return report
}

func logChanges(cfg Config, outcome JobOutcome) {
	prefix := ""
	if cfg.WriteMode == safewrite.DryRun {
		prefix = "dry-run: "
	}
	for _, c := range outcome.Changes {
		cfg.Log.Info(
			fmt.Sprintf("%s%s %s: '%s' -> '%s'", prefix, c.Tag, c.Keyword, c.Old, c.New),
			"file", outcome.Path,
		)
	}
}
