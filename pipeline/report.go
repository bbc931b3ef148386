package pipeline

import (
	"fmt"
	"io"
	"time"
)

// Report is the aggregate outcome of one run.
type Report struct {
	Discovered int
	Processed  int
	Modified   int
	Errored    int
	Skipped    int
	Elapsed    time.Duration

	// WorkTime is the sum of per-file processing durations across all
	// workers; with a parallel pool it exceeds Elapsed.
	WorkTime time.Duration
}

// MeanPerFile is the average processing time per file, taken over the
// individual job durations rather than the wall clock.
func (r Report) MeanPerFile() time.Duration {
	if r.Processed == 0 {
		return 0
	}
	return r.WorkTime / time.Duration(r.Processed)
}

// Print writes the human-readable summary.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "files discovered: %d\n", r.Discovered)
	fmt.Fprintf(w, "files processed:  %d\n", r.Processed)
	fmt.Fprintf(w, "files modified:   %d\n", r.Modified)
	fmt.Fprintf(w, "files errored:    %d\n", r.Errored)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "files skipped:    %d\n", r.Skipped)
	}
	fmt.Fprintf(w, "elapsed:          %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "mean per file:    %s\n", r.MeanPerFile().Round(time.Microsecond))
}
