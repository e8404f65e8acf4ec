package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"time"
)

// Event is one entry of the verbose event log.
type Event struct {
	Time    time.Time
	Index   int
	Path    string
	Stage   string // start, detect, tag, error, finish
	Message string
}

// Log is everything written to the log file at the end of a run.
type Log struct {
	RunID  string
	Events []Event
	Errors map[string][]string // reason -> paths
}

// Empty reports whether the log has nothing worth writing.
func (l *Log) Empty() bool {
	return len(l.Events) == 0 && len(l.Errors) == 0
}

// Write renders the log. Events keep their recorded order; errors are
// grouped by reason with reasons sorted.
func (l *Log) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "MQA Scan Log\n")
	fmt.Fprintf(bw, "============\n")
	fmt.Fprintf(bw, "Run: %s\n\n", l.RunID)

	if len(l.Events) > 0 {
		fmt.Fprintf(bw, "Events\n------\n")
		for _, e := range l.Events {
			fmt.Fprintf(bw, "%s [%3d] %-6s %s: %s\n",
				e.Time.Format("15:04:05.000"), e.Index, e.Stage, e.Path, e.Message)
		}
		fmt.Fprintf(bw, "\n")
	}

	if len(l.Errors) > 0 {
		fmt.Fprintf(bw, "Errors\n------\n")
		reasons := make([]string, 0, len(l.Errors))
		for r := range l.Errors {
			reasons = append(reasons, r)
		}
		slices.Sort(reasons)
		for _, r := range reasons {
			fmt.Fprintf(bw, "Reason: %s\n", r)
			for _, p := range l.Errors[r] {
				fmt.Fprintf(bw, " - %s\n", p)
			}
			fmt.Fprintf(bw, "\n")
		}
	}

	return bw.Flush()
}

// WriteFile writes the log to path, replacing any previous log.
func (l *Log) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	if err := l.Write(f); err != nil {
		f.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("write log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
