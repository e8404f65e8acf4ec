package mqascan

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/simonhull/mqascan/internal/report"
)

// Event is an alias to report.Event.
type Event = report.Event

// Event stages.
const (
	StageStart  = "start"
	StageDetect = "detect"
	StageTag    = "tag"
	StageError  = "error"
	StageFinish = "finish"
)

// Aggregate is the state shared by the tasks of one run. Counters are
// independent of each other; totals are final once every task has joined.
type Aggregate struct {
	scanned  atomic.Int64
	detected atomic.Int64

	errMu  sync.Mutex
	errors map[string][]string // reason -> paths

	eventMu sync.Mutex
	events  []Event
	verbose bool
}

func newAggregate(verbose bool) *Aggregate {
	return &Aggregate{
		errors:  make(map[string][]string),
		verbose: verbose,
	}
}

// Scanned returns the number of files whose task has completed.
func (a *Aggregate) Scanned() int64 { return a.scanned.Load() }

// Detected returns the number of files found to carry the watermark.
func (a *Aggregate) Detected() int64 { return a.detected.Load() }

// record merges a task outcome. It is called exactly once per task.
func (a *Aggregate) record(out Outcome) {
	switch {
	case out.Err != nil:
		a.fail(out.Index, out.Path, out.Err)
	case out.Result.Detected:
		a.detected.Add(1)
		if out.TagErr != nil {
			a.fail(out.Index, out.Path, out.TagErr)
		}
	}
	a.scanned.Add(1)
}

// fail files path under the reason of err.
func (a *Aggregate) fail(index int, path string, err error) {
	reason := Reason(err)
	a.errMu.Lock()
	a.errors[reason] = append(a.errors[reason], path)
	a.errMu.Unlock()
	a.event(index, path, StageError, err.Error())
}

// event appends to the event log when verbose.
func (a *Aggregate) event(index int, path, stage, msg string) {
	if !a.verbose {
		return
	}
	e := Event{Time: time.Now(), Index: index, Path: path, Stage: stage, Message: msg}
	a.eventMu.Lock()
	a.events = append(a.events, e)
	a.eventMu.Unlock()
}

// summary snapshots the aggregate. Call only after all tasks joined.
func (a *Aggregate) summary(runID string, elapsed time.Duration) *Summary {
	a.errMu.Lock()
	errs := make(map[string][]string, len(a.errors))
	for r, paths := range a.errors {
		errs[r] = append([]string(nil), paths...)
	}
	a.errMu.Unlock()

	a.eventMu.Lock()
	events := append([]Event(nil), a.events...)
	a.eventMu.Unlock()

	return &Summary{
		RunID:    runID,
		Scanned:  a.Scanned(),
		Detected: a.Detected(),
		Errors:   errs,
		Events:   events,
		Elapsed:  elapsed,
	}
}

// Summary holds the final totals and logs of a run.
type Summary struct {
	RunID    string
	Scanned  int64
	Detected int64
	Errors   map[string][]string // reason -> paths
	Events   []Event             // only populated in verbose mode
	Elapsed  time.Duration
}

// ErrorCount returns the number of recorded per-file errors.
func (s *Summary) ErrorCount() int {
	n := 0
	for _, paths := range s.Errors {
		n += len(paths)
	}
	return n
}

// HasLog reports whether WriteLog would write anything.
func (s *Summary) HasLog() bool {
	return !s.log().Empty()
}

// WriteLog writes the event log and the errors grouped by reason to path.
func (s *Summary) WriteLog(path string) error {
	return s.log().WriteFile(path)
}

func (s *Summary) log() *report.Log {
	return &report.Log{RunID: s.RunID, Events: s.Events, Errors: s.Errors}
}
