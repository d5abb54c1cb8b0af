// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"strings"

	"github.com/pdiddy/folder2pdf/pkg/types"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// FolderStarted is sent before a folder is converted.
	FolderStarted EventKind = iota
	// Progress carries the percentage of the current folder's files attempted.
	Progress
	// LogLine carries one rendered log line.
	LogLine
	// FolderFinished carries the folder's Result.
	FolderFinished
	// Done is the last event of a run and carries the Summary.
	Done
)

func (k EventKind) String() string {
	switch k {
	case FolderStarted:
		return "folder_started"
	case Progress:
		return "progress"
	case LogLine:
		return "log"
	case FolderFinished:
		return "folder_finished"
	case Done:
		return "done"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a notification from the worker to the presentation layer.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// Folder, Index and Total identify the folder (Index is 1-based).
	Folder string
	Index  int
	Total  int

	Percent int
	Line    string
	Result  types.Result
	Summary Summary
}

// Summary tallies the folders of one run.
type Summary struct {
	Succeeded int
	Empty     int
	NoPages   int
	Failed    int
	Missing   int
	Canceled  int
	Pages     int
}

// Add counts one folder result.
func (s *Summary) Add(r types.Result) {
	switch r.Outcome {
	case types.OutcomeSuccess:
		s.Succeeded++
		s.Pages += r.PageCount
	case types.OutcomeNoMatchingFiles:
		s.Empty++
	case types.OutcomeNoPagesProduced:
		s.NoPages++
	default:
		s.Failed++
	}
}

// Total returns the number of folders in the run.
func (s Summary) Total() int {
	return s.Succeeded + s.Empty + s.NoPages + s.Failed + s.Missing + s.Canceled
}

// HasFailures reports whether any folder failed or was not reached.
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.NoPages > 0 || s.Canceled > 0
}

// String renders the summary line printed at the end of a run.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch summary: %d converted, %d empty, %d without pages, %d failed, %d missing",
		s.Succeeded, s.Empty, s.NoPages, s.Failed, s.Missing)
	if s.Canceled > 0 {
		fmt.Fprintf(&b, ", %d canceled", s.Canceled)
	}
	fmt.Fprintf(&b, " (total: %d, pages: %d)", s.Total(), s.Pages)
	return b.String()
}

// eventWriter turns each write from the line logger into a LogLine event.
type eventWriter struct {
	ch chan<- Event
}

func (w eventWriter) Write(p []byte) (int, error) {
	w.ch <- Event{Kind: LogLine, Line: strings.TrimRight(string(p), "\n")}
	return len(p), nil
}
