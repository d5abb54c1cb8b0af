// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/folder2pdf/internal/convert"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

// fakeConverter reports canned results per folder name and records the
// requests it received. When gate is set, Convert blocks until it closes.
type fakeConverter struct {
	mu       sync.Mutex
	results  map[string]types.Result
	requests []convert.Request
	gate     chan struct{}
}

func (f *fakeConverter) Convert(ctx context.Context, req convert.Request) types.Result {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	req.Logger.Info().Msg("discovered images")
	for _, p := range []int{50, 100} {
		req.Progress(p)
	}
	if r, ok := f.results[filepath.Base(req.InputFolder)]; ok {
		return r
	}
	return types.Success(req.OutputPath, 2)
}

func drain(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("event channel not closed")
		}
	}
}

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, ev := range events {
		if ev.Kind != LogLine {
			out = append(out, ev.Kind)
		}
	}
	return out
}

func lines(events []Event) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == LogLine {
			out = append(out, ev.Line)
		}
	}
	return out
}

func mkdirs(t *testing.T, root string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, n := range names {
		p := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(p, 0o755))
		paths = append(paths, p)
	}
	return paths
}

func testConfig(t *testing.T) types.ConversionConfig {
	cfg := types.DefaultConversionConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "result")
	return cfg
}

func TestAddFolder_Deduplicates(t *testing.T) {
	root := t.TempDir()
	s := New(&fakeConverter{}, testConfig(t))

	added, err := s.AddFolder(filepath.Join(root, "vol1"))
	require.NoError(t, err)
	assert.True(t, added)

	for _, spelling := range []string{root + "/vol1/", root + "/./vol1", root + "/x/../vol1"} {
		added, err = s.AddFolder(spelling)
		require.NoError(t, err)
		assert.False(t, added, spelling)
	}

	_, err = s.AddFolder(filepath.Join(root, "vol2"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "vol1"), filepath.Join(root, "vol2")}, s.Folders())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Folders())
}

func TestStart_NoFolders(t *testing.T) {
	s := New(&fakeConverter{}, testConfig(t))
	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrNoFolders)
	assert.False(t, s.Running())
}

func TestStart_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 0
	s := New(&fakeConverter{}, cfg)
	_, err := s.AddFolder(t.TempDir())
	require.NoError(t, err)

	_, err = s.Start(context.Background())
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestStart_RunsFoldersSequentially(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "vol1", "vol2")
	conv := &fakeConverter{results: map[string]types.Result{
		"vol2": {Outcome: types.OutcomeNoMatchingFiles},
	}}
	cfg := testConfig(t)
	s := New(conv, cfg)
	for _, f := range folders {
		_, err := s.AddFolder(f)
		require.NoError(t, err)
	}

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	events := drain(t, ch)

	assert.Equal(t, []EventKind{
		FolderStarted, Progress, Progress, FolderFinished,
		FolderStarted, Progress, Progress, FolderFinished,
		Done,
	}, kinds(events))
	assert.False(t, s.Running())
	assert.DirExists(t, cfg.OutputDir)

	require.Len(t, conv.requests, 2)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "vol1.pdf"), conv.requests[0].OutputPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "vol2.pdf"), conv.requests[1].OutputPath)
	assert.Equal(t, []string{".jpg", ".jpeg"}, conv.requests[0].Extensions)
	assert.Equal(t, 50, conv.requests[0].BatchSize)

	last := events[len(events)-1]
	assert.Equal(t, Summary{Succeeded: 1, Empty: 1, Pages: 2}, last.Summary)

	var finished []Event
	for _, ev := range events {
		if ev.Kind == FolderFinished {
			finished = append(finished, ev)
		}
	}
	assert.Equal(t, 1, finished[0].Index)
	assert.Equal(t, 2, finished[0].Total)
	assert.Equal(t, types.OutcomeSuccess, finished[0].Result.Outcome)
	assert.Equal(t, types.OutcomeNoMatchingFiles, finished[1].Result.Outcome)
}

func TestStart_LogLinesAreForwarded(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "vol1")
	s := New(&fakeConverter{}, testConfig(t))
	_, err := s.AddFolder(folders[0])
	require.NoError(t, err)

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	got := lines(drain(t, ch))

	joined := strings.Join(got, "\n")
	assert.Contains(t, joined, "INF conversion started")
	assert.Contains(t, joined, "processing folder (1/1)")
	assert.Contains(t, joined, "discovered images")
	assert.Contains(t, joined, "Batch summary: 1 converted")
	assert.NotContains(t, joined, "run_id=", "identifiers stay out of the display lines")
	for _, l := range got {
		assert.NotContains(t, l, "\n")
	}
}

func TestStart_SkipsMissingFolders(t *testing.T) {
	root := t.TempDir()
	present := mkdirs(t, root, "vol1")
	conv := &fakeConverter{}
	s := New(conv, testConfig(t))
	_, err := s.AddFolder(filepath.Join(root, "ghost"))
	require.NoError(t, err)
	_, err = s.AddFolder(present[0])
	require.NoError(t, err)

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	events := drain(t, ch)

	require.Len(t, conv.requests, 1)
	assert.Equal(t, present[0], conv.requests[0].InputFolder)
	assert.Contains(t, strings.Join(lines(events), "\n"), "skipping missing folder")
	assert.Equal(t, 1, events[len(events)-1].Summary.Missing)
}

func TestStart_WarnsOnSharedOutputName(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "a/ch1", "b/ch1", "c/ch2")
	conv := &fakeConverter{}
	cfg := testConfig(t)
	s := New(conv, cfg)
	for _, f := range folders {
		_, err := s.AddFolder(f)
		require.NoError(t, err)
	}

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	got := lines(drain(t, ch))

	require.Len(t, conv.requests, 3)
	assert.Equal(t, conv.requests[0].OutputPath, conv.requests[1].OutputPath)

	var warnings []string
	for _, l := range got {
		if strings.Contains(l, "output name already used") {
			warnings = append(warnings, l)
		}
	}
	require.Len(t, warnings, 1, "only the second ch1 collides")
	assert.True(t, strings.HasPrefix(warnings[0], "WRN"))
	assert.Contains(t, warnings[0], folders[0])
}

func TestStart_RejectsConcurrentRunAndMutation(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "vol1")
	conv := &fakeConverter{gate: make(chan struct{})}
	s := New(conv, testConfig(t))
	_, err := s.AddFolder(folders[0])
	require.NoError(t, err)

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Running())

	_, err = s.Start(context.Background())
	assert.ErrorIs(t, err, ErrRunning)
	_, err = s.AddFolder(filepath.Join(root, "vol2"))
	assert.ErrorIs(t, err, ErrRunning)
	assert.ErrorIs(t, s.Clear(), ErrRunning)

	close(conv.gate)
	drain(t, ch)
	assert.False(t, s.Running())

	ch, err = s.Start(context.Background())
	require.NoError(t, err, "a finished session can run again")
	drain(t, ch)
}

func TestStart_CanceledContextStopsBeforeNextFolder(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "vol1", "vol2", "vol3")
	conv := &fakeConverter{}
	s := New(conv, testConfig(t))
	for _, f := range folders {
		_, err := s.AddFolder(f)
		require.NoError(t, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, err := s.Start(ctx)
	require.NoError(t, err)
	events := drain(t, ch)

	assert.Empty(t, conv.requests)
	sum := events[len(events)-1].Summary
	assert.Equal(t, 3, sum.Canceled)
	assert.True(t, sum.HasFailures())
}

func TestStart_LogSinkReceivesJSON(t *testing.T) {
	root := t.TempDir()
	folders := mkdirs(t, root, "vol1")
	var sink bytes.Buffer
	s := New(&fakeConverter{}, testConfig(t), WithLogSink(&sink))
	_, err := s.AddFolder(folders[0])
	require.NoError(t, err)

	ch, err := s.Start(context.Background())
	require.NoError(t, err)
	drain(t, ch)

	var runIDs = map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(sink.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		id, ok := entry["run_id"].(string)
		require.True(t, ok, line)
		runIDs[id] = true
	}
	assert.Len(t, runIDs, 1, "every line of a run carries the same run id")
}

func TestSummary(t *testing.T) {
	var s Summary
	s.Add(types.Success("a.pdf", 10))
	s.Add(types.Success("b.pdf", 5))
	s.Add(types.Result{Outcome: types.OutcomeNoPagesProduced})
	s.Add(types.Failure(errors.New("disk full")))
	s.Missing = 1

	assert.Equal(t, 5, s.Total())
	assert.True(t, s.HasFailures())
	assert.Equal(t,
		"Batch summary: 2 converted, 0 empty, 1 without pages, 1 failed, 1 missing (total: 5, pages: 15)",
		s.String())

	ok := Summary{Succeeded: 1, Empty: 2}
	assert.False(t, ok.HasFailures())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "progress", Progress.String())
	assert.Equal(t, "EventKind(42)", EventKind(42).String())
}
