// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session runs multi-folder conversions on a background worker.
// A Session owns the folder list and the running state; a run reports back
// only through the event channel returned by Start.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/folder2pdf/internal/convert"
	"github.com/pdiddy/folder2pdf/internal/fsutil"
	"github.com/pdiddy/folder2pdf/internal/logging"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

var (
	// ErrRunning is returned when the session is busy with a run.
	ErrRunning = errors.New("a conversion is already running")

	// ErrNoFolders is returned by Start when no folder has been added.
	ErrNoFolders = errors.New("no folders selected")
)

// EventBuffer is the capacity of the channel returned by Start.
const EventBuffer = 64

// Converter converts one folder.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) types.Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogSink copies every log event, as JSON, to w.
func WithLogSink(w io.Writer) Option {
	return func(s *Session) { s.sink = w }
}

// WithLevel sets the minimum level of forwarded log lines (default info).
func WithLevel(level zerolog.Level) Option {
	return func(s *Session) { s.level = level }
}

// Session holds the folders queued for conversion and runs them.
type Session struct {
	conv  Converter
	cfg   types.ConversionConfig
	sink  io.Writer
	level zerolog.Level

	mu      sync.Mutex
	folders []string
	running bool
}

// New returns an idle session converting with conv using cfg.
func New(conv Converter, cfg types.ConversionConfig, opts ...Option) *Session {
	s := &Session{conv: conv, cfg: cfg, level: zerolog.InfoLevel}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddFolder queues path. Paths are made absolute and cleaned, so the same
// folder spelled differently is queued once. It reports whether path was
// newly added. Output files are named after the folder's base name, so two
// folders sharing a base name write the same PDF; the later one replaces
// the earlier and the run logs a warning.
func (s *Session) AddFolder(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false, ErrRunning
	}
	if slices.Contains(s.folders, abs) {
		return false, nil
	}
	s.folders = append(s.folders, abs)
	return true, nil
}

// Clear empties the folder list.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	s.folders = nil
	return nil
}

// Folders returns a copy of the queued folders in the order added.
func (s *Session) Folders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders)
}

// Running reports whether a run is in progress.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start validates the configuration, creates the output directory and
// converts the queued folders one after another on a background worker.
// Each folder produces <OutputDir>/<folder name>.pdf. The returned channel
// carries the run's events and is closed after the Done event; the caller
// must drain it. Canceling ctx stops the run at the next batch boundary.
func (s *Session) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, ErrRunning
	}
	if len(s.folders) == 0 {
		return nil, ErrNoFolders
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	exts, err := s.cfg.AllowedExtensions()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", s.cfg.OutputDir, err)
	}

	s.running = true
	ch := make(chan Event, EventBuffer)
	go s.run(ctx, slices.Clone(s.folders), exts, ch)
	return ch, nil
}

// run is the worker. It is the only sender on ch.
func (s *Session) run(ctx context.Context, folders, exts []string, ch chan<- Event) {
	var sum Summary
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		ch <- Event{Kind: Done, Summary: sum}
		close(ch)
	}()

	base := s.logger(ch)
	base.Info().Int("folders", len(folders)).Strs("extensions", exts).Msg("conversion started")

	// output path -> folder that wrote it
	written := make(map[string]string, len(folders))

	for i, folder := range folders {
		if ctx.Err() != nil {
			sum.Canceled = len(folders) - i
			base.Warn().Int("remaining", sum.Canceled).Msg("run canceled")
			return
		}

		name := filepath.Base(folder)
		log := base.With().Str("folder", name).Logger()
		if !fsutil.IsDir(folder) {
			sum.Missing++
			log.Warn().Str("path", folder).Msg("skipping missing folder")
			continue
		}

		output := filepath.Join(s.cfg.OutputDir, name+".pdf")
		if prev, ok := written[output]; ok {
			log.Warn().Str("output", output).Str("previous", prev).
				Msg("output name already used in this run, replacing earlier PDF")
		}
		written[output] = folder

		ch <- Event{Kind: FolderStarted, Folder: folder, Index: i + 1, Total: len(folders)}
		log.Info().Msgf("processing folder (%d/%d)", i+1, len(folders))

		res := s.conv.Convert(ctx, convert.Request{
			InputFolder: folder,
			OutputPath:  output,
			Extensions:  exts,
			BatchSize:   s.cfg.BatchSize,
			Progress: func(percent int) {
				ch <- Event{Kind: Progress, Folder: folder, Index: i + 1, Total: len(folders), Percent: percent}
			},
			Logger: &log,
		})
		sum.Add(res)
		ch <- Event{Kind: FolderFinished, Folder: folder, Index: i + 1, Total: len(folders), Result: res}
	}
	base.Info().Msg(sum.String())
}

// logger builds the per-run logger: plain lines become LogLine events and,
// when a sink is set, the same events are written to it as JSON.
func (s *Session) logger(ch chan<- Event) zerolog.Logger {
	lines := logging.LineWriter(eventWriter{ch: ch})
	lines.FieldsExclude = []string{"run_id", "folder"}

	var w io.Writer = lines
	if s.sink != nil {
		w = zerolog.MultiLevelWriter(lines, s.sink)
	}
	return zerolog.New(w).Level(s.level).With().Timestamp().
		Str("run_id", uuid.NewString()).Logger()
}
