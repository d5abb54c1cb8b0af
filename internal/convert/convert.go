// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a folder of images into one PDF. Images are
// decoded in bounded batches, each batch is rendered to an intermediate
// document in a private workspace, and the intermediate documents are
// merged into the output. Failures of single images or batches are logged
// and skipped; only problems outside that scope fail the conversion.
package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/folder2pdf/internal/assemble"
	"github.com/pdiddy/folder2pdf/internal/fsutil"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

var (
	// ErrDiscovery is wrapped when the input folder cannot be listed.
	ErrDiscovery = errors.New("discovering images")

	// ErrWorkspace is wrapped when the temporary workspace cannot be created.
	ErrWorkspace = errors.New("creating workspace")

	// ErrFinalize is wrapped when the merged output cannot be written.
	ErrFinalize = errors.New("finalizing output")

	// ErrCanceled is wrapped when the context ends between batches.
	ErrCanceled = errors.New("conversion canceled")
)

// workspacePattern names the per-run temporary directory.
const workspacePattern = "folder2pdf-*"

// Codec decodes image files and prepares them for page rendering.
type Codec interface {
	// Decode loads the image at path.
	Decode(path string) (image.Image, error)

	// Opaque returns img without an alpha channel. It takes ownership of
	// img; the caller releases the returned image only.
	Opaque(img image.Image) image.Image

	// Release frees resources held by a decoded image.
	Release(img image.Image)
}

// Assembler renders images to documents and merges documents.
type Assembler interface {
	// Render writes images to a new document at path, one page each.
	Render(images []image.Image, path string) error

	// NewMerge returns an empty accumulator for the output document.
	NewMerge() assemble.Merge
}

// Request describes one folder conversion.
type Request struct {
	// InputFolder is scanned non-recursively for images.
	InputFolder string

	// OutputPath receives the merged PDF.
	OutputPath string

	// Extensions lists the allowed suffixes, matched case-insensitively.
	Extensions []string

	// BatchSize bounds how many decoded images are held at once
	// (default 50).
	BatchSize int

	// Progress, when set, is called after every file attempt with the
	// share of files attempted so far, 0-100.
	Progress func(percent int)

	// Logger overrides the converter's logger for this request.
	Logger *zerolog.Logger
}

// Converter runs folder conversions. A Converter holds no per-run state
// and may be reused for any number of sequential or concurrent runs.
type Converter struct {
	codec Codec
	asm   Assembler
	log   zerolog.Logger

	// TempDir is the parent directory for workspaces. Empty means the OS
	// default temporary directory.
	TempDir string
}

// NewConverter returns a Converter using the given collaborators.
func NewConverter(codec Codec, asm Assembler, log zerolog.Logger) *Converter {
	return &Converter{codec: codec, asm: asm, log: log}
}

// Convert converts req.InputFolder into req.OutputPath and reports how it
// went. The temporary workspace is removed before Convert returns,
// whatever the outcome. Source images are never modified.
func (c *Converter) Convert(ctx context.Context, req Request) types.Result {
	log := c.log
	if req.Logger != nil {
		log = *req.Logger
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = types.DefaultBatchSize
	}

	files, err := Discover(req.InputFolder, req.Extensions)
	if err != nil {
		log.Error().Err(err).Msg("cannot list input folder")
		return types.Failure(err)
	}
	if len(files) == 0 {
		log.Info().Strs("extensions", req.Extensions).Msg("no matching files")
		return types.Result{Outcome: types.OutcomeNoMatchingFiles}
	}
	log.Info().Int("total", len(files)).Int("batch_size", batchSize).Msg("discovered images")

	ws, err := os.MkdirTemp(c.TempDir, workspacePattern)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrWorkspace, err)
		log.Error().Err(err).Msg("cannot create workspace")
		res := types.Failure(err)
		res.Files = len(files)
		return res
	}
	defer c.cleanup(ws, log)

	res := types.Result{Files: len(files)}
	merge := c.asm.NewMerge()
	p := newProgress(len(files), req.Progress)

	for index, start := 0, 0; start < len(files); index, start = index+1, start+batchSize {
		if err := ctx.Err(); err != nil {
			log.Warn().Int("batch", index+1).Msg("conversion canceled")
			return c.fail(res, fmt.Errorf("%w: %w", ErrCanceled, err))
		}
		end := min(start+batchSize, len(files))
		br := c.RunBatch(ws, index, files[start:end], merge, log, p.step)
		res.DecodeFailures += br.DecodeFailures
		if br.Err != nil {
			res.BatchFailures++
		}
	}

	res.Documents = merge.Documents()
	if res.Documents == 0 {
		log.Warn().Int("files", len(files)).Int("decode_failures", res.DecodeFailures).
			Msg("no pages produced")
		res.Outcome = types.OutcomeNoPagesProduced
		return res
	}

	began := time.Now()
	log.Info().Int("documents", res.Documents).Msg("merging intermediate documents")
	if err := merge.Write(req.OutputPath); err != nil {
		err = fmt.Errorf("%w: %w", ErrFinalize, err)
		log.Error().Err(err).Msg("cannot write output")
		return c.fail(res, err)
	}
	log.Info().Int("documents", res.Documents).Int("pages", merge.Pages()).
		Dur("elapsed", time.Since(began)).Str("output", req.OutputPath).Msg("merge complete")

	res.Outcome = types.OutcomeSuccess
	res.OutputPath = req.OutputPath
	res.PageCount = merge.Pages()
	return res
}

// fail turns a partially filled result into a failure, keeping its counters.
func (c *Converter) fail(res types.Result, reason error) types.Result {
	res.Outcome = types.OutcomeFailure
	res.Reason = reason
	return res
}

// cleanup removes the workspace. Leftover files are reported as warnings.
func (c *Converter) cleanup(ws string, log zerolog.Logger) {
	for _, err := range fsutil.CleanDir(ws) {
		log.Warn().Err(err).Str("workspace", ws).Msg("workspace cleanup incomplete")
	}
}

// progress converts file attempts into a percentage and reports it.
type progress struct {
	total    int
	attempts int
	report   func(int)
}

func newProgress(total int, report func(int)) *progress {
	return &progress{total: total, report: report}
}

func (p *progress) step() {
	p.attempts++
	if p.report != nil {
		p.report(p.attempts * 100 / p.total)
	}
}
