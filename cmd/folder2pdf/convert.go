// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/folder2pdf/internal/assemble"
	"github.com/pdiddy/folder2pdf/internal/convert"
	"github.com/pdiddy/folder2pdf/internal/imaging"
	"github.com/pdiddy/folder2pdf/internal/jobfile"
	"github.com/pdiddy/folder2pdf/internal/logging"
	"github.com/pdiddy/folder2pdf/internal/session"
	"github.com/pdiddy/folder2pdf/internal/ui"
)

var convertCmd = &cobra.Command{
	Use:   "convert [folders...]",
	Short: "Convert folders of images into one PDF each",
	Long: `Convert scans each folder (not recursively) for images with the selected
extensions, orders them by natural filename order, and writes
<output-dir>/<folder>.pdf with one page per readable image.

Unreadable images and failed batches are skipped and logged. Folders are
converted one after another; an interrupt stops the run at the next batch
boundary. The exit status is non-zero when any folder failed.`,
	RunE: runConvert,
}

func init() {
	addSelectionFlags(convertCmd)
	addConversionFlags(convertCmd)
	convertCmd.Flags().String("job", "", "read folders and settings from a YAML job file")
	convertCmd.Flags().String("save-job", "", "write the resolved folders and settings to a YAML job file")
	convertCmd.Flags().Bool("quiet", false, "hide progress bars and informational log lines")
	convertCmd.Flags().String("log-file", "", "append JSON log lines of the run to this file")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	var job *jobfile.Job
	if path, _ := cmd.Flags().GetString("job"); path != "" {
		j, err := jobfile.Read(path)
		if err != nil {
			return err
		}
		job = j
	}

	cfg, err := loadSettings(cmd, job)
	if err != nil {
		return err
	}

	var folders []string
	if job != nil {
		folders = append(folders, job.Folders...)
	}
	folders = append(folders, args...)
	if len(folders) == 0 {
		return fmt.Errorf("no folders given: pass folders as arguments or use --job")
	}

	if path, _ := cmd.Flags().GetString("save-job"); path != "" {
		if err := jobfile.Write(path, jobfile.FromConfig(folders, cfg)); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("job file saved")
	}

	var opts []session.Option
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts = append(opts, session.WithLogSink(f))
	}
	opts = append(opts, session.WithLevel(logger.GetLevel()))

	conv := convert.NewConverter(imaging.NewCodec(), assemble.New(cfg.DPI, cfg.JPEGQuality), logger)
	conv.TempDir = cfg.TempDir

	sess := session.New(conv, cfg, opts...)
	for _, f := range folders {
		if _, err := sess.AddFolder(f); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := sess.Start(ctx)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	sum := render(ctx, os.Stderr, ui.New(os.Stderr, quiet), events)
	if sum.HasFailures() {
		return fmt.Errorf("%d of %d folders did not convert", sum.Failed+sum.NoPages+sum.Canceled, sum.Total())
	}
	return nil
}

// render drains events on r and writes a notice to w as soon as ctx ends.
// It returns once the event channel is closed.
func render(ctx context.Context, w io.Writer, r *ui.Renderer, events <-chan session.Event) session.Summary {
	var sum session.Summary
	done := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		sum = r.Render(events)
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "Interrupted: stopping after the current batch")
		case <-done:
		}
		return nil
	})
	// Neither goroutine fails; Wait only joins them.
	_ = g.Wait()
	return sum
}
