// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui renders session events on a terminal: one progress bar per
// folder, forwarded log lines, and a coloured status line per result.
package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/folder2pdf/internal/session"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Renderer writes events to out.
type Renderer struct {
	out   io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

// New returns a Renderer writing to out. In quiet mode progress bars and
// informational log lines are suppressed; warnings, results and the
// summary are still shown.
func New(out io.Writer, quiet bool) *Renderer {
	return &Renderer{out: out, quiet: quiet}
}

// Render consumes events until the channel closes and returns the summary
// carried by the Done event.
func (r *Renderer) Render(events <-chan session.Event) session.Summary {
	var sum session.Summary
	for ev := range events {
		switch ev.Kind {
		case session.FolderStarted:
			r.startBar(ev)
		case session.Progress:
			if r.bar != nil {
				_ = r.bar.Set(ev.Percent)
			}
		case session.LogLine:
			r.logLine(ev.Line)
		case session.FolderFinished:
			r.finishBar()
			r.result(ev)
		case session.Done:
			sum = ev.Summary
			r.summary(sum)
		}
	}
	r.finishBar()
	return sum
}

func (r *Renderer) startBar(ev session.Event) {
	r.finishBar()
	if r.quiet {
		return
	}
	r.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", ev.Index, ev.Total, filepath.Base(ev.Folder))),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
	)
}

func (r *Renderer) finishBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// logLine prints a forwarded log line above the bar. Lines are rendered by
// a console writer without timestamps, so the level is the first token.
func (r *Renderer) logLine(line string) {
	level, _, _ := strings.Cut(line, " ")
	switch level {
	case "WRN":
		line = yellow(line)
	case "ERR", "FTL", "PNC":
		line = red(line)
	default:
		if r.quiet {
			return
		}
	}
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, line)
}

func (r *Renderer) result(ev session.Event) {
	name := filepath.Base(ev.Folder)
	res := ev.Result
	switch res.Outcome {
	case types.OutcomeSuccess:
		fmt.Fprintf(r.out, "%s %s: %s\n", green("✓"), name, res)
	case types.OutcomeNoMatchingFiles:
		fmt.Fprintf(r.out, "%s %s: %s\n", yellow("⚠"), name, res)
	default:
		fmt.Fprintf(r.out, "%s %s: %s\n", red("✗"), name, res)
	}
}

func (r *Renderer) summary(sum session.Summary) {
	line := bold(sum.String())
	if sum.HasFailures() {
		line = red(sum.String())
	}
	fmt.Fprintln(r.out, line)
}
