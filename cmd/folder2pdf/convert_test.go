// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/folder2pdf/internal/session"
	"github.com/pdiddy/folder2pdf/internal/ui"
)

// notifyWriter records writes and closes wrote after the first one.
type notifyWriter struct {
	buf   bytes.Buffer
	wrote chan struct{}
}

func (w *notifyWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if w.buf.Len() == n {
		close(w.wrote)
	}
	return n, err
}

func TestRender_ReturnsSummary(t *testing.T) {
	color.NoColor = true
	want := session.Summary{Succeeded: 2, Pages: 7}
	events := make(chan session.Event, 1)
	events <- session.Event{Kind: session.Done, Summary: want}
	close(events)

	var notice bytes.Buffer
	sum := render(context.Background(), &notice, ui.New(io.Discard, true), events)

	assert.Equal(t, want, sum)
	assert.Empty(t, notice.String())
}

func TestRender_ReportsInterrupt(t *testing.T) {
	color.NoColor = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notice := &notifyWriter{wrote: make(chan struct{})}
	events := make(chan session.Event)
	go func() {
		<-notice.wrote
		events <- session.Event{Kind: session.Done, Summary: session.Summary{Canceled: 1}}
		close(events)
	}()

	sum := render(ctx, notice, ui.New(io.Discard, true), events)

	assert.Equal(t, 1, sum.Canceled)
	assert.Contains(t, notice.buf.String(), "Interrupted")
}
