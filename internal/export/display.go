package export

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Event is an event sent to a Display via the progress channel.
// Implemented by ProgressMsg and DoneMsg.
type Event interface {
	isEvent()
}

// Verify at compile time that message types implement Event.
var (
	_ Event = ProgressMsg{}
	_ Event = DoneMsg{}
)

// ProgressMsg reports that another batch of detail fetches has settled.
type ProgressMsg struct {
	Fetched int // entries attempted so far
	Total   int
}

func (ProgressMsg) isEvent() {}

// DoneMsg reports the final resolved/missing split.
type DoneMsg struct {
	Resolved int
	Missing  int
}

func (DoneMsg) isEvent() {}

// Bridge manages the channel between the Runner and a Display consumer.
type Bridge struct {
	ch chan Event
}

// NewBridge creates a Bridge with a buffered event channel.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan Event, 16)}
}

// Events returns the read-only channel for Display.Run() to consume.
func (b *Bridge) Events() <-chan Event {
	return b.ch
}

// Send delivers a ProgressMsg to the display.
// It blocks if the channel buffer (16) is full.
func (b *Bridge) Send(msg ProgressMsg) {
	b.ch <- msg
}

// Done signals export completion and closes the channel.
func (b *Bridge) Done(resolved, missing int) {
	b.ch <- DoneMsg{Resolved: resolved, Missing: missing}
	close(b.ch)
}

// Display renders export progress events.
type Display interface {
	Run(ctx context.Context, events <-chan Event) error
}

// PlainDisplay renders progress as timestamped text lines.
type PlainDisplay struct {
	w io.Writer
}

// NewPlainDisplay creates a PlainDisplay writing to w.
func NewPlainDisplay(w io.Writer) *PlainDisplay {
	return &PlainDisplay{w: w}
}

// Run loops over events, printing each progress update as a text line.
// Returns the context error if cancelled before the export finishes.
func (d *PlainDisplay) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			ts := time.Now().Format("15:04:05")
			switch msg := ev.(type) {
			case ProgressMsg:
				_, _ = fmt.Fprintf(d.w, "[%s] fetched %d/%d\n", ts, msg.Fetched, msg.Total)
			case DoneMsg:
				_, _ = fmt.Fprintf(d.w, "[%s] done: %d resolved, %d missing\n", ts, msg.Resolved, msg.Missing)
				return nil
			}
		}
	}
}
