// Package tracker holds the time-recording state machine: idle until a
// recording is started for a ticket, back to idle when it is stopped and the
// elapsed duration is handed to the caller for posting. Only one recording
// can be active at a time; switching tickets is the caller's decision (after
// confirming with the user) via Stop followed by Start.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dp-coding/zammad-tui/internal/zammad"
)

var (
	ErrAlreadyRecording = errors.New("a time recording is already active")
	ErrNotRecording     = errors.New("no active time recording")
)

// Recording is an in-progress time measurement for one ticket.
type Recording struct {
	Ticket    zammad.Ticket
	StartedAt time.Time
}

type Tracker struct {
	mu     sync.Mutex
	active *Recording
	now    func() time.Time
}

func New() *Tracker {
	return &Tracker{now: time.Now}
}

// Start begins recording for the given ticket. Fails with
// ErrAlreadyRecording while another recording is active.
func (t *Tracker) Start(ticket zammad.Ticket) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return ErrAlreadyRecording
	}
	t.active = &Recording{Ticket: ticket, StartedAt: t.now()}
	slog.Info("started time recording", "ticket", ticket.ID)
	return nil
}

// Active returns the current recording, if any.
func (t *Tracker) Active() (Recording, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return Recording{}, false
	}
	return *t.active, true
}

// Elapsed returns how long the active recording has been running, zero when
// idle.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return 0
	}
	return t.now().Sub(t.active.StartedAt)
}

// Stop ends the active recording and returns its ticket and the elapsed
// duration formatted as HH:MM:SS, ready to be posted.
func (t *Tracker) Stop() (zammad.Ticket, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return zammad.Ticket{}, "", ErrNotRecording
	}
	rec := *t.active
	t.active = nil
	elapsed := FormatClock(t.now().Sub(rec.StartedAt))
	slog.Info("stopped time recording", "ticket", rec.Ticket.ID, "elapsed", elapsed)
	return rec.Ticket, elapsed, nil
}

// Flush posts the active recording, if any, and swallows failures apart from
// logging them. Meant for the shutdown path where the host may be mid
// teardown and no dialog can be shown.
func (t *Tracker) Flush(svc *zammad.Service) {
	ticket, elapsed, err := t.Stop()
	if err != nil {
		return
	}
	if _, err := svc.CreateTimeAccountingEntry(ticket.ID, elapsed, ""); err != nil {
		slog.Warn("failed to flush time recording", "ticket", ticket.ID, "error", err)
	}
}

// FormatClock renders a duration as HH:MM:SS, the form the time accounting
// endpoint accepts.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
