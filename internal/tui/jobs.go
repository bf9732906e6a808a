package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindNotes    jobKind = "notes"
	jobKindMindMap  jobKind = "mindmap"
	jobKindPath     jobKind = "path"
	jobKindChat     jobKind = "chat"
	jobKindAttach   jobKind = "attach"
	jobKindSnapshot jobKind = "snapshot"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

// jobSnapshot is the point-in-time state of one job, surfaced as a status
// bar badge.
type jobSnapshot struct {
	ID         string
	Kind       jobKind
	Status     jobStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Elapsed    time.Duration
	Err        string
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs one-shot background jobs for the model. It owns the deadline:
// every runner gets a context that expires after the bus timeout, so
// individual runners never manage their own timers.
type jobBus struct {
	timeout time.Duration
	counter int64
}

func newJobBus(timeout time.Duration) *jobBus {
	return &jobBus{timeout: timeout}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start issues a running badge immediately, then executes the runner under
// the bus deadline and wraps whatever it produced in a result envelope.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	ticket := jobSnapshot{
		ID:        b.nextID(kind),
		Kind:      kind,
		Status:    jobStatusRunning,
		StartedAt: time.Now(),
	}
	signal := func() tea.Msg {
		return jobSignalMsg{Snapshot: ticket}
	}
	run := func() tea.Msg {
		return b.execute(ticket, runner)
	}
	return tea.Sequence(signal, run)
}

func (b *jobBus) execute(ticket jobSnapshot, runner jobRunner) tea.Msg {
	ctx := context.Background()
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	payload, err := runner(ctx)

	ticket.FinishedAt = time.Now()
	ticket.Elapsed = ticket.FinishedAt.Sub(ticket.StartedAt)
	if err != nil {
		ticket.Status = jobStatusFailed
		ticket.Err = err.Error()
	} else {
		ticket.Status = jobStatusSucceeded
	}
	log.Printf("[jobs] %s %s in %s (err=%v)", ticket.Kind, ticket.Status, ticket.Elapsed, err)
	return jobResultEnvelope{Snapshot: ticket, Payload: payload}
}
