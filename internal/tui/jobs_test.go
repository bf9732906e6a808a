package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobBusIDsIncrementPerKind(t *testing.T) {
	t.Parallel()

	bus := newJobBus(0)
	first := bus.nextID(jobKindNotes)
	second := bus.nextID(jobKindChat)
	if first == second {
		t.Fatalf("IDs must be unique: %s vs %s", first, second)
	}
	if first != "notes-1" || second != "chat-2" {
		t.Fatalf("unexpected IDs: %s, %s", first, second)
	}
}

func TestJobBusSetsRunnerDeadline(t *testing.T) {
	t.Parallel()

	bus := newJobBus(time.Minute)
	ticket := jobSnapshot{ID: "notes-1", Kind: jobKindNotes, Status: jobStatusRunning, StartedAt: time.Now()}

	var deadline time.Time
	var hasDeadline bool
	bus.execute(ticket, func(ctx context.Context) (tea.Msg, error) {
		deadline, hasDeadline = ctx.Deadline()
		return nil, nil
	})

	if !hasDeadline {
		t.Fatal("runner context should carry the bus deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > time.Minute {
		t.Fatalf("deadline outside the bus timeout: %s remaining", remaining)
	}
}

func TestJobBusExpiresSlowRunners(t *testing.T) {
	t.Parallel()

	bus := newJobBus(10 * time.Millisecond)
	ticket := jobSnapshot{ID: "chat-1", Kind: jobKindChat, Status: jobStatusRunning, StartedAt: time.Now()}

	msg := bus.execute(ticket, func(ctx context.Context) (tea.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	envelope, ok := msg.(jobResultEnvelope)
	if !ok {
		t.Fatalf("expected a result envelope, got %T", msg)
	}
	if envelope.Snapshot.Status != jobStatusFailed {
		t.Fatalf("expired job should be failed, got %s", envelope.Snapshot.Status)
	}
	if envelope.Snapshot.Err == "" {
		t.Fatal("failure reason should be recorded on the badge")
	}
}

func TestJobBusWrapsPayloadAndOutcome(t *testing.T) {
	t.Parallel()

	bus := newJobBus(time.Minute)
	ticket := jobSnapshot{ID: "path-1", Kind: jobKindPath, Status: jobStatusRunning, StartedAt: time.Now()}

	msg := bus.execute(ticket, func(context.Context) (tea.Msg, error) {
		return pathResultMsg{}, nil
	})
	envelope := msg.(jobResultEnvelope)
	if envelope.Snapshot.Status != jobStatusSucceeded {
		t.Fatalf("expected success, got %s", envelope.Snapshot.Status)
	}
	if _, ok := envelope.Payload.(pathResultMsg); !ok {
		t.Fatalf("payload lost in transit: %#v", envelope.Payload)
	}
	if envelope.Snapshot.FinishedAt.IsZero() || envelope.Snapshot.Elapsed < 0 {
		t.Fatalf("timing not recorded: %#v", envelope.Snapshot)
	}

	failing := bus.execute(ticket, func(context.Context) (tea.Msg, error) {
		return pathResultMsg{err: errors.New("boom")}, errors.New("boom")
	})
	if failing.(jobResultEnvelope).Snapshot.Status != jobStatusFailed {
		t.Fatal("runner errors should mark the badge failed")
	}
}
