package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// jobKind names the network call a job performs.
type jobKind string

const (
	jobKindSearch jobKind = "search"
	jobKindLike   jobKind = "like"
	jobKindStar   jobKind = "star"
	jobKindUpload jobKind = "upload"
	jobKindDetail jobKind = "detail"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID      string
	Kind    jobKind
	Status  jobStatus
	Err     string
	Elapsed time.Duration
}

// jobSignalMsg announces a job that has started.
type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobResultEnvelope carries a finished job's payload back to the update loop.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner returns its payload even on failure so the page can resolve the effect.
type jobRunner func(context.Context) (tea.Msg, error)

// jobBus turns network calls into commands. Each job gets its own deadline and ends in
// exactly one jobResultEnvelope.
type jobBus struct {
	seq     atomic.Int64
	timeout time.Duration
	logger  *zap.Logger
}

func newJobBus(logger *zap.Logger, timeout time.Duration) *jobBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &jobBus{timeout: timeout, logger: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	return fmt.Sprintf("%s-%d", kind, b.seq.Add(1))
}

// Start signals the job first, then runs it, so the spinner is up before any result.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	signal := func() tea.Msg {
		return jobSignalMsg{Snapshot: jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning}}
	}
	return tea.Sequence(signal, func() tea.Msg {
		return b.run(id, kind, started, runner)
	})
}

func (b *jobBus) run(id string, kind jobKind, started time.Time, runner jobRunner) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	payload, err := runner(ctx)
	snapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusSucceeded, Elapsed: time.Since(started)}
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	}
	b.logger.Info("job finished",
		zap.String("id", id),
		zap.String("kind", string(kind)),
		zap.String("status", string(snapshot.Status)),
		zap.Duration("duration", snapshot.Elapsed),
		zap.Error(err))
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}
