// Package confirm implements the yes/no step between a panel press and the remote call.
//
// Every press creates its own Workflow. A workflow leaves Created exactly once: the
// requester confirms, the requester cancels, or the timeout fires. Whichever arrives
// first wins the transition and the others are rejected with ErrNotPending.
package confirm

import (
	"context"
	"dropletbot/internal/clock"
	"dropletbot/internal/domain"
	"dropletbot/internal/droplet"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeout = 30 * time.Second
	CanceledText   = "Action canceled."
)

var (
	ErrNotPending   = errors.New("confirmation is no longer pending")
	ErrNotRequester = errors.New("confirmation belongs to another user")
)

type State int

const (
	Created State = iota
	Confirmed
	Canceled
	Expired
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Confirmed:
		return "confirmed"
	case Canceled:
		return "canceled"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Executor runs a confirmed action. *droplet.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, action domain.Action) droplet.Result
}

type Workflow struct {
	ID          string
	Action      domain.Action
	RequestedBy string
	CreatedAt   time.Time

	mu       sync.Mutex
	state    State
	executed bool
	timer    clock.Timer
	done     chan struct{}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Done is closed when the workflow reaches a terminal state.
func (w *Workflow) Done() <-chan struct{} {
	return w.done
}

// Prompt is the question shown with the Confirm and Cancel buttons.
func (w *Workflow) Prompt() string {
	return fmt.Sprintf("Are you sure you want to %s the droplet?", w.Action.Kind)
}

func (w *Workflow) finish(to State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Created {
		return false
	}
	w.state = to
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return true
}

// Manager owns the live workflows and their expiry timers.
type Manager struct {
	exec    Executor
	clock   clock.Clock
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]*Workflow
}

func NewManager(exec Executor, clk clock.Clock, timeout time.Duration) *Manager {
	if clk == nil {
		clk = clock.Real()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		exec:    exec,
		clock:   clk,
		timeout: timeout,
		pending: make(map[string]*Workflow),
	}
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Request creates a workflow in the Created state and arms its timeout.
func (m *Manager) Request(action domain.Action, requestedBy string) *Workflow {
	w := &Workflow{
		ID:          uuid.NewString(),
		Action:      action,
		RequestedBy: requestedBy,
		CreatedAt:   m.clock.Now(),
		done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.pending[w.ID] = w
	m.mu.Unlock()

	// finish reads timer under w.mu.
	w.mu.Lock()
	w.timer = m.clock.AfterFunc(m.timeout, func() { m.expire(w) })
	w.mu.Unlock()

	return w
}

// Get returns a live workflow.
func (m *Manager) Get(id string) (*Workflow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.pending[id]
	return w, ok
}

func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Confirm accepts the workflow and runs its action. See Accept and Run for callers that
// need to acknowledge the press before the remote call returns.
func (m *Manager) Confirm(ctx context.Context, id string, actorID string) (droplet.Result, error) {
	w, err := m.Accept(id, actorID)
	if err != nil {
		return droplet.Result{}, err
	}
	return m.Run(ctx, w), nil
}

// Accept moves the workflow to Confirmed without calling the executor.
func (m *Manager) Accept(id string, actorID string) (*Workflow, error) {
	return m.claim(id, actorID, Confirmed)
}

// Run executes the action of an accepted workflow. Only the first call on a confirmed
// workflow reaches the executor.
func (m *Manager) Run(ctx context.Context, w *Workflow) droplet.Result {
	w.mu.Lock()
	if w.state != Confirmed || w.executed {
		w.mu.Unlock()
		return droplet.Result{Message: ErrNotPending.Error()}
	}
	w.executed = true
	w.mu.Unlock()

	result := m.exec.Execute(ctx, w.Action)
	if !result.OK {
		log.Printf("Warning: %s requested by %s failed: %s", w.Action, w.RequestedBy, result.Message)
	}
	return result
}

func (m *Manager) Cancel(id string, actorID string) (string, error) {
	if _, err := m.claim(id, actorID, Canceled); err != nil {
		return "", err
	}
	return CanceledText, nil
}

func (m *Manager) claim(id string, actorID string, to State) (*Workflow, error) {
	w, ok := m.Get(id)
	if !ok {
		return nil, ErrNotPending
	}
	if actorID != w.RequestedBy {
		return nil, ErrNotRequester
	}
	if !w.finish(to) {
		return nil, ErrNotPending
	}
	m.remove(w.ID)
	return w, nil
}

func (m *Manager) expire(w *Workflow) {
	if w.finish(Expired) {
		m.remove(w.ID)
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}
