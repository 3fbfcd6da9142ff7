package confirm

import (
	"context"
	"dropletbot/internal/clock"
	"dropletbot/internal/domain"
	"dropletbot/internal/droplet"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	mu      sync.Mutex
	actions []domain.Action
	result  droplet.Result
}

func (r *recordingExecutor) Execute(_ context.Context, action domain.Action) droplet.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return r.result
}

func (r *recordingExecutor) Calls() []domain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Action(nil), r.actions...)
}

func newTestManager() (*Manager, *recordingExecutor, *clock.Fake) {
	exec := &recordingExecutor{result: droplet.Result{OK: true, Message: "Droplet resizing initiated successfully."}}
	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewManager(exec, clk, DefaultTimeout), exec, clk
}

func TestConfirmExecutesExactlyOnce(t *testing.T) {
	m, exec, clk := newTestManager()
	w := m.Request(domain.Resize(domain.TierPeakUsage), "user-1")

	assert.Equal(t, Created, w.State())
	assert.Equal(t, clk.Now(), w.CreatedAt)
	assert.Equal(t, "Are you sure you want to resize the droplet?", w.Prompt())

	result, err := m.Confirm(context.Background(), w.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Droplet resizing initiated successfully.", result.Message)
	assert.Equal(t, []domain.Action{domain.Resize(domain.TierPeakUsage)}, exec.Calls())
	assert.Equal(t, Confirmed, w.State())

	_, err = m.Confirm(context.Background(), w.ID, "user-1")
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = m.Cancel(w.ID, "user-1")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.Len(t, exec.Calls(), 1)
}

func TestConfirmDisarmsTimeout(t *testing.T) {
	m, _, clk := newTestManager()
	w := m.Request(domain.PowerOn(), "user-1")
	require.Equal(t, 1, clk.Pending())

	_, err := m.Confirm(context.Background(), w.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, clk.Pending())
	clk.Advance(time.Minute)
	assert.Equal(t, Confirmed, w.State())
}

func TestCancelMakesNoRemoteCall(t *testing.T) {
	m, exec, clk := newTestManager()
	w := m.Request(domain.PowerOff(), "user-1")

	text, err := m.Cancel(w.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Action canceled.", text)
	assert.Equal(t, Canceled, w.State())
	assert.Empty(t, exec.Calls())
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 0, clk.Pending())

	_, err = m.Confirm(context.Background(), w.ID, "user-1")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.Empty(t, exec.Calls())
}

func TestTimeoutExpiresSilently(t *testing.T) {
	m, exec, clk := newTestManager()
	w := m.Request(domain.Reboot(), "user-1")

	clk.Advance(29 * time.Second)
	assert.Equal(t, Created, w.State())

	clk.Advance(time.Second)
	assert.Equal(t, Expired, w.State())
	assert.Equal(t, 0, m.Pending())
	select {
	case <-w.Done():
	default:
		t.Fatal("expected Done to be closed after expiry")
	}

	_, err := m.Confirm(context.Background(), w.ID, "user-1")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.Empty(t, exec.Calls())
}

func TestOtherActorCannotAnswer(t *testing.T) {
	m, exec, _ := newTestManager()
	w := m.Request(domain.PowerOff(), "user-1")

	_, err := m.Confirm(context.Background(), w.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotRequester)
	_, err = m.Cancel(w.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotRequester)
	_, err = m.Confirm(context.Background(), w.ID, "")
	assert.ErrorIs(t, err, ErrNotRequester)

	assert.Equal(t, Created, w.State())
	assert.Empty(t, exec.Calls())
}

func TestUnknownWorkflow(t *testing.T) {
	m, _, _ := newTestManager()

	_, err := m.Confirm(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestPressesAreIndependent(t *testing.T) {
	m, exec, _ := newTestManager()
	on := m.Request(domain.PowerOn(), "user-1")
	off := m.Request(domain.PowerOff(), "user-2")
	require.NotEqual(t, on.ID, off.ID)
	assert.Equal(t, 2, m.Pending())

	_, err := m.Cancel(on.ID, "user-1")
	require.NoError(t, err)
	_, err = m.Confirm(context.Background(), off.ID, "user-2")
	require.NoError(t, err)

	assert.Equal(t, []domain.Action{domain.PowerOff()}, exec.Calls())
}

func TestConcurrentAnswersHaveOneWinner(t *testing.T) {
	m, exec, clk := newTestManager()
	w := m.Request(domain.PowerOff(), "user-1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			wins++
		}
	}

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := m.Confirm(context.Background(), w.ID, "user-1")
			record(err)
		}()
		go func() {
			defer wg.Done()
			_, err := m.Cancel(w.ID, "user-1")
			record(err)
		}()
	}
	clk.Advance(DefaultTimeout)
	wg.Wait()

	state := w.State()
	switch state {
	case Confirmed:
		assert.Equal(t, 1, wins)
		assert.Len(t, exec.Calls(), 1)
	case Canceled:
		assert.Equal(t, 1, wins)
		assert.Empty(t, exec.Calls())
	case Expired:
		assert.Equal(t, 0, wins)
		assert.Empty(t, exec.Calls())
	default:
		t.Fatalf("workflow left in state %s", state)
	}
}

func TestRunOnlyExecutesAcceptedWorkflowOnce(t *testing.T) {
	m, exec, _ := newTestManager()
	w := m.Request(domain.PowerOn(), "user-1")

	result := m.Run(context.Background(), w)
	assert.False(t, result.OK)
	assert.Empty(t, exec.Calls())

	accepted, err := m.Accept(w.ID, "user-1")
	require.NoError(t, err)
	assert.Same(t, w, accepted)

	assert.True(t, m.Run(context.Background(), accepted).OK)
	assert.False(t, m.Run(context.Background(), accepted).OK)
	assert.Len(t, exec.Calls(), 1)
}
