// Package lookup owns the lifecycle of a definition request:
// idle -> pending -> success | error, and back to idle on Reset.
package lookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"lexibot/internal/apiclient"
	"lexibot/internal/domain"

	"go.uber.org/zap"
)

// ErrBusy is returned by Submit while a request is pending
var ErrBusy = errors.New("a definition request is already in progress")

// Definer resolves a definition request against some backend
type Definer interface {
	Define(ctx context.Context, req domain.DefinitionRequest) (*domain.DefinitionResponse, error)
}

// Snapshot is the machine state at one point in time.
// Data and Err are never both set.
type Snapshot struct {
	Status domain.RequestStatus
	Data   *domain.DefinitionResponse
	Err    error
}

func (s Snapshot) IsIdle() bool    { return s.Status == domain.StatusIdle }
func (s Snapshot) IsPending() bool { return s.Status == domain.StatusPending }
func (s Snapshot) IsSuccess() bool { return s.Status == domain.StatusSuccess }
func (s Snapshot) IsError() bool   { return s.Status == domain.StatusError }

// ErrorMessage returns the user-facing message of Err, or "" when there is none
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return apiclient.Message(s.Err)
}

// Options configures a Machine
type Options struct {
	// MockDelay is how long mock lookups wait before resolving
	MockDelay time.Duration
	Logger    *zap.Logger
}

// DefaultMockDelay mirrors the latency of a real lookup in demos
const DefaultMockDelay = 500 * time.Millisecond

// Machine runs at most one definition request at a time.
// A Submit while pending is ignored and returns ErrBusy.
type Machine struct {
	definer   Definer
	mockDelay time.Duration
	logger    *zap.Logger

	mu         sync.Mutex
	state      Snapshot
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}

	// pubMu is taken before mu is released so subscribers see
	// transitions in the order they were applied
	pubMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSub     int
}

// New creates an idle machine backed by definer
func New(definer Definer, opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	done := make(chan struct{})
	close(done)

	return &Machine{
		definer:     definer,
		mockDelay:   opts.MockDelay,
		logger:      logger,
		state:       Snapshot{Status: domain.StatusIdle},
		done:        done,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called after every transition.
// fn must not call Submit or Reset. The returned func unsubscribes.
func (m *Machine) Subscribe(fn func(Snapshot)) func() {
	m.pubMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.pubMu.Unlock()

	return func() {
		m.pubMu.Lock()
		delete(m.subscribers, id)
		m.pubMu.Unlock()
	}
}

// Submit validates text and starts a lookup. Validation failures move the
// machine to error without touching the network and are returned as-is.
// ctx bounds the in-flight request and must outlive the call.
func (m *Machine) Submit(ctx context.Context, text string, useMock bool) error {
	m.mu.Lock()
	if m.state.Status == domain.StatusPending {
		m.mu.Unlock()
		return ErrBusy
	}

	m.generation++

	trimmed, err := apiclient.ValidateText(text, "a term to define")
	if err != nil {
		m.transitionLocked(Snapshot{Status: domain.StatusError, Err: err})
		return err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	gen := m.generation
	req := domain.DefinitionRequest{Text: trimmed, UseMock: useMock}

	m.transitionLocked(Snapshot{Status: domain.StatusPending})

	go m.run(reqCtx, gen, req)
	return nil
}

// Reset returns to idle from any state. A pending request is cancelled and
// its result discarded.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.generation++
	var done chan struct{}
	if m.state.Status == domain.StatusPending {
		m.cancel()
		done = m.done
	}
	m.transitionLocked(Snapshot{Status: domain.StatusIdle})
	if done != nil {
		close(done)
	}
}

// Wait blocks until the machine is not pending, then returns its state
func (m *Machine) Wait(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	select {
	case <-done:
		return m.Snapshot(), nil
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	}
}

func (m *Machine) run(ctx context.Context, gen uint64, req domain.DefinitionRequest) {
	var (
		resp *domain.DefinitionResponse
		err  error
	)
	if req.UseMock {
		resp, err = m.mock(ctx, req.Text)
	} else {
		resp, err = m.definer.Define(ctx, req)
	}

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.logger.Debug("Discarding stale definition result", zap.String("text", req.Text))
		return
	}

	m.cancel()
	// Waiters are released only after subscribers have seen the result
	done := m.done
	defer close(done)

	if err != nil {
		m.logger.Info("Definition request failed",
			zap.String("text", req.Text),
			zap.String("kind", string(apiclient.KindOf(err))),
			zap.Error(err),
		)
		m.transitionLocked(Snapshot{Status: domain.StatusError, Err: err})
		return
	}
	m.transitionLocked(Snapshot{Status: domain.StatusSuccess, Data: resp})
}

func (m *Machine) mock(ctx context.Context, text string) (*domain.DefinitionResponse, error) {
	if m.mockDelay > 0 {
		timer := time.NewTimer(m.mockDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return MockDefinition(text), nil
}

// transitionLocked sets the state and publishes it. Called with mu held;
// releases mu.
func (m *Machine) transitionLocked(s Snapshot) {
	m.state = s
	m.pubMu.Lock()
	m.mu.Unlock()
	defer m.pubMu.Unlock()

	for _, fn := range m.subscribers {
		fn(s)
	}
}
