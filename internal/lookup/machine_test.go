package lookup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lexibot/internal/apiclient"
	"lexibot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeDefiner records calls and, when release is set, blocks until it is closed
type fakeDefiner struct {
	mu       sync.Mutex
	calls    []domain.DefinitionRequest
	resp     *domain.DefinitionResponse
	err      error
	release  chan struct{}
	returned chan struct{}
}

func newFakeDefiner(resp *domain.DefinitionResponse, err error) *fakeDefiner {
	return &fakeDefiner{resp: resp, err: err, returned: make(chan struct{}, 8)}
}

func (f *fakeDefiner) Define(ctx context.Context, req domain.DefinitionRequest) (*domain.DefinitionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	release := f.release
	f.mu.Unlock()

	defer func() { f.returned <- struct{}{} }()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func (f *fakeDefiner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recorder collects the statuses published to a subscriber
type recorder struct {
	mu       sync.Mutex
	statuses []domain.RequestStatus
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s.Status)
	r.mu.Unlock()
}

func (r *recorder) list() []domain.RequestStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RequestStatus(nil), r.statuses...)
}

func waitDone(t *testing.T, m *Machine) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := m.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func testDefinition() *domain.DefinitionResponse {
	return &domain.DefinitionResponse{
		Word:         "ubiquitous",
		PartOfSpeech: "adjective",
		Definition:   "Found everywhere.",
		Examples:     []domain.Example{{Sentence: "Phones are ubiquitous.", Context: "tech"}},
		Synonyms:     []domain.Synonym{{Word: "omnipresent", Similarity: "high"}},
		Confidence:   0.9,
	}
}

func TestMachine_StartsIdle(t *testing.T) {
	m := New(newFakeDefiner(nil, nil), Options{})

	snap := m.Snapshot()

	assert.True(t, snap.IsIdle())
	assert.Nil(t, snap.Data)
	assert.NoError(t, snap.Err)
}

func TestMachine_Submit_Validation(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		expectedMessage string
	}{
		{name: "empty", text: "", expectedMessage: "Please enter a term to define."},
		{name: "whitespace", text: "   ", expectedMessage: "Please enter a term to define."},
		{name: "too long", text: strings.Repeat("x", 501), expectedMessage: "Input exceeds 500 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			definer := newFakeDefiner(testDefinition(), nil)
			m := New(definer, Options{})
			rec := &recorder{}
			m.Subscribe(rec.record)

			err := m.Submit(context.Background(), tt.text, false)

			assert.ErrorIs(t, err, apiclient.ErrValidation)
			snap := m.Snapshot()
			assert.True(t, snap.IsError())
			assert.Nil(t, snap.Data)
			assert.Equal(t, tt.expectedMessage, snap.ErrorMessage())
			assert.Equal(t, []domain.RequestStatus{domain.StatusError}, rec.list())
			assert.Equal(t, 0, definer.callCount())
		})
	}
}

func TestMachine_Submit_Success(t *testing.T) {
	expected := testDefinition()
	definer := newFakeDefiner(expected, nil)
	m := New(definer, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	err := m.Submit(context.Background(), "  ubiquitous ", false)
	require.NoError(t, err)

	snap := waitDone(t, m)

	assert.True(t, snap.IsSuccess())
	assert.Same(t, expected, snap.Data)
	assert.NoError(t, snap.Err)
	assert.Equal(t, []domain.RequestStatus{domain.StatusPending, domain.StatusSuccess}, rec.list())
	require.Equal(t, 1, definer.callCount())
	assert.Equal(t, domain.DefinitionRequest{Text: "ubiquitous"}, definer.calls[0])
}

func TestMachine_Submit_Failure(t *testing.T) {
	apiErr := &apiclient.Error{Kind: apiclient.KindAPI, Status: 500, Message: "Groq API error"}
	m := New(newFakeDefiner(nil, apiErr), Options{})

	require.NoError(t, m.Submit(context.Background(), "word", false))
	snap := waitDone(t, m)

	assert.True(t, snap.IsError())
	assert.Nil(t, snap.Data)
	assert.Equal(t, "Groq API error", snap.ErrorMessage())
}

func TestMachine_Submit_IgnoredWhilePending(t *testing.T) {
	definer := newFakeDefiner(testDefinition(), nil)
	definer.release = make(chan struct{})
	m := New(definer, Options{})

	require.NoError(t, m.Submit(context.Background(), "first", false))

	err := m.Submit(context.Background(), "second", false)
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, m.Snapshot().IsPending())

	close(definer.release)
	snap := waitDone(t, m)

	assert.True(t, snap.IsSuccess())
	require.Equal(t, 1, definer.callCount())
	assert.Equal(t, "first", definer.calls[0].Text)
}

func TestMachine_Submit_AfterTerminalState(t *testing.T) {
	definer := newFakeDefiner(testDefinition(), nil)
	m := New(definer, Options{})

	require.NoError(t, m.Submit(context.Background(), "one", false))
	waitDone(t, m)
	require.NoError(t, m.Submit(context.Background(), "two", false))
	snap := waitDone(t, m)

	assert.True(t, snap.IsSuccess())
	assert.Equal(t, 2, definer.callCount())
}

func TestMachine_Reset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *Machine)
	}{
		{
			name:  "from idle",
			setup: func(t *testing.T, m *Machine) {},
		},
		{
			name: "from success",
			setup: func(t *testing.T, m *Machine) {
				require.NoError(t, m.Submit(context.Background(), "word", false))
				require.True(t, waitDone(t, m).IsSuccess())
			},
		},
		{
			name: "from error",
			setup: func(t *testing.T, m *Machine) {
				_ = m.Submit(context.Background(), "", false)
				require.True(t, m.Snapshot().IsError())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(newFakeDefiner(testDefinition(), nil), Options{})
			tt.setup(t, m)

			m.Reset()

			snap := m.Snapshot()
			assert.True(t, snap.IsIdle())
			assert.Nil(t, snap.Data)
			assert.NoError(t, snap.Err)
		})
	}
}

func TestMachine_Reset_WhilePendingDiscardsResult(t *testing.T) {
	definer := newFakeDefiner(testDefinition(), nil)
	definer.release = make(chan struct{})
	m := New(definer, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	require.NoError(t, m.Submit(context.Background(), "word", false))
	m.Reset()

	<-definer.returned
	snap := waitDone(t, m)

	assert.True(t, snap.IsIdle())
	assert.Nil(t, snap.Data)
	assert.NoError(t, snap.Err)
	assert.Equal(t, []domain.RequestStatus{domain.StatusPending, domain.StatusIdle}, rec.list())

	// the machine accepts new work right away
	definer.mu.Lock()
	definer.release = nil
	definer.mu.Unlock()
	require.NoError(t, m.Submit(context.Background(), "again", false))
	assert.True(t, waitDone(t, m).IsSuccess())
}

func TestMachine_Unsubscribe(t *testing.T) {
	m := New(newFakeDefiner(testDefinition(), nil), Options{})
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.record)

	unsubscribe()
	m.Reset()

	assert.Empty(t, rec.list())
}

func TestMachine_MockMode(t *testing.T) {
	definer := newFakeDefiner(nil, errors.New("must not be called"))
	m := New(definer, Options{MockDelay: 10 * time.Millisecond})
	rec := &recorder{}
	m.Subscribe(rec.record)

	require.NoError(t, m.Submit(context.Background(), "ubiquitous", true))
	assert.True(t, m.Snapshot().IsPending())

	snap := waitDone(t, m)

	require.True(t, snap.IsSuccess())
	assert.Equal(t, "ubiquitous", snap.Data.Word)
	assert.GreaterOrEqual(t, snap.Data.Confidence, 0.0)
	assert.LessOrEqual(t, snap.Data.Confidence, 1.0)
	assert.Len(t, snap.Data.Synonyms, 5)
	assert.Len(t, snap.Data.Examples, 3)
	assert.Equal(t, 0, definer.callCount())
	assert.Equal(t, []domain.RequestStatus{domain.StatusPending, domain.StatusSuccess}, rec.list())
}

func TestMachine_MockMode_CancelledByReset(t *testing.T) {
	m := New(newFakeDefiner(nil, nil), Options{MockDelay: time.Hour})

	require.NoError(t, m.Submit(context.Background(), "word", true))
	m.Reset()

	assert.True(t, waitDone(t, m).IsIdle())
}

func TestMachine_Wait_ContextCancelled(t *testing.T) {
	definer := newFakeDefiner(testDefinition(), nil)
	definer.release = make(chan struct{})
	m := New(definer, Options{})

	require.NoError(t, m.Submit(context.Background(), "word", false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := m.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, snap.IsPending())

	close(definer.release)
	waitDone(t, m)
}

func TestMockDefinition(t *testing.T) {
	def := MockDefinition("ubiquitous")

	assert.Equal(t, "ubiquitous", def.Word)
	assert.Equal(t, "noun", def.PartOfSpeech)
	assert.Len(t, def.Examples, 3)
	assert.Len(t, def.Synonyms, 5)
	assert.Equal(t, 0.95, def.Confidence)
	for _, ex := range def.Examples {
		assert.Contains(t, ex.Sentence, `"ubiquitous"`)
	}
	assert.Equal(t, def, MockDefinition("ubiquitous"))
}
