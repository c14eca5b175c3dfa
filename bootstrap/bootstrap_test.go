package bootstrap

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSystem stands in for an actor system handle
type fakeSystem struct {
	name string
}

// ptrBuilder is a Builder implemented on a pointer receiver
type ptrBuilder struct{ handle *fakeSystem }

func (b *ptrBuilder) Create(name string) (*fakeSystem, error) {
	return b.handle, nil
}

// recorder collects collaborator calls in order
type recorder struct {
	mu    sync.Mutex
	calls []string
	seen  []*fakeSystem
}

func (r *recorder) record(call string, sys *fakeSystem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	r.seen = append(r.seen, sys)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) builder(handle *fakeSystem, err error) BuilderFunc[*fakeSystem] {
	return func(name string) (*fakeSystem, error) {
		r.record("create:"+name, nil)
		if err != nil {
			return nil, err
		}
		return handle, nil
	}
}

func (r *recorder) installer(err error) InstallerFunc[*fakeSystem] {
	return func(sys *fakeSystem) error {
		r.record("install", sys)
		return err
	}
}

func (r *recorder) strategy(err error) BlockingStrategyFunc[*fakeSystem] {
	return func(sys *fakeSystem) error {
		r.record("await", sys)
		return err
	}
}

func TestRunWithBlockingStrategy(t *testing.T) {
	rec := &recorder{}
	handle := &fakeSystem{name: "FakeSystem"}

	host, err := NewHost[*fakeSystem](rec.builder(handle, nil), rec.installer(nil),
		WithBlockingStrategy[*fakeSystem](rec.strategy(nil)))
	require.NoError(t, err)
	assert.True(t, host.Blocks())

	require.NoError(t, host.Run("FakeSystem"))

	assert.Equal(t, []string{"create:FakeSystem", "install", "await"}, rec.Calls())
	assert.Same(t, handle, rec.seen[1])
	assert.Same(t, handle, rec.seen[2])
	assert.Equal(t, StateReturned, host.State())
}

func TestRunWithoutBlockingStrategy(t *testing.T) {
	rec := &recorder{}
	handle := &fakeSystem{name: "FakeSystem"}

	host, err := NewHost[*fakeSystem](rec.builder(handle, nil), rec.installer(nil))
	require.NoError(t, err)
	assert.False(t, host.Blocks())

	done := make(chan error, 1)
	go func() { done <- host.Run("FakeSystem") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run should return without blocking")
	}

	assert.Equal(t, []string{"create:FakeSystem", "install"}, rec.Calls())
	assert.Same(t, handle, rec.seen[1])
}

func TestRunWithExplicitNoBlock(t *testing.T) {
	rec := &recorder{}

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(nil),
		WithBlocking(NoBlock[*fakeSystem]()))
	require.NoError(t, err)

	require.NoError(t, host.Run("sys"))
	assert.Equal(t, []string{"create:sys", "install"}, rec.Calls())
}

func TestRunCreateFailure(t *testing.T) {
	rec := &recorder{}
	cause := errors.New("port already bound")

	host, err := NewHost[*fakeSystem](rec.builder(nil, cause), rec.installer(nil),
		WithBlockingStrategy[*fakeSystem](rec.strategy(nil)))
	require.NoError(t, err)

	err = host.Run("FakeSystem")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrSystemCreationFailed)
	assert.NotErrorIs(t, err, ErrInstallationFailed)

	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "create", hostErr.Op)
	assert.Equal(t, "FakeSystem", hostErr.System)
	assert.Same(t, cause, hostErr.Err)

	assert.Equal(t, []string{"create:FakeSystem"}, rec.Calls())
}

func TestRunInstallFailure(t *testing.T) {
	rec := &recorder{}
	cause := errors.New("dependency actor missing")

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(cause),
		WithBlockingStrategy[*fakeSystem](rec.strategy(nil)))
	require.NoError(t, err)

	err = host.Run("FakeSystem")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInstallationFailed)
	assert.Equal(t, []string{"create:FakeSystem", "install"}, rec.Calls())
}

func TestRunTerminationWaitFailure(t *testing.T) {
	rec := &recorder{}
	cause := errors.New("wait interrupted")

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(nil),
		WithBlockingStrategy[*fakeSystem](rec.strategy(cause)))
	require.NoError(t, err)

	err = host.Run("FakeSystem")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTerminationWaitFailed)
	assert.Equal(t, []string{"create:FakeSystem", "install", "await"}, rec.Calls())
}

func TestRunPassesNameUnmodified(t *testing.T) {
	rec := &recorder{}

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(nil))
	require.NoError(t, err)

	require.NoError(t, host.Run("  odd name/with*chars "))
	assert.Equal(t, "create:  odd name/with*chars ", rec.Calls()[0])
}

func TestRunIsSingleShot(t *testing.T) {
	rec := &recorder{}

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(nil))
	require.NoError(t, err)

	require.NoError(t, host.Run("first"))
	err = host.Run("second")
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, []string{"create:first", "install"}, rec.Calls())
}

func TestRunSingleShotAfterFailure(t *testing.T) {
	rec := &recorder{}

	host, err := NewHost[*fakeSystem](rec.builder(nil, errors.New("boom")), rec.installer(nil))
	require.NoError(t, err)

	assert.ErrorIs(t, host.Run("sys"), ErrSystemCreationFailed)
	assert.ErrorIs(t, host.Run("sys"), ErrAlreadyStarted)
	assert.Len(t, rec.Calls(), 1)
}

func TestStateWhileBlocked(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	host, err := NewHost[*fakeSystem](
		BuilderFunc[*fakeSystem](func(string) (*fakeSystem, error) { return &fakeSystem{}, nil }),
		InstallerFunc[*fakeSystem](func(*fakeSystem) error { return nil }),
		WithBlockingStrategy[*fakeSystem](BlockingStrategyFunc[*fakeSystem](func(*fakeSystem) error {
			close(entered)
			<-release
			return nil
		})),
	)
	require.NoError(t, err)
	assert.Equal(t, StateNotStarted, host.State())

	done := make(chan error, 1)
	go func() { done <- host.Run("sys") }()

	<-entered
	assert.Equal(t, StateBlocked, host.State())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateReturned, host.State())
}

func TestNewHostValidation(t *testing.T) {
	rec := &recorder{}
	b := rec.builder(&fakeSystem{}, nil)
	i := rec.installer(nil)

	_, err := NewHost[*fakeSystem](nil, i)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = NewHost[*fakeSystem](b, nil)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = NewHost[*fakeSystem](b, i, WithBlockingStrategy[*fakeSystem](nil))
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = NewHost[*fakeSystem](b, i, WithLogger[*fakeSystem](nil))
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	var nilBuilder BuilderFunc[*fakeSystem]
	_, err = NewHost[*fakeSystem](nilBuilder, i)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	var nilInstaller InstallerFunc[*fakeSystem]
	_, err = NewHost[*fakeSystem](b, nilInstaller)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	var nilPtrBuilder *ptrBuilder
	_, err = NewHost[*fakeSystem](nilPtrBuilder, i)
	assert.ErrorIs(t, err, ErrConfigurationInvalid)

	var nilStrategy BlockingStrategyFunc[*fakeSystem]
	_, err = NewHost[*fakeSystem](b, i, WithBlockingStrategy[*fakeSystem](nilStrategy))
	assert.ErrorIs(t, err, ErrConfigurationInvalid)
	assert.False(t, Block[*fakeSystem](nilStrategy).Present())

	host, err := NewHost[*fakeSystem](b, i)
	require.NoError(t, err)
	assert.NotNil(t, host)
	assert.Empty(t, rec.Calls())
}

func TestBlocking(t *testing.T) {
	none := NoBlock[int]()
	assert.False(t, none.Present())
	_, ok := none.Strategy()
	assert.False(t, ok)

	var zero Blocking[int]
	assert.False(t, zero.Present())

	some := Block[int](BlockingStrategyFunc[int](func(int) error { return nil }))
	assert.True(t, some.Present())
	s, ok := some.Strategy()
	assert.True(t, ok)
	assert.NoError(t, s.AwaitTermination(1))

	assert.False(t, Block[int](nil).Present())
}

func TestRunLogsLifecycle(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	rec := &recorder{}

	host, err := NewHost[*fakeSystem](rec.builder(&fakeSystem{}, nil), rec.installer(nil),
		WithLogger[*fakeSystem](logger.WithField("component", "host")))
	require.NoError(t, err)
	require.NoError(t, host.Run("logged"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Actor system started", entry.Message)
	assert.Equal(t, "logged", entry.Data["system"])
	assert.Equal(t, "host", entry.Data["component"])
}

func TestHostErrorMessage(t *testing.T) {
	err := &HostError{Op: "create", System: "sys", Kind: ErrSystemCreationFailed, Err: errors.New("boom")}
	assert.Equal(t, "create failed for system sys: actor system creation failed: boom", err.Error())

	err = &HostError{Op: "configure", Kind: ErrConfigurationInvalid, Err: errors.New("builder is required")}
	assert.Equal(t, "configure failed: host configuration invalid: builder is required", err.Error())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not-started", StateNotStarted.String())
	assert.Equal(t, "blocked", StateBlocked.String())
	assert.Equal(t, "unknown", State(42).String())
}
