package jobmgr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(zerolog.Nop())
	release := make(chan struct{})

	require.NoError(t, m.StartAsync(context.Background(), "sync:g1", func(context.Context) error {
		<-release
		return nil
	}))
	err := m.StartAsync(context.Background(), "sync:g1", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrJobRunning)
	assert.Equal(t, []string{"sync:g1"}, m.List())
	assert.Equal(t, "Running jobs: sync:g1", m.Status())

	close(release)
	m.Wait()
	assert.Empty(t, m.List())
	assert.Equal(t, "No jobs are running.", m.Status())
}

func TestStopCancelsJob(t *testing.T) {
	m := NewManager(zerolog.Nop())
	cancelled := make(chan error, 1)

	require.NoError(t, m.StartAsync(context.Background(), "sync:g1", func(ctx context.Context) error {
		<-ctx.Done()
		cancelled <- ctx.Err()
		return ctx.Err()
	}))
	require.NoError(t, m.Stop("sync:g1"))

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
	m.Wait()

	assert.ErrorIs(t, m.Stop("sync:g1"), ErrJobNotRunning)
}

func TestStopAllAndParentContext(t *testing.T) {
	m := NewManager(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, name := range []string{"b", "a"} {
		require.NoError(t, m.StartAsync(ctx, name, func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("stopped")
		}))
	}
	assert.Equal(t, []string{"a", "b"}, m.List())

	m.StopAll()
	m.Wait()
	assert.Empty(t, m.List())
}

func TestNameIsFreeAfterCompletion(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.StartAsync(context.Background(), "x", func(context.Context) error { return nil }))
	m.Wait()
	require.NoError(t, m.StartAsync(context.Background(), "x", func(context.Context) error { return nil }))
	m.Wait()
}
