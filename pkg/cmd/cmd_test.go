package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name  string
	calls *[]string
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Run(_ context.Context, _ *Invocation) error {
	*s.calls = append(*s.calls, s.name)
	return nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	var calls []string
	r := NewRegistry()

	require.NoError(t, r.Register(&stubCommand{name: "disband", calls: &calls}))
	err := r.Register(&stubCommand{name: "disband", calls: &calls})

	assert.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryGetAllSorted(t *testing.T) {
	var calls []string
	r := NewRegistry()
	for _, name := range []string{"heal", "declare-war", "disband"} {
		require.NoError(t, r.Register(&stubCommand{name: name, calls: &calls}))
	}

	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"declare-war", "disband", "heal"}, names)

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestApplyOrderAndRoot(t *testing.T) {
	var calls []string
	inner := &stubCommand{name: "heal", calls: &calls}

	tag := func(label string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				calls = append(calls, label)
				return c.Run(ctx, inv)
			})
		}
	}

	wrapped := Apply(inner, tag("first"), tag("second"))
	require.NoError(t, wrapped.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"second", "first", "heal"}, calls)
	assert.Same(t, inner, Root(wrapped))
	assert.Equal(t, "heal", wrapped.Name())
	assert.Equal(t, "stub heal", wrapped.Description())
}

func TestWrappedWithoutRunFuncDelegates(t *testing.T) {
	var calls []string
	w := &Wrapped{Inner: &stubCommand{name: "disband", calls: &calls}}

	require.NoError(t, w.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"disband"}, calls)
}

func TestWrapPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	c := Wrap(&stubCommand{name: "x", calls: &calls}, func(context.Context, *Invocation) error {
		return boom
	})
	assert.ErrorIs(t, c.Run(context.Background(), &Invocation{}), boom)
	assert.Empty(t, calls)
}
