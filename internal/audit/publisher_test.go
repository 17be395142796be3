package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{ err error }

func (f failingSink) Append(context.Context, Event) error { return f.err }

func TestPublisherEmit(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("stamps events lacking a timestamp", func(t *testing.T) {
		store := NewInMemoryStore()
		p := NewPublisher(store, WithClock(func() time.Time { return fixed }))

		require.NoError(t, p.Emit(ctx, Event{Action: ActionAccountRegistered, AccountID: "a1"}))

		events, err := store.ListByAccount(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, fixed, events[0].Timestamp)
	})

	t.Run("keeps caller supplied timestamp", func(t *testing.T) {
		store := NewInMemoryStore()
		p := NewPublisher(store, WithClock(func() time.Time { return fixed }))
		at := fixed.Add(-time.Hour)

		require.NoError(t, p.Emit(ctx, Event{Action: ActionAccountRegistered, AccountID: "a1", Timestamp: at}))

		events, _ := store.ListAll(ctx)
		require.Len(t, events, 1)
		assert.Equal(t, at, events[0].Timestamp)
	})

	t.Run("surfaces sink errors inline", func(t *testing.T) {
		boom := errors.New("sink down")
		p := NewPublisher(failingSink{err: boom})
		assert.ErrorIs(t, p.Emit(ctx, Event{Action: ActionAccountRegistered}), boom)
	})

	t.Run("queued publisher reports a full queue", func(t *testing.T) {
		queue := make(chan Event, 1)
		p := NewPublisher(NewInMemoryStore(), WithQueue(queue))

		require.NoError(t, p.Emit(ctx, Event{Action: ActionAccountRegistered}))
		assert.ErrorIs(t, p.Emit(ctx, Event{Action: ActionAccountRegistered}), ErrQueueFull)
	})
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Append(ctx, Event{Action: ActionAccountRegistered, AccountID: "a1"}))
	require.NoError(t, store.Append(ctx, Event{Action: ActionAccountRegistered, AccountID: "a2"}))
	require.NoError(t, store.Append(ctx, Event{Action: ActionActivationMailSent, AccountID: "a1"}))

	a1, err := store.ListByAccount(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, a1, 2)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a2", all[1].AccountID)

	store.Clear()
	all, _ = store.ListAll(ctx)
	assert.Empty(t, all)
}
