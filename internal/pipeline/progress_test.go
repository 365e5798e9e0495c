package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe(4)
	b, cancelB := bus.Subscribe(4)
	defer cancelA()
	defer cancelB()

	bus.Publish(Event{Stage: StageRaster, Page: 1, Total: 3})

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, 1, (<-a).Page)
	assert.Equal(t, 1, (<-b).Page)
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	// Second publish overflows the buffer and is dropped, not blocked on.
	bus.Publish(Event{Page: 1})
	bus.Publish(Event{Page: 2})

	require.Len(t, ch, 1)
	assert.Equal(t, 1, (<-ch).Page)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic on the closed channel.
	assert.NotPanics(t, func() { bus.Publish(Event{Page: 1}) })

	// Cancel is idempotent.
	assert.NotPanics(t, cancel)
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() { bus.Publish(Event{Page: 1}) })
}
