package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostPublished(t *testing.T) {
	event := NewPostPublished(7, 42)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, EventTypePostPublished, event.EventType)
	assert.Equal(t, uint(7), event.AuthorID)
	assert.Equal(t, uint(42), event.PostID)
	assert.False(t, event.OccurredAt.IsZero())

	other := NewPostPublished(7, 42)
	assert.NotEqual(t, event.EventID, other.EventID, "every publication gets its own event id")
}

func TestBusPublishAndConsume(t *testing.T) {
	bus := NewBus(2)

	require.True(t, bus.Publish(NewPostPublished(1, 10)))
	require.True(t, bus.Publish(NewPostPublished(2, 20)))

	first := <-bus.Events()
	assert.Equal(t, uint(1), first.AuthorID)
	second := <-bus.Events()
	assert.Equal(t, uint(2), second.AuthorID)
}

func TestBusPublishWaitsForFreeSlot(t *testing.T) {
	bus := NewBus(1)

	require.True(t, bus.Publish(NewPostPublished(1, 10)))

	published := make(chan bool)
	go func() {
		published <- bus.Publish(NewPostPublished(2, 20))
	}()

	select {
	case <-published:
		t.Fatal("publish into a full buffer must wait for the dispatcher")
	case <-time.After(20 * time.Millisecond):
	}

	first := <-bus.Events()
	assert.Equal(t, uint(1), first.AuthorID)

	select {
	case ok := <-published:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("publish did not complete after a slot freed up")
	}

	second := <-bus.Events()
	assert.Equal(t, uint(2), second.AuthorID, "the queued event must not be lost")
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(2)
	require.True(t, bus.Publish(NewPostPublished(1, 10)))

	bus.Close()
	assert.False(t, bus.Publish(NewPostPublished(2, 20)))

	// Queued events remain drainable after close
	event, ok := <-bus.Events()
	require.True(t, ok)
	assert.Equal(t, uint(1), event.AuthorID)
	_, ok = <-bus.Events()
	assert.False(t, ok)
}

func TestBusCloseTwice(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	assert.NotPanics(t, func() { bus.Close() })
}
